// Package resolve finds the containers and images that belong to a worktree.
//
// Nothing records which sandbox resources a worktree owns, so they are
// rediscovered on demand. Two strategies are combined:
//
//   - Naming schemes derive candidate name prefixes from the worktree's
//     identity (folder, branch, repository root). A resource matches when its
//     name equals a candidate or continues it at a separator boundary.
//   - Label lookup asks the engine for resources carrying the devcontainer
//     local-folder label set to the worktree's path.
//
// Label matches are high confidence; prefix matches are a heuristic. Callers
// that must not touch unrelated resources can keep only HighConfidence
// matches.
package resolve
