// Package worktree wraps git to manage the worktrees of a repository.
//
// git is the source of truth: List re-reads `git worktree list --porcelain`
// on every call and nothing is cached or persisted. Every git invocation runs
// with an explicit working directory.
//
// Creation picks between the two forms of `git worktree add` based on a
// prior `git rev-parse --verify`:
//
//	git worktree add <path> <branch>              # branch exists
//	git worktree add -b <branch> <path> <base>    # new branch from base or HEAD
//
// Merging distinguishes a failed checkout (errors.ExitCheckout, nothing
// merged) from a failed merge (errors.ExitMerge, tree left mid-merge).
package worktree
