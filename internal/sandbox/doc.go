// Package sandbox manages the container environment paired with a worktree.
//
// A sandbox is keyed by a logical name. Its container is named
// "{compose_prefix}-{name}-1" and its image "{compose_prefix}-{name}:latest",
// the names compose-based devcontainer tooling would produce, so the
// resolver can later find both without any recorded state.
//
// # Start Flow
//
// Manager.Start:
//  1. Checks that the engine is running
//  2. Checks that the .devcontainer descriptor directory exists
//  3. If the container is already running, skips to step 7
//  4. Builds the image from .devcontainer/Dockerfile
//  5. Runs the container detached with the worktree mounted and the
//     local-folder label set
//  6. Polls until the container reports running
//  7. Launches the agent inside the container
//
// # Teardown
//
// Teardown removes resolved containers and images. Every failure is
// collected as a warning; nothing in teardown aborts.
package sandbox
