// Package lifecycle coordinates worktrees and their sandboxes.
//
// Every operation is a fresh pass over what git and the container engine
// report; nothing is persisted between runs. Operations are built from
// steps tagged Required or BestEffort. A Required failure aborts the
// operation. A BestEffort failure becomes a Warning on the Report and the
// operation carries on.
//
// # Operations
//
//   - Create: validate, git worktree add, then optionally scaffold the
//     sandbox descriptor and copy the shared agent instructions
//   - Merge: refuse the current worktree, confirm if dirty, checkout and
//     merge, then optionally run Delete
//   - Delete: refuse the current worktree, confirm if dirty, remove the
//     worktree, then tear down its sandbox resources
//   - StartSandbox, StopSandbox: delegate to the sandbox manager
//   - FindOrphans, CollectGarbage: label-exact cleanup of sandboxes whose
//     worktree is gone
//
// User interaction goes through the Prompter interface. A cancelled prompt
// aborts the operation with a Cancelled error.
package lifecycle
