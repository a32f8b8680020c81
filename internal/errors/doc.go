// Package errors provides typed errors with exit codes for grove.
//
// # Error Types
//
// GroveError is the base error type that wraps an error with an exit code:
//
//	type GroveError struct {
//	    Code    int    // Exit code
//	    Message string // User-facing message
//	    Cause   error  // Wrapped error
//	    Stderr  string // Captured tool stderr, printed verbatim
//	}
//
// # Taxonomy
//
// Errors fall into four groups:
//
//   - Validation (ExitValidation): bad input, reported before any tool runs
//   - Tool unavailable (ExitToolUnavailable): git or the container engine
//     could not be invoked at all
//   - Tool failure (ExitToolFailure and the worktree, checkout and merge
//     codes): the tool ran and exited nonzero
//   - Cleanup warnings: never errors; they are collected on the lifecycle
//     report and printed as warnings
//
// CheckoutError and MergeError are distinct so callers can tell "merge never
// attempted" from "merge attempted and conflicted".
//
// # Extracting Exit Codes
//
//	if err != nil {
//	    os.Exit(errors.GetExitCode(err))
//	}
package errors
