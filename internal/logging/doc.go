// Package logging provides logging utilities for grove.
//
// This package provides two categories of output:
//   - Debug logging: Structured logs for debugging (via slog)
//   - User output: Formatted messages for end users
//
// # Debug Logging
//
// Every git and container engine invocation is logged at debug level and
// only shows with -v:
//
//	logging.Debug("running command", "name", "git", "args", args, "dir", dir)
//	logging.Warn("failed to remove container", "container", name, "error", err)
//
// # User Output
//
// User-facing messages are formatted with status indicators:
//
//	logging.UserInfo("Creating worktree %s...", branch)
//	logging.UserSuccess("Merged %s into %s", source, target)
//	logging.UserWarning("could not remove image %s", image)
//	logging.UserError("%v", err)
//
// Output destinations:
//   - UserInfo, UserSuccess: stdout
//   - UserWarning, UserError: stderr
//
// SetOutput redirects both streams, which the command tests use.
package logging
