package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Exit codes for grove
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitValidation       = 2
	ExitToolUnavailable  = 3
	ExitToolFailure      = 4
	ExitWorktreeCreation = 5
	ExitWorktreeRemoval  = 6
	ExitCheckout         = 7
	ExitMerge            = 8
	ExitPostMergeRemoval = 9
	ExitContainerFailed  = 10
	ExitConfigError      = 11
	ExitCancelled        = 12
)

// GroveError is the base error type for grove
type GroveError struct {
	Code    int
	Message string
	Cause   error

	// Stderr is the captured output of the external tool, if any.
	Stderr string
}

func (e *GroveError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, stderr)
	}
	return msg
}

func (e *GroveError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *GroveError) ExitCode() int {
	return e.Code
}

// New creates a new GroveError
func New(code int, message string) *GroveError {
	return &GroveError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a GroveError
func Wrap(code int, message string, cause error) *GroveError {
	return &GroveError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// ValidationError returns an error for bad user input. No tool has been
// invoked when one of these is returned.
func ValidationError(message string) *GroveError {
	return New(ExitValidation, message)
}

// ToolUnavailable returns an error for a tool that could not be invoked at all.
func ToolUnavailable(tool string, cause error) *GroveError {
	msg := fmt.Sprintf("%s is not available", tool)
	switch tool {
	case "git":
		msg = "git is not available: install git and make sure it is on PATH"
	case "docker", "podman":
		msg = fmt.Sprintf("%s is not available: install %s or start its daemon", tool, tool)
	}
	return Wrap(ExitToolUnavailable, msg, cause)
}

// ToolFailure returns an error for a tool that ran and exited nonzero.
// The tool's stderr is carried verbatim.
func ToolFailure(tool, op, stderr string) *GroveError {
	return &GroveError{
		Code:    ExitToolFailure,
		Message: fmt.Sprintf("%s %s failed", tool, op),
		Stderr:  stderr,
	}
}

// WorktreeCreationError returns an error for a failed worktree creation
func WorktreeCreationError(path, stderr string) *GroveError {
	return &GroveError{
		Code:    ExitWorktreeCreation,
		Message: fmt.Sprintf("failed to create worktree at %s", path),
		Stderr:  stderr,
	}
}

// WorktreeRemovalError returns an error for a failed worktree removal
func WorktreeRemovalError(path, stderr string) *GroveError {
	return &GroveError{
		Code:    ExitWorktreeRemoval,
		Message: fmt.Sprintf("failed to remove worktree %s", path),
		Stderr:  stderr,
	}
}

// CheckoutError is returned when the merge target could not be checked out.
// The merge itself was never attempted.
func CheckoutError(branch, stderr string) *GroveError {
	return &GroveError{
		Code:    ExitCheckout,
		Message: fmt.Sprintf("failed to check out %s", branch),
		Stderr:  stderr,
	}
}

// MergeError is returned when the merge ran and failed. The working tree may
// be left in a conflicted state.
func MergeError(source, target string, conflicts []string, stderr string) *GroveError {
	msg := fmt.Sprintf("failed to merge %s into %s", source, target)
	if len(conflicts) > 0 {
		msg = fmt.Sprintf("%s (conflicts in %s; resolve manually)", msg, strings.Join(conflicts, ", "))
	}
	return &GroveError{
		Code:    ExitMerge,
		Message: msg,
		Stderr:  stderr,
	}
}

// PostMergeRemovalError reports that a merge succeeded but removing the merged
// worktree afterwards failed.
func PostMergeRemovalError(source, target string, cause error) *GroveError {
	return Wrap(ExitPostMergeRemoval,
		fmt.Sprintf("merged %s into %s, but failed to remove the worktree", source, target), cause)
}

// ContainerFailed returns an error for container operations
func ContainerFailed(op string, cause error) *GroveError {
	return Wrap(ExitContainerFailed, fmt.Sprintf("container %s failed", op), cause)
}

// ConfigError returns an error for configuration issues
func ConfigError(message string, cause error) *GroveError {
	return Wrap(ExitConfigError, message, cause)
}

// Cancelled returns an error for an operation the user aborted at a prompt
func Cancelled(op string) *GroveError {
	return New(ExitCancelled, fmt.Sprintf("%s cancelled", op))
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var groveErr *GroveError
	if errors.As(err, &groveErr) {
		return groveErr.ExitCode()
	}
	return ExitGeneralError
}

// HasCode reports whether err carries the given exit code anywhere in its chain
func HasCode(err error, code int) bool {
	for err != nil {
		var groveErr *GroveError
		if !errors.As(err, &groveErr) {
			return false
		}
		if groveErr.Code == code {
			return true
		}
		err = groveErr.Cause
	}
	return false
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
