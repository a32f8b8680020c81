package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGroveError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *GroveError
		wantMsg string
	}{
		{
			name:    "without cause",
			err:     New(ExitGeneralError, "something went wrong"),
			wantMsg: "something went wrong",
		},
		{
			name:    "with cause",
			err:     Wrap(ExitGeneralError, "operation failed", fmt.Errorf("underlying error")),
			wantMsg: "operation failed: underlying error",
		},
		{
			name:    "with stderr",
			err:     ToolFailure("git", "worktree add", "fatal: invalid reference: nope\n"),
			wantMsg: "git worktree add failed: fatal: invalid reference: nope",
		},
		{
			name:    "validation",
			err:     ValidationError("invalid branch name"),
			wantMsg: "invalid branch name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestGroveError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := Wrap(ExitGeneralError, "wrapped", cause)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if unwrapped := New(ExitGeneralError, "no cause").Unwrap(); unwrapped != nil {
		t.Errorf("Unwrap() = %v, want nil", unwrapped)
	}
}

func TestConstructorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *GroveError
		want int
	}{
		{"validation", ValidationError("bad"), ExitValidation},
		{"tool unavailable", ToolUnavailable("git", nil), ExitToolUnavailable},
		{"tool failure", ToolFailure("docker", "build", ""), ExitToolFailure},
		{"worktree creation", WorktreeCreationError("/tmp/x", ""), ExitWorktreeCreation},
		{"worktree removal", WorktreeRemovalError("/tmp/x", ""), ExitWorktreeRemoval},
		{"checkout", CheckoutError("main", ""), ExitCheckout},
		{"merge", MergeError("feature/x", "main", nil, ""), ExitMerge},
		{"post merge removal", PostMergeRemovalError("feature/x", "main", fmt.Errorf("x")), ExitPostMergeRemoval},
		{"container", ContainerFailed("run", nil), ExitContainerFailed},
		{"config", ConfigError("bad config", nil), ExitConfigError},
		{"cancelled", Cancelled("delete"), ExitCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestToolUnavailable_Message(t *testing.T) {
	tests := []struct {
		tool string
		want string
	}{
		{"git", "install git"},
		{"docker", "start its daemon"},
		{"podman", "install podman"},
		{"make", "make is not available"},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			msg := ToolUnavailable(tt.tool, nil).Error()
			if !strings.Contains(msg, tt.want) {
				t.Errorf("ToolUnavailable(%q) = %q, want it to contain %q", tt.tool, msg, tt.want)
			}
		})
	}
}

func TestMergeError_ListsConflicts(t *testing.T) {
	err := MergeError("feature/x", "main", []string{"a.go", "b.go"}, "CONFLICT")
	msg := err.Error()
	if !strings.Contains(msg, "a.go, b.go") {
		t.Errorf("Error() = %q, want conflicted files listed", msg)
	}
	if !strings.HasSuffix(msg, "CONFLICT") {
		t.Errorf("Error() = %q, want stderr appended", msg)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"grove error", CheckoutError("main", ""), ExitCheckout},
		{"wrapped grove error", fmt.Errorf("outer: %w", ValidationError("x")), ExitValidation},
		{"plain error", errors.New("plain"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	removal := WorktreeRemovalError("/tmp/x", "not a working tree")
	postMerge := PostMergeRemovalError("feature/x", "main", removal)

	if !HasCode(postMerge, ExitPostMergeRemoval) {
		t.Error("HasCode should find the outer code")
	}
	if !HasCode(postMerge, ExitWorktreeRemoval) {
		t.Error("HasCode should find the wrapped removal code")
	}
	if HasCode(postMerge, ExitMerge) {
		t.Error("HasCode should not report an absent code")
	}
	if HasCode(errors.New("plain"), ExitGeneralError) {
		t.Error("HasCode should be false for non-grove errors")
	}
	if HasCode(nil, ExitGeneralError) {
		t.Error("HasCode(nil) should be false")
	}
}

func TestIsAs(t *testing.T) {
	base := ValidationError("x")
	wrapped := fmt.Errorf("ctx: %w", base)

	if !Is(wrapped, base) {
		t.Error("Is should match the wrapped error")
	}
	var target *GroveError
	if !As(wrapped, &target) || target != base {
		t.Error("As should extract the GroveError")
	}
}
