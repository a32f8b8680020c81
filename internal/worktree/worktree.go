package worktree

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// WorkingCopy is one checked-out worktree of a repository.
type WorkingCopy struct {
	// DisplayName is the directory name, suffixed with " (Main)" for the
	// primary worktree.
	DisplayName string
	Path        string
	Branch      string

	// IsCurrent is set when both the branch checked out at the repository root
	// and the path match this worktree.
	IsCurrent bool

	// IsPrimary is set when Path is the repository root grove was opened on.
	IsPrimary bool
}

// Name returns the worktree's directory name without annotations.
func (w WorkingCopy) Name() string {
	return filepath.Base(w.Path)
}

// branchNameRegex limits branch names to a conservative character set.
var branchNameRegex = regexp.MustCompile(`^[A-Za-z0-9\-_/]+$`)

// ValidateBranchName checks that name is a branch name grove will create.
// On top of the allowed characters it rejects forms git itself refuses.
func ValidateBranchName(name string) error {
	if name == "" {
		return fmt.Errorf("branch name cannot be empty")
	}
	if !branchNameRegex.MatchString(name) {
		return fmt.Errorf("invalid branch name %q: only letters, digits, '-', '_' and '/' are allowed", name)
	}
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return fmt.Errorf("invalid branch name %q: cannot start with '-' or start or end with '/'", name)
	}
	if strings.Contains(name, "//") {
		return fmt.Errorf("invalid branch name %q: cannot contain '//'", name)
	}
	return nil
}

// SanitizeBranch turns a branch name into a path-safe token by replacing
// slashes with hyphens, e.g. "feature/login" becomes "feature-login".
func SanitizeBranch(branch string) string {
	return strings.ReplaceAll(branch, "/", "-")
}

// resolvePath returns an absolute, symlink-free form of path when possible,
// so that paths reported by git compare equal to user-supplied ones.
func resolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}

// SamePath reports whether two paths refer to the same location.
func SamePath(a, b string) bool {
	return resolvePath(a) == resolvePath(b)
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
