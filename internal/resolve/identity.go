package resolve

import (
	"path/filepath"
	"strings"
)

// Identity holds the tokens naming schemes derive candidates from.
type Identity struct {
	// Path is the worktree's absolute path, used for label lookups.
	Path string

	Folder          string
	RawBranch       string
	SanitizedBranch string

	// RootName approximates the repository's folder name with the basename
	// of the worktree's parent directory.
	RootName string
}

// NewIdentity derives the identity tokens of the worktree at path checked out
// on branch. branch may be empty.
func NewIdentity(path, branch string) Identity {
	clean := filepath.Clean(path)
	return Identity{
		Path:            clean,
		Folder:          filepath.Base(clean),
		RawBranch:       branch,
		SanitizedBranch: strings.ReplaceAll(branch, "/", "-"),
		RootName:        filepath.Base(filepath.Dir(clean)),
	}
}
