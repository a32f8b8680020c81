package worktree

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/logging"
	"github.com/firefly-engineering/grove/internal/system"
)

// Repository runs git to enumerate and mutate worktrees. It keeps no state:
// every call re-reads git.
type Repository struct {
	runner system.Runner
}

// NewRepository returns a Repository that invokes git through runner.
func NewRepository(runner system.Runner) *Repository {
	return &Repository{runner: runner}
}

// git runs a git subcommand in dir. A missing git binary becomes a
// ToolUnavailable error; nonzero exits are left to the caller.
func (r *Repository) git(ctx context.Context, dir string, args ...string) (*system.Result, error) {
	res, err := r.runner.Run(ctx, dir, "git", args...)
	if err != nil {
		if system.IsNotFound(err) {
			return nil, errors.ToolUnavailable("git", err)
		}
		return nil, errors.Wrap(errors.ExitToolFailure, "failed to run git "+args[0], err)
	}
	return res, nil
}

// Root returns the top-level directory of the worktree containing dir.
func (r *Repository) Root(ctx context.Context, dir string) (string, error) {
	res, err := r.git(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	if !res.Success {
		return "", errors.ValidationError("not inside a git repository: " + dir)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// CurrentBranch returns the branch checked out in dir, or "" when HEAD is detached.
func (r *Repository) CurrentBranch(ctx context.Context, dir string) (string, error) {
	res, err := r.git(ctx, dir, "branch", "--show-current")
	if err != nil {
		return "", err
	}
	if !res.Success {
		return "", errors.ToolFailure("git", "branch --show-current", res.Stderr)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// List enumerates the worktrees of the repository at repoRoot. Bare entries
// and entries without a branch are skipped.
func (r *Repository) List(ctx context.Context, repoRoot string) ([]WorkingCopy, error) {
	res, err := r.git(ctx, repoRoot, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, errors.ToolFailure("git", "worktree list", res.Stderr)
	}

	current, err := r.CurrentBranch(ctx, repoRoot)
	if err != nil {
		// The listing is still useful without current-branch information.
		logging.Debug("could not determine current branch", "dir", repoRoot, "error", err)
		current = ""
	}

	root := resolvePath(repoRoot)
	var copies []WorkingCopy
	for _, rec := range parsePorcelain(res.Stdout) {
		if rec.Bare || rec.Branch == "" {
			continue
		}

		path := resolvePath(rec.Path)
		wc := WorkingCopy{
			DisplayName: filepath.Base(rec.Path),
			Path:        rec.Path,
			Branch:      rec.Branch,
			IsPrimary:   path == root,
		}
		wc.IsCurrent = wc.IsPrimary && current != "" && rec.Branch == current
		if wc.IsPrimary {
			wc.DisplayName += " (Main)"
		}
		copies = append(copies, wc)
	}

	return copies, nil
}

// Find returns the worktree at path, or false if git does not list one there.
func (r *Repository) Find(ctx context.Context, repoRoot, path string) (WorkingCopy, bool, error) {
	copies, err := r.List(ctx, repoRoot)
	if err != nil {
		return WorkingCopy{}, false, err
	}
	for _, wc := range copies {
		if SamePath(wc.Path, path) {
			return wc, true, nil
		}
	}
	return WorkingCopy{}, false, nil
}

// FindBranch returns the worktree that has branch checked out.
func (r *Repository) FindBranch(ctx context.Context, repoRoot, branch string) (WorkingCopy, bool, error) {
	copies, err := r.List(ctx, repoRoot)
	if err != nil {
		return WorkingCopy{}, false, err
	}
	for _, wc := range copies {
		if wc.Branch == branch {
			return wc, true, nil
		}
	}
	return WorkingCopy{}, false, nil
}

// Branches lists the local branch names.
func (r *Repository) Branches(ctx context.Context, repoRoot string) ([]string, error) {
	res, err := r.git(ctx, repoRoot, "for-each-ref", "--format=%(refname:short)", "refs/heads")
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, errors.ToolFailure("git", "for-each-ref", res.Stderr)
	}
	return res.Lines(), nil
}

// BranchExists reports whether branch resolves to a revision.
func (r *Repository) BranchExists(ctx context.Context, repoRoot, branch string) (bool, error) {
	res, err := r.git(ctx, repoRoot, "rev-parse", "--verify", branch)
	if err != nil {
		return false, err
	}
	return res.Success, nil
}

// Create adds a worktree for branch at target. An existing branch is checked
// out as is; otherwise the branch is created from base, or HEAD when base is
// empty.
//
// If git fails after creating a new branch, the branch is deleted again so no
// orphan branch is left behind.
func (r *Repository) Create(ctx context.Context, repoRoot, branch, target, base string) error {
	if err := ValidateBranchName(branch); err != nil {
		return errors.WorktreeCreationError(target, err.Error())
	}
	if pathExists(target) {
		return errors.WorktreeCreationError(target, "target path already exists")
	}

	exists, err := r.BranchExists(ctx, repoRoot, branch)
	if err != nil {
		return err
	}

	var args []string
	if exists {
		args = []string{"worktree", "add", target, branch}
	} else {
		if base == "" {
			base = "HEAD"
		}
		args = []string{"worktree", "add", "-b", branch, target, base}
	}

	logging.Debug("creating worktree", "branch", branch, "path", target, "existing_branch", exists)

	res, err := r.git(ctx, repoRoot, args...)
	if err != nil {
		return err
	}
	if res.Success {
		return nil
	}

	if !exists {
		r.rollbackBranch(ctx, repoRoot, branch)
	}
	return errors.WorktreeCreationError(target, res.Stderr)
}

// rollbackBranch deletes a branch that a failed `worktree add -b` left behind.
func (r *Repository) rollbackBranch(ctx context.Context, repoRoot, branch string) {
	created, err := r.BranchExists(ctx, repoRoot, branch)
	if err != nil || !created {
		return
	}
	if err := r.DeleteBranch(ctx, repoRoot, branch); err != nil {
		logging.Warn("failed to delete branch left by failed worktree creation", "branch", branch, "error", err)
	}
}

// DeleteBranch force-deletes a local branch.
func (r *Repository) DeleteBranch(ctx context.Context, repoRoot, branch string) error {
	res, err := r.git(ctx, repoRoot, "branch", "-D", branch)
	if err != nil {
		return err
	}
	if !res.Success {
		return errors.ToolFailure("git", "branch -D", res.Stderr)
	}
	return nil
}

// Remove force-removes the worktree at target, discarding uncommitted
// changes. Callers are expected to have confirmed that with the user.
func (r *Repository) Remove(ctx context.Context, repoRoot, target string) error {
	logging.Debug("removing worktree", "path", target)

	res, err := r.git(ctx, repoRoot, "worktree", "remove", target, "--force")
	if err != nil {
		return err
	}
	if !res.Success {
		return errors.WorktreeRemovalError(target, res.Stderr)
	}
	return nil
}

// HasUncommittedChanges reports whether `git status --porcelain` in path
// prints anything.
func (r *Repository) HasUncommittedChanges(ctx context.Context, path string) (bool, error) {
	res, err := r.git(ctx, path, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	if !res.Success {
		return false, errors.ToolFailure("git", "status", res.Stderr)
	}
	return len(res.Lines()) > 0, nil
}

// Merge checks out target in repoRoot and merges source into it.
//
// A failed checkout returns a CheckoutError and the merge is never attempted.
// A failed merge returns a MergeError listing any conflicted files; the
// worktree at repoRoot is then left mid-merge for manual resolution.
func (r *Repository) Merge(ctx context.Context, repoRoot, source, target string) error {
	res, err := r.git(ctx, repoRoot, "checkout", target)
	if err != nil {
		return err
	}
	if !res.Success {
		return errors.CheckoutError(target, res.Stderr)
	}

	logging.Debug("merging", "source", source, "target", target, "dir", repoRoot)

	res, err = r.git(ctx, repoRoot, "merge", "--no-edit", source)
	if err != nil {
		return err
	}
	if !res.Success {
		conflicts := r.conflictedFiles(ctx, repoRoot)
		stderr := res.Stderr
		if strings.TrimSpace(stderr) == "" {
			// git reports conflicts on stdout
			stderr = res.Stdout
		}
		return errors.MergeError(source, target, conflicts, stderr)
	}
	return nil
}

// conflictedFiles lists unmerged paths; failures yield an empty list.
func (r *Repository) conflictedFiles(ctx context.Context, dir string) []string {
	res, err := r.git(ctx, dir, "diff", "--name-only", "--diff-filter=U")
	if err != nil || !res.Success {
		return nil
	}
	return res.Lines()
}
