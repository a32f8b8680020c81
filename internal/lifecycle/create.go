package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/scaffold"
	"github.com/firefly-engineering/grove/internal/worktree"
)

// CreateRequest describes a new worktree.
type CreateRequest struct {
	RepoRoot string
	Branch   string

	// Path defaults to <worktree parent>/<sanitized branch>.
	Path string

	// Base defaults to the configured base branch, then HEAD.
	Base string

	Scaffold         bool
	CopySharedConfig bool
}

// CreateResult describes a created worktree.
type CreateResult struct {
	Path   string
	Branch string
	Report *Report
}

// DefaultPath returns where a worktree for branch is created when no path is
// given.
func (o *Orchestrator) DefaultPath(repoRoot, branch string) string {
	return filepath.Join(o.cfg.WorktreeParent(repoRoot), worktree.SanitizeBranch(branch))
}

// Create adds a worktree, then scaffolds the sandbox descriptor and copies
// the shared agent instructions when requested. Both follow-ups are best
// effort: the worktree exists once git succeeded.
func (o *Orchestrator) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if err := worktree.ValidateBranchName(req.Branch); err != nil {
		return nil, errors.ValidationError(err.Error())
	}

	path := req.Path
	if path == "" {
		path = o.DefaultPath(req.RepoRoot, req.Branch)
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.ValidationError(fmt.Sprintf("invalid path %q: %v", req.Path, err))
	}
	if _, err := os.Lstat(path); err == nil {
		return nil, errors.ValidationError(fmt.Sprintf("path already exists: %s", path))
	}

	base := req.Base
	if base == "" {
		base = o.cfg.Worktree.BaseBranch
	}

	var shared *sharedConfig
	if req.CopySharedConfig {
		shared, err = o.planSharedConfig(req.RepoRoot)
		if err != nil {
			return nil, err
		}
	}

	steps := []Step{{
		Name: "create worktree",
		Kind: Required,
		Run: func(ctx context.Context) error {
			return o.repo.Create(ctx, req.RepoRoot, req.Branch, path, base)
		},
	}}
	if req.Scaffold {
		steps = append(steps, Step{
			Name: "scaffold sandbox",
			Kind: BestEffort,
			Run: func(ctx context.Context) error {
				_, err := scaffold.Write(path, scaffold.Options{
					Name:    o.cfg.Sandbox.Name,
					Workdir: o.cfg.Sandbox.Workdir,
				})
				return err
			},
		})
	}
	if shared != nil {
		steps = append(steps, Step{
			Name: "copy " + o.cfg.SharedConfig.File,
			Kind: BestEffort,
			Run: func(ctx context.Context) error {
				return shared.write(o.fs, path)
			},
		})
	}

	report, err := runSteps(ctx, steps, o.progress)
	if err != nil {
		return nil, err
	}
	return &CreateResult{Path: path, Branch: req.Branch, Report: report}, nil
}
