package lifecycle

import (
	"context"
	"fmt"

	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/worktree"
)

// MergeRequest describes merging a worktree's branch into another branch.
type MergeRequest struct {
	RepoRoot string
	Worktree worktree.WorkingCopy

	// Target defaults to the branch checked out at RepoRoot.
	Target string

	// DeleteAfter removes the worktree and its sandbox once merged.
	DeleteAfter bool
}

// Merge checks out the target branch at the repository root and merges the
// worktree's branch into it. With DeleteAfter, the delete pipeline follows;
// its failure is a PostMergeRemovalError, the merge itself stands.
func (o *Orchestrator) Merge(ctx context.Context, req MergeRequest) (*Report, error) {
	wc := req.Worktree
	if wc.IsCurrent {
		return nil, errors.ValidationError(fmt.Sprintf("cannot merge %s: it is the current worktree", wc.Name()))
	}
	if wc.Branch == "" {
		return nil, errors.ValidationError(fmt.Sprintf("cannot merge %s: no branch checked out", wc.Name()))
	}

	target := req.Target
	if target == "" {
		current, err := o.repo.CurrentBranch(ctx, req.RepoRoot)
		if err != nil {
			return nil, err
		}
		if current == "" {
			return nil, errors.ValidationError("no target branch given and HEAD is detached")
		}
		target = current
	}
	if target == wc.Branch {
		return nil, errors.ValidationError(fmt.Sprintf("cannot merge %s into itself", target))
	}

	if err := o.confirmDirty(ctx, "merge", wc); err != nil {
		return nil, err
	}

	report, err := runSteps(ctx, []Step{{
		Name: fmt.Sprintf("merge %s into %s", wc.Branch, target),
		Kind: Required,
		Run: func(ctx context.Context) error {
			return o.repo.Merge(ctx, req.RepoRoot, wc.Branch, target)
		},
	}}, o.progress)
	if err != nil {
		return nil, err
	}

	if !req.DeleteAfter {
		return report, nil
	}

	deleted, err := o.remove(ctx, req.RepoRoot, wc)
	report.merge(deleted)
	if err != nil {
		return report, errors.PostMergeRemovalError(wc.Branch, target, err)
	}
	return report, nil
}
