package lifecycle

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/logging"
	"github.com/firefly-engineering/grove/internal/resolve"
	"github.com/firefly-engineering/grove/internal/sandbox"
	"github.com/firefly-engineering/grove/internal/worktree"
)

// DeleteRequest describes removing a worktree.
type DeleteRequest struct {
	RepoRoot string
	Worktree worktree.WorkingCopy

	// Force skips the uncommitted-changes confirmation.
	Force bool
}

// Delete removes a worktree and then tears down its sandbox resources.
// Only the worktree removal can fail the operation; teardown problems are
// reported as warnings.
func (o *Orchestrator) Delete(ctx context.Context, req DeleteRequest) (*Report, error) {
	wc := req.Worktree
	if wc.IsCurrent {
		return nil, errors.ValidationError(fmt.Sprintf("cannot delete %s: it is the current worktree", wc.Name()))
	}
	if wc.IsPrimary {
		return nil, errors.ValidationError(fmt.Sprintf("cannot delete %s: it is the main worktree", wc.Name()))
	}
	if !req.Force {
		if err := o.confirmDirty(ctx, "delete", wc); err != nil {
			return nil, err
		}
	}
	return o.remove(ctx, req.RepoRoot, wc)
}

// remove is the delete pipeline shared with Merge.
func (o *Orchestrator) remove(ctx context.Context, repoRoot string, wc worktree.WorkingCopy) (*Report, error) {
	return runSteps(ctx, []Step{
		{
			Name: "remove worktree",
			Kind: Required,
			Run: func(ctx context.Context) error {
				return o.repo.Remove(ctx, repoRoot, wc.Path)
			},
		},
		{
			Name: "sandbox teardown",
			Kind: BestEffort,
			Run: func(ctx context.Context) error {
				return o.teardown(ctx, resolve.NewIdentity(wc.Path, wc.Branch))
			},
		},
	}, o.progress)
}

// teardown removes what the resolver attributes to id. A missing engine is
// not an error: there is nothing to clean up.
func (o *Orchestrator) teardown(ctx context.Context, id resolve.Identity) error {
	if !o.engine.Available(ctx) {
		logging.Debug("container engine not available, skipping sandbox teardown", "engine", o.engine.Name())
		return nil
	}
	if !o.engine.IsEngineRunning(ctx) {
		return fmt.Errorf("%s is not running; sandbox resources for %s were left in place", o.engine.Name(), id.Path)
	}

	res, err := o.resolver.Resolve(ctx, id)
	if err != nil {
		return err
	}
	if res.Empty() {
		logging.Debug("no sandbox resources found", "path", id.Path)
		return nil
	}

	report := sandbox.Teardown(ctx, o.engine, res, o.teardownOptions())
	return stderrors.Join(report.Warnings...)
}

func (o *Orchestrator) teardownOptions() sandbox.TeardownOptions {
	return sandbox.TeardownOptions{
		StopTimeout:        o.cfg.Sandbox.StopTimeout,
		HighConfidenceOnly: o.cfg.Cleanup.HighConfidenceOnly,
		PruneImages:        o.cfg.Cleanup.PruneImages,
		PruneVolumes:       o.cfg.Cleanup.PruneVolumes,
	}
}
