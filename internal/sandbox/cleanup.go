package sandbox

import (
	"context"
	"fmt"

	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/logging"
	"github.com/firefly-engineering/grove/internal/resolve"
	"github.com/firefly-engineering/grove/internal/runtime"
	"github.com/firefly-engineering/grove/internal/system"
)

// TeardownOptions configures sandbox teardown behavior.
type TeardownOptions struct {
	// StopTimeout is used when a forced removal falls back to stop + rm.
	StopTimeout int

	// HighConfidenceOnly restricts removal to label matches.
	HighConfidenceOnly bool

	// PruneImages removes dangling images afterwards.
	PruneImages bool

	// PruneVolumes removes dangling volumes afterwards.
	PruneVolumes bool
}

// TeardownReport lists what was removed and what failed.
type TeardownReport struct {
	RemovedContainers []string
	RemovedImages     []string
	Warnings          []error
}

func (r *TeardownReport) warn(err error) {
	logging.Warn("sandbox teardown", "error", err)
	r.Warnings = append(r.Warnings, err)
}

// Teardown removes the containers, then the images, of a resolution.
// Containers go first so their images are no longer in use. Failures are
// collected and never stop the remaining removals.
func Teardown(ctx context.Context, engine runtime.Engine, res *resolve.Resolution, opts TeardownOptions) *TeardownReport {
	report := &TeardownReport{}
	if res == nil {
		return report
	}
	if opts.HighConfidenceOnly {
		res = res.HighConfidence()
	}

	logging.Debug("tearing down sandbox resources",
		"path", res.Identity.Path,
		"containers", len(res.Containers),
		"images", len(res.Images))

	for _, c := range res.Containers {
		logging.Debug("removing container", "name", c.Name, "confidence", c.Confidence, "scheme", c.Scheme)
		if err := runtime.ForceRemoveContainer(ctx, engine, c.Name, opts.StopTimeout); err != nil {
			report.warn(fmt.Errorf("failed to remove container %s: %w", c.Name, err))
			continue
		}
		report.RemovedContainers = append(report.RemovedContainers, c.Name)
	}

	for _, img := range res.Images {
		logging.Debug("removing image", "name", img.Name, "confidence", img.Confidence, "scheme", img.Scheme)
		if err := runtime.RemoveImageWithFallback(ctx, engine, img.Name); err != nil {
			report.warn(fmt.Errorf("failed to remove image %s: %w", img.Name, err))
			continue
		}
		report.RemovedImages = append(report.RemovedImages, img.Name)
	}

	if opts.PruneImages {
		prune(ctx, report, engine.Name(), "image", engine.PruneDanglingImages)
	}
	if opts.PruneVolumes {
		prune(ctx, report, engine.Name(), "volume", engine.PruneDanglingVolumes)
	}

	return report
}

func prune(ctx context.Context, report *TeardownReport, tool, kind string, fn func(context.Context) (*system.Result, error)) {
	res, err := fn(ctx)
	if err == nil && !res.Success {
		err = errors.ToolFailure(tool, kind+" prune", res.Stderr)
	}
	if err != nil {
		report.warn(fmt.Errorf("failed to prune dangling %ss: %w", kind, err))
	}
}
