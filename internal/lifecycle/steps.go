package lifecycle

import (
	"context"

	"github.com/firefly-engineering/grove/internal/logging"
)

// StepKind decides what a step failure does to the operation.
type StepKind int

const (
	// Required steps abort the operation on failure.
	Required StepKind = iota
	// BestEffort steps record a warning on failure.
	BestEffort
)

func (k StepKind) String() string {
	if k == BestEffort {
		return "best-effort"
	}
	return "required"
}

// Step is one unit of an operation.
type Step struct {
	Name string
	Kind StepKind
	Run  func(ctx context.Context) error
}

// Warning is a BestEffort step failure.
type Warning struct {
	Step string
	Err  error
}

func (w Warning) String() string {
	return w.Step + ": " + w.Err.Error()
}

// Report describes what an operation did.
type Report struct {
	Completed []string
	Warnings  []Warning
}

// HasWarnings reports whether any best-effort step failed.
func (r *Report) HasWarnings() bool {
	return len(r.Warnings) > 0
}

func (r *Report) merge(other *Report) {
	if other == nil {
		return
	}
	r.Completed = append(r.Completed, other.Completed...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// ProgressFunc is called before each step runs.
type ProgressFunc func(step string, index, total int)

// runSteps runs steps in order. Joined errors from a BestEffort step are
// split into one warning each.
func runSteps(ctx context.Context, steps []Step, progress ProgressFunc) (*Report, error) {
	report := &Report{}
	for i, step := range steps {
		if progress != nil {
			progress(step.Name, i+1, len(steps))
		}
		logging.Debug("running step", "step", step.Name, "kind", step.Kind)

		err := step.Run(ctx)
		if err == nil {
			report.Completed = append(report.Completed, step.Name)
			continue
		}
		if step.Kind == Required {
			return report, err
		}

		for _, e := range split(err) {
			logging.Warn("best-effort step failed", "step", step.Name, "error", e)
			report.Warnings = append(report.Warnings, Warning{Step: step.Name, Err: e})
		}
	}
	return report, nil
}

func split(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
