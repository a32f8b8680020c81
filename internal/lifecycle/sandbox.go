package lifecycle

import (
	"context"

	"github.com/firefly-engineering/grove/internal/sandbox"
)

// StartSandbox builds and starts the named sandbox in dir, or reuses it if
// it is already running. An empty name uses the configured one.
func (o *Orchestrator) StartSandbox(ctx context.Context, dir, name, mode string) (*sandbox.StartResult, error) {
	if name == "" {
		name = o.cfg.Sandbox.Name
	}
	var result *sandbox.StartResult
	_, err := runSteps(ctx, []Step{{
		Name: "start sandbox " + name,
		Kind: Required,
		Run: func(ctx context.Context) error {
			var err error
			result, err = o.sandboxes.Start(ctx, sandbox.StartRequest{Dir: dir, Name: name, Mode: mode})
			return err
		},
	}}, o.progress)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// StopSandbox stops the named sandbox. A sandbox that is not there yields
// sandbox.OutcomeAlreadyAbsent, not an error.
func (o *Orchestrator) StopSandbox(ctx context.Context, dir, name string, clean bool) (*sandbox.StopResult, error) {
	if name == "" {
		name = o.cfg.Sandbox.Name
	}
	var result *sandbox.StopResult
	_, err := runSteps(ctx, []Step{{
		Name: "stop sandbox " + name,
		Kind: Required,
		Run: func(ctx context.Context) error {
			var err error
			result, err = o.sandboxes.Stop(ctx, dir, name, clean)
			return err
		},
	}}, o.progress)
	if err != nil {
		return nil, err
	}
	return result, nil
}
