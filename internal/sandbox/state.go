package sandbox

import (
	"context"

	"github.com/firefly-engineering/grove/internal/runtime"
)

// State summarises the containers labelled with a worktree folder.
type State int

const (
	StateUnknown State = iota
	StateNone
	StateStopped
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// StateOf reports whether any container labelled label=dir is running.
// StateUnknown means the engine could not be asked.
func StateOf(ctx context.Context, engine runtime.Engine, label, dir string) State {
	if label == "" || !engine.IsEngineRunning(ctx) {
		return StateUnknown
	}
	names, err := engine.ListContainersByLabel(ctx, label, dir)
	if err != nil {
		return StateUnknown
	}
	if len(names) == 0 {
		return StateNone
	}
	for _, name := range names {
		if engine.IsContainerRunning(ctx, name) {
			return StateRunning
		}
	}
	return StateStopped
}
