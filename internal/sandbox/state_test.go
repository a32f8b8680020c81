package sandbox

import (
	"context"
	"testing"

	"github.com/firefly-engineering/grove/internal/runtime"
)

func TestStateOf(t *testing.T) {
	const label = "devcontainer.local_folder"

	tests := []struct {
		name  string
		setup func(e *runtime.MockEngine)
		label string
		want  State
	}{
		{
			name:  "running",
			setup: func(e *runtime.MockEngine) { e.AddContainer("c1", true, map[string]string{label: "/w/a"}) },
			label: label,
			want:  StateRunning,
		},
		{
			name: "stopped",
			setup: func(e *runtime.MockEngine) {
				e.AddContainer("c1", false, map[string]string{label: "/w/a"})
				e.AddContainer("c2", true, map[string]string{label: "/w/b"})
			},
			label: label,
			want:  StateStopped,
		},
		{
			name:  "none",
			setup: func(e *runtime.MockEngine) {},
			label: label,
			want:  StateNone,
		},
		{
			name:  "engine down",
			setup: func(e *runtime.MockEngine) { e.Down = true },
			label: label,
			want:  StateUnknown,
		},
		{
			name:  "no label configured",
			setup: func(e *runtime.MockEngine) {},
			label: "",
			want:  StateUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := runtime.NewMockEngine()
			tt.setup(engine)
			if got := StateOf(context.Background(), engine, tt.label, "/w/a"); got != tt.want {
				t.Errorf("StateOf() = %v, want %v", got, tt.want)
			}
		})
	}
}
