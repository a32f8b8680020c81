package runtime

import (
	"fmt"
	"os/exec"

	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/logging"
	"github.com/firefly-engineering/grove/internal/system"
)

// EngineType identifies which container engine to use
type EngineType string

const (
	EngineDocker EngineType = "docker"
	EnginePodman EngineType = "podman"
	EngineAuto   EngineType = "auto"
)

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Detect determines which container engine to use. For EngineAuto docker is
// tried before podman, since devcontainer tooling labels its resources there.
func Detect(preferred EngineType) (EngineType, error) {
	candidates := []EngineType{EngineDocker, EnginePodman}
	switch preferred {
	case EngineDocker, EnginePodman:
		candidates = []EngineType{preferred}
	case EngineAuto, "":
	default:
		return "", fmt.Errorf("unknown container engine %q", preferred)
	}

	for _, c := range candidates {
		if _, err := lookPath(string(c)); err == nil {
			logging.Debug("detected container engine", "engine", c)
			return c, nil
		}
	}

	tool := string(candidates[0])
	return "", errors.ToolUnavailable(tool, fmt.Errorf("no container engine found in PATH"))
}

// New returns an engine for the detected or requested type.
func New(preferred EngineType, runner system.Runner) (*DockerEngine, error) {
	t, err := Detect(preferred)
	if err != nil {
		return nil, err
	}
	return NewDockerEngine(string(t), runner), nil
}
