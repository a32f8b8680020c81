package sandbox

import (
	"context"
	"path/filepath"

	"github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/grove/internal/runtime"
)

// DescriptorFiles are the files init writes and status checks for.
var DescriptorFiles = []string{"Dockerfile", "devcontainer.json", "init-firewall.sh"}

// FileStatus reports whether one descriptor file exists.
type FileStatus struct {
	Name    string
	Present bool
}

// Status is a point-in-time view of a sandbox.
type Status struct {
	Engine            string
	EngineRunning     bool
	DescriptorPresent bool
	Files             []FileStatus
	Container         string
	ContainerRunning  bool
	AgentRunning      bool
}

// Status queries the engine and filesystem for the state of the sandbox
// name hosted in dir. It never fails: anything that cannot be queried reads
// as absent.
func (m *Manager) Status(ctx context.Context, dir, name string) *Status {
	st := &Status{
		Engine:    m.engine.Name(),
		Container: ContainerName(m.opts.ComposePrefix, name),
	}

	st.EngineRunning = m.engine.IsEngineRunning(ctx)

	descriptor := filepath.Join(dir, DescriptorDir)
	st.DescriptorPresent = m.fs.IsDir(descriptor)
	if st.DescriptorPresent {
		for _, f := range DescriptorFiles {
			st.Files = append(st.Files, FileStatus{Name: f, Present: m.fs.Exists(filepath.Join(descriptor, f))})
		}
	}

	if st.EngineRunning {
		st.ContainerRunning = m.engine.IsContainerRunning(ctx, st.Container)
	}
	if st.ContainerRunning {
		st.AgentRunning = m.agentRunning(ctx, st.Container)
	}
	return st
}

func (m *Manager) agentRunning(ctx context.Context, container string) bool {
	argv, err := shellquote.Split(m.opts.AgentCommand)
	if err != nil || len(argv) == 0 {
		return false
	}
	res, err := m.engine.Exec(ctx, container, []string{"pgrep", "-f", argv[0]}, runtime.ExecOptions{})
	return err == nil && res.Success
}

// NextStep suggests what to run next, or "" when everything is up.
func (s *Status) NextStep() string {
	switch {
	case !s.EngineRunning:
		return "start " + s.Engine + " first"
	case !s.DescriptorPresent:
		return `run "grove init" to set up the sandbox descriptor`
	case !s.ContainerRunning:
		return `run "grove start" to launch the sandbox`
	case !s.AgentRunning:
		return `the agent is not running; run "grove start" to launch it`
	}
	return ""
}
