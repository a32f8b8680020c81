package sandbox

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/firefly-engineering/grove/internal/config"
	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/logging"
	"github.com/firefly-engineering/grove/internal/runtime"
	"github.com/firefly-engineering/grove/internal/system"
)

// Outcome describes what a start or stop actually did.
type Outcome int

const (
	OutcomeStarted Outcome = iota + 1
	OutcomeAlreadyRunning
	OutcomeStopped
	OutcomeAlreadyStopped
	OutcomeAlreadyAbsent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStarted:
		return "started"
	case OutcomeAlreadyRunning:
		return "already running"
	case OutcomeStopped:
		return "stopped"
	case OutcomeAlreadyStopped:
		return "already stopped"
	case OutcomeAlreadyAbsent:
		return "already absent"
	}
	return "unknown"
}

// Manager starts and stops sandboxes through a container engine.
type Manager struct {
	engine runtime.Engine
	fs     system.FileSystem
	opts   Options
}

// NewManager creates a sandbox manager.
func NewManager(engine runtime.Engine, opts Options) *Manager {
	return &Manager{engine: engine, fs: system.DefaultFS(), opts: opts}
}

// WithFileSystem replaces the filesystem used for descriptor checks.
func (m *Manager) WithFileSystem(fs system.FileSystem) *Manager {
	m.fs = fs
	return m
}

// StartRequest identifies the sandbox to start.
type StartRequest struct {
	// Dir is the worktree hosting the .devcontainer directory.
	Dir  string
	Name string

	// Mode overrides the configured mode when set.
	Mode string
}

// StartResult reports a successful start.
type StartResult struct {
	Container string
	Outcome   Outcome
	Mode      string
}

// Start builds and runs the sandbox container if it is not already running,
// then launches the agent inside it.
func (m *Manager) Start(ctx context.Context, req StartRequest) (*StartResult, error) {
	if err := config.ValidateSandboxName(req.Name); err != nil {
		return nil, errors.ValidationError(err.Error())
	}
	mode := req.Mode
	if mode == "" {
		mode = m.opts.Mode
	}
	if mode != config.ModeYolo && mode != config.ModeNormal {
		return nil, errors.ValidationError(fmt.Sprintf("invalid mode %q: expected yolo or normal", mode))
	}

	dir, err := filepath.Abs(req.Dir)
	if err != nil {
		return nil, errors.Wrap(errors.ExitGeneralError, "failed to resolve sandbox directory", err)
	}

	if err := m.requireEngine(ctx); err != nil {
		return nil, err
	}

	descriptor := filepath.Join(dir, DescriptorDir)
	if !m.fs.IsDir(descriptor) {
		return nil, errors.ValidationError(fmt.Sprintf("%s directory not found in %s; run \"grove init\" first", DescriptorDir, dir))
	}

	container := ContainerName(m.opts.ComposePrefix, req.Name)
	result := &StartResult{Container: container, Outcome: OutcomeStarted, Mode: mode}

	if m.engine.IsContainerRunning(ctx, container) {
		if err := m.checkOwner(ctx, container, dir); err != nil {
			return nil, err
		}
		logging.Debug("container already running", "name", container)
		result.Outcome = OutcomeAlreadyRunning
	} else {
		if err := m.launch(ctx, dir, descriptor, req.Name, container); err != nil {
			return nil, err
		}
	}

	res, err := m.engine.Exec(ctx, container, AgentCommand(m.opts, mode), runtime.ExecOptions{
		Detached:   true,
		WorkingDir: m.opts.Workdir,
	})
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, errors.ToolFailure(m.engine.Name(), "exec", res.Stderr)
	}

	return result, nil
}

// launch builds the image, runs the container and waits for it.
func (m *Manager) launch(ctx context.Context, dir, descriptor, name, container string) error {
	// A stopped container with the same name blocks run.
	if m.engine.ContainerExists(ctx, container) {
		if err := m.checkOwner(ctx, container, dir); err != nil {
			return err
		}
		logging.Debug("removing stopped container", "name", container)
		if err := runtime.ForceRemoveContainer(ctx, m.engine, container, m.opts.StopTimeout); err != nil {
			return err
		}
	}

	image := ImageTag(m.opts.ComposePrefix, name)
	res, err := m.engine.BuildImage(ctx, runtime.BuildOptions{
		ContextPath:    descriptor,
		DockerfilePath: filepath.Join(descriptor, "Dockerfile"),
		Tag:            image,
	})
	if err != nil {
		return err
	}
	if !res.Success {
		return errors.ToolFailure(m.engine.Name(), "build", res.Stderr)
	}

	mounts, err := m.mounts(dir)
	if err != nil {
		return err
	}

	runOpts := runtime.RunOptions{
		Name:    container,
		Image:   image,
		Mounts:  mounts,
		Env:     m.opts.envPairs(),
		Workdir: m.opts.Workdir,
		Command: []string{"sleep", "infinity"},
	}
	if m.opts.Label != "" {
		runOpts.Labels = map[string]string{m.opts.Label: dir}
	}

	res, err = m.engine.RunContainer(ctx, runOpts)
	if err != nil {
		return err
	}
	if !res.Success {
		return errors.ToolFailure(m.engine.Name(), "run", res.Stderr)
	}

	return runtime.WaitRunning(ctx, m.engine, container, m.opts.WaitInterval, m.opts.WaitRetries)
}

// checkOwner fails when container is labelled with a folder other than dir.
// The container name only depends on the sandbox name, so two worktrees
// using the same name would otherwise share one container.
func (m *Manager) checkOwner(ctx context.Context, container, dir string) error {
	if m.opts.Label == "" {
		return nil
	}
	owner := m.engine.ContainerLabel(ctx, container, m.opts.Label)
	if owner == "" || filepath.Clean(owner) == filepath.Clean(dir) {
		return nil
	}
	return errors.ValidationError(fmt.Sprintf(
		"sandbox container %s belongs to %s; stop it there or choose another name with --name", container, owner))
}

func (m *Manager) mounts(dir string) ([]runtime.Mount, error) {
	target := m.opts.Workdir
	if target == "" {
		target = "/workspace"
	}
	mounts := []runtime.Mount{{Source: dir, Target: target}}
	for _, spec := range m.opts.Mounts {
		mount, err := runtime.ParseMount(spec)
		if err != nil {
			return nil, errors.ConfigError("invalid sandbox mount", err)
		}
		mount.Source = config.ExpandHome(mount.Source)
		mounts = append(mounts, mount)
	}
	return mounts, nil
}

// AgentCommand returns the in-container command that launches the agent.
// The agent line is shell-quoted so configured arguments survive bash -c.
func AgentCommand(opts Options, mode string) []string {
	argv, err := shellquote.Split(opts.AgentCommand)
	if err != nil || len(argv) == 0 {
		argv = []string{opts.AgentCommand}
	}
	if mode == config.ModeYolo {
		argv = append(argv, opts.YoloArgs...)
	}
	line := `export PATH="$HOME/.local/bin:$PATH" && ` + shellquote.Join(argv...)
	return []string{"bash", "-c", line}
}

// StopResult reports a stop. Warnings hold non-fatal failures.
type StopResult struct {
	Container string
	Outcome   Outcome
	Cleaned   bool
	Warnings  []error
}

// Stop stops and removes the sandbox container. A container that does not
// exist yields OutcomeAlreadyAbsent, one that exists but is not running is
// removed and yields OutcomeAlreadyStopped. With clean, the descriptor
// directory in dir is removed as well.
func (m *Manager) Stop(ctx context.Context, dir, name string, clean bool) (*StopResult, error) {
	if err := config.ValidateSandboxName(name); err != nil {
		return nil, errors.ValidationError(err.Error())
	}
	if err := m.requireEngine(ctx); err != nil {
		return nil, err
	}

	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ExitGeneralError, "failed to resolve sandbox directory", err)
	}

	container := ContainerName(m.opts.ComposePrefix, name)
	result := &StopResult{Container: container, Outcome: OutcomeStopped}

	if !m.engine.ContainerExists(ctx, container) {
		result.Outcome = OutcomeAlreadyAbsent
	} else {
		if err := m.checkOwner(ctx, container, dir); err != nil {
			return nil, err
		}
		result.Outcome, err = m.halt(ctx, container)
		if err != nil {
			return nil, err
		}
		if result.Outcome != OutcomeAlreadyAbsent {
			if err := m.removeContainer(ctx, container); err != nil {
				logging.Warn("failed to remove stopped container", "name", container, "error", err)
				result.Warnings = append(result.Warnings, err)
			}
		}
	}

	if clean {
		descriptor := filepath.Join(dir, DescriptorDir)
		if err := m.fs.RemoveAll(descriptor); err != nil {
			result.Warnings = append(result.Warnings, fmt.Errorf("failed to remove %s: %w", descriptor, err))
		} else {
			result.Cleaned = true
		}
	}

	return result, nil
}

// halt stops container unless it is already stopped.
func (m *Manager) halt(ctx context.Context, container string) (Outcome, error) {
	if !m.engine.IsContainerRunning(ctx, container) {
		return OutcomeAlreadyStopped, nil
	}
	res, err := m.engine.StopContainer(ctx, container, m.opts.StopTimeout)
	if err != nil {
		return 0, err
	}
	if !res.Success {
		return 0, errors.ToolFailure(m.engine.Name(), "stop", res.Stderr)
	}
	if runtime.IsAlreadyGone(res) {
		return OutcomeAlreadyAbsent, nil
	}
	return OutcomeStopped, nil
}

func (m *Manager) removeContainer(ctx context.Context, container string) error {
	res, err := m.engine.RemoveContainer(ctx, container, false)
	if err != nil {
		return err
	}
	if !res.Success {
		return errors.ToolFailure(m.engine.Name(), "rm", res.Stderr)
	}
	return nil
}

// Shell runs command interactively in the running sandbox. An empty command
// opens bash.
func (m *Manager) Shell(ctx context.Context, name string, command []string) error {
	if err := config.ValidateSandboxName(name); err != nil {
		return errors.ValidationError(err.Error())
	}
	container := ContainerName(m.opts.ComposePrefix, name)
	if !m.engine.IsContainerRunning(ctx, container) {
		return errors.ValidationError(fmt.Sprintf("sandbox container %s is not running; run \"grove start\" first", container))
	}
	if len(command) == 0 {
		command = []string{"bash"}
	}
	logging.Debug("opening shell", "container", container, "command", strings.Join(command, " "))
	return m.engine.ExecInteractive(ctx, container, command, runtime.ExecOptions{WorkingDir: m.opts.Workdir})
}

func (m *Manager) requireEngine(ctx context.Context) error {
	if !m.engine.IsEngineRunning(ctx) {
		return errors.ToolUnavailable(m.engine.Name(), fmt.Errorf("%s is not running", m.engine.Name()))
	}
	return nil
}
