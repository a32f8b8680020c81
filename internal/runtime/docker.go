package runtime

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/logging"
	"github.com/firefly-engineering/grove/internal/system"
)

// DockerEngine implements Engine using the docker or podman CLI.
// Both accept the same subset of commands grove uses.
type DockerEngine struct {
	// Command is the container command to use (docker or podman)
	Command string

	runner system.Runner
}

// NewDockerEngine creates an engine that runs command through runner.
func NewDockerEngine(command string, runner system.Runner) *DockerEngine {
	if runner == nil {
		runner = system.DefaultRunner()
	}
	return &DockerEngine{Command: command, runner: runner}
}

// Name returns the engine command
func (e *DockerEngine) Name() string {
	return e.Command
}

// run executes an engine command. The engine needs no particular working
// directory, so none is set.
func (e *DockerEngine) run(ctx context.Context, args ...string) (*system.Result, error) {
	res, err := e.runner.Run(ctx, "", e.Command, args...)
	if err != nil {
		if system.IsNotFound(err) {
			return nil, errors.ToolUnavailable(e.Command, err)
		}
		return nil, errors.ContainerFailed(args[0], err)
	}
	if !res.Success {
		logging.Debug("engine command failed", "engine", e.Command, "args", args, "stderr", strings.TrimSpace(res.Stderr))
	}
	return res, nil
}

// query runs a read-only command and returns its stdout lines, or nil when
// the command could not run or failed.
func (e *DockerEngine) query(ctx context.Context, args ...string) []string {
	res, err := e.run(ctx, args...)
	if err != nil || !res.Success {
		return nil
	}
	return res.Lines()
}

// list is query for listings that should report an unreachable engine.
func (e *DockerEngine) list(ctx context.Context, args ...string) ([]string, error) {
	res, err := e.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, errors.ToolFailure(e.Command, args[0], res.Stderr)
	}
	return res.Lines(), nil
}

// Available runs `<engine> --version`.
func (e *DockerEngine) Available(ctx context.Context) bool {
	res, err := e.run(ctx, "--version")
	return err == nil && res.Success
}

// IsEngineRunning runs `<engine> info`.
func (e *DockerEngine) IsEngineRunning(ctx context.Context) bool {
	res, err := e.run(ctx, "info")
	return err == nil && res.Success
}

func (e *DockerEngine) ContainerExists(ctx context.Context, name string) bool {
	return containsName(e.query(ctx, "ps", "-a", "--format", "{{.Names}}"), name)
}

func (e *DockerEngine) IsContainerRunning(ctx context.Context, name string) bool {
	return containsName(e.query(ctx, "ps", "--format", "{{.Names}}"), name)
}

func (e *DockerEngine) ListContainers(ctx context.Context, all bool) ([]string, error) {
	args := []string{"ps"}
	if all {
		args = append(args, "-a")
	}
	return e.list(ctx, append(args, "--format", "{{.Names}}")...)
}

func (e *DockerEngine) ListContainersByLabel(ctx context.Context, key, value string) ([]string, error) {
	return e.list(ctx, "ps", "-a", "--filter", "label="+key+"="+value, "--format", "{{.Names}}")
}

func (e *DockerEngine) ListImages(ctx context.Context) ([]string, error) {
	return e.list(ctx, "images", "--format", "{{.Repository}}:{{.Tag}}")
}

func (e *DockerEngine) ListImagesByLabel(ctx context.Context, key, value string) ([]string, error) {
	return e.list(ctx, "images", "--filter", "label="+key+"="+value, "--format", "{{.Repository}}:{{.Tag}}")
}

func (e *DockerEngine) ContainerLabel(ctx context.Context, name, key string) string {
	return labelValue(e.query(ctx, "inspect", "-f", fmt.Sprintf("{{index .Config.Labels %q}}", key), name))
}

func (e *DockerEngine) ImageLabel(ctx context.Context, name, key string) string {
	return labelValue(e.query(ctx, "image", "inspect", "-f", fmt.Sprintf("{{index .Config.Labels %q}}", key), name))
}

func labelValue(lines []string) string {
	if len(lines) == 0 || lines[0] == "<no value>" {
		return ""
	}
	return lines[0]
}

func (e *DockerEngine) BuildImage(ctx context.Context, opts BuildOptions) (*system.Result, error) {
	logging.Debug("building image", "tag", opts.Tag, "context", opts.ContextPath)

	args := []string{"build", "-f", opts.DockerfilePath, "-t", opts.Tag}
	keys := make([]string, 0, len(opts.BuildArgs))
	for k := range opts.BuildArgs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--build-arg", k+"="+opts.BuildArgs[k])
	}
	args = append(args, opts.ContextPath)

	return e.run(ctx, args...)
}

func (e *DockerEngine) RunContainer(ctx context.Context, opts RunOptions) (*system.Result, error) {
	logging.Debug("running container", "name", opts.Name, "image", opts.Image)

	args := []string{"run", "-d", "--name", opts.Name}
	for _, c := range sandboxCapabilities {
		args = append(args, "--cap-add="+c)
	}
	for _, m := range opts.Mounts {
		args = append(args, "-v", m.Arg())
	}
	for _, env := range opts.Env {
		args = append(args, "-e", env)
	}
	keys := make([]string, 0, len(opts.Labels))
	for k := range opts.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--label", k+"="+opts.Labels[k])
	}
	if opts.Workdir != "" {
		args = append(args, "-w", opts.Workdir)
	}
	args = append(args, opts.Image)
	args = append(args, opts.Command...)

	return e.run(ctx, args...)
}

func (e *DockerEngine) StopContainer(ctx context.Context, name string, timeoutSeconds int) (*system.Result, error) {
	res, err := e.run(ctx, "stop", "-t", strconv.Itoa(timeoutSeconds), name)
	return alreadyGone(res), err
}

func (e *DockerEngine) RemoveContainer(ctx context.Context, name string, force bool) (*system.Result, error) {
	args := []string{"rm"}
	if force {
		args = append(args, "-f")
	}
	res, err := e.run(ctx, append(args, name)...)
	return alreadyGone(res), err
}

func (e *DockerEngine) RemoveImage(ctx context.Context, name string, force bool) (*system.Result, error) {
	args := []string{"rmi"}
	if force {
		args = append(args, "-f")
	}
	res, err := e.run(ctx, append(args, name)...)
	return alreadyGone(res), err
}

func (e *DockerEngine) Exec(ctx context.Context, name string, command []string, opts ExecOptions) (*system.Result, error) {
	return e.run(ctx, execArgs(name, command, opts, false)...)
}

func (e *DockerEngine) ExecInteractive(ctx context.Context, name string, command []string, opts ExecOptions) error {
	err := e.runner.RunInteractive(ctx, "", e.Command, execArgs(name, command, opts, true)...)
	if system.IsNotFound(err) {
		return errors.ToolUnavailable(e.Command, err)
	}
	return err
}

func execArgs(name string, command []string, opts ExecOptions, interactive bool) []string {
	args := []string{"exec"}
	if interactive {
		args = append(args, "-it")
	} else if opts.Detached {
		args = append(args, "-d")
	}
	if opts.User != "" {
		args = append(args, "-u", opts.User)
	}
	if opts.WorkingDir != "" {
		args = append(args, "-w", opts.WorkingDir)
	}
	for _, env := range opts.Env {
		args = append(args, "-e", env)
	}
	args = append(args, name)
	return append(args, command...)
}

func (e *DockerEngine) PruneDanglingImages(ctx context.Context) (*system.Result, error) {
	return e.run(ctx, "image", "prune", "-f")
}

func (e *DockerEngine) PruneDanglingVolumes(ctx context.Context) (*system.Result, error) {
	return e.run(ctx, "volume", "prune", "-f")
}

// goneMarkers are stderr fragments docker and podman print for missing objects.
var goneMarkers = []string{
	"no such container",
	"no such image",
	"no such object",
	"no container with name or id",
	"image not known",
}

// alreadyGone turns a failure about a missing object into success.
func alreadyGone(res *system.Result) *system.Result {
	if res == nil || res.Success {
		return res
	}
	stderr := strings.ToLower(res.Stderr)
	for _, marker := range goneMarkers {
		if strings.Contains(stderr, marker) {
			return &system.Result{Success: true, Stdout: res.Stdout, Stderr: res.Stderr, ExitCode: res.ExitCode}
		}
	}
	return res
}

// IsAlreadyGone reports whether a successful removal result means the object
// did not exist.
func IsAlreadyGone(res *system.Result) bool {
	return res != nil && res.Success && res.ExitCode != 0
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

var _ Engine = (*DockerEngine)(nil)
