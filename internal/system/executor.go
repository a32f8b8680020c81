package system

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/firefly-engineering/grove/internal/logging"
)

// ErrNotFound is wrapped by Runner errors when the command binary does not exist.
var ErrNotFound = errors.New("command not found")

// Result is the captured outcome of a finished command.
type Result struct {
	Success  bool
	Stdout   string
	Stderr   string
	ExitCode int
}

// Lines returns the non-empty trimmed lines of stdout.
func (r *Result) Lines() []string {
	var lines []string
	for _, line := range strings.Split(r.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// AsyncResult is delivered by Start once the command finishes.
type AsyncResult struct {
	Result *Result
	Err    error
}

// Start runs the command on its own goroutine. The returned channel receives
// exactly one value and is then closed.
func Start(ctx context.Context, r Runner, dir, name string, args ...string) <-chan AsyncResult {
	ch := make(chan AsyncResult, 1)
	go func() {
		defer close(ch)
		res, err := r.Run(ctx, dir, name, args...)
		ch <- AsyncResult{Result: res, Err: err}
	}()
	return ch
}

// osRunner implements Runner using os/exec.
type osRunner struct{}

func (r *osRunner) Run(ctx context.Context, dir, name string, args ...string) (*Result, error) {
	logging.Debug("running command", "name", name, "args", args, "dir", dir)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{
		Success: err == nil,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		logging.Debug("command exited nonzero", "name", name, "exit", res.ExitCode)
		return res, nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil, fmt.Errorf("failed to run %s: %w", name, err)
}

func (r *osRunner) RunInteractive(ctx context.Context, dir, name string, args ...string) error {
	logging.Debug("running interactive command", "name", name, "args", args, "dir", dir)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return err
	}
	return nil
}

// IsNotFound reports whether err means the command binary was missing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
