package runtime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/logging"
)

// WaitRunning polls until the container reports running. It checks up to
// retries times, sleeping interval between checks, and fails once the
// budget is spent.
func WaitRunning(ctx context.Context, e Engine, name string, interval time.Duration, retries int) error {
	for i := 0; i < retries; i++ {
		if e.IsContainerRunning(ctx, name) {
			return nil
		}
		if i == retries-1 {
			break
		}
		logging.Debug("waiting for container", "name", name, "attempt", i+1, "retries", retries)
		select {
		case <-ctx.Done():
			return errors.ContainerFailed("wait", ctx.Err())
		case <-time.After(interval):
		}
	}
	return errors.ContainerFailed("wait", fmt.Errorf("container %s not running after %d checks", name, retries))
}

// ForceRemoveContainer removes a container with rm -f. If that fails it
// stops the container and retries a plain rm.
func ForceRemoveContainer(ctx context.Context, e Engine, name string, stopTimeout int) error {
	res, err := e.RemoveContainer(ctx, name, true)
	if err != nil {
		return err
	}
	if res.Success {
		return nil
	}
	logging.Debug("forced removal failed, stopping first", "name", name, "stderr", strings.TrimSpace(res.Stderr))

	if _, err := e.StopContainer(ctx, name, stopTimeout); err != nil {
		return err
	}
	res, err = e.RemoveContainer(ctx, name, false)
	if err != nil {
		return err
	}
	if !res.Success {
		return errors.ToolFailure(e.Name(), "rm", res.Stderr)
	}
	return nil
}

// RemoveImageWithFallback removes an image, retrying with -f when the
// plain removal fails.
func RemoveImageWithFallback(ctx context.Context, e Engine, name string) error {
	res, err := e.RemoveImage(ctx, name, false)
	if err != nil {
		return err
	}
	if res.Success {
		return nil
	}
	res, err = e.RemoveImage(ctx, name, true)
	if err != nil {
		return err
	}
	if !res.Success {
		return errors.ToolFailure(e.Name(), "rmi", res.Stderr)
	}
	return nil
}
