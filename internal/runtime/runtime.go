package runtime

import (
	"context"

	"github.com/firefly-engineering/grove/internal/system"
)

// Capabilities added to every sandbox container so its firewall script can
// manage iptables rules.
var sandboxCapabilities = []string{"NET_ADMIN", "NET_RAW"}

// BuildOptions holds options for building an image
type BuildOptions struct {
	ContextPath    string
	DockerfilePath string
	Tag            string
	BuildArgs      map[string]string
}

// RunOptions holds options for starting a detached container
type RunOptions struct {
	Name    string
	Image   string
	Mounts  []Mount
	Env     []string // KEY=VALUE pairs
	Labels  map[string]string
	Workdir string
	Command []string
}

// ExecOptions holds options for executing a command in a container
type ExecOptions struct {
	Detached   bool
	User       string
	WorkingDir string
	Env        []string
}

// Engine is the container engine grove drives.
//
// Query methods never fail: an engine that cannot be reached reads as "no".
// Mutating methods return the engine's result; their error is reserved for an
// engine binary that could not be invoked at all. Removal of something that
// is already gone is reported as success.
type Engine interface {
	// Name returns the engine command, e.g. "docker".
	Name() string

	// Available reports whether the engine CLI can be invoked.
	Available(ctx context.Context) bool

	// IsEngineRunning reports whether the engine daemon answers.
	IsEngineRunning(ctx context.Context) bool

	ContainerExists(ctx context.Context, name string) bool
	IsContainerRunning(ctx context.Context, name string) bool

	// ListContainers returns container names; all includes stopped ones.
	ListContainers(ctx context.Context, all bool) ([]string, error)

	// ListContainersByLabel returns all containers carrying label key=value.
	ListContainersByLabel(ctx context.Context, key, value string) ([]string, error)

	// ListImages returns images as repository:tag.
	ListImages(ctx context.Context) ([]string, error)

	// ListImagesByLabel returns images carrying label key=value as repository:tag.
	ListImagesByLabel(ctx context.Context, key, value string) ([]string, error)

	// ContainerLabel returns the value of a label on a container, or "".
	ContainerLabel(ctx context.Context, name, key string) string

	// ImageLabel returns the value of a label on an image, or "".
	ImageLabel(ctx context.Context, name, key string) string

	BuildImage(ctx context.Context, opts BuildOptions) (*system.Result, error)
	RunContainer(ctx context.Context, opts RunOptions) (*system.Result, error)
	StopContainer(ctx context.Context, name string, timeoutSeconds int) (*system.Result, error)
	RemoveContainer(ctx context.Context, name string, force bool) (*system.Result, error)
	RemoveImage(ctx context.Context, name string, force bool) (*system.Result, error)
	Exec(ctx context.Context, name string, command []string, opts ExecOptions) (*system.Result, error)

	// ExecInteractive attaches the terminal to a command in the container.
	ExecInteractive(ctx context.Context, name string, command []string, opts ExecOptions) error

	PruneDanglingImages(ctx context.Context) (*system.Result, error)
	PruneDanglingVolumes(ctx context.Context) (*system.Result, error)
}
