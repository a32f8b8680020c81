package sandbox

import (
	"sort"
	"time"

	"github.com/firefly-engineering/grove/internal/config"
)

// DescriptorDir is the directory holding the sandbox build descriptor.
const DescriptorDir = ".devcontainer"

// Options holds the sandbox settings taken from configuration.
type Options struct {
	ComposePrefix string
	Mode          string
	AgentCommand  string
	YoloArgs      []string
	Workdir       string
	Env           map[string]string
	Mounts        []string
	Label         string

	StopTimeout  int
	WaitRetries  int
	WaitInterval time.Duration
}

// OptionsFromConfig extracts sandbox options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ComposePrefix: cfg.Sandbox.ComposePrefix,
		Mode:          cfg.Sandbox.Mode,
		AgentCommand:  cfg.Sandbox.AgentCommand,
		YoloArgs:      cfg.Sandbox.YoloArgs,
		Workdir:       cfg.Sandbox.Workdir,
		Env:           cfg.Sandbox.Env,
		Mounts:        cfg.Sandbox.Mounts,
		Label:         cfg.Cleanup.Label,
		StopTimeout:   cfg.Sandbox.StopTimeout,
		WaitRetries:   cfg.Sandbox.WaitRetries,
		WaitInterval:  cfg.Sandbox.WaitInterval.Duration,
	}
}

// envPairs renders Env as sorted KEY=VALUE pairs.
func (o Options) envPairs() []string {
	keys := make([]string, 0, len(o.Env))
	for k := range o.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+o.Env[k])
	}
	return pairs
}

// ContainerName returns the container name for a sandbox.
func ContainerName(composePrefix, name string) string {
	return composePrefix + "-" + name + "-1"
}

// ImageTag returns the image tag built for a sandbox.
func ImageTag(composePrefix, name string) string {
	return composePrefix + "-" + name + ":latest"
}
