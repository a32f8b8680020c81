package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/firefly-engineering/grove/internal/logging"
)

// sandboxNameRegex validates sandbox names.
// Names must start with a lowercase letter or digit, followed by lowercase letters, digits, underscores, or hyphens.
// Maximum length is 63 characters (common container name limit).
var sandboxNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// ValidateSandboxName checks if a sandbox name is valid.
// Valid names:
//   - Start with a lowercase letter or digit
//   - Contain only lowercase letters, digits, underscores, or hyphens
//   - Are between 1 and 63 characters long
func ValidateSandboxName(name string) error {
	if name == "" {
		return fmt.Errorf("sandbox name cannot be empty")
	}

	if !sandboxNameRegex.MatchString(name) {
		return fmt.Errorf("invalid sandbox name %q: must start with a lowercase letter or digit, contain only lowercase letters, digits, underscores, or hyphens, and be at most 63 characters", name)
	}

	return nil
}

const (
	// RepoConfigName is the per-repository override file, read from the repository root.
	RepoConfigName = ".grove.toml"

	// EnvConfigPath overrides the location of the user config file.
	EnvConfigPath = "GROVE_CONFIG"

	ModeYolo   = "yolo"
	ModeNormal = "normal"

	EngineAuto   = "auto"
	EngineDocker = "docker"
	EnginePodman = "podman"
)

// Duration is a time.Duration that decodes from TOML strings like "1s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the merged grove configuration.
type Config struct {
	Worktree     WorktreeConfig     `toml:"worktree"`
	Sandbox      SandboxConfig      `toml:"sandbox"`
	Cleanup      CleanupConfig      `toml:"cleanup"`
	SharedConfig SharedConfigConfig `toml:"shared_config"`
}

// WorktreeConfig controls where new worktrees are placed.
type WorktreeConfig struct {
	// ParentDir is the directory new worktrees are created in when no path is
	// given. "{parent}" expands to the repository's parent directory and
	// "{repo}" to the repository folder name. Relative values are resolved
	// against the repository root.
	ParentDir  string `toml:"parent_dir"`
	BaseBranch string `toml:"base_branch"`
}

// SandboxConfig controls the containerized environment.
type SandboxConfig struct {
	Name          string            `toml:"name"`
	Mode          string            `toml:"mode"`
	Engine        string            `toml:"engine"`
	ComposePrefix string            `toml:"compose_prefix"`
	StopTimeout   int               `toml:"stop_timeout"`
	WaitRetries   int               `toml:"wait_retries"`
	WaitInterval  Duration          `toml:"wait_interval"`
	AgentCommand  string            `toml:"agent_command"`
	YoloArgs      []string          `toml:"yolo_args"`
	Workdir       string            `toml:"workdir"`
	Env           map[string]string `toml:"env"`
	Mounts        []string          `toml:"mounts"`
}

// CleanupConfig controls sandbox resource discovery and teardown.
type CleanupConfig struct {
	ContainerPrefix    string `toml:"container_prefix"`
	Label              string `toml:"label"`
	HighConfidenceOnly bool   `toml:"high_confidence_only"`
	PruneImages        bool   `toml:"prune_images"`
	PruneVolumes       bool   `toml:"prune_volumes"`
}

// SharedConfigConfig names the agent instruction file copied into new worktrees.
type SharedConfigConfig struct {
	File       string `toml:"file"`
	GlobalPath string `toml:"global_path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Worktree: WorktreeConfig{
			ParentDir: "{parent}",
		},
		Sandbox: SandboxConfig{
			Name:          "claude-yolo",
			Mode:          ModeYolo,
			Engine:        EngineAuto,
			ComposePrefix: "devcontainer",
			StopTimeout:   10,
			WaitRetries:   30,
			WaitInterval:  Duration{time.Second},
			AgentCommand:  "claude",
			YoloArgs:      []string{"--dangerously-skip-permissions"},
			Workdir:       "/workspace",
		},
		Cleanup: CleanupConfig{
			ContainerPrefix: "vsc",
			Label:           "devcontainer.local_folder",
			PruneImages:     true,
		},
		SharedConfig: SharedConfigConfig{
			File:       "CLAUDE.md",
			GlobalPath: "~/.claude/CLAUDE.md",
		},
	}
}

// UserConfigPath returns the user-level config file location.
func UserConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "grove", "config.toml")
}

// Load builds the configuration for a repository: defaults, then the user
// file, then <repoRoot>/.grove.toml. Missing files are skipped.
func Load(repoRoot string) (*Config, error) {
	files := []string{UserConfigPath()}
	if repoRoot != "" {
		files = append(files, filepath.Join(repoRoot, RepoConfigName))
	}
	return LoadFiles(files...)
}

// LoadFiles decodes each existing file over the defaults in order. Keys a file
// does not set keep their previous value.
func LoadFiles(paths ...string) (*Config, error) {
	cfg := Default()

	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}

		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		for _, key := range md.Undecoded() {
			logging.Warn("unknown config key", "file", path, "key", key.String())
		}
		logging.Debug("loaded config", "file", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := ValidateSandboxName(c.Sandbox.Name); err != nil {
		return err
	}

	switch c.Sandbox.Mode {
	case ModeYolo, ModeNormal:
	default:
		return fmt.Errorf("invalid sandbox mode %q: must be %q or %q", c.Sandbox.Mode, ModeYolo, ModeNormal)
	}

	switch c.Sandbox.Engine {
	case EngineAuto, EngineDocker, EnginePodman:
	default:
		return fmt.Errorf("invalid engine %q: must be auto, docker or podman", c.Sandbox.Engine)
	}

	if c.Sandbox.WaitRetries <= 0 {
		return fmt.Errorf("wait_retries must be positive")
	}
	if c.Sandbox.WaitInterval.Duration <= 0 {
		return fmt.Errorf("wait_interval must be positive")
	}
	if c.Sandbox.StopTimeout < 0 {
		return fmt.Errorf("stop_timeout cannot be negative")
	}
	if strings.TrimSpace(c.Sandbox.AgentCommand) == "" {
		return fmt.Errorf("agent_command is required")
	}
	if c.Cleanup.ContainerPrefix == "" {
		return fmt.Errorf("container_prefix is required")
	}
	if c.SharedConfig.File == "" || filepath.Base(c.SharedConfig.File) != c.SharedConfig.File {
		return fmt.Errorf("shared_config.file must be a plain file name")
	}

	return nil
}

// WorktreeParent resolves the directory default worktree paths are created in.
func (c *Config) WorktreeParent(repoRoot string) string {
	dir := c.Worktree.ParentDir
	if dir == "" {
		dir = "{parent}"
	}
	dir = strings.ReplaceAll(dir, "{parent}", filepath.Dir(repoRoot))
	dir = strings.ReplaceAll(dir, "{repo}", filepath.Base(repoRoot))
	dir = ExpandHome(dir)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(repoRoot, dir)
	}
	return filepath.Clean(dir)
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
