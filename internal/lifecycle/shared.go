package lifecycle

import (
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/firefly-engineering/grove/internal/config"
	"github.com/firefly-engineering/grove/internal/logging"
	"github.com/firefly-engineering/grove/internal/system"
)

// SharedConfigSeparator goes between the project and global instructions.
const SharedConfigSeparator = "\n\n---\n\n"

// sharedConfig is the agent instruction file to place in a new worktree.
type sharedConfig struct {
	name    string
	content []byte
}

// planSharedConfig reads the project's instruction file and, if the user
// agrees, appends the global one. It returns nil when there is nothing to
// copy.
func (o *Orchestrator) planSharedConfig(repoRoot string) (*sharedConfig, error) {
	name := o.cfg.SharedConfig.File

	var content []byte
	if path, err := securejoin.SecureJoin(repoRoot, name); err == nil {
		if data, err := o.fs.ReadFile(path); err == nil {
			content = data
		}
	}

	globalPath := config.ExpandHome(o.cfg.SharedConfig.GlobalPath)
	if globalPath != "" {
		if global, err := o.fs.ReadFile(globalPath); err == nil && len(global) > 0 {
			ok, err := o.confirm("create", "Append global "+globalPath+" to "+name+"?")
			if err != nil {
				return nil, err
			}
			if ok {
				if len(content) > 0 {
					content = append(content, SharedConfigSeparator...)
				}
				content = append(content, global...)
			}
		}
	}

	if len(content) == 0 {
		logging.Debug("no shared config to copy", "file", name)
		return nil, nil
	}
	return &sharedConfig{name: name, content: content}, nil
}

func (s *sharedConfig) write(fs system.FileSystem, worktreePath string) error {
	path, err := securejoin.SecureJoin(worktreePath, s.name)
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return fs.WriteFile(path, s.content, 0644)
}
