package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/grove/internal/app"
	"github.com/firefly-engineering/grove/internal/config"
	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/lifecycle"
	"github.com/firefly-engineering/grove/internal/logging"
	"github.com/firefly-engineering/grove/internal/tui"
	"github.com/firefly-engineering/grove/internal/worktree"
)

// session is what a command needs to work on one repository.
type session struct {
	ctx  context.Context
	root string
	cfg  *config.Config
	orch *lifecycle.Orchestrator
}

// startDir is the directory grove was started in, or --repo.
func startDir() (string, error) {
	if repoDir != "" {
		return filepath.Abs(repoDir)
	}
	return os.Getwd()
}

// openRepo resolves the repository containing the start directory and
// loads its configuration.
func openRepo(cmd *cobra.Command) (*session, error) {
	ctx := cmd.Context()
	dir, err := startDir()
	if err != nil {
		return nil, errors.Wrap(errors.ExitGeneralError, "failed to determine working directory", err)
	}
	root, err := app.Default.Repository().Root(ctx, dir)
	if err != nil {
		return nil, err
	}
	cfg, err := app.Default.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	return newSession(ctx, root, cfg), nil
}

// openDir is openRepo for the sandbox commands, which also work outside a
// repository. There only the user configuration applies and the returned
// session has no root.
func openDir(cmd *cobra.Command, dir string) (*session, error) {
	ctx := cmd.Context()
	root, err := app.Default.Repository().Root(ctx, dir)
	if err != nil {
		logging.Debug("sandbox directory is not in a repository", "dir", dir, "error", err)
		root = ""
	}
	cfg, err := app.Default.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	return newSession(ctx, root, cfg), nil
}

func newSession(ctx context.Context, root string, cfg *config.Config) *session {
	orch := app.Default.Orchestrator(cfg,
		lifecycle.WithPrompter(prompter()),
		lifecycle.WithProgress(showProgress),
	)
	return &session{ctx: ctx, root: root, cfg: cfg, orch: orch}
}

// prompter picks how confirmations are answered: --yes, then an injected
// prompter, then an interactive prompt when stdin is a terminal. Anything
// else declines.
func prompter() lifecycle.Prompter {
	switch {
	case assumeYes:
		return lifecycle.AutoPrompter{Answer: true}
	case app.Default.Prompter != nil:
		return app.Default.Prompter
	case interactive():
		return tui.ConfirmPrompter{Out: os.Stderr}
	}
	return lifecycle.AutoPrompter{Answer: false}
}

func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func showProgress(step string, index, total int) {
	if total > 1 {
		logInfo("[%d/%d] %s", index, total, step)
		return
	}
	logInfo("%s", step)
}

// sandboxDir returns the directory argument of a sandbox command, defaulting
// to the start directory.
func sandboxDir(args []string) (string, error) {
	if len(args) > 0 {
		return filepath.Abs(args[0])
	}
	return startDir()
}

// findWorktree looks a worktree up by path, then branch, then directory
// name.
func (s *session) findWorktree(arg string) (worktree.WorkingCopy, error) {
	copies, err := s.orch.Repository().List(s.ctx, s.root)
	if err != nil {
		return worktree.WorkingCopy{}, err
	}

	if abs, err := filepath.Abs(arg); err == nil {
		for _, wc := range copies {
			if worktree.SamePath(wc.Path, abs) {
				return wc, nil
			}
		}
	}
	for _, wc := range copies {
		if wc.Branch == arg {
			return wc, nil
		}
	}

	var byName []worktree.WorkingCopy
	for _, wc := range copies {
		if wc.Name() == arg {
			byName = append(byName, wc)
		}
	}
	switch len(byName) {
	case 1:
		return byName[0], nil
	case 0:
		return worktree.WorkingCopy{}, errors.ValidationError(fmt.Sprintf("no worktree matches %q; see \"grove list\"", arg))
	}
	paths := make([]string, len(byName))
	for i, wc := range byName {
		paths[i] = wc.Path
	}
	return worktree.WorkingCopy{}, errors.ValidationError(fmt.Sprintf("%q matches several worktrees: %s", arg, strings.Join(paths, ", ")))
}
