package lifecycle

import (
	"context"
	"fmt"

	"github.com/firefly-engineering/grove/internal/config"
	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/resolve"
	"github.com/firefly-engineering/grove/internal/runtime"
	"github.com/firefly-engineering/grove/internal/sandbox"
	"github.com/firefly-engineering/grove/internal/system"
	"github.com/firefly-engineering/grove/internal/worktree"
)

// Orchestrator runs worktree and sandbox operations. It holds collaborators
// only; no operation leaves state behind in it.
type Orchestrator struct {
	cfg       *config.Config
	repo      *worktree.Repository
	engine    runtime.Engine
	resolver  *resolve.Resolver
	sandboxes *sandbox.Manager
	prompter  Prompter
	progress  ProgressFunc
	fs        system.FileSystem
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPrompter sets how the user is asked for confirmation.
func WithPrompter(p Prompter) Option {
	return func(o *Orchestrator) {
		o.prompter = p
	}
}

// WithProgress sets a callback invoked before every step.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Orchestrator) {
		o.progress = fn
	}
}

// WithFileSystem sets where shared config files are read and written.
func WithFileSystem(fs system.FileSystem) Option {
	return func(o *Orchestrator) {
		o.fs = fs
	}
}

// WithSandboxManager replaces the sandbox manager built from cfg.
func WithSandboxManager(m *sandbox.Manager) Option {
	return func(o *Orchestrator) {
		o.sandboxes = m
	}
}

// New creates an Orchestrator. Without WithPrompter every confirmation is
// declined.
func New(cfg *config.Config, repo *worktree.Repository, engine runtime.Engine, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg,
		repo:   repo,
		engine: engine,
		resolver: resolve.New(engine, resolve.Prefixes{
			Container: cfg.Cleanup.ContainerPrefix,
			Compose:   cfg.Sandbox.ComposePrefix,
		}, cfg.Cleanup.Label),
		sandboxes: sandbox.NewManager(engine, sandbox.OptionsFromConfig(cfg)),
		prompter:  AutoPrompter{Answer: false},
		fs:        system.DefaultFS(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Repository returns the worktree repository.
func (o *Orchestrator) Repository() *worktree.Repository {
	return o.repo
}

// Sandboxes returns the sandbox manager.
func (o *Orchestrator) Sandboxes() *sandbox.Manager {
	return o.sandboxes
}

// confirm asks question and maps a dismissed prompt to a Cancelled error for op.
func (o *Orchestrator) confirm(op, question string) (bool, error) {
	ok, err := o.prompter.Confirm(question)
	if err != nil {
		if errors.Is(err, ErrPromptCancelled) {
			return false, errors.Cancelled(op)
		}
		return false, err
	}
	return ok, nil
}

// confirmDirty asks before an operation discards or moves uncommitted work.
// Declining cancels the operation.
func (o *Orchestrator) confirmDirty(ctx context.Context, op string, wc worktree.WorkingCopy) error {
	dirty, err := o.repo.HasUncommittedChanges(ctx, wc.Path)
	if err != nil {
		return err
	}
	if !dirty {
		return nil
	}
	ok, err := o.confirm(op, fmt.Sprintf("%s has uncommitted changes. Continue with %s?", wc.Name(), op))
	if err != nil {
		return err
	}
	if !ok {
		return errors.Cancelled(op)
	}
	return nil
}

// Resources resolves the sandbox resources of a worktree without touching
// them.
func (o *Orchestrator) Resources(ctx context.Context, wc worktree.WorkingCopy) (*resolve.Resolution, error) {
	return o.resolver.Resolve(ctx, resolve.NewIdentity(wc.Path, wc.Branch))
}

// SandboxState reports whether a sandbox container is labelled with the
// worktree's folder.
func (o *Orchestrator) SandboxState(ctx context.Context, wc worktree.WorkingCopy) sandbox.State {
	return sandbox.StateOf(ctx, o.engine, o.cfg.Cleanup.Label, wc.Path)
}
