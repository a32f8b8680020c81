package app

import (
	"github.com/firefly-engineering/grove/internal/config"
	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/lifecycle"
	"github.com/firefly-engineering/grove/internal/logging"
	"github.com/firefly-engineering/grove/internal/runtime"
	"github.com/firefly-engineering/grove/internal/system"
	"github.com/firefly-engineering/grove/internal/worktree"
)

// App holds the application dependencies
type App struct {
	// Runner executes git and the container engine
	Runner system.Runner

	// Engine is the container engine. Nil means detect it from config.
	Engine runtime.Engine

	// Config replaces loading from files when set
	Config *config.Config

	// Prompter answers confirmations. Nil leaves the choice to the caller.
	Prompter lifecycle.Prompter
}

// Option is a function that configures the App
type Option func(*App)

// WithRunner sets a custom process runner
func WithRunner(r system.Runner) Option {
	return func(a *App) {
		a.Runner = r
	}
}

// WithEngine sets a custom container engine
func WithEngine(e runtime.Engine) Option {
	return func(a *App) {
		a.Engine = e
	}
}

// WithConfig sets a fixed configuration
func WithConfig(cfg *config.Config) Option {
	return func(a *App) {
		a.Config = cfg
	}
}

// WithPrompter sets how confirmations are answered
func WithPrompter(p lifecycle.Prompter) Option {
	return func(a *App) {
		a.Prompter = p
	}
}

// New creates a new App with the given options.
func New(opts ...Option) *App {
	app := &App{
		Runner: system.DefaultRunner(),
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Repository returns a worktree repository backed by the app's runner.
func (a *App) Repository() *worktree.Repository {
	return worktree.NewRepository(a.Runner)
}

// LoadConfig returns the configuration for the repository at repoRoot.
func (a *App) LoadConfig(repoRoot string) (*config.Config, error) {
	if a.Config != nil {
		return a.Config, nil
	}
	cfg, err := config.Load(repoRoot)
	if err != nil {
		return nil, errors.ConfigError("invalid configuration", err)
	}
	return cfg, nil
}

// EngineFor returns the app's engine, detecting one from cfg if none was
// injected. When no engine binary is found the returned engine reports
// itself unavailable instead of failing here, so commands that only need git
// keep working.
func (a *App) EngineFor(cfg *config.Config) runtime.Engine {
	if a.Engine != nil {
		return a.Engine
	}
	preferred := runtime.EngineType(cfg.Sandbox.Engine)
	engine, err := runtime.New(preferred, a.Runner)
	if err != nil {
		logging.Debug("no container engine detected", "engine", preferred, "error", err)
		name := string(preferred)
		if preferred == runtime.EngineAuto || name == "" {
			name = string(runtime.EngineDocker)
		}
		return runtime.NewDockerEngine(name, a.Runner)
	}
	return engine
}

// Orchestrator builds a lifecycle orchestrator for cfg.
func (a *App) Orchestrator(cfg *config.Config, opts ...lifecycle.Option) *lifecycle.Orchestrator {
	if a.Prompter != nil {
		opts = append([]lifecycle.Option{lifecycle.WithPrompter(a.Prompter)}, opts...)
	}
	return lifecycle.New(cfg, a.Repository(), a.EngineFor(cfg), opts...)
}

// Default is the default application instance
var Default = New()

// SetDefault sets the default application instance (used for testing)
func SetDefault(app *App) {
	Default = app
}

// ResetDefault resets to the default application instance
func ResetDefault() {
	Default = New()
}
