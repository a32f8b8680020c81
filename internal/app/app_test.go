package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/firefly-engineering/grove/internal/config"
	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/lifecycle"
	"github.com/firefly-engineering/grove/internal/runtime"
	"github.com/firefly-engineering/grove/internal/system"
	"github.com/firefly-engineering/grove/internal/worktree"
)

func TestNew(t *testing.T) {
	app := New()

	if app == nil {
		t.Fatal("New() returned nil")
	}
	if app.Runner == nil {
		t.Error("Runner should default to the OS runner")
	}
	if app.Engine != nil || app.Config != nil || app.Prompter != nil {
		t.Error("Engine, Config and Prompter should be unset by default")
	}
}

func TestNew_MultipleOptions(t *testing.T) {
	runner := system.NewMockRunner()
	engine := runtime.NewMockEngine()
	cfg := config.Default()
	prompt := lifecycle.AutoPrompter{Answer: true}

	app := New(
		WithRunner(runner),
		WithEngine(engine),
		WithConfig(cfg),
		WithPrompter(prompt),
	)

	if app.Runner != runner {
		t.Error("Runner not set correctly")
	}
	if app.Engine != engine {
		t.Error("Engine not set correctly")
	}
	if app.Config != cfg {
		t.Error("Config not set correctly")
	}
	if app.Prompter != prompt {
		t.Error("Prompter not set correctly")
	}
	if app.EngineFor(cfg) != engine {
		t.Error("EngineFor should return the injected engine")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "missing.toml"))

	repo := t.TempDir()
	if err := os.WriteFile(filepath.Join(repo, config.RepoConfigName), []byte("[sandbox]\nname = \"box\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := New().LoadConfig(repo)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Sandbox.Name != "box" {
		t.Errorf("Sandbox.Name = %q, want box", cfg.Sandbox.Name)
	}

	if err := os.WriteFile(filepath.Join(repo, config.RepoConfigName), []byte("[sandbox]\nmode = \"reckless\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := New().LoadConfig(repo); !errors.HasCode(err, errors.ExitConfigError) {
		t.Errorf("err = %v, want config error", err)
	}

	fixed := config.Default()
	if got, _ := New(WithConfig(fixed)).LoadConfig(repo); got != fixed {
		t.Error("WithConfig should bypass loading")
	}
}

func TestOrchestratorUsesPrompter(t *testing.T) {
	runner := system.NewMockRunner()
	runner.AddExactMatch("git", []string{"status", "--porcelain"}, system.MockResponse{Stdout: " M a.go\n"})

	app := New(WithRunner(runner), WithEngine(runtime.NewMockEngine()), WithPrompter(lifecycle.AutoPrompter{Answer: true}))
	orch := app.Orchestrator(config.Default())

	wc := worktree.WorkingCopy{DisplayName: "feature-x", Path: "/w/feature-x", Branch: "feature/x"}
	if _, err := orch.Delete(context.Background(), lifecycle.DeleteRequest{RepoRoot: "/w/app", Worktree: wc}); err != nil {
		t.Fatalf("Delete with yes-prompter: %v", err)
	}
	if runner.CountCalls("git worktree remove") != 1 {
		t.Errorf("calls = %v", runner.CallStrings())
	}
}

func TestSetDefault(t *testing.T) {
	original := Default
	defer func() { Default = original }()

	customApp := New(WithConfig(config.Default()))
	SetDefault(customApp)

	if Default != customApp {
		t.Error("SetDefault did not update Default")
	}

	ResetDefault()
	if Default == customApp {
		t.Error("ResetDefault did not create new Default")
	}
}
