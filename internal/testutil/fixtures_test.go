package testutil

import (
	"context"
	"testing"

	"github.com/firefly-engineering/grove/internal/app"
	"github.com/firefly-engineering/grove/internal/config"
	"github.com/firefly-engineering/grove/internal/system"
	"github.com/firefly-engineering/grove/internal/worktree"
)

func TestValidConfig(t *testing.T) {
	cfg, err := ValidConfig()
	if err != nil {
		t.Fatalf("ValidConfig() error: %v", err)
	}

	if cfg.Sandbox.Name != "agent" {
		t.Errorf("Sandbox.Name = %q, want %q", cfg.Sandbox.Name, "agent")
	}
	if cfg.Sandbox.Mode != config.ModeNormal {
		t.Errorf("Sandbox.Mode = %q, want normal", cfg.Sandbox.Mode)
	}
	if cfg.Sandbox.Env["NODE_OPTIONS"] == "" {
		t.Error("Sandbox.Env should contain NODE_OPTIONS")
	}
	if !cfg.Cleanup.HighConfidenceOnly {
		t.Error("HighConfidenceOnly should be true")
	}
	if got := cfg.WorktreeParent("/src/app"); got != "/src/app-worktrees" {
		t.Errorf("WorktreeParent = %q, want /src/app-worktrees", got)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Valid config should pass validation: %v", err)
	}
}

func TestInvalidConfig(t *testing.T) {
	cfg, err := InvalidConfig()
	if err != nil {
		t.Fatalf("InvalidConfig() error: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Invalid config should fail validation")
	}
}

func TestWorktreeListing(t *testing.T) {
	runner := system.NewMockRunner()
	runner.AddExactMatch("git", []string{"worktree", "list", "--porcelain"}, system.MockResponse{Stdout: WorktreeListing()})
	runner.AddExactMatch("git", []string{"branch", "--show-current"}, system.MockResponse{Stdout: "main\n"})

	copies, err := worktree.NewRepository(runner).List(context.Background(), "/src/app")
	if err != nil {
		t.Fatal(err)
	}
	if len(copies) != 2 {
		t.Fatalf("len(copies) = %d, want 2: %+v", len(copies), copies)
	}
	if !copies[0].IsCurrent || copies[1].Branch != "feature/login" {
		t.Errorf("copies = %+v", copies)
	}
}

func TestNewTestEnv(t *testing.T) {
	original := app.Default
	env := NewTestEnv(t)

	if app.Default != env.App {
		t.Error("NewTestEnv should install its App as the default")
	}

	repo := env.App.Repository()
	copies, err := repo.List(context.Background(), env.RepoRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(copies) != 1 || !copies[0].IsPrimary || !copies[0].IsCurrent {
		t.Errorf("default listing = %+v", copies)
	}

	env.SetWorktrees("develop", Worktree{Path: env.Worktree("feature-login"), Branch: "feature/login"})
	copies, err = repo.List(context.Background(), env.RepoRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(copies) != 2 || copies[0].Branch != "develop" || copies[1].Path != env.Worktree("feature-login") {
		t.Errorf("listing after SetWorktrees = %+v", copies)
	}

	env.Cleanup()
	if app.Default != original {
		t.Error("Cleanup should restore the original default")
	}
}
