package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firefly-engineering/grove/internal/config"
	"github.com/firefly-engineering/grove/internal/errors"
	"github.com/firefly-engineering/grove/internal/runtime"
	"github.com/firefly-engineering/grove/internal/system"
	"github.com/firefly-engineering/grove/internal/worktree"
)

func newGitOrchestrator(t *testing.T, prompt Prompter) (*Orchestrator, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.SharedConfig.GlobalPath = ""
	repo := worktree.NewRepository(system.DefaultRunner())
	return New(cfg, repo, runtime.NewMockEngine(), WithPrompter(prompt)), cfg
}

func TestCreate_DefaultPathAndScaffold(t *testing.T) {
	root := setupGitRepo(t)
	orch, _ := newGitOrchestrator(t, &fakePrompter{})

	result, err := orch.Create(context.Background(), CreateRequest{
		RepoRoot: root,
		Branch:   "feature/login",
		Scaffold: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	want := filepath.Join(filepath.Dir(root), "feature-login")
	if result.Path != want {
		t.Errorf("Path = %q, want %q", result.Path, want)
	}
	if result.Report.HasWarnings() {
		t.Errorf("warnings = %v", result.Report.Warnings)
	}
	if _, err := os.Stat(filepath.Join(want, ".devcontainer", "Dockerfile")); err != nil {
		t.Errorf("descriptor not scaffolded: %v", err)
	}

	wc, found, err := orch.Repository().FindBranch(context.Background(), root, "feature/login")
	if err != nil || !found {
		t.Fatalf("FindBranch = %v, %v", found, err)
	}
	if !worktree.SamePath(wc.Path, want) {
		t.Errorf("worktree at %q, want %q", wc.Path, want)
	}
}

func TestCreate_Rejects(t *testing.T) {
	root := setupGitRepo(t)
	orch, _ := newGitOrchestrator(t, &fakePrompter{})
	existing := t.TempDir()

	tests := []struct {
		name string
		req  CreateRequest
	}{
		{"invalid branch", CreateRequest{RepoRoot: root, Branch: "bad branch"}},
		{"existing path", CreateRequest{RepoRoot: root, Branch: "feature/x", Path: existing}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := orch.Create(context.Background(), tt.req)
			if !errors.HasCode(err, errors.ExitValidation) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestCreate_CopiesSharedConfig(t *testing.T) {
	root := setupGitRepo(t)
	if err := os.WriteFile(filepath.Join(root, "CLAUDE.md"), []byte("project rules"), 0644); err != nil {
		t.Fatal(err)
	}
	global := filepath.Join(t.TempDir(), "CLAUDE.md")
	if err := os.WriteFile(global, []byte("global rules"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		branch string
		answer bool
		want   string
	}{
		{"with global", "with-global", true, "project rules" + SharedConfigSeparator + "global rules"},
		{"project only", "project-only", false, "project rules"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := &fakePrompter{answers: []bool{tt.answer}}
			orch, cfg := newGitOrchestrator(t, prompt)
			cfg.SharedConfig.GlobalPath = global

			result, err := orch.Create(context.Background(), CreateRequest{RepoRoot: root, Branch: tt.branch, CopySharedConfig: true})
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			data, err := os.ReadFile(filepath.Join(result.Path, "CLAUDE.md"))
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("CLAUDE.md = %q, want %q", data, tt.want)
			}
			if len(prompt.questions) != 1 || !strings.Contains(prompt.questions[0], global) {
				t.Errorf("questions = %v", prompt.questions)
			}
		})
	}
}

func TestCreate_CancelledPromptCreatesNothing(t *testing.T) {
	root := setupGitRepo(t)
	global := filepath.Join(t.TempDir(), "CLAUDE.md")
	if err := os.WriteFile(global, []byte("global rules"), 0644); err != nil {
		t.Fatal(err)
	}

	orch, cfg := newGitOrchestrator(t, &fakePrompter{err: ErrPromptCancelled})
	cfg.SharedConfig.GlobalPath = global

	_, err := orch.Create(context.Background(), CreateRequest{RepoRoot: root, Branch: "feature/y", CopySharedConfig: true})
	if !errors.HasCode(err, errors.ExitCancelled) {
		t.Fatalf("err = %v, want cancelled", err)
	}
	if _, err := os.Stat(orch.DefaultPath(root, "feature/y")); !os.IsNotExist(err) {
		t.Error("worktree directory created despite cancellation")
	}
}

func TestCreate_NoSharedConfigIsNotAWarning(t *testing.T) {
	root := setupGitRepo(t)
	orch, _ := newGitOrchestrator(t, &fakePrompter{})

	result, err := orch.Create(context.Background(), CreateRequest{RepoRoot: root, Branch: "plain", CopySharedConfig: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(result.Report.Completed) != 1 || result.Report.HasWarnings() {
		t.Errorf("report = %+v, want only the worktree step", result.Report)
	}
}
