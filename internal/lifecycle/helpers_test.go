package lifecycle

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/firefly-engineering/grove/internal/config"
	"github.com/firefly-engineering/grove/internal/runtime"
	"github.com/firefly-engineering/grove/internal/system"
	"github.com/firefly-engineering/grove/internal/worktree"
)

// fakePrompter answers from a queue and records the questions asked.
type fakePrompter struct {
	answers   []bool
	err       error
	questions []string
}

func (p *fakePrompter) Confirm(question string) (bool, error) {
	p.questions = append(p.questions, question)
	if p.err != nil {
		return false, p.err
	}
	if len(p.answers) == 0 {
		return false, nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

type testEnv struct {
	cfg    *config.Config
	runner *system.MockRunner
	engine *runtime.MockEngine
	prompt *fakePrompter
	orch   *Orchestrator
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	env := &testEnv{
		cfg:    config.Default(),
		runner: system.NewMockRunner(),
		engine: runtime.NewMockEngine(),
		prompt: &fakePrompter{},
	}
	opts = append([]Option{WithPrompter(env.prompt)}, opts...)
	env.orch = New(env.cfg, worktree.NewRepository(env.runner), env.engine, opts...)
	return env
}

func (e *testEnv) dirty(path string) {
	e.runner.AddRule(func(dir, name string, args []string) bool {
		return dir == path && name == "git" && len(args) == 2 && args[0] == "status" && args[1] == "--porcelain"
	}, system.MockResponse{Stdout: " M main.go\n"})
}

var featureLogin = worktree.WorkingCopy{
	DisplayName: "feature-login",
	Path:        "/w/feature-login",
	Branch:      "feature/login",
}

// requireGit skips the test if git is not available
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH, skipping test")
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %s: %v", args, output, err)
	}
}

func setupGitRepo(t *testing.T) string {
	t.Helper()
	requireGit(t)

	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	repo := filepath.Join(root, "app")
	if err := os.MkdirAll(repo, 0755); err != nil {
		t.Fatal(err)
	}

	runGit(t, repo, "init", "-b", "main")
	runGit(t, repo, "config", "user.email", "test@test.com")
	runGit(t, repo, "config", "user.name", "Test User")
	runGit(t, repo, "config", "commit.gpgsign", "false")

	if err := os.WriteFile(filepath.Join(repo, "README.md"), []byte("# Test\n"), 0644); err != nil {
		t.Fatal(err)
	}
	runGit(t, repo, "add", ".")
	runGit(t, repo, "commit", "-m", "Initial commit")
	return repo
}
