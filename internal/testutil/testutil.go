// Package testutil provides test utilities for command tests
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/firefly-engineering/grove/internal/app"
	"github.com/firefly-engineering/grove/internal/config"
	"github.com/firefly-engineering/grove/internal/lifecycle"
	"github.com/firefly-engineering/grove/internal/runtime"
	"github.com/firefly-engineering/grove/internal/system"
)

// TestEnv holds the test environment
type TestEnv struct {
	T        *testing.T
	TmpDir   string
	RepoRoot string
	Config   *config.Config
	Runner   *system.MockRunner
	Engine   *runtime.MockEngine
	App      *app.App
	cleanup  func()
	gen      int
}

// Worktree describes one entry of the mocked `git worktree list`.
type Worktree struct {
	Path   string
	Branch string
}

// NewTestEnv creates a test environment with a mock runner and engine. The
// repository root is a real directory, but git itself is mocked: by default
// it lists only the root on branch main.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}
	repoRoot := filepath.Join(tmpDir, "app")
	if err := os.MkdirAll(repoRoot, 0755); err != nil {
		t.Fatalf("Failed to create repository dir: %v", err)
	}

	cfg := config.Default()
	cfg.Sandbox.WaitInterval = config.Duration{}
	cfg.SharedConfig.GlobalPath = ""

	runner := system.NewMockRunner()
	engine := runtime.NewMockEngine()

	testApp := app.New(
		app.WithRunner(runner),
		app.WithEngine(engine),
		app.WithConfig(cfg),
		app.WithPrompter(lifecycle.AutoPrompter{Answer: false}),
	)

	originalDefault := app.Default
	app.SetDefault(testApp)

	env := &TestEnv{
		T:        t,
		TmpDir:   tmpDir,
		RepoRoot: repoRoot,
		Config:   cfg,
		Runner:   runner,
		Engine:   engine,
		App:      testApp,
		cleanup: func() {
			app.SetDefault(originalDefault)
		},
	}
	runner.AddExactMatch("git", []string{"rev-parse", "--show-toplevel"}, system.MockResponse{Stdout: repoRoot + "\n"})
	env.SetWorktrees("main")
	return env
}

// Cleanup restores the original app default
func (e *TestEnv) Cleanup() {
	if e.cleanup != nil {
		e.cleanup()
	}
}

// SetWorktrees makes git list the repository root on rootBranch plus the
// given linked worktrees. rootBranch is also reported as the current branch.
// A later call replaces the listing of an earlier one.
func (e *TestEnv) SetWorktrees(rootBranch string, linked ...Worktree) {
	e.T.Helper()

	var sb strings.Builder
	all := append([]Worktree{{Path: e.RepoRoot, Branch: rootBranch}}, linked...)
	for i, wt := range all {
		fmt.Fprintf(&sb, "worktree %s\nHEAD %040d\nbranch refs/heads/%s\n\n", wt.Path, i+1, wt.Branch)
	}

	e.gen++
	e.override(system.MockResponse{Stdout: sb.String()}, "worktree", "list", "--porcelain")
	e.override(system.MockResponse{Stdout: rootBranch + "\n"}, "branch", "--show-current")
}

// SetBranches makes git list the given local branches. SetWorktrees resets
// it, so call it afterwards.
func (e *TestEnv) SetBranches(branches ...string) {
	e.T.Helper()
	e.override(system.MockResponse{Stdout: strings.Join(branches, "\n") + "\n"},
		"for-each-ref", "--format=%(refname:short)", "refs/heads")
}

// override registers a git rule that shadows the rules SetWorktrees added
// before it.
func (e *TestEnv) override(resp system.MockResponse, args ...string) {
	gen := e.gen
	want := strings.Join(args, " ")
	e.Runner.AddRule(func(dir, name string, a []string) bool {
		return gen == e.gen && name == "git" && strings.Join(a, " ") == want
	}, resp)
}

// Worktree returns the path a linked worktree named name would have, next
// to the repository root.
func (e *TestEnv) Worktree(name string) string {
	return filepath.Join(e.TmpDir, name)
}

// CreateDescriptor creates a .devcontainer directory in dir.
func (e *TestEnv) CreateDescriptor(dir string) {
	e.T.Helper()

	if err := os.MkdirAll(filepath.Join(dir, ".devcontainer"), 0755); err != nil {
		e.T.Fatalf("Failed to create descriptor: %v", err)
	}
}
