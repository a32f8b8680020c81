// Package testutil provides test fixtures and a mocked application
// environment for command tests.
//
// # Fixtures
//
// Fixtures are embedded using go:embed:
//
//	fixtures/valid_config.toml
//	fixtures/invalid_config.toml
//	fixtures/worktree_list.txt
//
// Config fixtures decode over config.Default without validation:
//
//	cfg, err := testutil.ValidConfig()
//	cfg, err := testutil.InvalidConfig()
//
// # Test Environment
//
// NewTestEnv installs an app.App backed by system.MockRunner and
// runtime.MockEngine as app.Default:
//
//	env := testutil.NewTestEnv(t)
//	defer env.Cleanup()
//
//	env.SetWorktrees("main", testutil.Worktree{Path: env.Worktree("feature-login"), Branch: "feature/login"})
//	env.Engine.AddContainer("vsc-feature-login-1a2b", true, nil)
package testutil
