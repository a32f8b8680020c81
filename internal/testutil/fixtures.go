package testutil

import (
	"embed"

	"github.com/BurntSushi/toml"

	"github.com/firefly-engineering/grove/internal/config"
)

//go:embed fixtures/*
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// LoadConfigFixture decodes a TOML fixture over the defaults without
// validating it.
func LoadConfigFixture(name string) (*config.Config, error) {
	data, err := LoadFixture(name)
	if err != nil {
		return nil, err
	}
	cfg := config.Default()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidConfig returns the valid config fixture.
func ValidConfig() (*config.Config, error) {
	return LoadConfigFixture("valid_config.toml")
}

// InvalidConfig returns the invalid config fixture.
func InvalidConfig() (*config.Config, error) {
	return LoadConfigFixture("invalid_config.toml")
}

// WorktreeListing returns `git worktree list --porcelain` output for a
// repository at /src/app with one linked worktree, one bare entry and one
// detached entry.
func WorktreeListing() string {
	data, err := LoadFixture("worktree_list.txt")
	if err != nil {
		panic(err)
	}
	return string(data)
}
