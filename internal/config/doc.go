// Package config loads grove's layered TOML configuration.
//
// Files are applied over the built-in defaults in this order:
//
//  1. $GROVE_CONFIG, or <user config dir>/grove/config.toml
//  2. <repository root>/.grove.toml
//
// A key set in a later file overrides the same key from an earlier one; keys
// that are not set keep their previous value. Unknown keys are logged and
// otherwise ignored.
//
// Example:
//
//	[worktree]
//	parent_dir = "../{repo}.worktrees"
//	base_branch = "main"
//
//	[sandbox]
//	name = "claude-yolo"
//	mode = "normal"
//	wait_interval = "500ms"
//
//	[cleanup]
//	high_confidence_only = true
//
// grove only reads configuration. It keeps no state of its own: worktrees are
// always listed from git and sandbox resources from the container engine.
package config
