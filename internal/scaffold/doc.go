// Package scaffold writes the .devcontainer descriptor a sandbox is built from.
//
// Templates are embedded in the binary and rendered with text/template. All
// paths are joined with securejoin so nothing is written outside the target
// directory, even through symlinks.
package scaffold
