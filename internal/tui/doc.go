// Package tui provides terminal user interface components for grove.
//
// This package uses the Bubble Tea framework for the interactive parts of the
// CLI: the worktree picker behind "grove list --pick", the creation wizard it
// opens, and the yes/no prompt used for confirmations.
//
// # Worktree Picker
//
//	result, err := tui.RunPicker(entries, tui.PickerOptions{DefaultPath: defaultPath})
//	switch result.Action {
//	case tui.ActionOpen:
//	    // print result.Worktree.Path
//	case tui.ActionNew:
//	    // create from result.Create
//	case tui.ActionMerge, tui.ActionDelete, tui.ActionStart:
//	    // act on result.Worktree
//	case tui.ActionQuit:
//	}
//
// # Picker Features
//
//   - Worktrees grouped by parent directory, the main worktree first
//   - Keyboard navigation (j/k or arrows), headers auto-skipped
//   - Quick actions: Enter (open), n (new), m (merge), d (delete), s (start sandbox), q (quit)
//   - Sandbox state from the local-folder label
//
// # Confirmations
//
// ConfirmPrompter implements lifecycle.Prompter. Dismissing the prompt
// cancels the whole operation.
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - list and textinput components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
