// Package tui provides terminal user interface components for grove
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/grove/internal/sandbox"
	"github.com/firefly-engineering/grove/internal/worktree"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionOpen
	ActionNew
	ActionMerge
	ActionDelete
	ActionStart
	ActionQuit
)

// Entry is one worktree shown by the picker.
type Entry struct {
	Worktree worktree.WorkingCopy
	Sandbox  sandbox.State
}

// PickerResult holds the result of the picker
type PickerResult struct {
	Action   Action
	Worktree *worktree.WorkingCopy

	// Create is set when ActionNew completed the wizard.
	Create *CreateOptions
}

// PickerOptions configures the picker.
type PickerOptions struct {
	// DefaultPath suggests a worktree path for a branch in the wizard.
	DefaultPath func(branch string) string

	// BaseBranch pre-fills the wizard's base branch.
	BaseBranch string
}

// worktreeItem implements list.Item for worktree display
type worktreeItem struct {
	entry Entry
}

func (i worktreeItem) Title() string {
	name := i.entry.Worktree.Name()
	if i.entry.Worktree.IsCurrent {
		name += " *"
	}
	return name
}

func (i worktreeItem) Description() string {
	return fmt.Sprintf("%s %s | %s | %s",
		stateIcon(i.entry.Sandbox),
		i.entry.Worktree.Branch,
		i.entry.Sandbox,
		truncatePath(i.entry.Worktree.Path, 40),
	)
}

func (i worktreeItem) FilterValue() string {
	return i.entry.Worktree.Branch + " " + i.entry.Worktree.Name()
}

func stateIcon(s sandbox.State) string {
	switch s {
	case sandbox.StateRunning:
		return "✓"
	case sandbox.StateStopped:
		return "●"
	case sandbox.StateNone:
		return "○"
	}
	return "?"
}

func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the worktree picker
type Model struct {
	list     list.Model
	result   PickerResult
	quitting bool
	opts     PickerOptions
	wizard   *wizardModel
	width    int
	height   int
}

// NewPicker creates a new worktree picker
func NewPicker(entries []Entry, opts PickerOptions) Model {
	items := buildGroupedItems(entries)

	l := list.New(items, newGroupedDelegate(), 80, 20)
	l.Title = "grove - Select Worktree"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	skipHeaders(&l, 1)

	return Model{
		list: l,
		opts: opts,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.wizard != nil {
		done, create, cmd := m.wizard.Update(msg)
		if !done {
			return m, cmd
		}
		if create == nil {
			// back to the list
			m.wizard = nil
			return m, nil
		}
		m.result = PickerResult{Action: ActionNew, Create: create}
		m.quitting = true
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			return m.choose(ActionOpen)
		case "m":
			return m.choose(ActionMerge)
		case "d":
			return m.choose(ActionDelete)
		case "s":
			return m.choose(ActionStart)
		case "n":
			w := newWizardModel(m.opts)
			w.width, w.height = m.width, m.height
			m.wizard = &w
			return m, m.wizard.Init()
		case "q", "esc":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if key, ok := msg.(tea.KeyMsg); ok && isHeaderSelected(&m.list) {
		skipHeaders(&m.list, navigationDirection(key))
	}
	return m, cmd
}

func (m Model) choose(action Action) (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(worktreeItem)
	if !ok {
		return m, nil
	}
	wc := item.entry.Worktree
	m.result = PickerResult{Action: action, Worktree: &wc}
	m.quitting = true
	return m, tea.Quit
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.wizard != nil {
		return m.wizard.View()
	}

	help := helpStyle.Render("[enter] Open  [n] New  [m] Merge  [d] Delete  [s] Start sandbox  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive worktree picker
func RunPicker(entries []Entry, opts PickerOptions) (PickerResult, error) {
	m := NewPicker(entries, opts)
	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// SimplePicker is a non-interactive rendering of the picker entries
func SimplePicker(entries []Entry) string {
	var sb strings.Builder

	sb.WriteString("grove - Worktrees\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(entries) == 0 {
		sb.WriteString("No worktrees found.\n")
		sb.WriteString("Create one with: grove create <branch>\n")
		return sb.String()
	}

	for i, e := range entries {
		current := ""
		if e.Worktree.IsCurrent {
			current = " *"
		}
		sb.WriteString(fmt.Sprintf("%d. %s %s%s (%s)\n",
			i+1, stateIcon(e.Sandbox), e.Worktree.Name(), current, e.Worktree.Branch))
		sb.WriteString(fmt.Sprintf("   Sandbox: %s | Path: %s\n\n",
			e.Sandbox, truncatePath(e.Worktree.Path, 40)))
	}

	return sb.String()
}
