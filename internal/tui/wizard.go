package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/grove/internal/worktree"
)

// CreateOptions holds what the wizard collected for a new worktree.
type CreateOptions struct {
	Branch           string
	Path             string
	Base             string
	Scaffold         bool
	CopySharedConfig bool
}

// wizardStep identifies the current step.
type wizardStep int

const (
	stepBranch wizardStep = iota
	stepPath
	stepOptions
	stepConfirm
)

// optionField identifies a field in the options step.
type optionField int

const (
	optBase optionField = iota
	optScaffold
	optCopyConfig
	optFieldCount
)

// wizardModel drives the multi-step creation wizard.
type wizardModel struct {
	step wizardStep
	opts PickerOptions

	branchInput textinput.Model
	pathInput   textinput.Model
	baseInput   textinput.Model

	optCursor  optionField
	scaffold   bool
	copyConfig bool

	selectedBranch string
	selectedPath   string
	branchErr      string

	width  int
	height int
}

var (
	wizardTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				MarginBottom(1)

	wizardStepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	wizardActiveStepStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39"))

	wizardLabelStyle = lipgloss.NewStyle().
				Bold(true).
				MarginBottom(1)

	wizardValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39"))

	wizardDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	wizardErrStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

func newWizardModel(opts PickerOptions) wizardModel {
	bi := textinput.New()
	bi.Placeholder = "feature/my-change"
	bi.Focus()
	bi.CharLimit = 200
	bi.Width = 50

	pi := textinput.New()
	pi.Placeholder = "/path/to/worktree"
	pi.CharLimit = 256
	pi.Width = 60
	pi.ShowSuggestions = true

	base := textinput.New()
	base.Placeholder = "HEAD"
	base.CharLimit = 200
	base.Width = 40
	base.SetValue(opts.BaseBranch)

	return wizardModel{
		step:        stepBranch,
		opts:        opts,
		branchInput: bi,
		pathInput:   pi,
		baseInput:   base,
		scaffold:    true,
	}
}

func (w *wizardModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update processes a message and returns (done, createOptions, cmd).
// done=true with non-nil opts means wizard completed successfully.
// done=true with nil opts means wizard was cancelled.
func (w *wizardModel) Update(msg tea.Msg) (bool, *CreateOptions, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyCtrlC:
			return true, nil, nil
		case tea.KeyEsc:
			return w.handleBack()
		}
	}

	switch w.step {
	case stepBranch:
		return w.updateBranch(msg)
	case stepPath:
		return w.updatePath(msg)
	case stepOptions:
		return w.updateOptions(msg)
	case stepConfirm:
		return w.updateConfirm(msg)
	}

	return false, nil, nil
}

func (w *wizardModel) handleBack() (bool, *CreateOptions, tea.Cmd) {
	switch w.step {
	case stepBranch:
		// Esc at first step cancels wizard
		return true, nil, nil
	case stepPath:
		w.step = stepBranch
		w.pathInput.Blur()
		w.branchInput.Focus()
		return false, nil, textinput.Blink
	case stepOptions:
		w.step = stepPath
		w.baseInput.Blur()
		w.pathInput.Focus()
		return false, nil, textinput.Blink
	case stepConfirm:
		w.step = stepOptions
		return false, nil, w.focusCurrentField()
	}
	return false, nil, nil
}

func (w *wizardModel) updateBranch(msg tea.Msg) (bool, *CreateOptions, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		branch := strings.TrimSpace(w.branchInput.Value())
		if err := worktree.ValidateBranchName(branch); err != nil {
			w.branchErr = err.Error()
			return false, nil, nil
		}
		w.branchErr = ""
		w.selectedBranch = branch
		w.step = stepPath
		w.branchInput.Blur()
		if w.pathInput.Value() == "" && w.opts.DefaultPath != nil {
			w.pathInput.SetValue(w.opts.DefaultPath(branch))
			w.pathInput.CursorEnd()
		}
		w.pathInput.Focus()
		return false, nil, textinput.Blink
	}

	var cmd tea.Cmd
	w.branchInput, cmd = w.branchInput.Update(msg)
	return false, nil, cmd
}

func (w *wizardModel) updatePath(msg tea.Msg) (bool, *CreateOptions, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEnter {
		path := strings.TrimSpace(w.pathInput.Value())
		if path == "" {
			return false, nil, nil
		}
		w.selectedPath = path
		w.step = stepOptions
		w.pathInput.Blur()
		return false, nil, w.focusCurrentField()
	}

	var cmd tea.Cmd
	w.pathInput, cmd = w.pathInput.Update(msg)

	w.updatePathSuggestions()

	return false, nil, cmd
}

func (w *wizardModel) focusCurrentField() tea.Cmd {
	if w.optCursor == optBase {
		w.baseInput.Focus()
		return textinput.Blink
	}
	w.baseInput.Blur()
	return nil
}

func (w *wizardModel) updateOptions(msg tea.Msg) (bool, *CreateOptions, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if w.optCursor == optBase {
			var cmd tea.Cmd
			w.baseInput, cmd = w.baseInput.Update(msg)
			return false, nil, cmd
		}
		return false, nil, nil
	}

	switch keyMsg.Type {
	case tea.KeyEnter:
		w.baseInput.Blur()
		w.step = stepConfirm
		return false, nil, nil
	case tea.KeyUp, tea.KeyShiftTab:
		w.optCursor = (w.optCursor - 1 + optFieldCount) % optFieldCount
		return false, nil, w.focusCurrentField()
	case tea.KeyDown, tea.KeyTab:
		w.optCursor = (w.optCursor + 1) % optFieldCount
		return false, nil, w.focusCurrentField()
	}

	if w.optCursor == optBase {
		var cmd tea.Cmd
		w.baseInput, cmd = w.baseInput.Update(msg)
		return false, nil, cmd
	}

	switch keyMsg.String() {
	case "j":
		w.optCursor = (w.optCursor + 1) % optFieldCount
		return false, nil, w.focusCurrentField()
	case "k":
		w.optCursor = (w.optCursor - 1 + optFieldCount) % optFieldCount
		return false, nil, w.focusCurrentField()
	case " ":
		switch w.optCursor {
		case optScaffold:
			w.scaffold = !w.scaffold
		case optCopyConfig:
			w.copyConfig = !w.copyConfig
		}
	}
	return false, nil, nil
}

func (w *wizardModel) updateConfirm(msg tea.Msg) (bool, *CreateOptions, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter", "y":
			return true, w.result(), nil
		case "n":
			// Restart wizard
			fresh := newWizardModel(w.opts)
			fresh.width, fresh.height = w.width, w.height
			*w = fresh
			return false, nil, textinput.Blink
		}
	}
	return false, nil, nil
}

func (w *wizardModel) result() *CreateOptions {
	return &CreateOptions{
		Branch:           w.selectedBranch,
		Path:             w.selectedPath,
		Base:             strings.TrimSpace(w.baseInput.Value()),
		Scaffold:         w.scaffold,
		CopySharedConfig: w.copyConfig,
	}
}

func (w *wizardModel) View() string {
	var b strings.Builder

	b.WriteString(wizardTitleStyle.Render("Create New Worktree"))
	b.WriteString("\n")
	b.WriteString(w.progressBar())
	b.WriteString("\n\n")

	switch w.step {
	case stepBranch:
		b.WriteString(wizardLabelStyle.Render("Branch:"))
		b.WriteString("\n")
		b.WriteString(w.branchInput.View())
		b.WriteString("\n\n")
		if w.branchErr != "" {
			b.WriteString(wizardErrStyle.Render(w.branchErr))
			b.WriteString("\n")
		}
		b.WriteString(wizardDimStyle.Render("An existing branch is checked out; a new one is created from the base."))
	case stepPath:
		b.WriteString(wizardLabelStyle.Render("Worktree path:"))
		b.WriteString("\n")
		b.WriteString(w.pathInput.View())
		b.WriteString("\n\n")
		b.WriteString(wizardDimStyle.Render("The directory must not exist yet. Tab to complete."))
	case stepOptions:
		b.WriteString(wizardLabelStyle.Render("Options:"))
		b.WriteString("\n\n")
		b.WriteString(w.renderBase())
		b.WriteString("\n")
		b.WriteString(w.renderToggle(optScaffold, w.scaffold, "Scaffold sandbox", "Write .devcontainer/ into the new worktree"))
		b.WriteString("\n")
		b.WriteString(w.renderToggle(optCopyConfig, w.copyConfig, "Copy shared config", "Copy the agent instruction file into the worktree"))
		b.WriteString("\n\n")
		b.WriteString(wizardDimStyle.Render("Space to toggle, Enter to continue, Esc to go back."))
	case stepConfirm:
		b.WriteString(wizardLabelStyle.Render("Confirm:"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  Branch:   %s\n", wizardValueStyle.Render(w.selectedBranch)))
		b.WriteString(fmt.Sprintf("  Path:     %s\n", wizardValueStyle.Render(w.selectedPath)))
		if v := strings.TrimSpace(w.baseInput.Value()); v != "" {
			b.WriteString(fmt.Sprintf("  Base:     %s\n", wizardValueStyle.Render(v)))
		}
		if w.scaffold {
			b.WriteString(fmt.Sprintf("  Sandbox:  %s\n", wizardValueStyle.Render("scaffold")))
		}
		if w.copyConfig {
			b.WriteString(fmt.Sprintf("  Config:   %s\n", wizardValueStyle.Render("copy")))
		}
		b.WriteString("\n")
		b.WriteString(wizardDimStyle.Render("Enter to create, n to restart, Esc to go back."))
	}

	return b.String()
}

func (w *wizardModel) progressBar() string {
	names := []string{"Branch", "Path", "Options", "Confirm"}

	var parts []string
	for i, name := range names {
		label := fmt.Sprintf("%d. %s", i+1, name)
		if wizardStep(i) == w.step {
			parts = append(parts, wizardActiveStepStyle.Render(label))
		} else {
			parts = append(parts, wizardStepStyle.Render(label))
		}
	}

	return strings.Join(parts, wizardDimStyle.Render(" > "))
}

func (w *wizardModel) renderBase() string {
	desc := "Branch a new branch starts from (empty for HEAD)"
	if w.optCursor == optBase {
		line := fmt.Sprintf("  > Base: %s", w.baseInput.View())
		return selectedStyle.Render(line) + "\n" + wizardDimStyle.Render("      "+desc)
	}
	val := strings.TrimSpace(w.baseInput.Value())
	if val == "" {
		val = "(HEAD)"
	}
	return fmt.Sprintf("    Base: %s", val) + "\n" + wizardDimStyle.Render("      "+desc)
}

func (w *wizardModel) renderToggle(field optionField, on bool, name, desc string) string {
	cursor := " "
	if w.optCursor == field {
		cursor = ">"
	}

	checked := " "
	if on {
		checked = "x"
	}

	line := fmt.Sprintf("  %s [%s] %s", cursor, checked, name)
	if w.optCursor == field {
		return selectedStyle.Render(line) + "\n" + wizardDimStyle.Render("      "+desc)
	}
	return line + "\n" + wizardDimStyle.Render("      "+desc)
}

// updatePathSuggestions offers directories next to the typed path. Only
// the parent has to exist; the worktree directory itself must not.
func (w *wizardModel) updatePathSuggestions() {
	val := w.pathInput.Value()
	if val == "" {
		w.pathInput.SetSuggestions(nil)
		return
	}

	expanded := val
	if strings.HasPrefix(val, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			expanded = home + val[1:]
		}
	}

	dir := expanded
	prefix := ""
	info, err := os.Stat(expanded)
	if err != nil || !info.IsDir() {
		dir = filepath.Dir(expanded)
		prefix = filepath.Base(expanded)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.pathInput.SetSuggestions(nil)
		return
	}

	var suggestions []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()
		if prefix != "" && !strings.HasPrefix(strings.ToLower(name), strings.ToLower(prefix)) {
			continue
		}
		full := filepath.Join(dir, name)
		if strings.HasPrefix(val, "~") {
			if home, err := os.UserHomeDir(); err == nil {
				full = "~" + strings.TrimPrefix(full, home)
			}
		}
		suggestions = append(suggestions, full)
	}

	w.pathInput.SetSuggestions(suggestions)
}
