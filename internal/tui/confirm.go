package tui

import (
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/grove/internal/lifecycle"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	choiceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// confirmModel asks a single yes/no question.
type confirmModel struct {
	question  string
	answer    bool
	answered  bool
	cancelled bool
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.cancelled = true
		return m, tea.Quit
	case tea.KeyEnter:
		// default is no
		m.answered = true
		return m, tea.Quit
	}

	switch strings.ToLower(keyMsg.String()) {
	case "y":
		m.answer, m.answered = true, true
		return m, tea.Quit
	case "n":
		m.answer, m.answered = false, true
		return m, tea.Quit
	case "q":
		m.cancelled = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered || m.cancelled {
		return ""
	}
	return questionStyle.Render(m.question) + " " + choiceStyle.Render("[y/N]") + " "
}

// ConfirmPrompter asks questions with a small bubbletea program. Esc,
// Ctrl+C and q dismiss the prompt, which yields lifecycle.ErrPromptCancelled.
type ConfirmPrompter struct {
	In  io.Reader
	Out io.Writer
}

// Confirm implements lifecycle.Prompter.
func (p ConfirmPrompter) Confirm(question string) (bool, error) {
	var opts []tea.ProgramOption
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}

	final, err := tea.NewProgram(confirmModel{question: question}, opts...).Run()
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.cancelled || !m.answered {
		return false, lifecycle.ErrPromptCancelled
	}
	return m.answer, nil
}

var _ lifecycle.Prompter = ConfirmPrompter{}
