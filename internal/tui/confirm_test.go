package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/firefly-engineering/grove/internal/lifecycle"
)

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name      string
		key       tea.KeyMsg
		answer    bool
		cancelled bool
	}{
		{"yes", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}, true, false},
		{"upper yes", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'Y'}}, true, false},
		{"no", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}, false, false},
		{"enter defaults to no", tea.KeyMsg{Type: tea.KeyEnter}, false, false},
		{"esc cancels", tea.KeyMsg{Type: tea.KeyEsc}, false, true},
		{"ctrl+c cancels", tea.KeyMsg{Type: tea.KeyCtrlC}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := confirmModel{question: "Delete?"}
			next, cmd := m.Update(tt.key)
			got := next.(confirmModel)

			if got.answer != tt.answer || got.cancelled != tt.cancelled {
				t.Errorf("answer = %v, cancelled = %v; want %v, %v", got.answer, got.cancelled, tt.answer, tt.cancelled)
			}
			if cmd == nil {
				t.Error("every answer should quit")
			}
			if got.View() != "" {
				t.Error("view should be empty once answered")
			}
		})
	}
}

func TestConfirmModelIgnoresOtherKeys(t *testing.T) {
	m := confirmModel{question: "Delete?"}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if cmd != nil || next.(confirmModel).answered {
		t.Error("unrelated keys should be ignored")
	}
	if !strings.Contains(m.View(), "Delete?") || !strings.Contains(m.View(), "[y/N]") {
		t.Errorf("View() = %q", m.View())
	}
}

func TestConfirmPrompter(t *testing.T) {
	var out bytes.Buffer
	p := ConfirmPrompter{In: strings.NewReader("y"), Out: &out}

	ok, err := p.Confirm("Continue?")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if !ok {
		t.Error("Confirm() = false, want true")
	}

	p = ConfirmPrompter{In: strings.NewReader("q"), Out: &out}
	if _, err := p.Confirm("Continue?"); !errors.Is(err, lifecycle.ErrPromptCancelled) {
		t.Errorf("err = %v, want ErrPromptCancelled", err)
	}
}
