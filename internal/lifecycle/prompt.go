package lifecycle

import stderrors "errors"

// ErrPromptCancelled is returned by a Prompter when the user dismisses a
// prompt without answering.
var ErrPromptCancelled = stderrors.New("prompt cancelled")

// Prompter asks the user questions.
type Prompter interface {
	// Confirm asks a yes/no question. It returns ErrPromptCancelled when the
	// prompt is dismissed.
	Confirm(question string) (bool, error)
}

// AutoPrompter answers every question with Answer. It is used for
// non-interactive runs.
type AutoPrompter struct {
	Answer bool
}

func (p AutoPrompter) Confirm(question string) (bool, error) {
	return p.Answer, nil
}
