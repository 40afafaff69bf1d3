package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// terminalPrompter asks yes/no questions on the controlling terminal. Every
// destructive step in the workflow goes through it.
type terminalPrompter struct{}

func (terminalPrompter) Confirm(prompt string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		// Ctrl-C at a prompt is a decline, not a failure.
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation prompt: %w", err)
	}
	return confirmed, nil
}
