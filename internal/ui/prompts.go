package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// AskConfirm prompts for yes/no confirmation
func AskConfirm(prompt string, defaultYes bool) (bool, error) {
	m := NewConfirm(prompt, defaultYes)
	p := tea.NewProgram(m)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	result := finalModel.(ConfirmModel)
	if result.IsCancelled() {
		return false, fmt.Errorf("cancelled")
	}

	return result.IsConfirmed(), nil
}
