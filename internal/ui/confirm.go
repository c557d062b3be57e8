package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ConfirmModel is a yes/no confirmation prompt
type ConfirmModel struct {
	prompt       string
	defaultValue bool
	selected     bool
	confirmed    bool
	cancelled    bool
}

// NewConfirm creates a new confirmation prompt
func NewConfirm(prompt string, defaultYes bool) ConfirmModel {
	return ConfirmModel{
		prompt:       prompt,
		defaultValue: defaultYes,
		selected:     defaultYes,
	}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y":
			m.selected = true
			m.confirmed = true
			return m, tea.Quit
		case "n", "N":
			m.selected = false
			m.confirmed = true
			return m, tea.Quit
		case "enter":
			m.confirmed = true
			return m, tea.Quit
		case "left", "right", "tab":
			m.selected = !m.selected
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m ConfirmModel) View() string {
	if m.confirmed || m.cancelled {
		return ""
	}

	yes := UnselectedStyle.Render("  yes  ")
	no := SelectedStyle.Render("[ no ]")
	if m.selected {
		yes = SelectedStyle.Render("[ yes ]")
		no = UnselectedStyle.Render("  no  ")
	}

	return fmt.Sprintf(
		"%s %s\n\n  %s %s\n\n%s",
		IconShip,
		SubtitleStyle.Render(m.prompt),
		yes,
		no,
		HelpStyle.Render("arrows switch, y/n answer, enter accept, esc abort"),
	)
}

// IsConfirmed returns whether the user confirmed (and said yes)
func (m ConfirmModel) IsConfirmed() bool {
	return m.confirmed && m.selected
}

// IsCancelled returns whether the user cancelled
func (m ConfirmModel) IsCancelled() bool {
	return m.cancelled
}
