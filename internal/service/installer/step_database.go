package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// DatabasePathStep overrides where the sqlite store lives. Empty keeps the
// runtime-directory default.
type DatabasePathStep struct {
	input textinput.Model
}

func NewDatabasePathStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.Width = 50
	ti.Placeholder = "leave empty for <runtime>/showeasy.db"
	return &DatabasePathStep{input: ti}
}

func (s *DatabasePathStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *DatabasePathStep) Update(msg tea.Msg, state *SetupState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		state.Config.DatabasePath = strings.TrimSpace(s.input.Value())
		return nil, nil
	}
	return s, cmd
}

func (s *DatabasePathStep) View(state *SetupState) string {
	return "Enter the sqlite database path:\n\n" + s.input.View() + "\n\n(press enter to confirm, empty keeps the default)\n"
}
