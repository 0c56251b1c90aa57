package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ModelStep asks for the model identifier as free text. Model catalogs change
// too fast to enumerate, and several providers cannot list models at all.
type ModelStep struct {
	input textinput.Model
}

func NewModelStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 128
	ti.Width = 50
	ti.Placeholder = "gpt-4.1-mini"
	return &ModelStep{input: ti}
}

func (s *ModelStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *ModelStep) Update(msg tea.Msg, state *SetupState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" {
			val = s.input.Placeholder
		}
		state.Config.Model = val
		return nil, nil
	}
	return s, cmd
}

func (s *ModelStep) View(state *SetupState) string {
	return "Enter the model identifier:\n\n" + s.input.View() + "\n\n(press enter to confirm)\n"
}
