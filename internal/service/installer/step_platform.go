package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PlatformURLStep sets the public platform base URL that search-result links
// point at.
type PlatformURLStep struct {
	input textinput.Model
}

func NewPlatformURLStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.Width = 50
	ti.Placeholder = "https://showeasy.ai"
	return &PlatformURLStep{input: ti}
}

func (s *PlatformURLStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *PlatformURLStep) Update(msg tea.Msg, state *SetupState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" {
			val = s.input.Placeholder
		}
		state.Config.PlatformBaseURL = strings.TrimRight(val, "/")
		return nil, nil
	}
	return s, cmd
}

func (s *PlatformURLStep) View(state *SetupState) string {
	return "Enter the event platform base URL:\n\n" + s.input.View() + "\n\n(press enter to confirm)\n"
}
