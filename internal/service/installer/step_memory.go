package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// MemoryStep selects the conversation store backend, with a follow-up address
// prompt when redis is chosen.
type MemoryStep struct {
	choices   []string
	cursor    int
	addrInput textinput.Model
	askAddr   bool
}

func NewMemoryStep() Step {
	ti := textinput.New()
	ti.Width = 40
	ti.Placeholder = "localhost:6379"
	return &MemoryStep{
		choices:   []string{"file", "redis", "sqlite"},
		addrInput: ti,
	}
}

func (s *MemoryStep) Init() tea.Cmd {
	return nil
}

func (s *MemoryStep) Update(msg tea.Msg, state *SetupState, width, height int) (Step, tea.Cmd) {
	if s.askAddr {
		var cmd tea.Cmd
		s.addrInput, cmd = s.addrInput.Update(msg)
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
			val := strings.TrimSpace(s.addrInput.Value())
			if val == "" {
				val = s.addrInput.Placeholder
			}
			state.Config.RedisAddr = val
			return nil, nil
		}
		return s, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			state.Config.MemoryBackend = s.choices[s.cursor]
			if s.choices[s.cursor] == "redis" {
				s.askAddr = true
				s.addrInput.Focus()
				return s, textinput.Blink
			}
			return nil, nil
		}
	}
	return s, nil
}

func (s *MemoryStep) View(state *SetupState) string {
	if s.askAddr {
		return "Enter the Redis address:\n\n" + s.addrInput.View() + "\n\n(press enter to confirm)\n"
	}

	var b strings.Builder
	b.WriteString("Select the conversation memory backend:\n\n")
	for i, choice := range s.choices {
		cursor := " "
		if s.cursor == i {
			cursor = "❯"
			b.WriteString(selStyle.Render(fmt.Sprintf("%s %s", cursor, choice)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("%s %s", cursor, choice)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
