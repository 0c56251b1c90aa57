package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// TransportStep toggles the transports to run. Space flips the highlighted
// entry, enter confirms the set.
type TransportStep struct {
	choices []string
	enabled map[int]bool
	cursor  int
}

func NewTransportStep() Step {
	return &TransportStep{
		choices: []string{"HTTP API", "Telegram", "CLI"},
		enabled: map[int]bool{0: true},
	}
}

func (s *TransportStep) Init() tea.Cmd {
	return nil
}

func (s *TransportStep) Update(msg tea.Msg, state *SetupState, width, height int) (Step, tea.Cmd) {
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
		case " ":
			s.enabled[s.cursor] = !s.enabled[s.cursor]
		case "enter":
			state.Config.EnableHTTP = s.enabled[0]
			state.Config.EnableTelegram = s.enabled[1]
			state.Config.EnableCLI = s.enabled[2]
			return nil, nil
		}
	}
	return s, nil
}

func (s *TransportStep) View(state *SetupState) string {
	var b strings.Builder
	b.WriteString("Select transports (space toggles, enter confirms):\n\n")
	for i, choice := range s.choices {
		mark := "[ ]"
		if s.enabled[i] {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, choice)
		if s.cursor == i {
			b.WriteString(selStyle.Render("❯ "+line) + "\n")
		} else {
			b.WriteString(itemStyle.Render("  "+line) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
