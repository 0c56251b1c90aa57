package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// NotifyStep selects how merchant enquiry notifications go out.
type NotifyStep struct {
	choices  []string
	cursor   int
	urlInput textinput.Model
	askURL   bool
}

func NewNotifyStep() Step {
	ti := textinput.New()
	ti.Width = 50
	ti.Placeholder = "https://hooks.example.com/enquiries"
	return &NotifyStep{
		choices:  []string{"log", "webhook"},
		urlInput: ti,
	}
}

func (s *NotifyStep) Init() tea.Cmd {
	return nil
}

func (s *NotifyStep) Update(msg tea.Msg, state *SetupState, width, height int) (Step, tea.Cmd) {
	if s.askURL {
		var cmd tea.Cmd
		s.urlInput, cmd = s.urlInput.Update(msg)
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
			val := strings.TrimSpace(s.urlInput.Value())
			if val != "" {
				state.Config.WebhookURL = val
				return nil, nil
			}
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
			state.Config.NotifyChannel = s.choices[s.cursor]
			if s.choices[s.cursor] == "webhook" {
				s.askURL = true
				s.urlInput.Focus()
				return s, textinput.Blink
			}
			return nil, nil
		}
	}
	return s, nil
}

func (s *NotifyStep) View(state *SetupState) string {
	if s.askURL {
		return "Enter the notification webhook URL:\n\n" + s.urlInput.View() + "\n\n(press enter to confirm)\n"
	}

	var b strings.Builder
	b.WriteString("Select the notification channel:\n\n")
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
