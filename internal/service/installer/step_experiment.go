package installer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ExperimentStep opts into an A/B rollout on one pipeline module and sets the
// variant_a percentage.
type ExperimentStep struct {
	choices    []string
	cursor     int
	ratioInput textinput.Model
	askRatio   bool
	err        error
}

func NewExperimentStep() Step {
	ti := textinput.New()
	ti.Width = 10
	ti.Placeholder = "50"
	return &ExperimentStep{
		choices:    []string{"disabled", "pre_guardrails", "post_guardrails", "agent"},
		ratioInput: ti,
	}
}

func (s *ExperimentStep) Init() tea.Cmd {
	return nil
}

func (s *ExperimentStep) Update(msg tea.Msg, state *SetupState, width, height int) (Step, tea.Cmd) {
	if s.askRatio {
		var cmd tea.Cmd
		s.ratioInput, cmd = s.ratioInput.Update(msg)
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
			val := strings.TrimSpace(s.ratioInput.Value())
			if val == "" {
				val = s.ratioInput.Placeholder
			}
			ratio, err := strconv.Atoi(val)
			if err != nil || ratio < 0 || ratio > 100 {
				s.err = fmt.Errorf("ratio must be a percentage between 0 and 100")
				return s, cmd
			}
			state.Config.ABTestRatioA = ratio
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
			choice := s.choices[s.cursor]
			if choice == "disabled" {
				return nil, nil
			}
			state.Config.ABTestEnabled = true
			state.Config.ABTestModule = choice
			s.askRatio = true
			s.ratioInput.Focus()
			return s, textinput.Blink
		}
	}
	return s, nil
}

func (s *ExperimentStep) View(state *SetupState) string {
	if s.askRatio {
		out := "Enter the variant_a percentage:\n\n" + s.ratioInput.View() + "\n\n(press enter to confirm)\n"
		if s.err != nil {
			out += "\n" + errorStyle.Render(s.err.Error()) + "\n"
		}
		return out
	}

	var b strings.Builder
	b.WriteString("Run an A/B experiment on a pipeline module?\n\n")
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
