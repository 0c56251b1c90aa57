package installer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// APIKeyStep collects provider credentials. Ollama needs a base URL instead of
// a key, custom needs both a URL and a key.
type APIKeyStep struct {
	keyInput textinput.Model
	urlInput textinput.Model
	provider string
	askURL   bool
	urlDone  bool
	title    string
}

func NewAPIKeyStep() Step {
	return &APIKeyStep{}
}

func (s *APIKeyStep) Init() tea.Cmd {
	return nil
}

func (s *APIKeyStep) initProvider(state *SetupState) bool {
	s.provider = strings.ToLower(state.Config.Provider)
	if s.provider == "" {
		return false
	}

	s.keyInput = textinput.New()
	s.keyInput.CharLimit = 255
	s.keyInput.Width = 40
	s.keyInput.EchoMode = textinput.EchoPassword
	s.keyInput.EchoCharacter = '•'

	switch s.provider {
	case "openai":
		s.title = "OpenAI API Key"
		s.keyInput.Placeholder = "sk-..."
	case "openrouter":
		s.title = "OpenRouter API Key"
		s.keyInput.Placeholder = "sk-or-v1-..."
	case "ollama":
		// Local runtime, no key.
		s.askURL = true
		s.urlInput = textinput.New()
		s.urlInput.Width = 50
		s.urlInput.Placeholder = "http://localhost:11434"
		s.urlInput.Focus()
		return true
	case "custom":
		s.title = "Custom OpenAI-compatible API Key"
		s.keyInput.Placeholder = "optional - press Enter to skip"
		s.keyInput.EchoMode = textinput.EchoNormal
		s.askURL = true
		s.urlInput = textinput.New()
		s.urlInput.Width = 50
		s.urlInput.Placeholder = "https://api.example.com"
		s.urlInput.Focus()
		return true
	default:
		return false
	}

	s.keyInput.Focus()
	return true
}

func (s *APIKeyStep) Update(msg tea.Msg, state *SetupState, width, height int) (Step, tea.Cmd) {
	if s.provider == "" {
		if !s.initProvider(state) {
			return nil, nil
		}
		return s, textinput.Blink
	}

	var cmd tea.Cmd

	if s.askURL && !s.urlDone {
		s.urlInput, cmd = s.urlInput.Update(msg)
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
			val := strings.TrimSpace(s.urlInput.Value())
			if val == "" {
				val = s.urlInput.Placeholder
			}
			switch s.provider {
			case "ollama":
				state.Config.OllamaBaseURL = val
				return nil, nil
			case "custom":
				state.Config.CustomBaseURL = val
				s.urlDone = true
				s.keyInput.Focus()
				return s, textinput.Blink
			}
		}
		return s, cmd
	}

	s.keyInput, cmd = s.keyInput.Update(msg)
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := s.keyInput.Value()
		switch s.provider {
		case "openai":
			state.Config.OpenAIAPIKey = val
		case "openrouter":
			state.Config.OpenRouterAPIKey = val
		case "custom":
			state.Config.CustomAPIKey = val
		}
		return nil, nil
	}
	return s, cmd
}

func (s *APIKeyStep) View(state *SetupState) string {
	if s.provider == "" {
		if !s.initProvider(state) {
			return "Loading..."
		}
	}

	if s.askURL && !s.urlDone {
		return "Enter the provider base URL:\n\n" + s.urlInput.View() + "\n\n(press enter to confirm)\n"
	}

	return fmt.Sprintf("Enter your %s:\n\n%s\n\n(press enter to confirm)\n", s.title, s.keyInput.View())
}
