package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep reconciles derived values before the save.
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *SetupState, width, height int) (Step, tea.Cmd) {
	// Telegram without a token cannot start.
	if state.Config.TelegramToken == "" {
		state.Config.EnableTelegram = false
	}

	// Something must answer.
	if !state.Config.EnableHTTP && !state.Config.EnableTelegram && !state.Config.EnableCLI {
		state.Config.EnableHTTP = true
	}

	return nil, nil
}

func (s *FinalizationStep) View(state *SetupState) string {
	return "Finalizing configuration...\n"
}
