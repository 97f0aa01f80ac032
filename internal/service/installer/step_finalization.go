package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FinalizationStep derives transport flags and drops intermediate values.
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(state)
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

func finalize(state *InstallState) {
	channel := state.Get(keyChannel)
	state.Set("ENABLE_TELEGRAM", boolString(state.UsesTelegram() && state.Get("TELEGRAM_TOKEN") != ""))
	state.Set("ENABLE_CLI", boolString(channel != "telegram"))

	if state.Get("CHATMTL_DEBUG") == "" {
		state.Set("CHATMTL_DEBUG", "0")
	}
	if state.Get("CHATMTL_EMBEDDING_MODEL") == "hash" {
		delete(state.EnvVars, "EMBEDDING_BASE_URL")
		delete(state.EnvVars, "EMBEDDING_MODEL_NAME")
	}

	for key, value := range state.EnvVars {
		if value == "" {
			delete(state.EnvVars, key)
		}
	}
	delete(state.EnvVars, keyChannel)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
