package installer

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/chatmtl/internal/config"
	"github.com/sandevgo/chatmtl/internal/core"
)

var ErrInterrupted = errors.New("installation interrupted")

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Step is one screen of the wizard. Returning a nil Step moves on.
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

func provider(names ...string) func(*InstallState) bool {
	return func(s *InstallState) bool {
		for _, n := range names {
			if s.Provider() == n {
				return true
			}
		}
		return false
	}
}

func embeddings(model string) func(*InstallState) bool {
	return func(s *InstallState) bool { return s.Get("CHATMTL_EMBEDDING_MODEL") == model }
}

func getSteps() []Step {
	return []Step{
		NewChoiceStep("Select your LLM provider", "LLM_PROVIDER",
			choice{"OpenRouter", "openrouter"},
			choice{"OpenAI", "openai"},
			choice{"Anthropic", "anthropic"},
			choice{"Ollama", "ollama"},
			choice{"Custom OpenAI-compatible", "custom"},
		),
		NewInputStep("your OpenRouter API key", "OPENROUTER_API_KEY", "sk-or-v1-...",
			secret(), required(), when(provider("openrouter"))),
		NewInputStep("your OpenAI API key", "OPENAI_API_KEY", "sk-...",
			secret(), required(), when(provider("openai"))),
		NewInputStep("your Anthropic API key", "ANTHROPIC_API_KEY", "sk-ant-...",
			secret(), required(), when(provider("anthropic"))),
		NewInputStep("the Ollama base URL", "OLLAMA_BASE_URL", "",
			fallback("http://localhost:11434"), when(provider("ollama"))),
		NewInputStep("the custom OpenAI base URL", "CUSTOM_OPENAI_BASE_URL", "https://api.example.com/v1",
			required(), when(provider("custom"))),
		NewInputStep("the custom API key", "CUSTOM_OPENAI_API_KEY", "",
			secret(), when(provider("custom"))),
		NewInputStep("the chat model", "LLM_MODEL", "",
			fallback("google/gemma-3-27b-it:free")),
		NewChoiceStep("Select the embedding model", "CHATMTL_EMBEDDING_MODEL",
			choice{"Local hashing model (offline)", "hash"},
			choice{"OpenAI-compatible embeddings API", "openai"},
		),
		NewInputStep("the embeddings base URL", "EMBEDDING_BASE_URL", "",
			fallback("http://localhost:11434"), when(embeddings("openai"))),
		NewInputStep("the embeddings model", "EMBEDDING_MODEL_NAME", "",
			fallback("nomic-embed-text"), when(embeddings("openai"))),
		NewChoiceStep("Select the conversation mode", "CONVERSATION_MODE",
			choice{"Single question per topic", config.ModeSingle},
			choice{"Sustained conversation", config.ModeSustained},
		),
		NewChoiceStep("Select your chat channel", keyChannel,
			choice{"Terminal", "cli"},
			choice{"Telegram", "telegram"},
			choice{"Terminal and Telegram", "both"},
		),
		NewInputStep("your Telegram bot token", "TELEGRAM_TOKEN", "123456789:ABCDEF...",
			secret(), required(), when((*InstallState).UsesTelegram)),
		NewInputStep("your Telegram user ID (owner)", "TELEGRAM_OWNER_ID", "123456789",
			required(), when((*InstallState).UsesTelegram)),
		NewFinalizationStep(),
		NewSaveEnvStep(),
		NewInitializeFilesStep(),
	}
}

type nextMsg struct{}

// model drives the steps in order.
type model struct {
	steps       []Step
	currentStep int
	state       *InstallState
	quitting    bool
	width       int
	height      int
}

func initialModel() model {
	return model{
		steps: getSteps(),
		state: NewInstallState(),
	}
}

func (m model) Init() tea.Cmd {
	if len(m.steps) > 0 {
		return m.steps[0].Init()
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
	}

	if m.currentStep >= len(m.steps) {
		return m, tea.Quit
	}

	next, cmd := m.steps[m.currentStep].Update(msg, m.state, m.width, m.height)
	if next != nil {
		m.steps[m.currentStep] = next
		return m, cmd
	}

	m.currentStep++
	if m.currentStep >= len(m.steps) {
		return m, tea.Quit
	}
	// skipped steps advance on the next message, so nudge them
	return m, tea.Batch(m.steps[m.currentStep].Init(), func() tea.Msg { return nextMsg{} })
}

func (m model) View() string {
	if m.quitting {
		return "Installation cancelled.\n"
	}
	if m.currentStep >= len(m.steps) {
		return "Configuration complete!\n"
	}
	return titleStyle.Render("Installing "+core.AppName) + "\n\n" + m.steps[m.currentStep].View(m.state)
}

// RunWizard runs the interactive setup and returns the collected values.
func RunWizard() (*InstallState, error) {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	final := m.(model)
	if final.quitting {
		return nil, ErrInterrupted
	}
	if final.currentStep < len(final.steps) {
		return nil, fmt.Errorf("installation stopped at step %d", final.currentStep+1)
	}
	return final.state, nil
}
