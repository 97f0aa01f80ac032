package installer

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// InputStep collects one free-text value. It is skipped when when returns
// false; an empty answer falls back to fallback, or is refused when the
// value is required.
type InputStep struct {
	input    textinput.Model
	title    string
	envKey   string
	fallback string
	required bool
	when     func(*InstallState) bool
}

type inputOption func(*InputStep)

func secret() inputOption {
	return func(s *InputStep) {
		s.input.EchoMode = textinput.EchoPassword
		s.input.EchoCharacter = '•'
	}
}

func required() inputOption {
	return func(s *InputStep) { s.required = true }
}

func fallback(value string) inputOption {
	return func(s *InputStep) {
		s.fallback = value
		s.input.Placeholder = value
	}
}

func when(fn func(*InstallState) bool) inputOption {
	return func(s *InputStep) { s.when = fn }
}

func NewInputStep(title, envKey, placeholder string, opts ...inputOption) Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50
	ti.Placeholder = placeholder

	s := &InputStep{input: ti, title: title, envKey: envKey}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InputStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.when != nil && !s.when(state) {
		return nil, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" {
			val = s.fallback
		}
		if val == "" && s.required {
			return s, nil
		}
		state.Set(s.envKey, val)
		return nil, nil
	}
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	hint := "(press enter to confirm)"
	if !s.required && s.fallback == "" {
		hint = "(optional, press enter to skip)"
	}
	return "Enter " + s.title + ":\n\n" + s.input.View() + "\n\n" + hint + "\n"
}
