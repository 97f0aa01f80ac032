package cli

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/chatmtl/internal/core"
	"github.com/sandevgo/chatmtl/internal/service/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	texts []string
	err   error
	reply string
}

func (f *fakeSubmitter) Submit(_ context.Context, text string) (<-chan session.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.texts = append(f.texts, text)
	ch := make(chan session.Result, 1)
	ch <- session.Result{Reply: f.reply}
	return ch, nil
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(model)
	require.True(t, ok)
	return out, cmd
}

func enter(t *testing.T, m model, text string) (model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(text)
	return update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
}

func TestModel_SubmitsInput(t *testing.T) {
	sub := &fakeSubmitter{reply: "Sure"}
	m := newModel(context.Background(), sub)

	m, cmd := enter(t, m, "  travel  ")
	require.NotNil(t, cmd)
	assert.Equal(t, 1, m.pending)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "thinking...")

	msg := cmd()
	assert.Equal(t, []string{"travel"}, sub.texts)
	assert.Equal(t, resultMsg{Reply: "Sure"}, msg)

	m, _ = update(t, m, msg)
	assert.Equal(t, 0, m.pending)
}

func TestModel_EmptyInputIgnored(t *testing.T) {
	sub := &fakeSubmitter{}
	m := newModel(context.Background(), sub)

	m, cmd := enter(t, m, "   ")
	assert.Nil(t, cmd)
	assert.Zero(t, m.pending)
}

func TestModel_SubmitError(t *testing.T) {
	sub := &fakeSubmitter{err: core.ErrQueueFull}
	m := newModel(context.Background(), sub)

	m, cmd := enter(t, m, "hello")
	m, _ = update(t, m, cmd())

	assert.Zero(t, m.pending)
	assert.Contains(t, m.View(), core.ErrQueueFull.Error())
}

func TestModel_TurnsRendered(t *testing.T) {
	m := newModel(context.Background(), &fakeSubmitter{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, turnMsg{sender: core.SenderUser, message: "travel"})
	m, _ = update(t, m, turnMsg{sender: core.SenderBot, message: "Try **skiing**."})

	require.Len(t, m.turns, 2)
	view := m.View()
	assert.Contains(t, view, "User:")
	assert.Contains(t, view, "Bot:")
	assert.Contains(t, view, "skiing")
	assert.NotContains(t, view, "**skiing**")
}

func TestModel_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  func(m model) (model, tea.Cmd)
	}{
		{"ctrl+c", func(m model) (model, tea.Cmd) { return update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC}) }},
		{"esc", func(m model) (model, tea.Cmd) { return update(t, m, tea.KeyMsg{Type: tea.KeyEsc}) }},
		{"exit", func(m model) (model, tea.Cmd) { return enter(t, m, "exit") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &fakeSubmitter{}
			m, cmd := tt.msg(newModel(context.Background(), sub))
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.True(t, m.quitting)
			assert.Empty(t, sub.texts)
		})
	}
}
