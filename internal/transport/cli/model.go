package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/chatmtl/internal/core"
	"github.com/sandevgo/chatmtl/internal/service/session"
	"github.com/sandevgo/chatmtl/internal/service/ui"
	"github.com/sandevgo/chatmtl/pkg/conv"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// title, status line and input
	chromeHeight = 5
	inputLimit   = 1000
	helpHint     = "enter to send · /help for commands · pgup/pgdown to scroll · ctrl+c to quit"
)

// Submitter queues user input for the conversation.
type Submitter interface {
	Submit(ctx context.Context, text string) (<-chan session.Result, error)
}

type turn struct {
	sender  string
	message string
}

type turnMsg turn

type resultMsg session.Result

type submitErrMsg struct{ err error }

// model is the Bubble Tea model of the terminal chat. Turns arrive as
// turnMsg through the Display sink; input leaves through Submitter.
type model struct {
	ctx       context.Context
	submitter Submitter

	viewport viewport.Model
	input    textinput.Model
	turns    []turn
	pending  int
	notice   string
	quitting bool
	width    int
}

func newModel(ctx context.Context, submitter Submitter) model {
	in := textinput.New()
	in.Placeholder = "Ask about a category, e.g. \"travel\""
	in.Prompt = "> "
	in.CharLimit = inputLimit
	in.Width = defaultWidth - 4
	in.Focus()

	return model{
		ctx:       ctx,
		submitter: submitter,
		viewport:  viewport.New(defaultWidth, defaultHeight-chromeHeight),
		input:     in,
		width:     defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.input.Width = max(msg.Width-4, 10)
		m.refresh()
		return m, nil

	case turnMsg:
		m.turns = append(m.turns, turn(msg))
		m.refresh()
		return m, nil

	case resultMsg:
		m.pending = max(m.pending-1, 0)
		if errors.Is(msg.Err, core.ErrSessionClosed) {
			m.notice = msg.Err.Error()
		}
		return m, nil

	case submitErrMsg:
		m.pending = max(m.pending-1, 0)
		m.notice = msg.err.Error()
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			m.input.Reset()
			if text == "exit" || text == "quit" {
				m.quitting = true
				return m, tea.Quit
			}
			m.notice = ""
			m.pending++
			return m, m.submit(text)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs off the event loop: Submit displays the user turn, which is a
// program message itself.
func (m model) submit(text string) tea.Cmd {
	ctx, submitter := m.ctx, m.submitter
	return func() tea.Msg {
		ch, err := submitter.Submit(ctx, text)
		if err != nil {
			return submitErrMsg{err: err}
		}
		select {
		case res := <-ch:
			return resultMsg(res)
		case <-ctx.Done():
			return resultMsg{Err: ctx.Err()}
		}
	}
}

func (m *model) refresh() {
	m.viewport.SetContent(renderTurns(m.turns, m.width))
	m.viewport.GotoBottom()
}

func renderTurns(turns []turn, width int) string {
	wrap := lipgloss.NewStyle().Width(max(width, 20))
	blocks := make([]string, 0, len(turns))
	for _, t := range turns {
		body := t.message
		if t.sender == core.SenderBot {
			body = conv.MarkdownToText(body)
		}
		label := ui.SenderStyle(t.sender).Render(t.sender + ":")
		blocks = append(blocks, wrap.Render(label+" "+body))
	}
	return strings.Join(blocks, "\n\n")
}

func (m model) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	status := helpHint
	switch {
	case m.pending > 0:
		status = "thinking..."
	case m.notice != "":
		status = m.notice
	}

	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render(core.AppName))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(ui.HintStyle.Render(status))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}
