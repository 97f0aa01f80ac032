package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/chatmtl/pkg/log"
	"github.com/sandevgo/chatmtl/pkg/srv"
)

// Chat is the terminal chat: a service running the Bubble Tea program and
// the Display sink that feeds it.
type Chat struct {
	program *tea.Program
}

func NewChat(ctx context.Context, submitter Submitter, opts ...tea.ProgramOption) *Chat {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion()}, opts...)
	return &Chat{
		program: tea.NewProgram(newModel(ctx, submitter), opts...),
	}
}

// Display blocks until the program takes the turn, or until it has exited.
func (c *Chat) Display(sender, message string) {
	c.program.Send(turnMsg{sender: sender, message: message})
}

// Start runs the program. The user quitting stops the whole process.
func (c *Chat) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting terminal chat")

	if _, err := c.program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return fmt.Errorf("terminal chat: %w", err)
	}
	return srv.ErrStopped
}

func (c *Chat) Shutdown(_ context.Context) error {
	c.program.Kill()
	return nil
}
