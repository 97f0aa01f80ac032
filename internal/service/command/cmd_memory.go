package command

import (
	"context"
	"fmt"
)

type MemoryCommand struct {
	mem       MemoryView
	formatter *ResponseFormatter
}

func NewMemoryCommand(mem MemoryView) *MemoryCommand {
	return &MemoryCommand{
		mem:       mem,
		formatter: NewResponseFormatter(),
	}
}

func (c *MemoryCommand) Name() string {
	return "memory"
}

func (c *MemoryCommand) Description() string {
	return "Show or reset the conversation summary"
}

func (c *MemoryCommand) Execute(_ context.Context, args []string) (string, error) {
	if len(args) > 0 {
		if args[0] != "reset" {
			return "", fmt.Errorf("unknown argument %q, expected reset", args[0])
		}
		c.mem.Reset()
		return c.formatter.Success("Conversation summary cleared"), nil
	}

	budget, unit := c.mem.Budget()
	summary := c.mem.Read()
	if summary == "" {
		summary = "(empty)"
	}

	return c.formatter.Combine(
		c.formatter.Info("Conversation Summary"),
		c.formatter.Label("Size", fmt.Sprintf("%d / %d %s", c.mem.Size(), budget, unit)),
		summary,
		c.formatter.Usage("/memory reset"),
	), nil
}
