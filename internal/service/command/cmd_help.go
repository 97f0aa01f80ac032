package command

import (
	"context"
	"fmt"

	"github.com/sandevgo/chatmtl/internal/core"
)

type HelpCommand struct {
	router    core.CmdRouter
	formatter *ResponseFormatter
}

func NewHelpCommand(router core.CmdRouter) *HelpCommand {
	return &HelpCommand{
		router:    router,
		formatter: NewResponseFormatter(),
	}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "List available commands"
}

func (c *HelpCommand) Execute(_ context.Context, _ []string) (string, error) {
	items := make([]string, 0)
	for _, cmd := range c.router.ListCommands() {
		items = append(items, fmt.Sprintf("`/%s` %s", cmd.Name(), cmd.Description()))
	}
	return c.formatter.Combine(
		c.formatter.Info("Commands"),
		c.formatter.List(items),
		c.formatter.Tip("anything else is a question for the current category"),
	), nil
}
