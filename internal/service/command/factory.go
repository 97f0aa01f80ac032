package command

import (
	"github.com/sandevgo/chatmtl/internal/core"
)

// Topics is the conversation view the topic commands operate on.
type Topics interface {
	Categories() core.Categories
	Current() (core.Category, bool)
	IsLoaded(category string) bool
	SelectTopic(name string) string
}

type MemoryView interface {
	Read() string
	Reset()
	Budget() (int, string)
	Size() int
}

func NewCommands(topics Topics, mem MemoryView) []core.Command {
	return []core.Command{
		NewTopicsCommand(topics),
		NewTopicCommand(topics),
		NewMemoryCommand(mem),
	}
}

// NewRouter builds the slash command router, /help included.
func NewRouter(topics Topics, mem MemoryView) *Router {
	r := New(NewCommands(topics, mem))
	r.Register(NewHelpCommand(r))
	return r
}

func (c *Router) Register(cmd core.Command) {
	c.commands[cmd.Name()] = cmd
}
