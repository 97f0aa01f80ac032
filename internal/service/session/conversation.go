package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/sandevgo/chatmtl/internal/core"
	"github.com/sandevgo/chatmtl/internal/service/responder"
	"github.com/sandevgo/chatmtl/internal/service/router"
	"github.com/sandevgo/chatmtl/pkg/log"
)

const FailureMessage = "Sorry, I couldn't get an answer. Please try again."

type Answerer interface {
	Answer(ctx context.Context, category core.Category, query string, mem responder.Memory) (string, error)
}

type Memory interface {
	responder.Memory
	Reset()
}

// Conversation is the single active dialogue: slash commands first, then the
// category router, then the responder.
type Conversation struct {
	router    *router.Router
	responder Answerer
	memory    Memory
	registry  core.IndexRegistry
	commands  core.CmdRouter
	corpus    string
}

func NewConversation(r *router.Router, a Answerer, mem Memory, registry core.IndexRegistry, corpus string) *Conversation {
	return &Conversation{
		router:    r,
		responder: a,
		memory:    mem,
		registry:  registry,
		corpus:    corpus,
	}
}

// WithCommands enables slash commands.
func (c *Conversation) WithCommands(commands core.CmdRouter) *Conversation {
	c.commands = commands
	return c
}

func (c *Conversation) Greeting() string {
	return fmt.Sprintf("Hi! I answer questions about recent %s content. %s", c.corpus, c.router.Prompt())
}

func (c *Conversation) Handle(ctx context.Context, text string) (string, error) {
	if c.commands != nil {
		if reply, ok := c.commands.Execute(ctx, text); ok {
			return reply, nil
		}
	}

	d := c.router.Route(text)
	if d.Action == router.ActionReply {
		if d.Changed {
			c.memory.Reset()
		}
		return d.Reply, nil
	}

	return c.answer(ctx, d.Category, d.Query)
}

func (c *Conversation) answer(ctx context.Context, category core.Category, query string) (string, error) {
	logger := log.FromCtx(ctx).With().Str("category", category.ID).Logger()

	answer, err := c.responder.Answer(ctx, category, query, c.memory)
	if err != nil {
		if errors.Is(err, core.ErrCategoryNotLoaded) {
			logger.Warn().Err(err).Msg("category has no index")
			c.router.Reset()
			return fmt.Sprintf("Sorry, %s content is not loaded yet. %s", category.Name, c.router.Prompt()), err
		}
		logger.Error().Err(err).Msg("failed to answer")
		return FailureMessage, err
	}

	c.router.Answered()
	return answer, nil
}

// SelectTopic switches to the named category, clearing memory on a change.
// An empty name returns to topic selection; an unknown one changes nothing.
func (c *Conversation) SelectTopic(name string) string {
	if name == "" {
		c.router.Reset()
		return c.router.Prompt()
	}
	d, ok := c.router.Select(name)
	if !ok {
		return d.Reply
	}
	if d.Changed {
		c.memory.Reset()
	}
	return d.Reply
}

func (c *Conversation) Categories() core.Categories {
	return c.router.Categories()
}

func (c *Conversation) Current() (core.Category, bool) {
	return c.router.Category()
}

func (c *Conversation) IsLoaded(category string) bool {
	return c.registry.IsLoaded(category)
}
