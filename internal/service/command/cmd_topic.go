package command

import (
	"context"
	"strings"
)

type TopicsCommand struct {
	topics    Topics
	formatter *ResponseFormatter
}

func NewTopicsCommand(topics Topics) *TopicsCommand {
	return &TopicsCommand{
		topics:    topics,
		formatter: NewResponseFormatter(),
	}
}

func (c *TopicsCommand) Name() string {
	return "topics"
}

func (c *TopicsCommand) Description() string {
	return "List categories and whether their content is loaded"
}

func (c *TopicsCommand) Execute(_ context.Context, _ []string) (string, error) {
	current, selected := c.topics.Current()

	items := make([]string, 0, len(c.topics.Categories()))
	for _, cat := range c.topics.Categories() {
		item := cat.Name
		if !c.topics.IsLoaded(cat.ID) {
			item += " (not loaded)"
		}
		if selected && cat.ID == current.ID {
			item = "**" + item + "** ‹ current"
		}
		items = append(items, item)
	}

	return c.formatter.Combine(
		c.formatter.Info("Categories"),
		c.formatter.List(items),
		c.formatter.Tip("switch with `/topic <name>`"),
	), nil
}

type TopicCommand struct {
	topics    Topics
	formatter *ResponseFormatter
}

func NewTopicCommand(topics Topics) *TopicCommand {
	return &TopicCommand{
		topics:    topics,
		formatter: NewResponseFormatter(),
	}
}

func (c *TopicCommand) Name() string {
	return "topic"
}

func (c *TopicCommand) Description() string {
	return "Show, change or clear the current category"
}

func (c *TopicCommand) Execute(_ context.Context, args []string) (string, error) {
	if len(args) == 0 {
		current, ok := c.topics.Current()
		if !ok {
			return c.formatter.Combine(
				c.formatter.Info("No category selected"),
				c.formatter.Usage("/topic [name]"),
				c.formatter.Examples([]string{"/topic travel", "/topic real estate", "/topic none"}),
			), nil
		}
		return c.formatter.Combine(
			c.formatter.Info("Current Category"),
			c.formatter.Label("Category", current.Name),
			c.formatter.Usage("/topic [name]"),
		), nil
	}

	name := strings.Join(args, " ")
	if strings.EqualFold(name, "none") {
		name = ""
	}
	return c.topics.SelectTopic(name), nil
}
