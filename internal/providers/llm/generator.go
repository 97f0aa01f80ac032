package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/chatmtl/internal/core"
)

// Generator sends a prompt as a single user turn and returns the reply text.
type Generator struct {
	provider core.AIProvider
}

func NewGenerator(provider core.AIProvider) *Generator {
	return &Generator{provider: provider}
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := g.provider.Chat(ctx, []core.Message{
		{Role: core.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrGeneration, err)
	}

	answer := strings.TrimSpace(msg.Content)
	if answer == "" {
		return "", fmt.Errorf("%w: %w", core.ErrGeneration, errors.New("empty response"))
	}
	return answer, nil
}
