package rag

import (
	"context"
	"fmt"

	"github.com/sandevgo/chatmtl/internal/config"
	"github.com/sandevgo/chatmtl/internal/core"
)

// NewEmbeddingModel builds the configured model. An openai model without a
// configured dimension embeds one sample text to learn it.
func NewEmbeddingModel(ctx context.Context, cfg *config.RAGConfig) (DualEncoder, error) {
	switch cfg.EmbeddingModel {
	case ModelNameHash:
		return NewHashModel(cfg.EmbeddingDims), nil
	case ModelNameOpenAI:
		m := NewOpenAIModel(OpenAIModelConfig{
			BaseURL:  cfg.EmbeddingURL,
			APIKey:   cfg.EmbeddingAPIKey,
			Model:    cfg.EmbeddingName,
			Dims:     cfg.EmbeddingDims,
			E5Prefix: cfg.EmbeddingPrefix,
		})
		if m.Dims() > 0 {
			return m, nil
		}

		if cfg.EmbeddingTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.EmbeddingTimeout)
			defer cancel()
		}
		if err := m.DetectDims(ctx); err != nil {
			return nil, fmt.Errorf("%w: failed to detect dimension of %s: %w", core.ErrEmbedding, cfg.EmbeddingName, err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown embedding model: %s", cfg.EmbeddingModel)
	}
}
