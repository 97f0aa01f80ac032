package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/chatmtl/internal/core"
)

const defaultEncodeTimeout = 30 * time.Second

// DualEncoder is an embedding model with separate query and passage encodings.
type DualEncoder interface {
	EncodeQuery(ctx context.Context, text string) ([]float32, error)
	EncodePassage(ctx context.Context, text string) ([]float32, error)
	Dims() int
	Shutdown() error
}

// Embedder bounds every model call with a timeout and tags failures with core.ErrEmbedding.
type Embedder struct {
	model   DualEncoder
	timeout time.Duration
}

func NewEmbedder(model DualEncoder, timeout time.Duration) *Embedder {
	if timeout <= 0 {
		timeout = defaultEncodeTimeout
	}
	return &Embedder{
		model:   model,
		timeout: timeout,
	}
}

func (e *Embedder) EncodeQuery(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	vec, err := e.model.EncodeQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode query: %w", core.ErrEmbedding, err)
	}
	return vec, nil
}

func (e *Embedder) EncodePassage(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	vec, err := e.model.EncodePassage(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode passage: %w", core.ErrEmbedding, err)
	}
	return vec, nil
}

func (e *Embedder) Dims() int {
	return e.model.Dims()
}

func (e *Embedder) Shutdown(_ context.Context) error {
	return e.model.Shutdown()
}
