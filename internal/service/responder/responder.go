package responder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/chatmtl/internal/core"
	"github.com/sandevgo/chatmtl/pkg/log"
)

const (
	DefaultTopK        = 4
	DefaultAnswerWords = 100
	DefaultCorpus      = "Montreal Blog"
)

// Memory is the conversation summary the responder reads and extends.
type Memory interface {
	Read() string
	Update(ctx context.Context, query, response string) error
}

type Config struct {
	TopK        int
	AnswerWords int
	CorpusName  string
	Timeout     time.Duration
}

type Responder struct {
	registry  core.IndexRegistry
	embedder  core.Embedder
	generator core.Generator
	cfg       Config
}

func New(registry core.IndexRegistry, embedder core.Embedder, generator core.Generator, cfg Config) *Responder {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.AnswerWords <= 0 {
		cfg.AnswerWords = DefaultAnswerWords
	}
	if cfg.CorpusName == "" {
		cfg.CorpusName = DefaultCorpus
	}
	return &Responder{
		registry:  registry,
		embedder:  embedder,
		generator: generator,
		cfg:       cfg,
	}
}

// Answer retrieves context for query from the category index and generates a reply.
// Memory is only updated after a successful generation.
func (r *Responder) Answer(ctx context.Context, category core.Category, query string, mem Memory) (string, error) {
	logger := log.FromCtx(ctx).With().Str("category", category.ID).Logger()

	index, err := r.registry.Get(category.ID)
	if err != nil {
		return "", err
	}

	vector, err := r.embedder.EncodeQuery(ctx, query)
	if err != nil {
		return "", tag(core.ErrEmbedding, err)
	}

	hits, err := index.Query(ctx, vector, r.cfg.TopK)
	if err != nil {
		return "", fmt.Errorf("query index %s: %w", category.ID, err)
	}
	logger.Debug().Int("hits", len(hits)).Msg("retrieved fragments")

	fragments := make([]string, len(hits))
	for i, h := range hits {
		fragments[i] = h.Text
	}

	prompt := BuildPrompt(PromptInput{
		Category:  category.Name,
		Corpus:    r.cfg.CorpusName,
		Words:     r.cfg.AnswerWords,
		Fragments: fragments,
		Memory:    mem.Read(),
		Query:     query,
	})

	genCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	answer, err := r.generator.Generate(genCtx, prompt)
	if err != nil {
		return "", tag(core.ErrGeneration, err)
	}
	logger.Debug().Dur("took", time.Since(start)).Msg("answer generated")

	// summarizing the memory is another generation call
	memCtx, cancelMem := r.withTimeout(ctx)
	defer cancelMem()
	if err := mem.Update(memCtx, query, answer); err != nil {
		logger.Warn().Err(err).Msg("failed to update memory")
	}
	return answer, nil
}

func (r *Responder) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.cfg.Timeout)
}

// tag wraps err with sentinel unless it already carries it.
func tag(sentinel, err error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
