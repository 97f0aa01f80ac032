package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/chatmtl/internal/core"
	"github.com/sandevgo/chatmtl/internal/providers/rag"
	"github.com/sandevgo/chatmtl/internal/storage/sqlite"
	"github.com/sandevgo/chatmtl/pkg/log"
)

type Config struct {
	ChunkSize int
	Metric    core.Metric
	// SourceURL maps a category id to the page to fetch.
	SourceURL func(categoryID string) string
	// Rebuild drops existing stores instead of replacing their entries.
	Rebuild bool
}

type CategoryResult struct {
	Category  string
	URL       string
	Fragments int
	Took      time.Duration
	Err       error
}

type Report struct {
	Results []CategoryResult
}

func (r Report) Failed() []CategoryResult {
	var out []CategoryResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

func (r Report) Fragments() int {
	var n int
	for _, res := range r.Results {
		n += res.Fragments
	}
	return n
}

// Pipeline drives fetch, chunk, embed and store for each category.
type Pipeline struct {
	fetcher  core.Fetcher
	embedder core.Embedder
	registry *sqlite.Registry
	cfg      Config
}

func New(fetcher core.Fetcher, embedder core.Embedder, registry *sqlite.Registry, cfg Config) *Pipeline {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = rag.DefaultChunkRunes
	}
	if cfg.Metric == "" {
		cfg.Metric = core.MetricCosine
	}
	return &Pipeline{
		fetcher:  fetcher,
		embedder: embedder,
		registry: registry,
		cfg:      cfg,
	}
}

// Run ingests every category in order. A failing category is recorded and skipped;
// a dimension mismatch or cancellation stops the run.
func (p *Pipeline) Run(ctx context.Context, categories core.Categories) (Report, error) {
	logger := log.FromCtx(ctx)
	report := Report{Results: make([]CategoryResult, 0, len(categories))}

	for _, c := range categories {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		start := time.Now()
		res := CategoryResult{Category: c.ID, URL: p.sourceURL(c.ID)}
		res.Fragments, res.Err = p.IngestCategory(ctx, c)
		res.Took = time.Since(start)
		report.Results = append(report.Results, res)

		switch {
		case res.Err == nil:
			logger.Info().
				Str("category", c.ID).
				Int("fragments", res.Fragments).
				Dur("took", res.Took).
				Msg("category ingested")
		case errors.Is(res.Err, core.ErrDimensionMismatch):
			return report, fmt.Errorf("ingestion aborted at %s: %w", c.ID, res.Err)
		case errors.Is(res.Err, context.Canceled):
			return report, res.Err
		default:
			logger.Error().Err(res.Err).Str("category", c.ID).Msg("category ingestion failed")
		}
	}

	return report, nil
}

// IngestCategory rebuilds the index of one category and returns the number of fragments stored.
func (p *Pipeline) IngestCategory(ctx context.Context, c core.Category) (int, error) {
	logger := log.FromCtx(ctx).With().Str("category", c.ID).Logger()

	url := p.sourceURL(c.ID)
	text, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return 0, err
	}
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("%w: %s returned no text", core.ErrFetch, url)
	}
	doc := core.Document{Category: c, URL: url, Text: text}

	chunks := rag.ChunkText(doc.Text, rag.ChunkerConfig{MaxRunes: p.cfg.ChunkSize})
	logger.Debug().Int("chunks", len(chunks)).Int("bytes", len(doc.Text)).Msg("document chunked")

	entries := make([]core.IndexEntry, 0, len(chunks))
	for _, chunk := range chunks {
		vec, err := p.embedder.EncodePassage(ctx, chunk.Text)
		if err != nil {
			return 0, fmt.Errorf("chunk %d: %w", chunk.Index, err)
		}
		entries = append(entries, core.IndexEntry{
			Fragment: core.Fragment{
				Category: c.ID,
				Position: chunk.Index,
				Source:   doc.URL,
				Text:     chunk.Text,
			},
			Vector: vec,
		})
	}

	if p.cfg.Rebuild {
		if err := p.registry.Remove(c.ID); err != nil {
			return 0, err
		}
	}

	idx, err := p.registry.Create(ctx, c.ID, p.embedder.Dims(), p.cfg.Metric)
	if err != nil {
		return 0, err
	}
	if err := idx.Replace(ctx, entries); err != nil {
		return 0, err
	}

	return len(entries), nil
}

func (p *Pipeline) sourceURL(categoryID string) string {
	if p.cfg.SourceURL == nil {
		return categoryID
	}
	return p.cfg.SourceURL(categoryID)
}
