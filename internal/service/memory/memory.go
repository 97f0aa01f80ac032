package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/sandevgo/chatmtl/internal/config"
	"github.com/sandevgo/chatmtl/internal/core"
	"github.com/sandevgo/chatmtl/pkg/log"
)

// Memory is a bounded rolling summary of the conversation.
// Read never returns more than the budget.
type Memory struct {
	budget     int
	unit       string
	count      Counter
	summarizer core.Generator

	mu      sync.Mutex
	summary string
}

// New creates a memory compacted through summarizer. A nil summarizer leaves
// only front truncation. A token budget without a usable tokenizer is
// measured in characters instead.
func New(cfg *config.MemoryConfig, summarizer core.Generator) *Memory {
	unit := cfg.Unit
	count, err := CounterFor(unit)
	if err != nil {
		unit = config.UnitChars
	}
	return &Memory{
		budget:     cfg.Budget,
		unit:       unit,
		count:      count,
		summarizer: summarizer,
	}
}

// Update appends the exchange and compacts the summary when it exceeds the budget.
func (m *Memory) Update(ctx context.Context, query, response string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.budget <= 0 {
		return nil
	}

	record := formatRecord(query, response)
	next := record
	if m.summary != "" {
		next = m.summary + "\n" + record
	}

	if m.count.Count(next) > m.budget {
		next = m.compact(ctx, record, next)
	}

	m.summary = next
	return nil
}

func (m *Memory) compact(ctx context.Context, record, appended string) string {
	logger := log.FromCtx(ctx)

	if m.summarizer != nil {
		prompt := buildSummaryPrompt(m.summary, record, m.budget, m.unit)
		summary, err := m.summarizer.Generate(ctx, prompt)
		summary = strings.TrimSpace(summary)
		switch {
		case err != nil:
			logger.Warn().Err(err).Msg("memory summarization failed, truncating")
		case summary == "":
			logger.Warn().Msg("memory summarization returned nothing, truncating")
		case m.count.Count(summary) > m.budget:
			logger.Debug().Int("size", m.count.Count(summary)).Int("budget", m.budget).Msg("summary over budget, truncating")
			return truncateFront(summary, m.budget, m.count)
		default:
			return summary
		}
	}

	return truncateFront(appended, m.budget, m.count)
}

func (m *Memory) Read() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summary
}

func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summary = ""
}

func (m *Memory) Budget() (int, string) {
	return m.budget, m.unit
}

func (m *Memory) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count.Count(m.summary)
}
