package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sandevgo/chatmtl/internal/config"
	"github.com/sandevgo/chatmtl/internal/providers/rag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSummarizer struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeSummarizer) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func newMemory(budget int, s *fakeSummarizer) *Memory {
	cfg := &config.MemoryConfig{Budget: budget, Unit: config.UnitChars}
	if s == nil {
		return New(cfg, nil)
	}
	return New(cfg, s)
}

func TestMemory_AppendsWithinBudget(t *testing.T) {
	s := &fakeSummarizer{}
	m := newMemory(1000, s)
	ctx := context.Background()

	require.NoError(t, m.Update(ctx, "where should I go\nin winter?", "Try   skiing."))
	require.NoError(t, m.Update(ctx, "and in summer?", "The beach."))

	assert.Equal(t, "User: where should I go in winter?\nAssistant: Try skiing.\n"+
		"User: and in summer?\nAssistant: The beach.", m.Read())
	assert.Empty(t, s.prompts, "no summarization while under budget")
}

func TestMemory_SummarizesOverBudget(t *testing.T) {
	s := &fakeSummarizer{reply: "User asked about winter and summer trips."}
	m := newMemory(60, s)
	ctx := context.Background()

	require.NoError(t, m.Update(ctx, "winter?", "ski"))
	first := m.Read()
	require.NoError(t, m.Update(ctx, "and what about the summer months?", "go to the beach"))

	require.Len(t, s.prompts, 1)
	assert.Contains(t, s.prompts[0], first)
	assert.Contains(t, s.prompts[0], "User: and what about the summer months?")
	assert.Contains(t, s.prompts[0], "under 60 characters")
	assert.Equal(t, "User asked about winter and summer trips.", m.Read())
}

func TestMemory_FallbackTruncation(t *testing.T) {
	tests := []struct {
		name string
		s    *fakeSummarizer
	}{
		{"no summarizer", nil},
		{"summarizer fails", &fakeSummarizer{err: errors.New("down")}},
		{"summarizer returns nothing", &fakeSummarizer{reply: "  "}},
		{"summary too long", &fakeSummarizer{reply: strings.Repeat("é", 200)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMemory(50, tt.s)
			require.NoError(t, m.Update(context.Background(), strings.Repeat("q", 40), strings.Repeat("ü", 40)))

			got := m.Read()
			assert.True(t, utf8.ValidString(got))
			assert.Equal(t, 50, utf8.RuneCountInString(got))
		})
	}
}

func TestMemory_Bounded(t *testing.T) {
	for _, budget := range []int{1, 37, 200} {
		m := newMemory(budget, &fakeSummarizer{reply: strings.Repeat("summary ", 10)})
		for i := 0; i < 100; i++ {
			require.NoError(t, m.Update(context.Background(), fmt.Sprintf("question %d", i), "answer"))
			assert.LessOrEqual(t, utf8.RuneCountInString(m.Read()), budget)
		}
	}
}

func TestMemory_TokenBudget(t *testing.T) {
	if err := rag.LoadTokenizer(); err != nil {
		t.Skipf("tokenizer not available: %v", err)
	}

	m := New(&config.MemoryConfig{Budget: 20, Unit: config.UnitTokens}, nil)
	for i := 0; i < 10; i++ {
		require.NoError(t, m.Update(context.Background(), "what is happening downtown tonight", "a jazz festival"))
	}
	assert.LessOrEqual(t, m.Size(), 20)
	assert.NotEmpty(t, m.Read())
}

func TestMemory_Reset(t *testing.T) {
	m := newMemory(100, nil)
	require.NoError(t, m.Update(context.Background(), "q", "a"))
	m.Reset()
	assert.Empty(t, m.Read())
}

func TestMemory_ZeroBudgetDisables(t *testing.T) {
	m := newMemory(0, nil)
	require.NoError(t, m.Update(context.Background(), "q", "a"))
	assert.Empty(t, m.Read())
}

func TestTruncateFront(t *testing.T) {
	assert.Equal(t, "hello", truncateFront("hello", 10, Runes))
	assert.Equal(t, "llo", truncateFront("hello", 3, Runes))
	assert.Equal(t, "çà", truncateFront("façà", 2, Runes))
	assert.Equal(t, "", truncateFront("hello", 0, Runes))
	assert.Equal(t, "", truncateFront("", 0, Runes))
}

type countingRunes struct {
	runeCounter
	calls int
}

func (c *countingRunes) Count(text string) int {
	c.calls++
	return c.runeCounter.Count(text)
}

func TestTruncateFront_SingleScan(t *testing.T) {
	c := &countingRunes{}
	text := strings.Repeat("àb", 5000)

	got := truncateFront(text, 7, c)
	assert.Equal(t, "bàbàbàb", got)
	assert.Equal(t, 1, c.calls, "the tail is cut without re-measuring each suffix")
}

func TestMemory_TokenBudgetWithoutTokenizer(t *testing.T) {
	m := &Memory{budget: 20, unit: config.UnitChars, count: Runes}
	for i := 0; i < 10; i++ {
		require.NoError(t, m.Update(context.Background(), "what is happening downtown tonight", "a jazz festival"))
	}
	assert.Equal(t, 20, m.Size())

	budget, unit := New(&config.MemoryConfig{Budget: 20, Unit: config.UnitTokens}, nil).Budget()
	assert.Equal(t, 20, budget)
	if rag.LoadTokenizer() != nil {
		assert.Equal(t, config.UnitChars, unit)
	} else {
		assert.Equal(t, config.UnitTokens, unit)
	}
}
