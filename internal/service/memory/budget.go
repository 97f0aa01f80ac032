package memory

import (
	"unicode/utf8"

	"github.com/sandevgo/chatmtl/internal/config"
	"github.com/sandevgo/chatmtl/internal/providers/rag"
)

// Counter measures text in budget units.
type Counter interface {
	Count(text string) int
	// Tail returns the end of text that fits within n units.
	Tail(text string, n int) string
}

type runeCounter struct{}

func (runeCounter) Count(text string) int {
	return utf8.RuneCountInString(text)
}

func (runeCounter) Tail(text string, n int) string {
	return rag.TailRunes(text, n)
}

// Runes counts characters.
var Runes Counter = runeCounter{}

// CounterFor returns the counter for unit. When the tokenizer cannot be
// loaded it returns the rune counter together with the load error.
func CounterFor(unit string) (Counter, error) {
	if unit != config.UnitTokens {
		return Runes, nil
	}
	if err := rag.LoadTokenizer(); err != nil {
		return Runes, err
	}
	return rag.Tokens(), nil
}

// truncateFront drops leading text until it fits the budget.
func truncateFront(text string, budget int, count Counter) string {
	if count.Count(text) <= budget {
		return text
	}
	return count.Tail(text, budget)
}
