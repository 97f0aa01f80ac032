package rag

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

const tokenEncoding = "cl100k_base"

// TokenCounter counts cl100k_base tokens. The encoding is loaded once; when
// it cannot be loaded, counting falls back to runes and Load reports why.
type TokenCounter struct {
	once sync.Once
	load func() (*tiktoken.Tiktoken, error)
	tk   *tiktoken.Tiktoken
	err  error
}

func newTokenCounter(load func() (*tiktoken.Tiktoken, error)) *TokenCounter {
	return &TokenCounter{load: load}
}

var defaultTokens = newTokenCounter(func() (*tiktoken.Tiktoken, error) {
	return tiktoken.GetEncoding(tokenEncoding)
})

// Load fetches the encoding, downloading the BPE file unless it is cached.
func (c *TokenCounter) Load() error {
	c.once.Do(func() {
		c.tk, c.err = c.load()
		if c.err != nil {
			c.err = fmt.Errorf("failed to load %s tokenizer: %w", tokenEncoding, c.err)
		}
	})
	return c.err
}

func (c *TokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c.Load() != nil {
		return utf8.RuneCountInString(text)
	}
	return len(c.tk.Encode(text, nil, nil))
}

// Tail returns the end of text holding at most n tokens.
func (c *TokenCounter) Tail(text string, n int) string {
	if n <= 0 {
		return ""
	}
	if c.Load() != nil {
		return TailRunes(text, n)
	}

	tokens := c.tk.Encode(text, nil, nil)
	if len(tokens) <= n {
		return text
	}
	tail := c.tk.Decode(tokens[len(tokens)-n:])
	// the first token may start inside a multi-byte rune
	for tail != "" {
		r, size := utf8.DecodeRuneInString(tail)
		if r != utf8.RuneError || size > 1 {
			break
		}
		tail = tail[size:]
	}
	// re-encoding can merge differently at the new start
	for tail != "" && c.Count(tail) > n {
		_, size := utf8.DecodeRuneInString(tail)
		tail = tail[size:]
	}
	return tail
}

// TailRunes returns the last n runes of text.
func TailRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	i := len(text)
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(text[:i])
		i -= size
	}
	return text[i:]
}

// LoadTokenizer loads the shared tokenizer used by CountTokens.
func LoadTokenizer() error {
	return defaultTokens.Load()
}

// Tokens returns the shared token counter.
func Tokens() *TokenCounter {
	return defaultTokens
}

// CountTokens returns the cl100k_base token count of text, or its rune count
// when the tokenizer is unavailable.
func CountTokens(text string) int {
	return defaultTokens.Count(text)
}
