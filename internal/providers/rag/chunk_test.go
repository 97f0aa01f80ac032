package rag

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		cfg            ChunkerConfig
		expectedChunks []string
	}{
		{
			name:           "Empty input",
			text:           "",
			cfg:            DefaultChunkerConfig(),
			expectedChunks: nil,
		},
		{
			name:           "Whitespace is kept",
			text:           "  \n ",
			cfg:            ChunkerConfig{MaxRunes: 3},
			expectedChunks: []string{"  \n", " "},
		},
		{
			name:           "Exactly one chunk",
			text:           "abcde",
			cfg:            ChunkerConfig{MaxRunes: 5},
			expectedChunks: []string{"abcde"},
		},
		{
			name:           "Shorter tail",
			text:           "abcdefg",
			cfg:            ChunkerConfig{MaxRunes: 3},
			expectedChunks: []string{"abc", "def", "g"},
		},
		{
			name:           "Multibyte runes are not split",
			text:           "héllo wörld",
			cfg:            ChunkerConfig{MaxRunes: 4},
			expectedChunks: []string{"héll", "o wö", "rld"},
		},
		{
			name:           "CJK Text",
			text:           "你好世界。这是一个测试。",
			cfg:            ChunkerConfig{MaxRunes: 5},
			expectedChunks: []string{"你好世界。", "这是一个测", "试。"},
		},
		{
			name:           "Non-positive size uses default",
			text:           "short",
			cfg:            ChunkerConfig{MaxRunes: 0},
			expectedChunks: []string{"short"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := ChunkText(tt.text, tt.cfg)

			got := make([]string, 0, len(chunks))
			for i, c := range chunks {
				got = append(got, c.Text)
				assert.Equal(t, i, c.Index)
				assert.Equal(t, utf8.RuneCountInString(c.Text), c.Runes)
			}
			if tt.expectedChunks == nil {
				assert.Empty(t, chunks)
				return
			}
			assert.Equal(t, tt.expectedChunks, got)
		})
	}
}

func TestChunkText_ReconstructsInput(t *testing.T) {
	text := strings.Repeat("Montréal en hiver, c'est magnifique! ", 97)

	for _, size := range []int{1, 7, 100, 500, 5000} {
		chunks := ChunkText(text, ChunkerConfig{MaxRunes: size})

		var b strings.Builder
		for i, c := range chunks {
			require.LessOrEqual(t, c.Runes, size)
			if i < len(chunks)-1 {
				assert.Equal(t, size, c.Runes, "only the last chunk may be shorter")
			}
			b.WriteString(c.Text)
		}
		assert.Equal(t, text, b.String())

		total := utf8.RuneCountInString(text)
		assert.Len(t, chunks, (total+size-1)/size)
	}
}

func TestChunkText_1200Runes(t *testing.T) {
	chunks := ChunkText(strings.Repeat("x", 1200), DefaultChunkerConfig())
	require.Len(t, chunks, 3)
	assert.Equal(t, 500, chunks[0].Runes)
	assert.Equal(t, 500, chunks[1].Runes)
	assert.Equal(t, 200, chunks[2].Runes)
}
