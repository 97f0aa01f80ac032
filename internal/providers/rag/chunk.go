package rag

import "unicode/utf8"

const DefaultChunkRunes = 500

type Chunk struct {
	Text  string
	Runes int
	Index int
}

type ChunkerConfig struct {
	MaxRunes int
}

func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{MaxRunes: DefaultChunkRunes}
}

// ChunkText splits text into contiguous pieces of at most cfg.MaxRunes code points.
// Pieces do not overlap and concatenate back to the input; only the last one may be shorter.
func ChunkText(text string, cfg ChunkerConfig) []Chunk {
	if text == "" {
		return nil
	}

	maxRunes := cfg.MaxRunes
	if maxRunes <= 0 {
		maxRunes = DefaultChunkRunes
	}

	total := utf8.RuneCountInString(text)
	chunks := make([]Chunk, 0, (total+maxRunes-1)/maxRunes)

	start, runes := 0, 0
	for i := range text {
		if runes == maxRunes {
			chunks = append(chunks, Chunk{Text: text[start:i], Runes: runes, Index: len(chunks)})
			start, runes = i, 0
		}
		runes++
	}
	chunks = append(chunks, Chunk{Text: text[start:], Runes: runes, Index: len(chunks)})

	return chunks
}
