package rag

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const ModelNameHash = "hash"

// HashModel is a deterministic feature-hashing encoder. Words and word bigrams
// are hashed into a fixed number of buckets and the result is L2-normalized.
type HashModel struct {
	dims int
}

func NewHashModel(dims int) *HashModel {
	if dims <= 0 {
		dims = 384
	}
	return &HashModel{dims: dims}
}

func (m *HashModel) EncodeQuery(ctx context.Context, text string) ([]float32, error) {
	return m.encode(ctx, text)
}

func (m *HashModel) EncodePassage(ctx context.Context, text string) ([]float32, error) {
	return m.encode(ctx, text)
}

func (m *HashModel) Dims() int {
	return m.dims
}

func (m *HashModel) Shutdown() error {
	return nil
}

func (m *HashModel) encode(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, m.dims)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for i, w := range words {
		m.add(vec, w, 1)
		if i > 0 {
			m.add(vec, words[i-1]+" "+w, 0.5)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec, nil
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec, nil
}

func (m *HashModel) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	bucket := int(sum % uint64(m.dims))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[bucket] += weight
}
