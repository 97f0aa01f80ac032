package rag

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func TestHashModel_Deterministic(t *testing.T) {
	m := NewHashModel(64)
	ctx := context.Background()

	a, err := m.EncodePassage(ctx, "Skiing in the Laurentians this winter")
	require.NoError(t, err)
	b, err := m.EncodeQuery(ctx, "Skiing in the Laurentians this winter")
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.InDelta(t, 1.0, math.Sqrt(dot(a, a)), 1e-5)
}

func TestHashModel_RelatedTextScoresHigher(t *testing.T) {
	m := NewHashModel(256)
	ctx := context.Background()

	query, _ := m.EncodeQuery(ctx, "where should I go in winter")
	related, _ := m.EncodePassage(ctx, "In winter you should go skiing up north.")
	unrelated, _ := m.EncodePassage(ctx, "Bagels from Fairmount are legendary.")

	assert.Greater(t, dot(query, related), dot(query, unrelated))
}

func TestHashModel_EmptyText(t *testing.T) {
	m := NewHashModel(0)
	vec, err := m.EncodeQuery(context.Background(), "  ...  ")
	require.NoError(t, err)
	assert.Len(t, vec, 384)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestHashModel_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHashModel(8).EncodeQuery(ctx, "text")
	assert.ErrorIs(t, err, context.Canceled)
}
