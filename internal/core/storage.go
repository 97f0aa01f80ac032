package core

import "context"

// Metric is the ranking function of a vector index.
type Metric string

const (
	MetricCosine Metric = "cosine"
	MetricDot    Metric = "dot"
)

func (m Metric) Valid() bool {
	return m == MetricCosine || m == MetricDot
}

// IndexEntry is a fragment with its embedding, as written during ingestion.
type IndexEntry struct {
	Fragment Fragment
	Vector   []float32
}

// VectorIndex is the per-category nearest-neighbor store.
type VectorIndex interface {
	Upsert(ctx context.Context, entries []IndexEntry) error
	Query(ctx context.Context, vector []float32, k int) ([]ScoredFragment, error)
	Count(ctx context.Context) (int, error)
}

// IndexRegistry resolves the index of a category.
type IndexRegistry interface {
	IsLoaded(category string) bool
	Get(category string) (VectorIndex, error)
}
