package core

import "errors"

var (
	// ErrCategoryNotLoaded is returned when no index was built or opened for a category.
	ErrCategoryNotLoaded = errors.New("category not loaded")
	// ErrDimensionMismatch is returned when a vector does not match the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrMetricMismatch is returned when an index is reopened with another ranking metric.
	ErrMetricMismatch = errors.New("similarity metric mismatch")

	ErrFetch      = errors.New("fetch failed")
	ErrEmbedding  = errors.New("embedding failed")
	ErrGeneration = errors.New("generation failed")

	ErrQueueFull     = errors.New("a request is already pending, please wait")
	ErrSessionClosed = errors.New("session closed")
)
