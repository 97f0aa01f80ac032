package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sandevgo/chatmtl/internal/core"
	"github.com/sandevgo/chatmtl/pkg/log"
)

// Registry owns the per-category indexes under one directory, one database per category.
type Registry struct {
	dir string

	mu      sync.RWMutex
	indexes map[string]*Index
}

func NewRegistry(dir string) *Registry {
	return &Registry{
		dir:     dir,
		indexes: make(map[string]*Index),
	}
}

func (r *Registry) Path(category string) string {
	return filepath.Join(r.dir, category+".db")
}

func (r *Registry) Exists(category string) bool {
	_, err := os.Stat(r.Path(category))
	return err == nil
}

func (r *Registry) IsLoaded(category string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.indexes[category]
	return ok
}

func (r *Registry) Get(category string) (core.VectorIndex, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.indexes[category]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrCategoryNotLoaded, category)
	}
	return idx, nil
}

// Loaded lists loaded categories in the given order.
func (r *Registry) Loaded(categories core.Categories) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, c := range categories {
		if _, ok := r.indexes[c.ID]; ok {
			out = append(out, c.ID)
		}
	}
	return out
}

// Open opens an existing index. A missing store fails with core.ErrCategoryNotLoaded.
func (r *Registry) Open(ctx context.Context, category string, dims int, metric core.Metric) (*Index, error) {
	if !r.Exists(category) {
		return nil, fmt.Errorf("%w: no index at %s", core.ErrCategoryNotLoaded, r.Path(category))
	}
	return r.open(ctx, category, dims, metric)
}

// Create opens the index of a category, creating the store when it does not exist yet.
func (r *Registry) Create(ctx context.Context, category string, dims int, metric core.Metric) (*Index, error) {
	return r.open(ctx, category, dims, metric)
}

func (r *Registry) open(ctx context.Context, category string, dims int, metric core.Metric) (*Index, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx, ok := r.indexes[category]; ok {
		if dims > 0 && idx.Dims() != dims {
			return nil, fmt.Errorf("%w: index %q has %d dimensions, embedder has %d",
				core.ErrDimensionMismatch, category, idx.Dims(), dims)
		}
		if metric != "" && idx.Metric() != metric {
			return nil, fmt.Errorf("%w: index %q uses %s, requested %s",
				core.ErrMetricMismatch, category, idx.Metric(), metric)
		}
		return idx, nil
	}

	idx, err := OpenIndex(ctx, r.Path(category), category, dims, metric)
	if err != nil {
		return nil, err
	}
	r.indexes[category] = idx
	return idx, nil
}

// Remove closes the index of a category and deletes its store from disk.
func (r *Registry) Remove(category string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx, ok := r.indexes[category]; ok {
		_ = idx.Close()
		delete(r.indexes, category)
	}

	path := r.Path(category)
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

// LoadAll opens every existing index among categories. Missing stores are skipped;
// stores that cannot be opened are reported and left unloaded.
func (r *Registry) LoadAll(ctx context.Context, categories core.Categories, dims int, metric core.Metric) error {
	logger := log.FromCtx(ctx)

	var errs []error
	for _, c := range categories {
		if !r.Exists(c.ID) {
			logger.Debug().Str("category", c.ID).Msg("no index on disk")
			continue
		}
		idx, err := r.Open(ctx, c.ID, dims, metric)
		if err != nil {
			logger.Error().Err(err).Str("category", c.ID).Msg("failed to open index")
			errs = append(errs, fmt.Errorf("%s: %w", c.ID, err))
			continue
		}
		logger.Debug().Str("category", c.ID).Int("dims", idx.Dims()).Msg("index loaded")
	}
	return errors.Join(errs...)
}

func (r *Registry) Shutdown(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for category, idx := range r.indexes {
		if err := idx.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", category, err))
		}
		delete(r.indexes, category)
	}
	return errors.Join(errs...)
}
