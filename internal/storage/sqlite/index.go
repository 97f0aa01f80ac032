package sqlite

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/sandevgo/chatmtl/internal/core"
)

type cachedEntry struct {
	seq      int64
	fragment core.Fragment
	vector   []float32
	norm     float64
}

// Index is the durable vector store of one category.
// Entries are loaded into memory on the first query and ranked in Go.
type Index struct {
	db       *sql.DB
	category string
	dims     int
	metric   core.Metric

	mu    sync.RWMutex
	cache []cachedEntry
}

// OpenIndex opens the store at path. A fresh store is stamped with dims and metric;
// an existing one must match them (zero dims or empty metric accept what is stored).
func OpenIndex(ctx context.Context, path, category string, dims int, metric core.Metric) (*Index, error) {
	db, err := NewDB(ctx, path)
	if err != nil {
		return nil, err
	}

	idx, err := initIndex(ctx, db, category, dims, metric)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return idx, nil
}

func initIndex(ctx context.Context, db *sql.DB, category string, dims int, metric core.Metric) (*Index, error) {
	var (
		storedDims   int
		storedMetric string
	)
	err := db.QueryRowContext(ctx, `SELECT dimension, metric FROM index_meta WHERE id = 1`).
		Scan(&storedDims, &storedMetric)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		if dims <= 0 {
			return nil, fmt.Errorf("index %q: dimension required to create index", category)
		}
		if metric == "" {
			metric = core.MetricCosine
		}
		if !metric.Valid() {
			return nil, fmt.Errorf("index %q: unknown metric %q", category, metric)
		}
		_, err = db.ExecContext(ctx,
			`INSERT INTO index_meta (id, category, dimension, metric) VALUES (1, ?, ?, ?)`,
			category, dims, string(metric),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to write index meta: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read index meta: %w", err)
	default:
		if dims > 0 && dims != storedDims {
			return nil, fmt.Errorf("%w: index %q was built with %d dimensions, embedder has %d",
				core.ErrDimensionMismatch, category, storedDims, dims)
		}
		if metric != "" && core.Metric(storedMetric) != metric {
			return nil, fmt.Errorf("%w: index %q uses %s, requested %s",
				core.ErrMetricMismatch, category, storedMetric, metric)
		}
		dims = storedDims
		metric = core.Metric(storedMetric)
	}

	return &Index{
		db:       db,
		category: category,
		dims:     dims,
		metric:   metric,
	}, nil
}

func (i *Index) Category() string    { return i.category }
func (i *Index) Dims() int           { return i.dims }
func (i *Index) Metric() core.Metric { return i.metric }

// Upsert inserts entries in one transaction. Any vector of the wrong length fails the whole call.
func (i *Index) Upsert(ctx context.Context, entries []core.IndexEntry) error {
	return i.write(ctx, false, entries)
}

// Replace clears the index and inserts entries in one transaction.
func (i *Index) Replace(ctx context.Context, entries []core.IndexEntry) error {
	return i.write(ctx, true, entries)
}

// Reset removes every entry.
func (i *Index) Reset(ctx context.Context) error {
	return i.write(ctx, true, nil)
}

func (i *Index) write(ctx context.Context, reset bool, entries []core.IndexEntry) error {
	for n, e := range entries {
		if len(e.Vector) != i.dims {
			return fmt.Errorf("%w: entry %d has %d dimensions, index %q has %d",
				core.ErrDimensionMismatch, n, len(e.Vector), i.category, i.dims)
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if reset {
		if _, err := tx.ExecContext(ctx, `DELETE FROM fragments`); err != nil {
			return fmt.Errorf("failed to reset index: %w", err)
		}
	}

	if len(entries) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO fragments (id, position, source, content, embedding) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, e := range entries {
			blob, err := serializeVector(e.Vector)
			if err != nil {
				return err
			}
			id := e.Fragment.ID
			if id == "" {
				id = uuid.NewString()
			}
			if _, err := stmt.ExecContext(ctx, id, e.Fragment.Position, e.Fragment.Source, e.Fragment.Text, blob); err != nil {
				return fmt.Errorf("failed to insert fragment: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	i.cache = nil
	return nil
}

// Query returns up to k fragments ranked by the index metric, ties in insertion order.
func (i *Index) Query(ctx context.Context, vector []float32, k int) ([]core.ScoredFragment, error) {
	if len(vector) != i.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, index %q has %d",
			core.ErrDimensionMismatch, len(vector), i.category, i.dims)
	}

	entries, err := i.entries(ctx)
	if err != nil {
		return nil, err
	}
	if k <= 0 || len(entries) == 0 {
		return []core.ScoredFragment{}, nil
	}

	qnorm := norm(vector)
	scored := make([]core.ScoredFragment, len(entries))
	for n, e := range entries {
		scored[n] = core.ScoredFragment{
			Fragment: e.fragment,
			Score:    i.score(vector, qnorm, e),
		}
	}

	// entries are in insertion order, so a stable sort keeps ties in that order
	slices.SortStableFunc(scored, func(a, b core.ScoredFragment) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

func (i *Index) score(q []float32, qnorm float64, e cachedEntry) float32 {
	d := dotProduct(q, e.vector)
	if i.metric == core.MetricDot {
		return float32(d)
	}
	if qnorm == 0 || e.norm == 0 {
		return 0
	}
	return float32(d / (qnorm * e.norm))
}

func (i *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := i.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM fragments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count fragments: %w", err)
	}
	return n, nil
}

func (i *Index) entries(ctx context.Context) ([]cachedEntry, error) {
	i.mu.RLock()
	cache := i.cache
	i.mu.RUnlock()
	if cache != nil {
		return cache, nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.cache != nil {
		return i.cache, nil
	}

	rows, err := i.db.QueryContext(ctx,
		`SELECT seq, id, position, source, content, embedding FROM fragments ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load fragments: %w", err)
	}
	defer rows.Close()

	loaded := make([]cachedEntry, 0)
	for rows.Next() {
		var (
			e    cachedEntry
			blob []byte
		)
		if err := rows.Scan(&e.seq, &e.fragment.ID, &e.fragment.Position, &e.fragment.Source, &e.fragment.Text, &blob); err != nil {
			return nil, err
		}
		if e.vector, err = deserializeVector(blob); err != nil {
			return nil, err
		}
		e.fragment.Category = i.category
		e.norm = norm(e.vector)
		loaded = append(loaded, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	i.cache = loaded
	return loaded, nil
}

func (i *Index) Close() error {
	return i.db.Close()
}
