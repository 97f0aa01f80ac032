package sqlite

import (
	"context"
	"testing"

	"github.com/sandevgo/chatmtl/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCategories = core.Categories{
	{ID: "news", Name: "news"},
	{ID: "travel", Name: "travel"},
	{ID: "real-estate", Name: "real estate"},
}

func TestRegistry_GetUnloaded(t *testing.T) {
	r := NewRegistry(t.TempDir())

	assert.False(t, r.IsLoaded("travel"))
	_, err := r.Get("travel")
	assert.ErrorIs(t, err, core.ErrCategoryNotLoaded)

	_, err = r.Open(context.Background(), "travel", 3, core.MetricCosine)
	assert.ErrorIs(t, err, core.ErrCategoryNotLoaded)
}

func TestRegistry_CreateSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	r := NewRegistry(dir)
	idx, err := r.Create(ctx, "travel", 2, core.MetricCosine)
	require.NoError(t, err)
	require.NoError(t, idx.Upsert(ctx, []core.IndexEntry{entry("winter", 1, 0)}))
	assert.True(t, r.IsLoaded("travel"))
	assert.FileExists(t, r.Path("travel"))
	require.NoError(t, r.Shutdown(ctx))
	assert.False(t, r.IsLoaded("travel"))

	restarted := NewRegistry(dir)
	require.NoError(t, restarted.LoadAll(ctx, testCategories, 2, core.MetricCosine))
	defer restarted.Shutdown(ctx)

	assert.True(t, restarted.IsLoaded("travel"))
	assert.False(t, restarted.IsLoaded("news"))
	assert.Equal(t, []string{"travel"}, restarted.Loaded(testCategories))

	got, err := restarted.Get("travel")
	require.NoError(t, err)
	res, err := got.Query(ctx, []float32{1, 0}, 4)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "winter", res[0].Text)
}

func TestRegistry_LoadAllReportsMismatch(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	r := NewRegistry(dir)
	_, err := r.Create(ctx, "news", 2, core.MetricCosine)
	require.NoError(t, err)
	_, err = r.Create(ctx, "travel", 3, core.MetricCosine)
	require.NoError(t, err)
	require.NoError(t, r.Shutdown(ctx))

	restarted := NewRegistry(dir)
	defer restarted.Shutdown(ctx)

	err = restarted.LoadAll(ctx, testCategories, 2, core.MetricCosine)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	assert.True(t, restarted.IsLoaded("news"))
	assert.False(t, restarted.IsLoaded("travel"))
}

func TestRegistry_CreateReturnsOpenIndex(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(t.TempDir())
	defer r.Shutdown(ctx)

	a, err := r.Create(ctx, "news", 2, core.MetricCosine)
	require.NoError(t, err)
	b, err := r.Create(ctx, "news", 2, core.MetricCosine)
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = r.Create(ctx, "news", 5, core.MetricCosine)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	_, err = r.Create(ctx, "news", 2, core.MetricDot)
	assert.ErrorIs(t, err, core.ErrMetricMismatch)
}

func TestRegistry_Remove(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry(t.TempDir())
	defer r.Shutdown(ctx)

	_, err := r.Create(ctx, "deals", 2, core.MetricCosine)
	require.NoError(t, err)

	require.NoError(t, r.Remove("deals"))
	assert.False(t, r.IsLoaded("deals"))
	assert.False(t, r.Exists("deals"))

	// a removed store can be rebuilt with another dimension
	idx, err := r.Create(ctx, "deals", 4, core.MetricCosine)
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Dims())
}
