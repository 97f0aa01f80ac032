package main

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/sandevgo/chatmtl/internal/config"
	"github.com/sandevgo/chatmtl/internal/core"
	"github.com/sandevgo/chatmtl/internal/service/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectCategories(t *testing.T) {
	all := config.DefaultCategories

	got, err := selectCategories(all, nil)
	require.NoError(t, err)
	assert.Equal(t, all, got)

	got, err = selectCategories(all, []string{"travel", "news"})
	require.NoError(t, err)
	assert.Equal(t, []string{"news", "travel"}, got.IDs(), "configuration order is kept")

	_, err = selectCategories(all, []string{"weather"})
	assert.ErrorContains(t, err, "unknown category \"weather\"")
}

func TestPrintReport(t *testing.T) {
	report := ingest.Report{Results: []ingest.CategoryResult{
		{Category: "travel", Fragments: 12, Took: 1500 * time.Millisecond},
		{Category: "news", Err: errors.Join(core.ErrFetch, errors.New("status 503"))},
	}}

	var buf bytes.Buffer
	printReport(&buf, report)

	out := buf.String()
	assert.Contains(t, out, "travel")
	assert.Contains(t, out, "12 fragments")
	assert.Contains(t, out, "status 503")
	assert.Contains(t, out, "12 fragments indexed, 1 of 2 categories failed")
}
