package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/photosense/sentimentsearch/search"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	h, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestRecordAndRecent(t *testing.T) {
	h := openTestHistory(t)

	q := search.Query{
		Emotion:  "happy",
		Month:    strPtr("june"),
		Year:     intPtr(2023),
		Location: strPtr("paris"),
		TopN:     intPtr(2),
	}
	results := []search.RankedResult{
		{Path: "photos/a.jpg", Dominant: "happy", Score: 91.5},
		{Path: "photos/b.jpg", Dominant: "happy", Score: 60.0},
	}

	id, err := h.RecordQuery("top 2 happy pictures from june 2023 in paris", q, results)
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = h.RecordQuery("sad pictures", search.Query{Emotion: "sad"}, nil)
	require.NoError(t, err)

	entries, err := h.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "sad pictures", entries[0].QueryText)
	assert.Equal(t, "sad", entries[0].Emotion)
	assert.Empty(t, entries[0].Results)
	assert.Zero(t, entries[0].Year)

	first := entries[1]
	assert.Equal(t, "happy", first.Emotion)
	assert.Equal(t, "june", first.Month)
	assert.Equal(t, 2023, first.Year)
	assert.Equal(t, "paris", first.Location)
	assert.Equal(t, 2, first.TopN)
	assert.Equal(t, 2, first.ResultCount)
	require.Len(t, first.Results, 2)
	assert.Equal(t, 1, first.Results[0].Rank)
	assert.Equal(t, "photos/a.jpg", first.Results[0].Path)
	assert.Equal(t, 91.5, first.Results[0].Score)
	assert.Equal(t, 2, first.Results[1].Rank)
}

func TestRecentLimit(t *testing.T) {
	h := openTestHistory(t)

	for i := 0; i < 5; i++ {
		_, err := h.RecordQuery("q", search.Query{Emotion: "neutral"}, nil)
		require.NoError(t, err)
	}

	entries, err := h.Recent(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	count, err := h.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestClearAll(t *testing.T) {
	h := openTestHistory(t)

	_, err := h.RecordQuery("q", search.Query{Emotion: "happy"}, []search.RankedResult{{Path: "a.jpg", Dominant: "happy", Score: 1}})
	require.NoError(t, err)

	require.NoError(t, h.ClearAll())

	count, err := h.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	entries, err := h.Recent(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
