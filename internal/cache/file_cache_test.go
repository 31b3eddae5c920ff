package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCache_SetGet(t *testing.T) {
	c := NewFileCache(t.TempDir())
	ctx := context.Background()

	payload := json.RawMessage(`[{"slug":"demo"}]`)
	c.Set(ctx, "all-projects", payload, time.Time{})

	got, ok := c.Get(ctx, "all-projects")
	require.True(t, ok)
	assert.JSONEq(t, string(payload), string(got))
}

func TestFileCache_MissOnAbsentKey(t *testing.T) {
	c := NewFileCache(t.TempDir())

	_, ok := c.Get(context.Background(), "nope")
	assert.False(t, ok)
}

func TestFileCache_MissOnCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))

	c := NewFileCache(dir)
	_, ok := c.Get(context.Background(), "bad")
	assert.False(t, ok)
}

func TestFileCache_ExpiresAfterTTL(t *testing.T) {
	c := NewFileCache(t.TempDir())
	ctx := context.Background()

	base := time.Now()
	c.now = func() time.Time { return base }
	c.Set(ctx, "k", json.RawMessage(`"v"`), time.Time{})

	c.now = func() time.Time { return base.Add(23 * time.Hour) }
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok, "entry should survive inside the TTL")

	c.now = func() time.Time { return base.Add(25 * time.Hour) }
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok, "entry should be treated as absent after the TTL")
}

func TestFileCache_EntryFormat(t *testing.T) {
	dir := t.TempDir()
	c := NewFileCache(dir)
	ctx := context.Background()

	marker := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.Set(ctx, "k", json.RawMessage(`{"a":1}`), marker)

	raw, err := os.ReadFile(filepath.Join(dir, "k.json"))
	require.NoError(t, err)

	var e struct {
		Data         json.RawMessage `json:"data"`
		Timestamp    int64           `json:"timestamp"`
		LastModified string          `json:"lastModified"`
	}
	require.NoError(t, json.Unmarshal(raw, &e))
	assert.JSONEq(t, `{"a":1}`, string(e.Data))
	assert.NotZero(t, e.Timestamp)
	assert.Equal(t, "2025-06-01T12:00:00Z", e.LastModified)
}

func TestFileCache_InvalidateMissingIsNoop(t *testing.T) {
	c := NewFileCache(t.TempDir())
	c.Invalidate(context.Background(), "missing")
}

func TestFileCache_Overwrite(t *testing.T) {
	c := NewFileCache(t.TempDir())
	ctx := context.Background()

	c.Set(ctx, "k", json.RawMessage(`"old"`), time.Time{})
	c.Set(ctx, "k", json.RawMessage(`"new"`), time.Time{})

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.JSONEq(t, `"new"`, string(got))
}

func TestFileCache_ShouldInvalidate(t *testing.T) {
	c := NewFileCache(t.TempDir())
	ctx := context.Background()

	marker := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c.Set(ctx, "k", json.RawMessage(`"v"`), marker)

	assert.False(t, c.ShouldInvalidate(ctx, "k", marker), "equal marker must not invalidate")
	assert.False(t, c.ShouldInvalidate(ctx, "k", marker.Add(-time.Hour)), "older marker must not invalidate")

	_, ok := c.Get(ctx, "k")
	require.True(t, ok)

	assert.True(t, c.ShouldInvalidate(ctx, "k", marker.Add(time.Hour)), "newer marker must invalidate")
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok, "entry should be gone after invalidation")
}

func TestFileCache_ShouldInvalidateMissingEntry(t *testing.T) {
	c := NewFileCache(t.TempDir())
	assert.False(t, c.ShouldInvalidate(context.Background(), "missing", time.Now()))
}
