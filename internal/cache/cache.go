package cache

import (
	"context"
	"encoding/json"
	"time"
)

// TTL is the blanket expiry applied to every entry. An entry older than this
// is treated as absent regardless of content.
const TTL = 24 * time.Hour

// Cache is a best-effort key -> JSON blob store. Read failures are cache
// misses and write failures are logged and swallowed; no method is ever fatal
// to the caller.
type Cache interface {
	// Get returns the cached payload for key, or ok=false when the entry is
	// absent, unreadable, or older than the TTL.
	Get(ctx context.Context, key string) (json.RawMessage, bool)

	// Set overwrites the entry for key with a fresh capture timestamp and the
	// given freshness marker. A zero lastModified defaults to now.
	Set(ctx context.Context, key string, payload json.RawMessage, lastModified time.Time)

	// Invalidate deletes the entry for key. Deleting a missing entry is a no-op.
	Invalidate(ctx context.Context, key string)

	// ShouldInvalidate compares currentMarker against the stored freshness
	// marker. A strictly newer marker invalidates the entry and reports true.
	ShouldInvalidate(ctx context.Context, key string, currentMarker time.Time) bool
}

// entry is the stored envelope. Timestamp is the capture time in epoch
// milliseconds, LastModified an ISO-8601 freshness marker.
type entry struct {
	Data         json.RawMessage `json:"data"`
	Timestamp    int64           `json:"timestamp"`
	LastModified string          `json:"lastModified"`
}

func newEntry(payload json.RawMessage, now time.Time, lastModified time.Time) entry {
	if lastModified.IsZero() {
		lastModified = now
	}
	return entry{
		Data:         payload,
		Timestamp:    now.UnixMilli(),
		LastModified: lastModified.UTC().Format(time.RFC3339),
	}
}

func (e entry) expired(now time.Time) bool {
	captured := time.UnixMilli(e.Timestamp)
	return now.Sub(captured) > TTL
}

// staleAgainst reports whether currentMarker is strictly newer than the
// stored freshness marker. An unparseable stored marker reports false.
func (e entry) staleAgainst(currentMarker time.Time) bool {
	stored, err := time.Parse(time.RFC3339, e.LastModified)
	if err != nil {
		return false
	}
	return currentMarker.After(stored)
}
