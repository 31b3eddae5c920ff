package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// FileCache stores entries as <dir>/<key>.json files. It is the default
// backend and its on-disk format matches the site's historical cache files.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache builds a disk cache rooted at dir. The directory is created
// lazily on the first write.
func NewFileCache(dir string) *FileCache {
	return &FileCache{dir: dir, now: time.Now}
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func (c *FileCache) read(key string) (entry, bool) {
	raw, err := os.ReadFile(c.path(key))
	if err != nil {
		return entry{}, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return entry{}, false
	}
	return e, true
}

func (c *FileCache) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	e, ok := c.read(key)
	if !ok {
		return nil, false
	}

	if e.expired(c.now()) {
		logrus.WithField("key", key).Debug("cache expired")
		return nil, false
	}

	return e.Data, true
}

func (c *FileCache) Set(ctx context.Context, key string, payload json.RawMessage, lastModified time.Time) {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache dir create failed")
		return
	}

	raw, err := json.MarshalIndent(newEntry(payload, c.now(), lastModified), "", "  ")
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache marshal failed")
		return
	}

	if err := os.WriteFile(c.path(key), raw, 0o644); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

func (c *FileCache) Invalidate(ctx context.Context, key string) {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).WithField("key", key).Warn("cache invalidate failed")
	}
}

func (c *FileCache) ShouldInvalidate(ctx context.Context, key string, currentMarker time.Time) bool {
	e, ok := c.read(key)
	if !ok {
		return false
	}

	if e.staleAgainst(currentMarker) {
		logrus.WithField("key", key).Info("data changed, invalidating cache")
		c.Invalidate(ctx, key)
		return true
	}

	return false
}
