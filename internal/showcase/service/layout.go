package service

import "path/filepath"

// Layout resolves the filesystem areas the showcase persists into, relative
// to the content and public roots.
type Layout struct {
	ContentDir string
	PublicDir  string
}

// PublishedDir holds the canonical published records, one {slug}.json each.
func (l Layout) PublishedDir() string {
	return filepath.Join(l.ContentDir, "projects")
}

// PendingDir holds submissions awaiting moderation.
func (l Layout) PendingDir() string {
	return filepath.Join(l.ContentDir, "pending")
}

// PendingImagesDir holds uploaded screenshots of pending submissions.
func (l Layout) PendingImagesDir() string {
	return filepath.Join(l.PublicDir, "images", "pending")
}

// ProjectImagesDir holds the published screenshots of one project.
func (l Layout) ProjectImagesDir(slug string) string {
	return filepath.Join(l.PublicDir, "images", slug)
}

func (l Layout) pendingRecordPath(slug string) string {
	return filepath.Join(l.PendingDir(), slug+".json")
}

func (l Layout) publishedRecordPath(slug string) string {
	return filepath.Join(l.PublishedDir(), slug+".json")
}
