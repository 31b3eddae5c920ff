package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkiv-showcase/showcase-backend/internal/cache"
	"github.com/arkiv-showcase/showcase-backend/internal/ledger"
	"github.com/arkiv-showcase/showcase-backend/internal/showcase/domain"
)

type fakeStore struct {
	records []ledger.ProjectRecord
	err     error
	calls   int
}

func (f *fakeStore) StoreProject(ctx context.Context, projectID string, data json.RawMessage) (string, error) {
	return "", nil
}

func (f *fakeStore) GetProject(ctx context.Context, projectID string) (*ledger.ProjectRecord, error) {
	return nil, ledger.ErrNotFound
}

func (f *fakeStore) GetAllProjects(ctx context.Context) ([]ledger.ProjectRecord, error) {
	f.calls++
	return f.records, f.err
}

func writeProjectFile(t *testing.T, dir, slug, createdAt string) {
	t.Helper()
	p := domain.Project{Slug: slug, Title: slug, Status: domain.StatusLive, CreatedAt: createdAt}
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, slug+".json"), raw, 0o644))
}

func newTestRepo(t *testing.T, store ledger.Store) (*Repo, string) {
	t.Helper()
	publishedDir := t.TempDir()
	c := cache.NewFileCache(t.TempDir())
	return New(c, store, publishedDir), publishedDir
}

func TestRepo_LoadsFromDiskSortedByCreatedAt(t *testing.T) {
	repo, dir := newTestRepo(t, nil)
	writeProjectFile(t, dir, "oldest", "2024-01-01T00:00:00Z")
	writeProjectFile(t, dir, "newest", "2025-05-01T00:00:00Z")
	writeProjectFile(t, dir, "middle", "2024-08-01T00:00:00Z")
	writeProjectFile(t, dir, "undated", "")

	projects, err := repo.GetAllProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 4)

	assert.Equal(t, "newest", projects[0].Slug)
	assert.Equal(t, "middle", projects[1].Slug)
	assert.Equal(t, "oldest", projects[2].Slug)
	assert.Equal(t, "undated", projects[3].Slug, "projects without createdAt sort last")
}

func TestRepo_CacheHitSkipsSources(t *testing.T) {
	store := &fakeStore{err: errors.New("down")}
	repo, dir := newTestRepo(t, store)
	writeProjectFile(t, dir, "demo", "2025-01-01T00:00:00Z")

	first, err := repo.GetAllProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, store.calls)

	// Remove the backing file; a cached second call must not notice.
	require.NoError(t, os.Remove(filepath.Join(dir, "demo.json")))

	second, err := repo.GetAllProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.calls, "cache hit must not re-invoke the ledger")
}

func TestRepo_PrefersLedger(t *testing.T) {
	mustMarshal := func(p domain.Project) json.RawMessage {
		raw, err := json.Marshal(p)
		require.NoError(t, err)
		return raw
	}

	store := &fakeStore{records: []ledger.ProjectRecord{
		{ProjectID: "a", Data: mustMarshal(domain.Project{Slug: "a", CreatedAt: "2024-01-01T00:00:00Z"})},
		{ProjectID: "b", Data: mustMarshal(domain.Project{Slug: "b", CreatedAt: "2025-01-01T00:00:00Z"})},
	}}
	repo, dir := newTestRepo(t, store)
	writeProjectFile(t, dir, "disk-only", "2023-01-01T00:00:00Z")

	projects, err := repo.GetAllProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2, "ledger data wins over the local files")
	assert.Equal(t, "b", projects[0].Slug)
	assert.Equal(t, "a", projects[1].Slug)
}

func TestRepo_EmptyLedgerFallsBackToDisk(t *testing.T) {
	store := &fakeStore{}
	repo, dir := newTestRepo(t, store)
	writeProjectFile(t, dir, "demo", "2025-01-01T00:00:00Z")

	projects, err := repo.GetAllProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "demo", projects[0].Slug)
}

func TestRepo_LedgerErrorFallsBackToDisk(t *testing.T) {
	store := &fakeStore{err: errors.New("rpc timeout")}
	repo, dir := newTestRepo(t, store)
	writeProjectFile(t, dir, "demo", "2025-01-01T00:00:00Z")

	projects, err := repo.GetAllProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
}

func TestRepo_DiskErrorPropagates(t *testing.T) {
	c := cache.NewFileCache(t.TempDir())
	repo := New(c, nil, filepath.Join(t.TempDir(), "does-not-exist"))

	_, err := repo.GetAllProjects(context.Background())
	assert.Error(t, err)
}

func TestRepo_MalformedFilePropagates(t *testing.T) {
	repo, dir := newTestRepo(t, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{oops"), 0o644))

	_, err := repo.GetAllProjects(context.Background())
	assert.Error(t, err)
}

func TestRepo_GetProjectBySlug(t *testing.T) {
	repo, dir := newTestRepo(t, nil)
	writeProjectFile(t, dir, "demo", "2025-01-01T00:00:00Z")

	p, err := repo.GetProjectBySlug(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", p.Slug)

	_, err = repo.GetProjectBySlug(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRepo_GetAllSlugs(t *testing.T) {
	repo, dir := newTestRepo(t, nil)
	for i, slug := range []string{"one", "two", "three"} {
		writeProjectFile(t, dir, slug, fmt.Sprintf("2025-0%d-01T00:00:00Z", i+1))
	}

	slugs, err := repo.GetAllSlugs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "two", "one"}, slugs)
}

func TestRepo_RefreshReloads(t *testing.T) {
	repo, dir := newTestRepo(t, nil)
	writeProjectFile(t, dir, "demo", "2025-01-01T00:00:00Z")

	_, err := repo.GetAllProjects(context.Background())
	require.NoError(t, err)

	writeProjectFile(t, dir, "late", "2025-06-01T00:00:00Z")
	require.NoError(t, repo.Refresh(context.Background()))

	projects, err := repo.GetAllProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "late", projects[0].Slug)
}
