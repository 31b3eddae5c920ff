package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arkiv-showcase/showcase-backend/internal/cache"
	"github.com/arkiv-showcase/showcase-backend/internal/ledger"
	"github.com/arkiv-showcase/showcase-backend/internal/showcase/domain"
)

const allProjectsKey = "all-projects"

// Repo produces the canonical list of published projects. Reads go through
// three layers: cache, then the remote ledger store, then the local published
// directory as the last resort. The ledger is optional and any failure there
// degrades to the filesystem.
type Repo struct {
	cache        cache.Cache
	store        ledger.Store // nil when no ledger is configured
	publishedDir string
}

func New(c cache.Cache, store ledger.Store, publishedDir string) *Repo {
	return &Repo{
		cache:        c,
		store:        store,
		publishedDir: publishedDir,
	}
}

// GetAllProjects returns all published projects, newest createdAt first.
func (r *Repo) GetAllProjects(ctx context.Context) ([]domain.Project, error) {
	if raw, ok := r.cache.Get(ctx, allProjectsKey); ok {
		var projects []domain.Project
		if err := json.Unmarshal(raw, &projects); err == nil {
			return projects, nil
		}
		// A cached payload that no longer parses is treated as a miss.
		r.cache.Invalidate(ctx, allProjectsKey)
	}

	if r.store != nil {
		if projects, ok := r.loadFromLedger(ctx); ok {
			r.writeThrough(ctx, projects)
			return projects, nil
		}
	}

	projects, err := r.loadFromDisk()
	if err != nil {
		return nil, err
	}

	r.writeThrough(ctx, projects)
	return projects, nil
}

// GetProjectBySlug returns the published project with the given slug, or
// domain.ErrNotFound.
func (r *Repo) GetProjectBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	projects, err := r.GetAllProjects(ctx)
	if err != nil {
		return nil, err
	}

	for i := range projects {
		if projects[i].Slug == slug {
			return &projects[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// GetAllSlugs returns the slugs of all published projects, in list order.
func (r *Repo) GetAllSlugs(ctx context.Context) ([]string, error) {
	projects, err := r.GetAllProjects(ctx)
	if err != nil {
		return nil, err
	}

	slugs := make([]string, 0, len(projects))
	for _, p := range projects {
		slugs = append(slugs, p.Slug)
	}
	return slugs, nil
}

// Refresh drops the cached list and re-derives it from the ledger or disk.
func (r *Repo) Refresh(ctx context.Context) error {
	r.cache.Invalidate(ctx, allProjectsKey)
	_, err := r.GetAllProjects(ctx)
	return err
}

// loadFromLedger fetches every record from the remote store. It reports
// ok=false on any error or an empty result, in which case the caller falls
// back to disk.
func (r *Repo) loadFromLedger(ctx context.Context) ([]domain.Project, bool) {
	records, err := r.store.GetAllProjects(ctx)
	if err != nil {
		logrus.WithError(err).Warn("ledger unavailable, falling back to local files")
		return nil, false
	}
	if len(records) == 0 {
		return nil, false
	}

	projects := make([]domain.Project, 0, len(records))
	for _, rec := range records {
		var p domain.Project
		if err := json.Unmarshal(rec.Data, &p); err != nil {
			logrus.WithError(err).WithField("project_id", rec.ProjectID).Warn("skipping malformed ledger record")
			continue
		}
		projects = append(projects, p)
	}

	sortByCreatedAt(projects)
	logrus.WithField("count", len(projects)).Info("loaded projects from ledger")
	return projects, true
}

// loadFromDisk scans the published directory. As the last resort, its
// failures (missing directory, malformed JSON) propagate to the caller.
func (r *Repo) loadFromDisk() ([]domain.Project, error) {
	entries, err := os.ReadDir(r.publishedDir)
	if err != nil {
		return nil, fmt.Errorf("read published dir: %w", err)
	}

	projects := make([]domain.Project, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(r.publishedDir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read project file %s: %w", e.Name(), err)
		}

		var p domain.Project
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("parse project file %s: %w", e.Name(), err)
		}
		projects = append(projects, p)
	}

	sortByCreatedAt(projects)
	return projects, nil
}

func (r *Repo) writeThrough(ctx context.Context, projects []domain.Project) {
	raw, err := json.Marshal(projects)
	if err != nil {
		logrus.WithError(err).Warn("cache write-through marshal failed")
		return
	}
	r.cache.Set(ctx, allProjectsKey, raw, time.Time{})
}

// sortByCreatedAt orders newest first by lexical comparison of the ISO-8601
// createdAt strings; projects without one sort last.
func sortByCreatedAt(projects []domain.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedAt > projects[j].CreatedAt
	})
}
