package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arkiv-showcase/showcase-backend/internal/showcase/domain"
)

// MoveReport summarizes the per-image outcomes of an approval: Moved images
// now live in the published area, Kept images stayed on their pending paths
// because the move failed.
type MoveReport struct {
	Moved int `json:"moved"`
	Kept  int `json:"kept"`
}

// ApprovalService moves pending submissions to the published area or deletes
// them. Both transitions are terminal for the slug at the pending location.
type ApprovalService struct {
	layout Layout
	now    func() time.Time
}

func NewApprovalService(layout Layout) *ApprovalService {
	return &ApprovalService{layout: layout, now: time.Now}
}

// ListPending returns all pending submissions, newest submittedAt first. A
// missing pending directory yields an empty list. Records that no longer
// parse are skipped so one bad file cannot take down moderation.
func (s *ApprovalService) ListPending(ctx context.Context) ([]domain.Project, error) {
	entries, err := os.ReadDir(s.layout.PendingDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Project{}, nil
		}
		return nil, fmt.Errorf("read pending dir: %w", err)
	}

	projects := make([]domain.Project, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(s.layout.PendingDir(), e.Name()))
		if err != nil {
			logrus.WithError(err).WithField("file", e.Name()).Warn("skipping unreadable pending record")
			continue
		}

		var p domain.Project
		if err := json.Unmarshal(raw, &p); err != nil {
			logrus.WithError(err).WithField("file", e.Name()).Warn("skipping malformed pending record")
			continue
		}
		projects = append(projects, p)
	}

	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].SubmittedAt > projects[j].SubmittedAt
	})
	return projects, nil
}

// Approve publishes the pending record for slug: flips it to live, relocates
// its images into the per-slug published directory, writes the published
// record, and only then deletes the pending copy. Individual image moves are
// best-effort; a failed move keeps the original pending path in the record.
func (s *ApprovalService) Approve(ctx context.Context, slug string) (*MoveReport, error) {
	p, err := s.loadPending(slug)
	if err != nil {
		return nil, err
	}

	p.Approved = true
	p.Status = domain.StatusLive
	p.ApprovedAt = s.now().UTC().Format(time.RFC3339)

	report := &MoveReport{}
	if len(p.Screens) > 0 {
		p.Screens = s.moveImages(slug, p.Screens, report)
	}

	if err := os.MkdirAll(s.layout.PublishedDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create published dir: %w", err)
	}

	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal published record: %w", err)
	}
	if err := os.WriteFile(s.layout.publishedRecordPath(slug), raw, 0o644); err != nil {
		return nil, fmt.Errorf("write published record: %w", err)
	}

	// The pending copy goes only after the publish write succeeded; a crash
	// in between is repaired by Reconcile.
	if err := os.Remove(s.layout.pendingRecordPath(slug)); err != nil {
		logrus.WithError(err).WithField("slug", slug).Warn("published but could not delete pending record")
	}

	logrus.WithFields(logrus.Fields{
		"slug":  slug,
		"moved": report.Moved,
		"kept":  report.Kept,
	}).Info("project approved and published")
	return report, nil
}

// moveImages relocates every pending screenshot into the per-slug published
// directory under {slug}-{n}{ext}. Non-pending paths pass through untouched.
func (s *ApprovalService) moveImages(slug string, screens []string, report *MoveReport) []string {
	imageDir := s.layout.ProjectImagesDir(slug)
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		logrus.WithError(err).WithField("slug", slug).Warn("could not create image dir, keeping pending paths")
		report.Kept += countPending(screens)
		return screens
	}

	out := make([]string, 0, len(screens))
	for i, screen := range screens {
		if !strings.Contains(screen, "/pending/") {
			out = append(out, screen)
			continue
		}

		fileName := path.Base(screen)
		oldPath := filepath.Join(s.layout.PendingImagesDir(), fileName)
		newFileName := fmt.Sprintf("%s-%d%s", slug, i+1, filepath.Ext(fileName))
		newPath := filepath.Join(imageDir, newFileName)

		if err := moveFile(oldPath, newPath); err != nil {
			logrus.WithError(err).WithField("image", fileName).Warn("could not move image, keeping pending path")
			out = append(out, screen)
			report.Kept++
			continue
		}

		out = append(out, "/images/"+slug+"/"+newFileName)
		report.Moved++
	}
	return out
}

// Reject deletes the pending record for slug together with its images.
// Image deletions are best-effort.
func (s *ApprovalService) Reject(ctx context.Context, slug string) error {
	p, err := s.loadPending(slug)
	if err != nil {
		return err
	}

	for _, screen := range p.Screens {
		if !strings.Contains(screen, "/pending/") {
			continue
		}
		imagePath := filepath.Join(s.layout.PendingImagesDir(), path.Base(screen))
		if err := os.Remove(imagePath); err != nil && !os.IsNotExist(err) {
			logrus.WithError(err).WithField("image", imagePath).Warn("could not remove pending image")
		}
	}

	if err := os.Remove(s.layout.pendingRecordPath(slug)); err != nil {
		return fmt.Errorf("delete pending record: %w", err)
	}

	logrus.WithFields(logrus.Fields{"slug": slug, "title": p.Title}).Info("project rejected and removed")
	return nil
}

// Reconcile finishes approvals interrupted between the publish write and the
// pending delete: a slug present in both areas loses its pending copy. It
// returns the number of records cleaned up.
func (s *ApprovalService) Reconcile(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.layout.PendingDir())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read pending dir: %w", err)
	}

	cleaned := 0
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		slug := strings.TrimSuffix(e.Name(), ".json")

		if _, err := os.Stat(s.layout.publishedRecordPath(slug)); err != nil {
			continue
		}

		if err := os.Remove(s.layout.pendingRecordPath(slug)); err != nil {
			logrus.WithError(err).WithField("slug", slug).Warn("reconcile: could not delete pending record")
			continue
		}
		logrus.WithField("slug", slug).Info("reconcile: finished interrupted approval")
		cleaned++
	}
	return cleaned, nil
}

func (s *ApprovalService) loadPending(slug string) (*domain.Project, error) {
	raw, err := os.ReadFile(s.layout.pendingRecordPath(slug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read pending record: %w", err)
	}

	var p domain.Project
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse pending record: %w", err)
	}
	return &p, nil
}

func countPending(screens []string) int {
	n := 0
	for _, screen := range screens {
		if strings.Contains(screen, "/pending/") {
			n++
		}
	}
	return n
}

// moveFile copies src to dst and removes the original. The copy-then-delete
// pair is not atomic across the two areas.
func moveFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Remove(src)
}
