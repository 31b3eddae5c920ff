package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arkiv-showcase/showcase-backend/internal/showcase/domain"
)

// SubmittedImage is one uploaded screenshot. Open returns the image bytes;
// the service closes the reader.
type SubmittedImage struct {
	Filename string
	Open     func() (io.ReadCloser, error)
}

// SubmissionService accepts new project submissions and persists them into
// the pending area.
type SubmissionService struct {
	layout Layout
	now    func() time.Time
}

func NewSubmissionService(layout Layout) *SubmissionService {
	return &SubmissionService{layout: layout, now: time.Now}
}

// Submit validates the payload, stores the uploaded images under the pending
// images area as {slug}-{n}.{ext}, and writes the pending record. A
// resubmission for the same slug overwrites the previous one. There is no
// rollback: an image may survive a failed record write.
func (s *SubmissionService) Submit(ctx context.Context, payload json.RawMessage, images []SubmittedImage) (string, error) {
	var p domain.Project
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", fmt.Errorf("%w: malformed project data", domain.ErrValidation)
	}

	if strings.TrimSpace(p.Title) == "" {
		return "", fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if strings.TrimSpace(p.Tagline) == "" {
		return "", fmt.Errorf("%w: tagline is required", domain.ErrValidation)
	}
	if strings.TrimSpace(p.Email) == "" {
		return "", fmt.Errorf("%w: contact email is required", domain.ErrValidation)
	}

	slug := strings.TrimSpace(p.Slug)
	if slug == "" {
		slug = domain.Slugify(p.Title)
	}
	if slug == "" {
		return "", fmt.Errorf("%w: cannot derive slug from title", domain.ErrValidation)
	}

	if err := os.MkdirAll(s.layout.PendingDir(), 0o755); err != nil {
		return "", fmt.Errorf("create pending dir: %w", err)
	}
	if err := os.MkdirAll(s.layout.PendingImagesDir(), 0o755); err != nil {
		return "", fmt.Errorf("create pending images dir: %w", err)
	}

	screens := make([]string, 0, len(images))
	for i, img := range images {
		ext := filepath.Ext(img.Filename)
		if ext == "" {
			ext = ".png"
		}
		name := fmt.Sprintf("%s-%d%s", slug, i+1, ext)

		if err := s.saveImage(img, filepath.Join(s.layout.PendingImagesDir(), name)); err != nil {
			return "", fmt.Errorf("save image %s: %w", name, err)
		}
		screens = append(screens, "/images/pending/"+name)
	}

	// The just-written paths replace whatever list the caller declared.
	p.Screens = screens
	p.Slug = slug
	p.Status = domain.StatusPending
	p.Approved = false
	p.SubmittedAt = s.now().UTC().Format(time.RFC3339)

	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal pending record: %w", err)
	}
	if err := os.WriteFile(s.layout.pendingRecordPath(slug), raw, 0o644); err != nil {
		return "", fmt.Errorf("write pending record: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"slug":   slug,
		"title":  p.Title,
		"images": len(screens),
	}).Info("new project submission")
	return slug, nil
}

func (s *SubmissionService) saveImage(img SubmittedImage, dst string) error {
	src, err := img.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return err
	}
	return out.Close()
}
