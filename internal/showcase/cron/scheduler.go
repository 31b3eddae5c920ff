package cronjob

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/arkiv-showcase/showcase-backend/internal/showcase/repository"
	"github.com/arkiv-showcase/showcase-backend/internal/showcase/service"
)

type Scheduler struct {
	approvals *service.ApprovalService
	repo      *repository.Repo
}

func NewScheduler(approvals *service.ApprovalService, repo *repository.Repo) *Scheduler {
	return &Scheduler{approvals: approvals, repo: repo}
}

// Start initializes cron tasks and runs one reconcile pass immediately to
// repair any approval interrupted by the previous shutdown.
func (s *Scheduler) Start() {
	s.runNightlyJobs()

	c := cron.New(cron.WithSeconds())

	// (12:00 AM)
	_, err := c.AddFunc("0 0 0 * * *", func() {
		s.runNightlyJobs()
	})

	if err != nil {
		logrus.WithError(err).Error("failed to create cron job")
		return
	}

	logrus.Info("cron scheduler started (reconcile + cache refresh nightly at 12:00AM)")
	c.Start()
}

func (s *Scheduler) runNightlyJobs() {
	ctx := context.Background()

	cleaned, err := s.approvals.Reconcile(ctx)
	if err != nil {
		logrus.WithError(err).Warn("nightly reconcile failed")
	} else if cleaned > 0 {
		logrus.WithField("cleaned", cleaned).Info("nightly reconcile finished interrupted approvals")
	}

	if err := s.repo.Refresh(ctx); err != nil {
		logrus.WithError(err).Warn("nightly cache refresh failed")
	}
}
