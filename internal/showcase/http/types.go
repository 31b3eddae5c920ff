package http

import (
	"github.com/arkiv-showcase/showcase-backend/internal/showcase/repository"
	"github.com/arkiv-showcase/showcase-backend/internal/showcase/service"
)

// Handler bundles the dependencies for showcase HTTP endpoints.
type Handler struct {
	repo        *repository.Repo
	submissions *service.SubmissionService
	approvals   *service.ApprovalService
}

func New(repo *repository.Repo, submissions *service.SubmissionService, approvals *service.ApprovalService) *Handler {
	return &Handler{
		repo:        repo,
		submissions: submissions,
		approvals:   approvals,
	}
}
