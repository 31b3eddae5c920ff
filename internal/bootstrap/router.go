package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	httpapi "github.com/arkiv-showcase/showcase-backend/internal/api/http"
	"github.com/arkiv-showcase/showcase-backend/internal/api/http/middleware"
	showcasehttp "github.com/arkiv-showcase/showcase-backend/internal/showcase/http"
	"github.com/arkiv-showcase/showcase-backend/internal/showcase/repository"
	"github.com/arkiv-showcase/showcase-backend/internal/showcase/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	ContentDir  string
	AdminToken  string
	SubmitRate  rate.Limit
	SubmitBurst int

	Repo        *repository.Repo
	Submissions *service.SubmissionService
	Approvals   *service.ApprovalService
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())
	r.Use(middleware.RequestID())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.ContentDir)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	handler := showcasehttp.New(dep.Repo, dep.Submissions, dep.Approvals)

	projectsGroup := api.Group("/projects")
	handler.Register(projectsGroup, middleware.RateLimit(dep.SubmitRate, dep.SubmitBurst))

	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AdminAuth(dep.AdminToken))
	handler.RegisterAdmin(adminGroup)

	return r
}

func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}
