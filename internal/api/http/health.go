package http

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Content   string    `json:"content,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	contentDir  string
}

func NewHealthHandler(serviceName, version, contentDir string) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		contentDir:  contentDir,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	contentStatus := "disabled"
	if h.contentDir != "" {
		if info, err := os.Stat(h.contentDir); err != nil || !info.IsDir() {
			contentStatus = "missing"
		} else {
			contentStatus = "up"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Content:   contentStatus,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
