package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arkiv-showcase/showcase-backend/internal/showcase/domain"
)

type slugReq struct {
	Slug string `json:"slug"`
}

func (h *Handler) pending(c *gin.Context) {
	projects, err := h.approvals.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *Handler) approve(c *gin.Context) {
	var req slugReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Slug) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "slug is required"})
		return
	}

	report, err := h.approvals.Approve(c.Request.Context(), req.Slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":      true,
		"message": "project approved and published",
		"slug":    req.Slug,
		"images":  report,
	})
}

func (h *Handler) reject(c *gin.Context) {
	var req slugReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Slug) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "slug is required"})
		return
	}

	if err := h.approvals.Reject(c.Request.Context(), req.Slug); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "project rejected and removed", "slug": req.Slug})
}
