package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arkiv-showcase/showcase-backend/internal/showcase/domain"
	"github.com/arkiv-showcase/showcase-backend/internal/showcase/service"
)

func (h *Handler) list(c *gin.Context) {
	projects, err := h.repo.GetAllProjects(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": projects})
}

func (h *Handler) slugs(c *gin.Context) {
	slugs, err := h.repo.GetAllSlugs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "slugs": slugs})
}

func (h *Handler) get(c *gin.Context) {
	slug := c.Param("slug")

	p, err := h.repo.GetProjectBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) submit(c *gin.Context) {
	payload := c.PostForm("projectData")
	if strings.TrimSpace(payload) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "no project data provided"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid multipart form"})
		return
	}

	slug, err := h.submissions.Submit(c.Request.Context(), json.RawMessage(payload), submittedImages(form))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "project submitted successfully", "slug": slug})
}

// submittedImages collects the image-{n} file fields in index order.
func submittedImages(form *multipart.Form) []service.SubmittedImage {
	type indexed struct {
		index  int
		header *multipart.FileHeader
	}

	var files []indexed
	for key, headers := range form.File {
		if !strings.HasPrefix(key, "image-") || len(headers) == 0 {
			continue
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(key, "image-"))
		if err != nil {
			continue
		}
		files = append(files, indexed{index: idx, header: headers[0]})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].index < files[j].index })

	images := make([]service.SubmittedImage, 0, len(files))
	for _, f := range files {
		header := f.header
		images = append(images, service.SubmittedImage{
			Filename: header.Filename,
			Open:     func() (io.ReadCloser, error) { return header.Open() },
		})
	}
	return images
}
