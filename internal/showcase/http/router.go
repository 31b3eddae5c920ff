package http

import "github.com/gin-gonic/gin"

// Register attaches the public showcase routes to the given router group.
// The submit route takes extra middleware (rate limiting).
func (h *Handler) Register(rg *gin.RouterGroup, submitMiddleware ...gin.HandlerFunc) {
	rg.GET("", h.list)
	rg.GET("/slugs", h.slugs)
	rg.GET("/:slug", h.get)

	handlers := append(submitMiddleware, h.submit)
	rg.POST("/submit", handlers...)
}

// RegisterAdmin attaches the moderation routes. The group is expected to be
// wrapped in admin authentication.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/pending", h.pending)
	rg.POST("/approve", h.approve)
	rg.POST("/reject", h.reject)
}
