package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"forgefolio/internal/shared/server/respond"
)

// Handler exposes usage statistics over HTTP.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/analytics", h.demoStats)
	r.GET("/analytics/raw", h.rawStats)
}

func (h *Handler) demoStats(c *gin.Context) {
	stats, err := h.Svc.DemoStats(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load analytics")
		return
	}
	respond.OK(c, gin.H{"success": true, "stats": stats})
}

func (h *Handler) rawStats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load analytics")
		return
	}
	respond.OK(c, gin.H{"success": true, "stats": stats})
}
