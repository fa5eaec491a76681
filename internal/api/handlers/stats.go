package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxfolio/ledgerlink-backend/internal/application/service"
)

// StatsHandler handles aggregate statistics requests.
type StatsHandler struct {
	service *service.LinkService
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(svc *service.LinkService) *StatsHandler {
	return &StatsHandler{service: svc}
}

// Get handles GET /api/stats - collection-wide counts.
func (h *StatsHandler) Get(c *gin.Context) {
	stats, err := h.service.Stats()
	if err != nil {
		WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
