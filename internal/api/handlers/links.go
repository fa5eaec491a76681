package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxfolio/ledgerlink-backend/internal/api/dto"
	"github.com/taxfolio/ledgerlink-backend/internal/application/service"
)

// LinksHandler handles link commit and unlink requests.
type LinksHandler struct {
	service *service.LinkService
}

// NewLinksHandler creates a new links handler.
func NewLinksHandler(svc *service.LinkService) *LinksHandler {
	return &LinksHandler{service: svc}
}

// Create handles POST /api/links - commits a duplicate link.
func (h *LinksHandler) Create(c *gin.Context) {
	var req dto.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	if err := h.service.Link(req.PrimaryID, req.DuplicateID); err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"primary_id": req.PrimaryID, "duplicate_id": req.DuplicateID})
}

// Delete handles DELETE /api/links/:id - reverses a link from either end.
func (h *LinksHandler) Delete(c *gin.Context) {
	if err := h.service.Unlink(c.Param("id")); err != nil {
		WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Auto handles POST /api/links/auto - bulk auto-linking of
// high-confidence suggestions.
func (h *LinksHandler) Auto(c *gin.Context) {
	var req dto.AutoLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	result, err := h.service.AutoLink(req.Threshold)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AutoLinkResponse{
		Linked:  result.Linked,
		Skipped: result.Skipped,
	})
}

// Suggestions handles GET /api/links/suggestions - bulk duplicate scan.
func (h *LinksHandler) Suggestions(c *gin.Context) {
	threshold := ParseIntQuery(c, "threshold", 0)

	suggestions, err := h.service.Suggestions(threshold)
	if err != nil {
		WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions, "total_count": len(suggestions)})
}
