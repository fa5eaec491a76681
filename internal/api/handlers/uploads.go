package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxfolio/ledgerlink-backend/internal/api/dto"
	"github.com/taxfolio/ledgerlink-backend/internal/application/service"
)

// UploadsHandler handles re-upload pre-checks.
type UploadsHandler struct {
	service *service.LinkService
}

// NewUploadsHandler creates a new uploads handler.
func NewUploadsHandler(svc *service.LinkService) *UploadsHandler {
	return &UploadsHandler{service: svc}
}

// Check handles GET /api/uploads/check?filename= - reports prior
// uploads with a similar filename before the client commits an upload.
func (h *UploadsHandler) Check(c *gin.Context) {
	filename := c.Query("filename")
	if filename == "" {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("filename is required"))
		return
	}

	matches, err := h.service.CheckUpload(filename)
	if err != nil {
		WriteError(c, err)
		return
	}

	response := dto.UploadCheckResponse{
		Filename:   filename,
		Duplicates: make([]dto.DocumentResponse, 0, len(matches)),
	}
	for _, doc := range matches {
		response.Duplicates = append(response.Duplicates, dto.ToDocumentResponse(doc))
	}

	c.JSON(http.StatusOK, response)
}
