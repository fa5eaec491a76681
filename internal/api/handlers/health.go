package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taxfolio/ledgerlink-backend/internal/api/dto"
)

// Health handles the health check request.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewHealthResponse())
}
