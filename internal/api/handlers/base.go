package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taxfolio/ledgerlink-backend/internal/api/dto"
	"github.com/taxfolio/ledgerlink-backend/internal/application/service"
	"github.com/taxfolio/ledgerlink-backend/internal/domain/linker"
)

// WriteError maps a service or domain error onto the right status code
// and structured error body.
func WriteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDocumentNotFound), errors.Is(err, linker.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.NotFoundError("document"))
	case errors.Is(err, linker.ErrSelfLink):
		c.JSON(http.StatusBadRequest, dto.ValidationError(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, dto.InternalError())
	}
}

// ParseIntQuery parses an integer query parameter with a default value.
func ParseIntQuery(c *gin.Context, name string, defaultVal int) int {
	val := c.Query(name)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}
