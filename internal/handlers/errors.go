package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-layout-backend/internal/layout"
	"storefront-layout-backend/internal/sections"
	"storefront-layout-backend/internal/service"
	"storefront-layout-backend/pkg/logger"
	"storefront-layout-backend/pkg/validator"
)

// respondError maps domain errors to HTTP responses. Persistence failures are
// reported as retryable gateway errors so the editor keeps its state.
func respondError(c *gin.Context, err error) {
	var persistenceErr *service.PersistenceError

	switch {
	case errors.As(err, &persistenceErr):
		logger.FromContext(c.Request.Context()).WithError(err).WithFields(map[string]interface{}{
			"scope_id":  persistenceErr.ScopeID,
			"operation": persistenceErr.Op,
		}).Error("Layout persistence failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "layout storage is unavailable, please retry",
			"scope_id":  persistenceErr.ScopeID,
			"operation": persistenceErr.Op,
			"retryable": true,
		})
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, sections.ErrTemplateNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidScope),
		errors.Is(err, sections.ErrUnknownSectionKind),
		errors.Is(err, layout.ErrUnsupportedField),
		errors.Is(err, layout.ErrInvalidDirection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.FromContext(c.Request.Context()).WithError(err).Error("Unexpected layout error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// scopeParam reads and validates the :scope path parameter.
func scopeParam(c *gin.Context) (string, bool) {
	scope := strings.TrimSpace(c.Param("scope"))
	if !validator.ValidScopeID(scope) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scope id"})
		return "", false
	}
	return scope, true
}
