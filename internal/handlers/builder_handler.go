package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-layout-backend/internal/models"
	"storefront-layout-backend/internal/sections"
)

// BuilderHandler serves the metadata the layout builder UI is generated from.
type BuilderHandler struct {
	registry  *sections.Registry
	templates *sections.TemplateCatalog
}

func NewBuilderHandler(registry *sections.Registry, templates *sections.TemplateCatalog) *BuilderHandler {
	return &BuilderHandler{registry: registry, templates: templates}
}

// AvailableSections returns metadata for all registered section kinds.
// GET /api/v1/admin/sections/available
func (h *BuilderHandler) AvailableSections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sections": h.registry.ListMetadata()})
}

// SectionSchema returns the settings schema of one kind.
// GET /api/v1/admin/sections/:kind/schema
func (h *BuilderHandler) SectionSchema(c *gin.Context) {
	kind := models.NormaliseSectionKind(c.Param("kind"))

	schema, err := h.registry.Schema(kind)
	if err != nil {
		respondError(c, err)
		return
	}
	required, _ := h.registry.RequiredKeys(kind)

	c.JSON(http.StatusOK, gin.H{"kind": kind, "schema": schema, "required": required})
}

// GET /api/v1/admin/builder/config
func (h *BuilderHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"config": h.registry.PageBuilderConfig()})
}

// Templates lists the layout presets a session can start from.
// GET /api/v1/admin/templates
func (h *BuilderHandler) Templates(c *gin.Context) {
	templates := h.templates.List()
	summaries := make([]models.PageTemplate, 0, len(templates))
	for _, tmpl := range templates {
		summaries = append(summaries, tmpl.Summary())
	}
	c.JSON(http.StatusOK, gin.H{"templates": summaries})
}
