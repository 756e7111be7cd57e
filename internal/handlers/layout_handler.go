package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-layout-backend/internal/models"
	"storefront-layout-backend/internal/render"
	"storefront-layout-backend/internal/styles"
)

// LayoutReader loads published layouts.
type LayoutReader interface {
	Load(ctx context.Context, scopeID string) (models.LayoutDocument, error)
}

// LayoutHandler serves published layouts to the storefront.
type LayoutHandler struct {
	layouts LayoutReader
	preview *render.PreviewRenderer
	css     styles.FormatOptions
}

func NewLayoutHandler(layouts LayoutReader, preview *render.PreviewRenderer, css styles.FormatOptions) *LayoutHandler {
	if preview == nil {
		preview = render.NewPreviewRenderer(nil, css)
	}
	return &LayoutHandler{layouts: layouts, preview: preview, css: css}
}

// Get returns the layout for a scope. Inactive sections are left out unless
// all=true is passed.
// GET /api/v1/layouts/:scope
func (h *LayoutHandler) Get(c *gin.Context) {
	scope, ok := scopeParam(c)
	if !ok {
		return
	}

	doc, err := h.layouts.Load(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("all") != "true" {
		doc.Sections = doc.ActiveSections()
	}

	c.JSON(http.StatusOK, gin.H{"layout": doc})
}

// Styles returns the resolved CSS for the active sections of a scope.
// GET /api/v1/layouts/:scope/styles.css
func (h *LayoutHandler) Styles(c *gin.Context) {
	scope, ok := scopeParam(c)
	if !ok {
		return
	}

	doc, err := h.layouts.Load(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "public, max-age=60")
	c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(styles.Format(styles.ResolveDocument(doc), h.css)))
}

// Rules returns the structured rules per active section.
// GET /api/v1/layouts/:scope/rules
func (h *LayoutHandler) Rules(c *gin.Context) {
	scope, ok := scopeParam(c)
	if !ok {
		return
	}

	doc, err := h.layouts.Load(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scope_id": doc.ScopeID, "entries": render.Compose(doc)})
}

// Preview renders the layout as an HTML fragment.
// GET /api/v1/layouts/:scope/preview
func (h *LayoutHandler) Preview(c *gin.Context) {
	scope, ok := scopeParam(c)
	if !ok {
		return
	}

	doc, err := h.layouts.Load(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}

	html, err := h.preview.RenderDocument(doc)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
