package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-layout-backend/internal/layout"
	"storefront-layout-backend/internal/models"
	"storefront-layout-backend/internal/render"
	"storefront-layout-backend/internal/service"
)

// EditorHandler exposes authoring sessions over HTTP.
type EditorHandler struct {
	editor  *service.EditorService
	preview *render.PreviewRenderer
}

func NewEditorHandler(editor *service.EditorService, preview *render.PreviewRenderer) *EditorHandler {
	return &EditorHandler{editor: editor, preview: preview}
}

// Open starts a session on a scope, optionally seeded from a template.
// POST /api/v1/admin/layouts/:scope/sessions
func (h *EditorHandler) Open(c *gin.Context) {
	scope, ok := scopeParam(c)
	if !ok {
		return
	}

	var req models.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.editor.Open(c.Request.Context(), scope, req.TemplateID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": view})
}

// GET /api/v1/admin/sessions/:session
func (h *EditorHandler) Get(c *gin.Context) {
	view, err := h.editor.Get(c.Param("session"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": view})
}

// Discard drops the session without saving.
// DELETE /api/v1/admin/sessions/:session
func (h *EditorHandler) Discard(c *gin.Context) {
	if err := h.editor.Discard(c.Param("session")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session discarded"})
}

// Preview renders the session's unpublished document.
// GET /api/v1/admin/sessions/:session/preview
func (h *EditorHandler) Preview(c *gin.Context) {
	view, err := h.editor.Get(c.Param("session"))
	if err != nil {
		respondError(c, err)
		return
	}

	html, err := h.preview.RenderDocument(view.Document)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// POST /api/v1/admin/sessions/:session/sections
func (h *EditorHandler) AddSection(c *gin.Context) {
	var req models.AddSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	section, view, err := h.editor.AddSection(c.Param("session"), models.NormaliseSectionKind(req.Kind))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"section": section, "session": view})
}

// RemoveSection is idempotent: removing a missing section succeeds.
// DELETE /api/v1/admin/sessions/:session/sections/:section
func (h *EditorHandler) RemoveSection(c *gin.Context) {
	view, err := h.editor.RemoveSection(c.Param("session"), c.Param("section"))
	h.respond(c, view, err)
}

// POST /api/v1/admin/sessions/:session/sections/:section/move
func (h *EditorHandler) MoveSection(c *gin.Context) {
	var req models.MoveSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	direction, err := layout.ParseDirection(req.Direction)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.editor.MoveSection(c.Param("session"), c.Param("section"), direction)
	h.respond(c, view, err)
}

// POST /api/v1/admin/sessions/:session/sections/:section/duplicate
func (h *EditorHandler) DuplicateSection(c *gin.Context) {
	duplicate, found, view, err := h.editor.DuplicateSection(c.Param("session"), c.Param("section"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"section": duplicate, "session": view})
}

// PUT /api/v1/admin/sessions/:session/sections/:section/active
func (h *EditorHandler) SetActive(c *gin.Context) {
	var req models.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.editor.SetActive(c.Param("session"), c.Param("section"), *req.Active)
	h.respond(c, view, err)
}

// PATCH /api/v1/admin/sessions/:session/sections/:section/settings
func (h *EditorHandler) UpdateSettings(c *gin.Context) {
	var req models.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.editor.UpdateSettings(c.Param("session"), c.Param("section"), req.Key, req.Value)
	h.respond(c, view, err)
}

// PUT /api/v1/admin/sessions/:session/sections/:section/fields/:field
func (h *EditorHandler) UpdateField(c *gin.Context) {
	var req models.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.editor.UpdateField(c.Param("session"), c.Param("section"), c.Param("field"), req.Value)
	h.respond(c, view, err)
}

// PUT /api/v1/admin/sessions/:session/sections/:section/style
func (h *EditorHandler) UpdateStyle(c *gin.Context) {
	var style models.StyleConfig
	if err := c.ShouldBindJSON(&style); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.editor.UpdateStyle(c.Param("session"), c.Param("section"), &style)
	h.respond(c, view, err)
}

// DELETE /api/v1/admin/sessions/:session/sections/:section/style
func (h *EditorHandler) ClearStyle(c *gin.Context) {
	view, err := h.editor.UpdateStyle(c.Param("session"), c.Param("section"), nil)
	h.respond(c, view, err)
}

// Publish saves the session's document. A failed save answers 502 and leaves
// the session intact for a retry.
// POST /api/v1/admin/sessions/:session/publish
func (h *EditorHandler) Publish(c *gin.Context) {
	view, err := h.editor.Publish(c.Request.Context(), c.Param("session"))
	h.respond(c, view, err)
}

func (h *EditorHandler) respond(c *gin.Context, view service.SessionView, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": view})
}
