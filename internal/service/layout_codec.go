package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"storefront-layout-backend/internal/models"
	"storefront-layout-backend/internal/sections"
	"storefront-layout-backend/internal/styles"
)

type storedSection struct {
	ID       string              `json:"id"`
	Kind     string              `json:"kind"`
	Title    string              `json:"title"`
	IsActive *bool               `json:"is_active"`
	Settings models.Settings     `json:"settings"`
	Code     string              `json:"code"`
	Style    *models.StyleConfig `json:"style"`
}

type storedDocument struct {
	ScopeID  string          `json:"scope_id"`
	Sections []storedSection `json:"sections"`
}

// EncodeLayout serialises a document for storage.
func EncodeLayout(doc models.LayoutDocument) ([]byte, error) {
	if doc.Sections == nil {
		doc.Sections = []models.Section{}
	}
	return json.Marshal(doc)
}

// DecodeLayout parses a stored document permissively. A missing is_active is
// read as active, missing ids and ids whose DOM anchor repeats an earlier
// section's are replaced with fresh ones, kinds
// are normalised and missing default settings are filled in. Unknown keys are
// kept. When scopeID is not empty it overrides the stored scope.
func DecodeLayout(data []byte, scopeID string, registry *sections.Registry) (models.LayoutDocument, error) {
	var stored storedDocument
	if err := json.Unmarshal(data, &stored); err != nil {
		return models.LayoutDocument{}, fmt.Errorf("failed to decode layout: %w", err)
	}

	if scopeID == "" {
		scopeID = stored.ScopeID
	}
	doc := models.NewLayoutDocument(scopeID)
	anchors := make(map[string]bool, len(stored.Sections))

	for _, raw := range stored.Sections {
		section := models.Section{
			ID:       strings.TrimSpace(raw.ID),
			Kind:     models.NormaliseSectionKind(raw.Kind),
			Title:    raw.Title,
			IsActive: raw.IsActive == nil || *raw.IsActive,
			Settings: raw.Settings,
			Code:     raw.Code,
			Style:    raw.Style,
		}
		for section.ID == "" || anchors[styles.SectionAnchor(section.ID)] {
			section.ID = registry.NewSectionID()
		}
		anchors[styles.SectionAnchor(section.ID)] = true

		if section.Settings == nil {
			section.Settings = models.Settings{}
		}
		section = registry.ApplyDefaults(section)
		doc.Sections = append(doc.Sections, section)
	}

	return doc, nil
}
