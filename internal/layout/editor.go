// Package layout implements the in-memory authoring operations applied to a
// layout document before it is published.
package layout

import (
	"errors"
	"fmt"
	"strings"

	"storefront-layout-backend/internal/models"
)

var (
	// ErrUnsupportedField is returned by UpdateField for fields that cannot be
	// replaced directly.
	ErrUnsupportedField = errors.New("unsupported section field")
	// ErrInvalidDirection is returned when a move direction is neither up nor down.
	ErrInvalidDirection = errors.New("invalid move direction")
)

// Direction is the way MoveSection shifts a section.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection accepts "up" and "down" in any case.
func ParseDirection(value string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(value))) {
	case Up:
		return Up, nil
	case Down:
		return Down, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, value)
	}
}

// Top-level section fields accepted by UpdateField.
const (
	FieldTitle = "title"
	FieldCode  = "code"
)

// SectionFactory creates sections and section ids.
type SectionFactory interface {
	CreateDefaultSection(kind models.SectionKind) (models.Section, error)
	NewSectionID() string
}

// Editor applies authoring operations to a layout document. Every operation
// replaces the sections slice instead of mutating it, and only the touched
// section is copied, so documents handed out earlier never change underneath
// their holders. Operations on ids that are not in the document do nothing.
//
// An Editor is not safe for concurrent use.
type Editor struct {
	factory SectionFactory
	doc     models.LayoutDocument
	dirty   bool
}

// NewEditor starts editing a private copy of doc.
func NewEditor(doc models.LayoutDocument, factory SectionFactory) *Editor {
	owned := doc.Clone()
	if owned.Sections == nil {
		owned.Sections = []models.Section{}
	}
	return &Editor{factory: factory, doc: owned}
}

// Document returns the current state. Callers must treat it as read-only.
func (e *Editor) Document() models.LayoutDocument {
	return e.doc
}

// Commit returns a deep copy of the current state for handing to the store.
// It does not persist anything.
func (e *Editor) Commit() models.LayoutDocument {
	return e.doc.Clone()
}

// Dirty reports whether the document changed since the editor was created or
// last marked saved.
func (e *Editor) Dirty() bool {
	return e.dirty
}

// MarkSaved clears the dirty flag after a successful save.
func (e *Editor) MarkSaved() {
	e.dirty = false
}

// AddSection appends a new default section of kind.
func (e *Editor) AddSection(kind models.SectionKind) (models.Section, error) {
	section, err := e.factory.CreateDefaultSection(kind)
	if err != nil {
		return models.Section{}, err
	}

	sections := make([]models.Section, len(e.doc.Sections), len(e.doc.Sections)+1)
	copy(sections, e.doc.Sections)
	sections = append(sections, section)
	e.setSections(sections)
	return section, nil
}

// RemoveSection drops the section with id. It reports whether anything was removed.
func (e *Editor) RemoveSection(id string) bool {
	index := e.doc.IndexOf(id)
	if index < 0 {
		return false
	}

	sections := make([]models.Section, 0, len(e.doc.Sections)-1)
	sections = append(sections, e.doc.Sections[:index]...)
	sections = append(sections, e.doc.Sections[index+1:]...)
	e.setSections(sections)
	return true
}

// MoveSection swaps the section with its neighbour in direction. Moving the
// first section up or the last section down is ignored.
func (e *Editor) MoveSection(id string, direction Direction) bool {
	index := e.doc.IndexOf(id)
	if index < 0 {
		return false
	}

	target := index
	switch direction {
	case Up:
		target = index - 1
	case Down:
		target = index + 1
	}
	if target == index || target < 0 || target >= len(e.doc.Sections) {
		return false
	}

	sections := e.copySections()
	sections[index], sections[target] = sections[target], sections[index]
	e.setSections(sections)
	return true
}

// SetActive toggles whether the section is rendered.
func (e *Editor) SetActive(id string, active bool) bool {
	return e.update(id, func(section *models.Section) bool {
		if section.IsActive == active {
			return false
		}
		section.IsActive = active
		return true
	})
}

// UpdateSettings merges {key: value} into the section's settings, keeping
// every other key.
func (e *Editor) UpdateSettings(id, key string, value interface{}) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	return e.update(id, func(section *models.Section) bool {
		section.Settings = section.Settings.With(key, value)
		return true
	})
}

// UpdateField replaces a top-level field of the section. Only title and code
// can be set this way.
func (e *Editor) UpdateField(id, field, value string) error {
	field = strings.ToLower(strings.TrimSpace(field))
	if field != FieldTitle && field != FieldCode {
		return fmt.Errorf("%w: %q", ErrUnsupportedField, field)
	}

	e.update(id, func(section *models.Section) bool {
		switch field {
		case FieldTitle:
			section.Title = value
		case FieldCode:
			section.Code = value
		}
		return true
	})
	return nil
}

// UpdateStyle replaces the section's style configuration. A nil style clears it.
func (e *Editor) UpdateStyle(id string, style *models.StyleConfig) bool {
	return e.update(id, func(section *models.Section) bool {
		if style == nil {
			section.Style = nil
			return true
		}
		cloned := style.Clone()
		section.Style = &cloned
		return true
	})
}

// DuplicateSection appends a copy of the section with a fresh id.
func (e *Editor) DuplicateSection(id string) (models.Section, bool) {
	index := e.doc.IndexOf(id)
	if index < 0 {
		return models.Section{}, false
	}

	duplicate := e.doc.Sections[index].Clone()
	duplicate.ID = e.factory.NewSectionID()
	if strings.TrimSpace(duplicate.Title) != "" {
		duplicate.Title = duplicate.Title + " (Copy)"
	}

	sections := make([]models.Section, len(e.doc.Sections), len(e.doc.Sections)+1)
	copy(sections, e.doc.Sections)
	sections = append(sections, duplicate)
	e.setSections(sections)
	return duplicate, true
}

func (e *Editor) update(id string, mutate func(*models.Section) bool) bool {
	index := e.doc.IndexOf(id)
	if index < 0 {
		return false
	}

	section := e.doc.Sections[index]
	if !mutate(&section) {
		return false
	}

	sections := e.copySections()
	sections[index] = section
	e.setSections(sections)
	return true
}

func (e *Editor) copySections() []models.Section {
	sections := make([]models.Section, len(e.doc.Sections))
	copy(sections, e.doc.Sections)
	return sections
}

func (e *Editor) setSections(sections []models.Section) {
	e.doc = models.LayoutDocument{
		ScopeID:  e.doc.ScopeID,
		Sections: sections,
	}
	e.dirty = true
}
