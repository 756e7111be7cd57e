package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// GlobalScope identifies the storefront homepage layout.
const GlobalScope = "global"

// SectionKind identifies one of the section types a layout can contain.
type SectionKind string

const (
	KindHero         SectionKind = "hero"
	KindCollections  SectionKind = "collections"
	KindNewArrivals  SectionKind = "new_arrivals"
	KindBestSellers  SectionKind = "best_sellers"
	KindVideos       SectionKind = "videos"
	KindTestimonials SectionKind = "testimonials"
	KindNewsletter   SectionKind = "newsletter"
	KindCustomCode   SectionKind = "custom_code"
)

// AllSectionKinds returns the built-in kinds in their canonical order.
func AllSectionKinds() []SectionKind {
	return []SectionKind{
		KindHero,
		KindCollections,
		KindNewArrivals,
		KindBestSellers,
		KindVideos,
		KindTestimonials,
		KindNewsletter,
		KindCustomCode,
	}
}

// NormaliseSectionKind lower-cases and trims a raw kind value.
func NormaliseSectionKind(value string) SectionKind {
	return SectionKind(strings.ToLower(strings.TrimSpace(value)))
}

// LayoutDocument is the ordered list of sections bound to a single scope.
type LayoutDocument struct {
	ScopeID  string    `json:"scope_id"`
	Sections []Section `json:"sections"`
}

// NewLayoutDocument returns an empty layout for scopeID.
func NewLayoutDocument(scopeID string) LayoutDocument {
	return LayoutDocument{ScopeID: scopeID, Sections: []Section{}}
}

// IsGlobal reports whether the document is the homepage layout.
func (d LayoutDocument) IsGlobal() bool {
	return d.ScopeID == GlobalScope
}

// IndexOf returns the position of the section with id, or -1.
func (d LayoutDocument) IndexOf(id string) int {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return i
		}
	}
	return -1
}

// ActiveSections returns the sections that take part in rendering, in order.
func (d LayoutDocument) ActiveSections() []Section {
	active := make([]Section, 0, len(d.Sections))
	for _, section := range d.Sections {
		if section.IsActive {
			active = append(active, section)
		}
	}
	return active
}

// Clone returns a deep copy of the document.
func (d LayoutDocument) Clone() LayoutDocument {
	cloned := LayoutDocument{
		ScopeID:  d.ScopeID,
		Sections: make([]Section, len(d.Sections)),
	}
	for i, section := range d.Sections {
		cloned.Sections[i] = section.Clone()
	}
	return cloned
}

type Section struct {
	ID       string       `json:"id"`
	Kind     SectionKind  `json:"kind"`
	Title    string       `json:"title,omitempty"`
	IsActive bool         `json:"is_active"`
	Settings Settings     `json:"settings"`
	Code     string       `json:"code,omitempty"`
	Style    *StyleConfig `json:"style,omitempty"`
}

// Clone returns a copy of the section that shares no mutable state with s.
func (s Section) Clone() Section {
	cloned := s
	cloned.Settings = s.Settings.Clone()
	if s.Style != nil {
		style := s.Style.Clone()
		cloned.Style = &style
	}
	return cloned
}

// LayoutRecord is the persisted form of a layout document. Payload holds the
// JSON encoded document; timestamps belong to the record, not the document.
type LayoutRecord struct {
	ScopeID   string         `gorm:"primaryKey;size:191" json:"scope_id"`
	Payload   datatypes.JSON `gorm:"not null" json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (LayoutRecord) TableName() string {
	return "layout_documents"
}
