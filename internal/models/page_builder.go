package models

// OpenSessionRequest starts an authoring session for a layout scope.
type OpenSessionRequest struct {
	TemplateID string `json:"template_id,omitempty"`
}

// AddSectionRequest represents a request to append a new section to a layout.
type AddSectionRequest struct {
	Kind string `json:"kind" binding:"required"`
}

// MoveSectionRequest moves a section one step up or down.
type MoveSectionRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// SetActiveRequest toggles whether a section is rendered.
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// UpdateSettingRequest merges a single key into a section's settings.
type UpdateSettingRequest struct {
	Key   string      `json:"key" binding:"required,settings_key"`
	Value interface{} `json:"value"`
}

// UpdateFieldRequest replaces a top-level section field such as title or code.
type UpdateFieldRequest struct {
	Value string `json:"value"`
}

// PageTemplate represents a predefined layout template.
type PageTemplate struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Kinds       []SectionKind `json:"kinds"`
}

// PageBuilderConfig contains configuration for the layout builder UI.
type PageBuilderConfig struct {
	AvailableSections []SectionTypeConfig `json:"available_sections"`
	Breakpoints       []BreakpointConfig  `json:"breakpoints"`
	PaddingOptions    []int               `json:"padding_options"`
	MarginOptions     []int               `json:"margin_options"`
}

// BreakpointConfig describes a viewport tier a style override can target.
type BreakpointConfig struct {
	Name     string `json:"name"`
	MaxWidth int    `json:"max_width,omitempty"`
}

// SectionTypeConfig describes a section kind available in the builder.
type SectionTypeConfig struct {
	Type        string                 `json:"type"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Icon        string                 `json:"icon"`
	Schema      map[string]interface{} `json:"schema,omitempty"`
	AllowedIn   []string               `json:"allowed_in,omitempty"` // e.g., ["homepage", "product"]
}
