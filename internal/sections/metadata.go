package sections

import (
	"encoding/json"

	"storefront-layout-backend/internal/models"
)

// Field types understood by the builder UI.
const (
	FieldTypeString  = "string"
	FieldTypeNumber  = "number"
	FieldTypeBoolean = "boolean"
	FieldTypeEnum    = "enum"
	FieldTypeArray   = "array"
)

// SectionMetadata describes a section kind with its configuration schema and display properties.
type SectionMetadata struct {
	Type        string                 `json:"type"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Icon        string                 `json:"icon,omitempty"`
	Schema      map[string]interface{} `json:"schema,omitempty"`
}

// FieldSchema describes one settings key. It drives form generation in the
// builder and is not enforced at runtime.
type FieldSchema struct {
	Name     string      `json:"-"`
	Type     string      `json:"type"`
	Required bool        `json:"required,omitempty"`
	Default  interface{} `json:"default,omitempty"`
	Min      *int        `json:"min,omitempty"`
	Max      *int        `json:"max,omitempty"`
	Options  []string    `json:"options,omitempty"`
	ItemType string      `json:"item_type,omitempty"`
	MaxItems int         `json:"max_items,omitempty"`
}

// HasDefault reports whether the field declares a default value.
func (f FieldSchema) HasDefault() bool {
	return f.Default != nil
}

func (f FieldSchema) asMap() map[string]interface{} {
	raw, err := json.Marshal(f)
	if err != nil {
		return map[string]interface{}{"type": f.Type}
	}
	var result map[string]interface{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return map[string]interface{}{"type": f.Type}
	}
	return result
}

// KindDescriptor bundles everything the registry knows about a section kind.
type KindDescriptor struct {
	Kind         models.SectionKind
	Metadata     SectionMetadata
	Fields       []FieldSchema
	DefaultTitle string
	DefaultCode  string
	AllowedIn    []string
}

// Field returns the schema of the named field.
func (d *KindDescriptor) Field(name string) (FieldSchema, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldSchema{}, false
}

// Defaults returns a fresh settings bag holding every declared default.
func (d *KindDescriptor) Defaults() models.Settings {
	settings := make(models.Settings, len(d.Fields))
	for _, field := range d.Fields {
		if field.HasDefault() {
			settings[field.Name] = cloneDefault(field.Default)
		}
	}
	return settings
}

// RequiredKeys lists the keys every section of this kind is expected to carry.
func (d *KindDescriptor) RequiredKeys() []string {
	keys := make([]string, 0, len(d.Fields))
	for _, field := range d.Fields {
		if field.Required {
			keys = append(keys, field.Name)
		}
	}
	return keys
}

func cloneDefault(value interface{}) interface{} {
	return models.NormaliseValue(value)
}
