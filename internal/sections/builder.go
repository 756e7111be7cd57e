package sections

import (
	"fmt"
	"strings"

	"storefront-layout-backend/internal/models"
)

// SectionBuilder provides a fluent interface for creating kind descriptors.
type SectionBuilder struct {
	descriptor *KindDescriptor
	errors     []error
}

// NewSectionBuilder creates a new builder for the given section kind.
func NewSectionBuilder(kind models.SectionKind) *SectionBuilder {
	normalised := models.NormaliseSectionKind(string(kind))
	return &SectionBuilder{
		descriptor: &KindDescriptor{
			Kind: normalised,
			Metadata: SectionMetadata{
				Type:   string(normalised),
				Schema: make(map[string]interface{}),
			},
		},
	}
}

// WithName sets the display name of the section.
func (b *SectionBuilder) WithName(name string) *SectionBuilder {
	b.descriptor.Metadata.Name = name
	return b
}

// WithDescription sets the description of the section.
func (b *SectionBuilder) WithDescription(desc string) *SectionBuilder {
	b.descriptor.Metadata.Description = desc
	return b
}

// WithCategory sets the category for grouping sections.
func (b *SectionBuilder) WithCategory(category string) *SectionBuilder {
	b.descriptor.Metadata.Category = category
	return b
}

// WithIcon sets the icon identifier for the section.
func (b *SectionBuilder) WithIcon(icon string) *SectionBuilder {
	b.descriptor.Metadata.Icon = icon
	return b
}

// WithDefaultTitle sets the placeholder title given to new sections.
func (b *SectionBuilder) WithDefaultTitle(title string) *SectionBuilder {
	b.descriptor.DefaultTitle = title
	return b
}

// WithDefaultCode sets the placeholder markup given to new sections.
func (b *SectionBuilder) WithDefaultCode(code string) *SectionBuilder {
	b.descriptor.DefaultCode = code
	return b
}

// AllowedIn restricts the scopes the builder UI offers this kind for.
func (b *SectionBuilder) AllowedIn(scopes ...string) *SectionBuilder {
	b.descriptor.AllowedIn = append(b.descriptor.AllowedIn, scopes...)
	return b
}

// AddField adds a field definition to the kind's schema.
func (b *SectionBuilder) AddField(field FieldSchema) *SectionBuilder {
	field.Name = strings.TrimSpace(field.Name)
	if field.Name == "" {
		b.errors = append(b.errors, fmt.Errorf("field name is empty"))
		return b
	}
	if _, exists := b.descriptor.Field(field.Name); exists {
		b.errors = append(b.errors, fmt.Errorf("field %s declared twice", field.Name))
		return b
	}
	if field.Required && !field.HasDefault() {
		b.errors = append(b.errors, fmt.Errorf("required field %s has no default", field.Name))
	}
	if field.Default != nil {
		field.Default = models.NormaliseValue(field.Default)
	}
	b.descriptor.Fields = append(b.descriptor.Fields, field)
	b.descriptor.Metadata.Schema[field.Name] = field.asMap()
	return b
}

// AddStringField is a convenience method for adding a string field.
func (b *SectionBuilder) AddStringField(name string, required bool, defaultValue ...string) *SectionBuilder {
	field := FieldSchema{Name: name, Type: FieldTypeString, Required: required}
	if len(defaultValue) > 0 {
		field.Default = defaultValue[0]
	}
	return b.AddField(field)
}

// AddNumberField is a convenience method for adding a number field.
func (b *SectionBuilder) AddNumberField(name string, min, max int, defaultValue ...int) *SectionBuilder {
	if min > max {
		b.errors = append(b.errors, fmt.Errorf("field %s: min %d exceeds max %d", name, min, max))
	}
	field := FieldSchema{Name: name, Type: FieldTypeNumber, Min: &min, Max: &max}
	if len(defaultValue) > 0 {
		field.Default = defaultValue[0]
		field.Required = true
	}
	return b.AddField(field)
}

// AddBooleanField is a convenience method for adding a boolean field.
func (b *SectionBuilder) AddBooleanField(name string, defaultValue bool) *SectionBuilder {
	return b.AddField(FieldSchema{Name: name, Type: FieldTypeBoolean, Required: true, Default: defaultValue})
}

// AddEnumField is a convenience method for adding an enum field.
func (b *SectionBuilder) AddEnumField(name string, options []string, defaultValue ...string) *SectionBuilder {
	if len(options) == 0 {
		b.errors = append(b.errors, fmt.Errorf("field %s: enum without options", name))
	}
	field := FieldSchema{Name: name, Type: FieldTypeEnum, Options: append([]string(nil), options...)}
	if len(defaultValue) > 0 {
		if !contains(options, defaultValue[0]) {
			b.errors = append(b.errors, fmt.Errorf("field %s: default %q is not an option", name, defaultValue[0]))
		}
		field.Default = defaultValue[0]
		field.Required = true
	}
	return b.AddField(field)
}

// AddArrayField is a convenience method for adding an array field. Arrays
// default to an empty list.
func (b *SectionBuilder) AddArrayField(name, itemType string, maxItems int) *SectionBuilder {
	return b.AddField(FieldSchema{
		Name:     name,
		Type:     FieldTypeArray,
		Default:  []interface{}{},
		ItemType: itemType,
		MaxItems: maxItems,
	})
}

// Build constructs the final KindDescriptor and returns any accumulated errors.
func (b *SectionBuilder) Build() (*KindDescriptor, error) {
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("builder has %d error(s): %v", len(b.errors), b.errors[0])
	}

	if b.descriptor.Kind == "" {
		return nil, fmt.Errorf("section kind is required")
	}
	if b.descriptor.Metadata.Name == "" {
		b.descriptor.Metadata.Name = string(b.descriptor.Kind)
	}

	return b.descriptor, nil
}

// MustBuild builds the descriptor and panics if there are errors.
// Use this only when you're certain the configuration is valid.
func (b *SectionBuilder) MustBuild() *KindDescriptor {
	desc, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build section descriptor: %v", err))
	}
	return desc
}
