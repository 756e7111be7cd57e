package sections

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"storefront-layout-backend/internal/models"
)

// ErrUnknownSectionKind is returned when a kind has no registered descriptor.
var ErrUnknownSectionKind = errors.New("unknown section kind")

// Registry stores the descriptors of every section kind available to layouts.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[models.SectionKind]*KindDescriptor
	order       []models.SectionKind
	newID       func() string
}

// NewRegistry creates an empty section registry.
func NewRegistry() *Registry {
	return &Registry{
		descriptors: make(map[models.SectionKind]*KindDescriptor),
		newID:       func() string { return uuid.New().String() },
	}
}

// Register adds or replaces a descriptor. It returns an error when the input is invalid.
func (r *Registry) Register(desc *KindDescriptor) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if desc == nil {
		return fmt.Errorf("descriptor is nil")
	}

	kind := models.NormaliseSectionKind(string(desc.Kind))
	if kind == "" {
		return fmt.Errorf("section kind is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.descriptors == nil {
		r.descriptors = make(map[models.SectionKind]*KindDescriptor)
	}
	if _, exists := r.descriptors[kind]; !exists {
		r.order = append(r.order, kind)
	}
	r.descriptors[kind] = desc
	return nil
}

// MustRegister registers the descriptor and panics if registration fails.
func (r *Registry) MustRegister(desc *KindDescriptor) {
	if err := r.Register(desc); err != nil {
		panic(err)
	}
}

// Get retrieves the descriptor for a kind if it exists.
func (r *Registry) Get(kind models.SectionKind) (*KindDescriptor, bool) {
	if r == nil {
		return nil, false
	}

	kind = models.NormaliseSectionKind(string(kind))
	if kind == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.descriptors[kind]
	return desc, ok
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind models.SectionKind) bool {
	_, ok := r.Get(kind)
	return ok
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []models.SectionKind {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.SectionKind(nil), r.order...)
}

// ListMetadata returns metadata for all registered kinds in registration order.
func (r *Registry) ListMetadata() []SectionMetadata {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]SectionMetadata, 0, len(r.order))
	for _, kind := range r.order {
		result = append(result, r.descriptors[kind].Metadata)
	}
	return result
}

// Schema returns the field schemas declared for kind, keyed by field name.
func (r *Registry) Schema(kind models.SectionKind) (map[string]FieldSchema, error) {
	desc, ok := r.Get(kind)
	if !ok {
		return nil, unknownKind(kind)
	}
	schema := make(map[string]FieldSchema, len(desc.Fields))
	for _, field := range desc.Fields {
		schema[field.Name] = field
	}
	return schema, nil
}

// RequiredKeys lists the settings keys a section of kind must carry.
func (r *Registry) RequiredKeys(kind models.SectionKind) ([]string, error) {
	desc, ok := r.Get(kind)
	if !ok {
		return nil, unknownKind(kind)
	}
	return desc.RequiredKeys(), nil
}

// CreateDefaultSection returns a new active section of kind with a fresh id,
// a placeholder title and every declared default setting.
func (r *Registry) CreateDefaultSection(kind models.SectionKind) (models.Section, error) {
	desc, ok := r.Get(kind)
	if !ok {
		return models.Section{}, unknownKind(kind)
	}

	return models.Section{
		ID:       r.generateID(),
		Kind:     desc.Kind,
		Title:    desc.DefaultTitle,
		IsActive: true,
		Settings: desc.Defaults(),
		Code:     desc.DefaultCode,
	}, nil
}

// ApplyDefaults fills settings keys the section is missing with the kind's
// defaults. Present keys, including unknown ones, are left untouched. Sections
// of an unknown kind are returned unchanged.
func (r *Registry) ApplyDefaults(section models.Section) models.Section {
	desc, ok := r.Get(section.Kind)
	if !ok {
		return section
	}

	settings := make(models.Settings, len(section.Settings)+len(desc.Fields))
	for key, value := range section.Settings {
		settings[key] = value
	}
	for _, field := range desc.Fields {
		if !field.HasDefault() {
			continue
		}
		if _, present := settings[field.Name]; !present {
			settings[field.Name] = cloneDefault(field.Default)
		}
	}
	section.Settings = settings
	section.Kind = desc.Kind
	return section
}

// SetIDGenerator replaces the function used to generate section ids.
func (r *Registry) SetIDGenerator(fn func() string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.newID = fn
}

// NewSectionID returns a fresh identifier for a section.
func (r *Registry) NewSectionID() string {
	return r.generateID()
}

func (r *Registry) generateID() string {
	r.mu.RLock()
	fn := r.newID
	r.mu.RUnlock()
	if fn == nil {
		return uuid.New().String()
	}
	return fn()
}

// Clone creates a copy of the registry with the same descriptors.
func (r *Registry) Clone() *Registry {
	if r == nil {
		return NewRegistry()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := NewRegistry()
	cloned.newID = r.newID
	for _, kind := range r.order {
		cloned.descriptors[kind] = r.descriptors[kind]
		cloned.order = append(cloned.order, kind)
	}
	return cloned
}

func unknownKind(kind models.SectionKind) error {
	return fmt.Errorf("%w: %q", ErrUnknownSectionKind, string(kind))
}
