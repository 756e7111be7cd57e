// Package render turns a layout document into output. Compose pairs every
// active section with its resolved style rules; renderers consume those
// entries in order.
package render

import (
	"fmt"
	"strings"
	"sync"

	"storefront-layout-backend/internal/models"
	"storefront-layout-backend/internal/styles"
)

// Entry is one section ready for rendering.
type Entry struct {
	Section models.Section `json:"section"`
	Rules   []styles.Rule  `json:"rules"`
}

// Compose returns the active sections of doc in document order, each paired
// with the rules resolved from its style.
func Compose(doc models.LayoutDocument) []Entry {
	active := doc.ActiveSections()
	entries := make([]Entry, 0, len(active))
	for _, section := range active {
		entries = append(entries, Entry{
			Section: section,
			Rules:   styles.Resolve(section.ID, section.Style),
		})
	}
	return entries
}

// Rules flattens the rules of entries, keeping their order.
func Rules(entries []Entry) []styles.Rule {
	var rules []styles.Rule
	for _, entry := range entries {
		rules = append(rules, entry.Rules...)
	}
	return rules
}

// RenderContext exposes the capabilities section renderers may rely on.
type RenderContext interface {
	// SanitizeHTML cleans author supplied markup before it is emitted.
	SanitizeHTML(input string) string
}

// Renderer produces output for composed entries.
type Renderer interface {
	Render(ctx RenderContext, entries []Entry) (string, error)
}

// SectionRenderer renders the body of a single section.
type SectionRenderer func(ctx RenderContext, section models.Section) string

// Registry maps section kinds to body renderers.
type Registry struct {
	mu        sync.RWMutex
	renderers map[models.SectionKind]SectionRenderer
}

// NewRegistry creates an empty renderer registry.
func NewRegistry() *Registry {
	return &Registry{renderers: make(map[models.SectionKind]SectionRenderer)}
}

// Register associates a renderer with a normalised kind.
func (r *Registry) Register(kind models.SectionKind, renderer SectionRenderer) error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}

	kind = models.NormaliseSectionKind(string(kind))
	if kind == "" {
		return fmt.Errorf("section kind is empty")
	}
	if renderer == nil {
		return fmt.Errorf("renderer is nil for kind %s", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.renderers == nil {
		r.renderers = make(map[models.SectionKind]SectionRenderer)
	}
	r.renderers[kind] = renderer
	return nil
}

// MustRegister registers the renderer and panics if registration fails.
func (r *Registry) MustRegister(kind models.SectionKind, renderer SectionRenderer) {
	if err := r.Register(kind, renderer); err != nil {
		panic(err)
	}
}

// Get retrieves the renderer for kind if one is registered.
func (r *Registry) Get(kind models.SectionKind) (SectionRenderer, bool) {
	if r == nil {
		return nil, false
	}

	kind = models.NormaliseSectionKind(string(kind))
	if kind == "" {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.renderers[kind]
	return renderer, ok
}

// Clone creates a copy of the registry with the same renderer mappings.
func (r *Registry) Clone() *Registry {
	if r == nil {
		return NewRegistry()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := NewRegistry()
	for key, renderer := range r.renderers {
		cloned.renderers[key] = renderer
	}
	return cloned
}

// kindClass turns a kind into a single class token. Characters outside
// [A-Za-z0-9-] become hyphens, so stored kinds cannot leave the attribute.
func kindClass(kind models.SectionKind) string {
	return "section--" + strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '-'
		}
	}, string(kind))
}
