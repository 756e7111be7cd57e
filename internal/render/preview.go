package render

import (
	"strings"

	"storefront-layout-backend/internal/models"
	"storefront-layout-backend/internal/styles"
	"storefront-layout-backend/pkg/validator"
)

// PreviewRenderer renders a document as a standalone HTML fragment: one
// <style> block followed by a wrapper element per section.
type PreviewRenderer struct {
	registry *Registry
	css      styles.FormatOptions
	sanitize func(string) string
}

// NewPreviewRenderer creates a preview renderer. A nil registry falls back to
// the built-in section renderers.
func NewPreviewRenderer(registry *Registry, css styles.FormatOptions) *PreviewRenderer {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &PreviewRenderer{
		registry: registry,
		css:      css,
		sanitize: validator.SanitizeCustomCode,
	}
}

// SanitizeHTML implements RenderContext.
func (p *PreviewRenderer) SanitizeHTML(input string) string {
	return p.sanitize(input)
}

// RenderDocument composes doc and renders it.
func (p *PreviewRenderer) RenderDocument(doc models.LayoutDocument) (string, error) {
	return p.Render(p, Compose(doc))
}

// Render implements Renderer. Entries whose kind has no body renderer still
// get an empty wrapper so their styles and anchors stay addressable.
func (p *PreviewRenderer) Render(ctx RenderContext, entries []Entry) (string, error) {
	if ctx == nil {
		ctx = p
	}

	var sb strings.Builder
	if css := styles.Format(Rules(entries), p.css); css != "" {
		sb.WriteString("<style>\n")
		sb.WriteString(css)
		sb.WriteString("</style>\n")
	}

	for _, entry := range entries {
		section := entry.Section
		sb.WriteString(`<section id="` + escape(styles.SectionAnchor(section.ID)) + `" class="section ` + kindClass(section.Kind) + `" data-kind="` + escape(string(section.Kind)) + `">`)
		if renderer, ok := p.registry.Get(section.Kind); ok {
			sb.WriteString(renderer(ctx, section))
		}
		sb.WriteString("</section>\n")
	}

	return sb.String(), nil
}
