package sections

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"storefront-layout-backend/internal/models"
)

// ErrTemplateNotFound is returned when a template id is not in the catalog.
var ErrTemplateNotFound = errors.New("template not found")

// Template is a predefined starting layout. Sections are described by kind and
// optional setting overrides and receive fresh ids on every instantiation.
type Template struct {
	ID          string            `toml:"id"`
	Name        string            `toml:"name"`
	Description string            `toml:"description"`
	Icon        string            `toml:"icon"`
	Sections    []TemplateSection `toml:"sections"`
}

// TemplateSection describes one section of a template.
type TemplateSection struct {
	Kind     string                 `toml:"kind"`
	Title    string                 `toml:"title"`
	Inactive bool                   `toml:"inactive"`
	Settings map[string]interface{} `toml:"settings"`
	Code     string                 `toml:"code"`
}

type templateFile struct {
	Templates []Template `toml:"templates"`
}

// Summary returns the builder-facing description of the template.
func (t Template) Summary() models.PageTemplate {
	kinds := make([]models.SectionKind, 0, len(t.Sections))
	for _, section := range t.Sections {
		kinds = append(kinds, models.NormaliseSectionKind(section.Kind))
	}
	return models.PageTemplate{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Icon:        t.Icon,
		Kinds:       kinds,
	}
}

// Instantiate creates the template's sections with fresh ids and defaults
// filled in by reg.
func (t Template) Instantiate(reg *Registry) ([]models.Section, error) {
	result := make([]models.Section, 0, len(t.Sections))
	for i, spec := range t.Sections {
		section, err := reg.CreateDefaultSection(models.NormaliseSectionKind(spec.Kind))
		if err != nil {
			return nil, fmt.Errorf("template %s section %d: %w", t.ID, i, err)
		}
		if title := strings.TrimSpace(spec.Title); title != "" {
			section.Title = title
		}
		if spec.Code != "" {
			section.Code = spec.Code
		}
		section.IsActive = !spec.Inactive
		for key, value := range spec.Settings {
			section.Settings[key] = models.NormaliseValue(value)
		}
		result = append(result, section)
	}
	return result, nil
}

// TemplateCatalog holds the templates offered when a layout is started.
type TemplateCatalog struct {
	templates []Template
}

// NewTemplateCatalog returns a catalog holding the built-in templates.
func NewTemplateCatalog() *TemplateCatalog {
	return &TemplateCatalog{templates: BuiltinTemplates()}
}

// List returns the templates in catalog order.
func (c *TemplateCatalog) List() []Template {
	if c == nil {
		return nil
	}
	return append([]Template(nil), c.templates...)
}

// Get looks up a template by id.
func (c *TemplateCatalog) Get(id string) (Template, error) {
	id = strings.TrimSpace(id)
	if c != nil {
		for _, tmpl := range c.templates {
			if tmpl.ID == id {
				return tmpl, nil
			}
		}
	}
	return Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
}

// Add inserts templates, replacing any existing template with the same id.
// Every section kind is checked against reg first.
func (c *TemplateCatalog) Add(reg *Registry, templates ...Template) error {
	for _, tmpl := range templates {
		if strings.TrimSpace(tmpl.ID) == "" {
			return fmt.Errorf("template id is required")
		}
		for i, section := range tmpl.Sections {
			if !reg.Has(models.NormaliseSectionKind(section.Kind)) {
				return fmt.Errorf("template %s section %d: %w: %q", tmpl.ID, i, ErrUnknownSectionKind, section.Kind)
			}
		}
	}

	for _, tmpl := range templates {
		replaced := false
		for i := range c.templates {
			if c.templates[i].ID == tmpl.ID {
				c.templates[i] = tmpl
				replaced = true
				break
			}
		}
		if !replaced {
			c.templates = append(c.templates, tmpl)
		}
	}
	return nil
}

// LoadTemplates decodes a TOML preset file of the form
//
//	[[templates]]
//	id = "spring"
//	name = "Spring launch"
//	[[templates.sections]]
//	kind = "hero"
//	[templates.sections.settings]
//	heading = "Spring is here"
func LoadTemplates(r io.Reader) ([]Template, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}
	var file templateFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return file.Templates, nil
}

// LoadTemplatesFile reads presets from path and adds them to the catalog.
func (c *TemplateCatalog) LoadTemplatesFile(reg *Registry, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open templates file: %w", err)
	}
	defer f.Close()

	templates, err := LoadTemplates(f)
	if err != nil {
		return err
	}
	return c.Add(reg, templates...)
}

// BuiltinTemplates returns the templates shipped with the service.
func BuiltinTemplates() []Template {
	return []Template{
		{
			ID:          "blank",
			Name:        "Blank Layout",
			Description: "Start from scratch",
			Icon:        "file",
		},
		{
			ID:          "storefront",
			Name:        "Storefront Homepage",
			Description: "Hero banner, product grids, testimonials and newsletter signup",
			Icon:        "shopping-bag",
			Sections: []TemplateSection{
				{Kind: string(models.KindHero)},
				{Kind: string(models.KindCollections)},
				{Kind: string(models.KindNewArrivals)},
				{Kind: string(models.KindBestSellers)},
				{Kind: string(models.KindTestimonials)},
				{Kind: string(models.KindNewsletter)},
			},
		},
		{
			ID:          "landing",
			Name:        "Campaign Landing",
			Description: "Hero with a video and a signup form",
			Icon:        "layout",
			Sections: []TemplateSection{
				{Kind: string(models.KindHero), Settings: map[string]interface{}{"full_height": true}},
				{Kind: string(models.KindVideos)},
				{Kind: string(models.KindNewsletter)},
			},
		},
		{
			ID:          "product_page",
			Name:        "Product Page",
			Description: "Related products and social proof below the product details",
			Icon:        "tag",
			Sections: []TemplateSection{
				{Kind: string(models.KindCollections), Title: "You may also like", Settings: map[string]interface{}{"slider": true}},
				{Kind: string(models.KindTestimonials)},
			},
		},
	}
}
