package render

import (
	"strings"
	"testing"

	"storefront-layout-backend/internal/models"
	"storefront-layout-backend/internal/sections"
	"storefront-layout-backend/internal/styles"
)

func testDocument(t *testing.T) models.LayoutDocument {
	t.Helper()
	registry := sections.DefaultRegistry()

	hero, err := registry.CreateDefaultSection(models.KindHero)
	if err != nil {
		t.Fatalf("CreateDefaultSection(hero) returned error: %v", err)
	}
	hero.ID = "hero-1"
	hero.Style = &models.StyleConfig{
		StyleProperties: models.StyleProperties{PaddingTop: models.Px(40)},
		Mobile:          &models.StyleProperties{PaddingTop: models.Px(12)},
	}

	grid, err := registry.CreateDefaultSection(models.KindNewArrivals)
	if err != nil {
		t.Fatalf("CreateDefaultSection(new_arrivals) returned error: %v", err)
	}
	grid.ID = "grid-1"
	grid.IsActive = false

	custom, err := registry.CreateDefaultSection(models.KindCustomCode)
	if err != nil {
		t.Fatalf("CreateDefaultSection(custom_code) returned error: %v", err)
	}
	custom.ID = "custom-1"
	custom.Code = `<div class="banner">Free shipping<script>alert("x")</script></div>`

	return models.LayoutDocument{ScopeID: models.GlobalScope, Sections: []models.Section{hero, grid, custom}}
}

func TestCompose_SkipsInactiveAndKeepsOrder(t *testing.T) {
	entries := Compose(testDocument(t))

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Section.ID != "hero-1" || entries[1].Section.ID != "custom-1" {
		t.Fatalf("unexpected entry order: %s, %s", entries[0].Section.ID, entries[1].Section.ID)
	}
	if len(entries[0].Rules) != 2 {
		t.Fatalf("expected base and mobile rule for hero, got %d", len(entries[0].Rules))
	}
	if len(entries[1].Rules) != 0 {
		t.Fatalf("expected no rules for unstyled section, got %d", len(entries[1].Rules))
	}
}

func TestPreviewRenderer_RendersStylesAndSections(t *testing.T) {
	out, err := NewPreviewRenderer(nil, styles.FormatOptions{}).RenderDocument(testDocument(t))
	if err != nil {
		t.Fatalf("RenderDocument returned error: %v", err)
	}

	for _, want := range []string{
		"<style>",
		"#section-hero-1 {",
		"padding-top: 40px;",
		"@media (max-width: 768px)",
		`<section id="section-hero-1" class="section section--hero"`,
		"Welcome to our store",
		`<section id="section-custom-1" class="section section--custom-code"`,
		"Free shipping",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in preview:\n%s", want, out)
		}
	}

	if strings.Contains(out, "grid-1") {
		t.Fatalf("expected inactive section to be skipped:\n%s", out)
	}
	if strings.Contains(out, "<script") {
		t.Fatalf("expected custom code to be sanitised:\n%s", out)
	}
	if strings.Index(out, "section-hero-1\"") > strings.Index(out, "section-custom-1\"") {
		t.Fatalf("expected sections in document order:\n%s", out)
	}
}

func TestPreviewRenderer_EscapesSettings(t *testing.T) {
	registry := sections.DefaultRegistry()
	hero, err := registry.CreateDefaultSection(models.KindHero)
	if err != nil {
		t.Fatalf("CreateDefaultSection returned error: %v", err)
	}
	hero.Settings = hero.Settings.With("heading", `<img src=x onerror=alert(1)>`)

	out, err := NewPreviewRenderer(nil, styles.FormatOptions{}).RenderDocument(models.LayoutDocument{
		ScopeID:  "product:1",
		Sections: []models.Section{hero},
	})
	if err != nil {
		t.Fatalf("RenderDocument returned error: %v", err)
	}
	if strings.Contains(out, "<img src=x") {
		t.Fatalf("expected heading to be escaped:\n%s", out)
	}
}

func TestPreviewRenderer_ProductGridDataAttributes(t *testing.T) {
	registry := sections.DefaultRegistry()
	grid, err := registry.CreateDefaultSection(models.KindBestSellers)
	if err != nil {
		t.Fatalf("CreateDefaultSection returned error: %v", err)
	}
	grid.Settings = grid.Settings.With("slider", true).With("limit", 8)

	out, err := NewPreviewRenderer(nil, styles.FormatOptions{}).RenderDocument(models.LayoutDocument{
		ScopeID:  models.GlobalScope,
		Sections: []models.Section{grid},
	})
	if err != nil {
		t.Fatalf("RenderDocument returned error: %v", err)
	}
	for _, want := range []string{`data-source="all_active"`, `data-limit="8"`, "product-grid--slider", `data-show-wishlist="true"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in preview:\n%s", want, out)
		}
	}
}

func TestRegistry_RegisterValidation(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("", renderHero); err == nil {
		t.Fatalf("expected empty kind to be rejected")
	}
	if err := reg.Register(models.KindHero, nil); err == nil {
		t.Fatalf("expected nil renderer to be rejected")
	}
	if err := reg.Register(" HERO ", renderHero); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, ok := reg.Get(models.KindHero); !ok {
		t.Fatalf("expected renderer to be registered under normalised kind")
	}

	cloned := reg.Clone()
	cloned.MustRegister(models.KindVideos, renderVideos)
	if _, ok := reg.Get(models.KindVideos); ok {
		t.Fatalf("expected clone to be independent")
	}
}

func TestPreviewRenderer_UnknownKindStaysInsideClassAttribute(t *testing.T) {
	section := models.Section{
		ID:       "odd-1",
		Kind:     models.SectionKind(`x" onclick="alert(1)`),
		IsActive: true,
		Settings: models.Settings{},
	}

	out, err := NewPreviewRenderer(nil, styles.FormatOptions{}).RenderDocument(models.LayoutDocument{
		ScopeID:  models.GlobalScope,
		Sections: []models.Section{section},
	})
	if err != nil {
		t.Fatalf("RenderDocument returned error: %v", err)
	}
	if strings.Contains(out, `onclick="`) {
		t.Fatalf("expected kind to be neutralised:\n%s", out)
	}
	if !strings.Contains(out, `class="section section--x--onclick--alert-1-"`) {
		t.Fatalf("expected kind folded into one class token:\n%s", out)
	}
}
