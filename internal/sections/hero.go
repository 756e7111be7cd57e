package sections

import (
	"storefront-layout-backend/internal/models"
)

// HeroSettings is the typed view of a hero section's settings.
type HeroSettings struct {
	Heading         string
	Subheading      string
	ImageURL        string
	ImageAlt        string
	ButtonText      string
	ButtonURL       string
	ContentPosition string
	OverlayOpacity  int
	FullHeight      bool
}

var heroPositions = []string{"left", "center", "right"}

// RegisterHero registers the hero banner kind.
func RegisterHero(reg *Registry) {
	if reg == nil {
		return
	}

	reg.MustRegister(NewSectionBuilder(models.KindHero).
		WithName("Hero Banner").
		WithDescription("Full-width banner with heading, image and call-to-action button").
		WithCategory("marketing").
		WithIcon("star").
		WithDefaultTitle("Hero Banner").
		AllowedIn("homepage", "product", "collection").
		AddStringField("heading", true, "Welcome to our store").
		AddStringField("subheading", false, "Discover this season's collection").
		AddStringField("image_url", false, "").
		AddStringField("image_alt", false, "Hero image").
		AddStringField("button_text", true, "Shop now").
		AddStringField("button_url", true, "/collections/all").
		AddEnumField("content_position", heroPositions, "center").
		AddNumberField("overlay_opacity", 0, 100, 30).
		AddBooleanField("full_height", false).
		MustBuild())
}

// DecodeHero reads hero settings, falling back to defaults for missing or
// malformed values.
func DecodeHero(settings models.Settings) HeroSettings {
	return HeroSettings{
		Heading:         settings.String("heading", "Welcome to our store"),
		Subheading:      settings.String("subheading", ""),
		ImageURL:        settings.String("image_url", ""),
		ImageAlt:        nonEmpty(settings.String("image_alt", ""), "Hero image"),
		ButtonText:      nonEmpty(settings.String("button_text", ""), "Shop now"),
		ButtonURL:       nonEmpty(settings.String("button_url", ""), "/collections/all"),
		ContentPosition: oneOf(settings.String("content_position", ""), heroPositions, "center"),
		OverlayOpacity:  clampInt(settings.Int("overlay_opacity", 30), 0, 100),
		FullHeight:      settings.Bool("full_height", false),
	}
}
