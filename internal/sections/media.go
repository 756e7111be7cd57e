package sections

import (
	"storefront-layout-backend/internal/models"
)

var (
	videoAspectRatios  = []string{"16:9", "4:3", "1:1", "9:16"}
	testimonialLayouts = []string{"slider", "grid"}
)

// VideoItem is one entry of a videos section.
type VideoItem struct {
	URL       string
	Title     string
	PosterURL string
}

// VideosSettings is the typed view of a videos section's settings.
type VideosSettings struct {
	Subtitle    string
	Items       []VideoItem
	Columns     int
	AspectRatio string
	Autoplay    bool
	Muted       bool
	Loop        bool
}

// Testimonial is one customer quote.
type Testimonial struct {
	Author string
	Quote  string
	Rating int
}

// TestimonialsSettings is the typed view of a testimonials section's settings.
type TestimonialsSettings struct {
	Subtitle         string
	Items            []Testimonial
	Layout           string
	ShowRating       bool
	AutoplayInterval int
}

// RegisterVideos registers the video gallery kind.
func RegisterVideos(reg *Registry) {
	if reg == nil {
		return
	}

	reg.MustRegister(NewSectionBuilder(models.KindVideos).
		WithName("Videos").
		WithDescription("Embedded product or brand videos").
		WithCategory("media").
		WithIcon("video").
		WithDefaultTitle("Watch & Shop").
		AllowedIn("homepage", "product").
		AddStringField("subtitle", false, "").
		AddArrayField("items", "object", 12).
		AddNumberField("columns", 1, 4, 1).
		AddEnumField("aspect_ratio", videoAspectRatios, "16:9").
		AddBooleanField("autoplay", false).
		AddBooleanField("muted", true).
		AddBooleanField("loop", false).
		MustBuild())
}

// RegisterTestimonials registers the customer testimonials kind.
func RegisterTestimonials(reg *Registry) {
	if reg == nil {
		return
	}

	reg.MustRegister(NewSectionBuilder(models.KindTestimonials).
		WithName("Testimonials").
		WithDescription("Customer quotes with optional star ratings").
		WithCategory("social").
		WithIcon("quote").
		WithDefaultTitle("What our customers say").
		AllowedIn("homepage", "product").
		AddStringField("subtitle", false, "").
		AddArrayField("items", "object", 20).
		AddEnumField("layout", testimonialLayouts, "slider").
		AddBooleanField("show_rating", true).
		AddNumberField("autoplay_interval", 0, 30, 5).
		MustBuild())
}

func DecodeVideos(settings models.Settings) VideosSettings {
	videos := VideosSettings{
		Subtitle:    settings.String("subtitle", ""),
		Columns:     clampInt(settings.Int("columns", 1), 1, 4),
		AspectRatio: oneOf(settings.String("aspect_ratio", ""), videoAspectRatios, "16:9"),
		Autoplay:    settings.Bool("autoplay", false),
		Muted:       settings.Bool("muted", true),
		Loop:        settings.Bool("loop", false),
	}
	for _, item := range objectItems(settings, "items") {
		url := getString(item, "url")
		if url == "" {
			continue
		}
		videos.Items = append(videos.Items, VideoItem{
			URL:       url,
			Title:     getString(item, "title"),
			PosterURL: getString(item, "poster_url"),
		})
	}
	return videos
}

func DecodeTestimonials(settings models.Settings) TestimonialsSettings {
	testimonials := TestimonialsSettings{
		Subtitle:         settings.String("subtitle", ""),
		Layout:           oneOf(settings.String("layout", ""), testimonialLayouts, "slider"),
		ShowRating:       settings.Bool("show_rating", true),
		AutoplayInterval: clampInt(settings.Int("autoplay_interval", 5), 0, 30),
	}
	for _, item := range objectItems(settings, "items") {
		quote := getString(item, "quote")
		if quote == "" {
			continue
		}
		testimonials.Items = append(testimonials.Items, Testimonial{
			Author: getString(item, "author"),
			Quote:  quote,
			Rating: clampInt(models.Settings(item).Int("rating", 5), 0, 5),
		})
	}
	return testimonials
}
