package render

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"storefront-layout-backend/internal/models"
	"storefront-layout-backend/internal/sections"
)

// DefaultRegistry returns a registry with body renderers for every built-in
// section kind.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.MustRegister(models.KindHero, renderHero)
	reg.MustRegister(models.KindCollections, renderProductGrid)
	reg.MustRegister(models.KindNewArrivals, renderProductGrid)
	reg.MustRegister(models.KindBestSellers, renderProductGrid)
	reg.MustRegister(models.KindVideos, renderVideos)
	reg.MustRegister(models.KindTestimonials, renderTestimonials)
	reg.MustRegister(models.KindNewsletter, renderNewsletter)
	reg.MustRegister(models.KindCustomCode, renderCustomCode)
	return reg
}

var escape = template.HTMLEscapeString

func writeTitle(sb *strings.Builder, title, subtitle string) {
	if title = strings.TrimSpace(title); title != "" {
		sb.WriteString(`<h2 class="section-title">` + escape(title) + `</h2>`)
	}
	if subtitle = strings.TrimSpace(subtitle); subtitle != "" {
		sb.WriteString(`<p class="section-description">` + escape(subtitle) + `</p>`)
	}
}

func renderHero(ctx RenderContext, section models.Section) string {
	settings := sections.DecodeHero(section.Settings)

	var sb strings.Builder
	classes := "hero hero--" + escape(settings.ContentPosition)
	if settings.FullHeight {
		classes += " hero--full-height"
	}
	sb.WriteString(`<div class="` + classes + `">`)

	if settings.ImageURL != "" {
		sb.WriteString(`<div class="section-image-wrapper">`)
		sb.WriteString(`<img class="section-image" src="` + escape(settings.ImageURL) + `" alt="` + escape(settings.ImageAlt) + `" />`)
		sb.WriteString(`</div>`)
		sb.WriteString(fmt.Sprintf(`<div class="hero__overlay" style="opacity:%.2f"></div>`, float64(settings.OverlayOpacity)/100))
	}

	sb.WriteString(`<div class="section-container hero__content">`)
	writeTitle(&sb, settings.Heading, settings.Subheading)
	if settings.ButtonText != "" && settings.ButtonURL != "" {
		sb.WriteString(`<a class="hero__button" href="` + escape(settings.ButtonURL) + `">` + escape(settings.ButtonText) + `</a>`)
	}
	sb.WriteString(`</div></div>`)
	return sb.String()
}

// renderProductGrid emits the grid shell. Products are filled in by the
// storefront from the data attributes.
func renderProductGrid(ctx RenderContext, section models.Section) string {
	settings := sections.DecodeProductGrid(section.Settings)

	var sb strings.Builder
	sb.WriteString(`<div class="section-container">`)
	writeTitle(&sb, section.Title, settings.Subtitle)

	layout := "grid"
	if settings.Slider {
		layout = "slider"
	}
	sb.WriteString(`<div class="product-grid product-grid--` + layout + ` product-grid--` + escape(settings.CardStyle) + `"`)
	sb.WriteString(` data-source="` + escape(settings.DataSource) + `"`)
	if settings.CollectionID != "" {
		sb.WriteString(` data-collection="` + escape(settings.CollectionID) + `"`)
	}
	if settings.Tag != "" {
		sb.WriteString(` data-tag="` + escape(settings.Tag) + `"`)
	}
	if len(settings.ProductIDs) > 0 {
		sb.WriteString(` data-products="` + escape(strings.Join(settings.ProductIDs, ",")) + `"`)
	}
	sb.WriteString(` data-limit="` + strconv.Itoa(settings.Limit) + `"`)
	sb.WriteString(` data-columns="` + strconv.Itoa(settings.Columns) + `"`)
	sb.WriteString(` data-show-variants="` + strconv.FormatBool(settings.ShowVariants) + `"`)
	sb.WriteString(` data-show-wishlist="` + strconv.FormatBool(settings.ShowWishlist) + `"`)
	sb.WriteString(` data-show-new-badge="` + strconv.FormatBool(settings.ShowNewBadge) + `"`)
	sb.WriteString(`></div>`)

	if settings.ViewAllURL != "" {
		sb.WriteString(`<a class="section-link" href="` + escape(settings.ViewAllURL) + `">View all</a>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func renderVideos(ctx RenderContext, section models.Section) string {
	settings := sections.DecodeVideos(section.Settings)

	var sb strings.Builder
	sb.WriteString(`<div class="section-container">`)
	writeTitle(&sb, section.Title, settings.Subtitle)
	sb.WriteString(fmt.Sprintf(`<div class="video-grid" data-columns="%d">`, settings.Columns))

	for _, item := range settings.Items {
		sb.WriteString(`<figure class="video-grid__item" style="aspect-ratio:` + escape(strings.ReplaceAll(settings.AspectRatio, ":", "/")) + `">`)
		sb.WriteString(`<video src="` + escape(item.URL) + `"`)
		if item.PosterURL != "" {
			sb.WriteString(` poster="` + escape(item.PosterURL) + `"`)
		}
		if settings.Autoplay {
			sb.WriteString(` autoplay`)
		}
		if settings.Muted {
			sb.WriteString(` muted`)
		}
		if settings.Loop {
			sb.WriteString(` loop`)
		}
		sb.WriteString(` playsinline controls></video>`)
		if item.Title != "" {
			sb.WriteString(`<figcaption>` + escape(item.Title) + `</figcaption>`)
		}
		sb.WriteString(`</figure>`)
	}

	sb.WriteString(`</div></div>`)
	return sb.String()
}

func renderTestimonials(ctx RenderContext, section models.Section) string {
	settings := sections.DecodeTestimonials(section.Settings)

	var sb strings.Builder
	sb.WriteString(`<div class="section-container">`)
	writeTitle(&sb, section.Title, settings.Subtitle)
	sb.WriteString(`<div class="testimonials testimonials--` + escape(settings.Layout) + `"`)
	if settings.Layout == "slider" && settings.AutoplayInterval > 0 {
		sb.WriteString(fmt.Sprintf(` data-interval="%d"`, settings.AutoplayInterval))
	}
	sb.WriteString(`>`)

	for _, item := range settings.Items {
		sb.WriteString(`<blockquote class="testimonials__item">`)
		sb.WriteString(`<p>` + escape(item.Quote) + `</p>`)
		if settings.ShowRating && item.Rating > 0 {
			sb.WriteString(fmt.Sprintf(`<span class="testimonials__rating" data-rating="%d">%s</span>`, item.Rating, strings.Repeat("★", item.Rating)))
		}
		if item.Author != "" {
			sb.WriteString(`<cite>` + escape(item.Author) + `</cite>`)
		}
		sb.WriteString(`</blockquote>`)
	}

	sb.WriteString(`</div></div>`)
	return sb.String()
}

func renderNewsletter(ctx RenderContext, section models.Section) string {
	settings := sections.DecodeNewsletter(section.Settings)

	var sb strings.Builder
	sb.WriteString(`<div class="section-container newsletter"`)
	if settings.BackgroundImage != "" {
		sb.WriteString(` data-background="` + escape(settings.BackgroundImage) + `"`)
	}
	sb.WriteString(`>`)
	writeTitle(&sb, section.Title, settings.Subtitle)
	sb.WriteString(`<form class="newsletter__form" data-success="` + escape(settings.SuccessMessage) + `">`)
	if settings.CollectName {
		sb.WriteString(`<input type="text" name="name" />`)
	}
	sb.WriteString(`<input type="email" name="email" placeholder="` + escape(settings.Placeholder) + `" required />`)
	sb.WriteString(`<button type="submit">` + escape(settings.ButtonText) + `</button>`)
	sb.WriteString(`</form></div>`)
	return sb.String()
}

// renderCustomCode skips the settings path and emits the section's markup
// after sanitising it.
func renderCustomCode(ctx RenderContext, section models.Section) string {
	code := section.Code
	if ctx != nil {
		code = ctx.SanitizeHTML(code)
	}
	if section.Settings.Bool("full_width", false) {
		return `<div class="custom-code custom-code--full">` + code + `</div>`
	}
	return `<div class="section-container custom-code">` + code + `</div>`
}
