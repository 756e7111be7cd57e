package sections

import (
	"storefront-layout-backend/internal/models"
)

// Data sources a product grid can draw from.
const (
	DataSourceAllActive  = "all_active"
	DataSourceCollection = "collection"
	DataSourceTag        = "tag"
	DataSourceManual     = "manual"
)

const (
	DefaultGridLimit   = 4
	MaxGridLimit       = 24
	DefaultGridColumns = 4
	MaxGridColumns     = 6
)

var (
	gridDataSources = []string{DataSourceAllActive, DataSourceCollection, DataSourceTag, DataSourceManual}
	gridCardStyles  = []string{"standard", "minimal", "overlay", "bordered"}
)

// ProductGridSettings is the typed view shared by the collections, new
// arrivals and best sellers kinds.
type ProductGridSettings struct {
	Subtitle     string
	DataSource   string
	CollectionID string
	Tag          string
	ProductIDs   []string
	Limit        int
	Columns      int
	Slider       bool
	CardStyle    string
	ShowVariants bool
	ShowWishlist bool
	ShowNewBadge bool
	ViewAllURL   string
}

// RegisterProductGrids registers the three product grid kinds.
func RegisterProductGrids(reg *Registry) {
	if reg == nil {
		return
	}

	reg.MustRegister(productGridBuilder(models.KindCollections, "Collections",
		"Grid of products from the catalog or a chosen collection", "Shop the collection", "/collections").MustBuild())
	reg.MustRegister(productGridBuilder(models.KindNewArrivals, "New Arrivals",
		"Most recently added products", "Fresh in this week", "/collections/new").MustBuild())
	reg.MustRegister(productGridBuilder(models.KindBestSellers, "Best Sellers",
		"Top selling products", "Customer favourites", "/collections/best-sellers").MustBuild())
}

func productGridBuilder(kind models.SectionKind, name, description, subtitle, viewAllURL string) *SectionBuilder {
	return NewSectionBuilder(kind).
		WithName(name).
		WithDescription(description).
		WithCategory("catalog").
		WithIcon("grid").
		WithDefaultTitle(name).
		AllowedIn("homepage", "product", "collection").
		AddStringField("subtitle", false, subtitle).
		AddEnumField("data_source", gridDataSources, DataSourceAllActive).
		AddStringField("collection_id", false).
		AddStringField("tag", false).
		AddArrayField("product_ids", "string", MaxGridLimit).
		AddNumberField("limit", 1, MaxGridLimit, DefaultGridLimit).
		AddNumberField("columns", 1, MaxGridColumns, DefaultGridColumns).
		AddBooleanField("slider", false).
		AddEnumField("card_style", gridCardStyles, "standard").
		AddBooleanField("show_variants", true).
		AddBooleanField("show_wishlist", true).
		AddBooleanField("show_new_badge", true).
		AddStringField("view_all_url", false, viewAllURL)
}

// IsProductGrid reports whether kind renders a product grid.
func IsProductGrid(kind models.SectionKind) bool {
	switch kind {
	case models.KindCollections, models.KindNewArrivals, models.KindBestSellers:
		return true
	default:
		return false
	}
}

// DecodeProductGrid reads product grid settings, falling back to defaults for
// missing or malformed values.
func DecodeProductGrid(settings models.Settings) ProductGridSettings {
	grid := ProductGridSettings{
		Subtitle:     settings.String("subtitle", ""),
		DataSource:   oneOf(settings.String("data_source", ""), gridDataSources, DataSourceAllActive),
		CollectionID: settings.String("collection_id", ""),
		Tag:          settings.String("tag", ""),
		ProductIDs:   settings.Strings("product_ids"),
		Limit:        clampInt(settings.Int("limit", DefaultGridLimit), 1, MaxGridLimit),
		Columns:      clampInt(settings.Int("columns", DefaultGridColumns), 1, MaxGridColumns),
		Slider:       settings.Bool("slider", false),
		CardStyle:    oneOf(settings.String("card_style", ""), gridCardStyles, "standard"),
		ShowVariants: settings.Bool("show_variants", true),
		ShowWishlist: settings.Bool("show_wishlist", true),
		ShowNewBadge: settings.Bool("show_new_badge", true),
		ViewAllURL:   settings.String("view_all_url", ""),
	}
	if len(grid.ProductIDs) > MaxGridLimit {
		grid.ProductIDs = grid.ProductIDs[:MaxGridLimit]
	}
	return grid
}
