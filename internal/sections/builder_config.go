package sections

import (
	"storefront-layout-backend/internal/constants"
	"storefront-layout-backend/internal/models"
)

// PageBuilderConfig returns configuration for the layout builder UI.
func (r *Registry) PageBuilderConfig() models.PageBuilderConfig {
	metadata := r.ListMetadata()
	available := make([]models.SectionTypeConfig, 0, len(metadata))
	for _, meta := range metadata {
		var allowedIn []string
		if desc, ok := r.Get(models.SectionKind(meta.Type)); ok {
			allowedIn = append(allowedIn, desc.AllowedIn...)
		}
		available = append(available, models.SectionTypeConfig{
			Type:        meta.Type,
			Name:        meta.Name,
			Description: meta.Description,
			Category:    meta.Category,
			Icon:        meta.Icon,
			Schema:      meta.Schema,
			AllowedIn:   allowedIn,
		})
	}

	return models.PageBuilderConfig{
		AvailableSections: available,
		Breakpoints: []models.BreakpointConfig{
			{Name: "base"},
			{Name: "laptop", MaxWidth: constants.LaptopMaxWidth},
			{Name: "mobile", MaxWidth: constants.MobileMaxWidth},
		},
		PaddingOptions: constants.SectionPaddingOptions(),
		MarginOptions:  constants.SectionMarginOptions(),
	}
}
