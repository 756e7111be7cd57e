package sections

import (
	"storefront-layout-backend/internal/models"
)

// DefaultCustomCode is the placeholder markup given to new custom code sections.
const DefaultCustomCode = `<div class="custom-block"></div>`

// RegisterCustomCode registers the raw markup kind. Custom code bypasses the
// settings-driven rendering path, so its settings stay minimal.
func RegisterCustomCode(reg *Registry) {
	if reg == nil {
		return
	}

	reg.MustRegister(NewSectionBuilder(models.KindCustomCode).
		WithName("Custom Code").
		WithDescription("Raw HTML block, sanitised when rendered").
		WithCategory("advanced").
		WithIcon("code").
		WithDefaultTitle("Custom Code").
		WithDefaultCode(DefaultCustomCode).
		AllowedIn("homepage", "product", "collection").
		AddBooleanField("full_width", false).
		MustBuild())
}
