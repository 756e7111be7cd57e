package sections

import (
	"storefront-layout-backend/internal/models"
)

// NewsletterSettings is the typed view of a newsletter signup section.
type NewsletterSettings struct {
	Subtitle        string
	Placeholder     string
	ButtonText      string
	SuccessMessage  string
	CollectName     bool
	BackgroundImage string
}

// RegisterNewsletter registers the newsletter signup kind.
func RegisterNewsletter(reg *Registry) {
	if reg == nil {
		return
	}

	reg.MustRegister(NewSectionBuilder(models.KindNewsletter).
		WithName("Newsletter").
		WithDescription("Email signup form").
		WithCategory("marketing").
		WithIcon("mail").
		WithDefaultTitle("Join our newsletter").
		AllowedIn("homepage").
		AddStringField("subtitle", false, "Be the first to hear about new drops and offers").
		AddStringField("placeholder", true, "Enter your email").
		AddStringField("button_text", true, "Subscribe").
		AddStringField("success_message", true, "Thanks for subscribing!").
		AddBooleanField("collect_name", false).
		AddStringField("background_image", false).
		MustBuild())
}

func DecodeNewsletter(settings models.Settings) NewsletterSettings {
	return NewsletterSettings{
		Subtitle:        settings.String("subtitle", ""),
		Placeholder:     nonEmpty(settings.String("placeholder", ""), "Enter your email"),
		ButtonText:      nonEmpty(settings.String("button_text", ""), "Subscribe"),
		SuccessMessage:  nonEmpty(settings.String("success_message", ""), "Thanks for subscribing!"),
		CollectName:     settings.Bool("collect_name", false),
		BackgroundImage: settings.String("background_image", ""),
	}
}
