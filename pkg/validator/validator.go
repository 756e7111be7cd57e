package validator

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"storefront-layout-backend/internal/constants"
)

var (
	initOnce  sync.Once
	validate  *validator.Validate
	sanitizer *bluemonday.Policy

	scopeIDPattern    = regexp.MustCompile(`^[A-Za-z0-9:_.\-]+$`)
	sectionKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// Init prepares the shared validator and sanitiser. It is safe to call more
// than once.
func Init() {
	initOnce.Do(func() {
		validate = validator.New()

		sanitizer = bluemonday.UGCPolicy()
		sanitizer.AllowStyling()
		sanitizer.AllowAttrs("style").OnElements("span", "div", "p", "section")
		sanitizer.AllowElements("section", "figure", "figcaption")

		registerCustomValidations(validate)

		if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerCustomValidations(engine)
		}
	})
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterValidation("scope_id", validateScopeID)
	v.RegisterValidation("settings_key", validateSettingsKey)
}

func Validate(s interface{}) error {
	Init()
	return validate.Struct(s)
}

// ValidScopeID reports whether id can be used as a layout scope.
func ValidScopeID(id string) bool {
	return id != "" && len(id) <= constants.MaxScopeIDLength && scopeIDPattern.MatchString(id)
}

// ValidSettingsKey reports whether key looks like a settings key.
func ValidSettingsKey(key string) bool {
	return len(key) <= 128 && sectionKeyPattern.MatchString(key)
}

// SanitizeCustomCode cleans author supplied markup for custom code sections.
// Class, id and inline style attributes survive; scripts and event handlers
// do not.
func SanitizeCustomCode(html string) string {
	Init()
	return sanitizer.Sanitize(html)
}

func validateScopeID(fl validator.FieldLevel) bool {
	return ValidScopeID(fl.Field().String())
}

func validateSettingsKey(fl validator.FieldLevel) bool {
	return ValidSettingsKey(fl.Field().String())
}
