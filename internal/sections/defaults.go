package sections

// DefaultRegistry returns a registry pre-populated with the built-in section kinds.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	RegisterDefaults(reg)
	return reg
}

// RegisterDefaults adds the built-in section kinds to the provided registry in
// the order the builder lists them.
func RegisterDefaults(reg *Registry) {
	if reg == nil {
		return
	}

	RegisterHero(reg)
	RegisterProductGrids(reg)
	RegisterVideos(reg)
	RegisterTestimonials(reg)
	RegisterNewsletter(reg)
	RegisterCustomCode(reg)
}
