package constants

const (
	// LaptopMaxWidth is the viewport width (in pixels) at and below which laptop overrides apply.
	LaptopMaxWidth = 1024
	// MobileMaxWidth is the viewport width (in pixels) at and below which mobile overrides apply.
	MobileMaxWidth = 768

	// SectionAnchorPrefix prefixes the DOM id of every rendered section.
	SectionAnchorPrefix = "section-"

	// MaxScopeIDLength bounds the length of a layout scope identifier.
	MaxScopeIDLength = 128
)

var sectionPaddingOptions = []int{0, 4, 8, 16, 24, 32, 48, 64, 96, 128}
var sectionMarginOptions = []int{-64, -32, -16, 0, 4, 8, 16, 32, 64, 128}

// SectionPaddingOptions returns the padding presets offered by the builder in pixels.
// A copy of the slice is returned to prevent external mutation of the internal list.
func SectionPaddingOptions() []int {
	options := make([]int, len(sectionPaddingOptions))
	copy(options, sectionPaddingOptions)
	return options
}

// SectionMarginOptions returns the margin presets offered by the builder in pixels.
// A copy of the slice is returned to prevent external mutation of the internal list.
func SectionMarginOptions() []int {
	options := make([]int, len(sectionMarginOptions))
	copy(options, sectionMarginOptions)
	return options
}
