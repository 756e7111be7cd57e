// Package styles turns a section's responsive style configuration into
// ordered, section-scoped CSS rules and serialises them.
package styles

import (
	"fmt"
	"strings"

	"storefront-layout-backend/internal/constants"
	"storefront-layout-backend/internal/models"
)

// Breakpoint is the viewport tier a rule applies to.
type Breakpoint string

const (
	BreakpointBase   Breakpoint = "base"
	BreakpointLaptop Breakpoint = "laptop"
	BreakpointMobile Breakpoint = "mobile"
)

// MediaQuery returns the media condition of the breakpoint, empty for base.
func (b Breakpoint) MediaQuery() string {
	switch b {
	case BreakpointLaptop:
		return fmt.Sprintf("(max-width: %dpx)", constants.LaptopMaxWidth)
	case BreakpointMobile:
		return fmt.Sprintf("(max-width: %dpx)", constants.MobileMaxWidth)
	default:
		return ""
	}
}

// Rule is a single declaration scoped to part of a section at a breakpoint.
type Rule struct {
	Scope      string     `json:"scope"`
	Breakpoint Breakpoint `json:"breakpoint"`
	Property   string     `json:"property"`
	Value      string     `json:"value"`
}

// Sub-element scopes relative to the section root.
const (
	ScopeRoot         = ""
	ScopeContainer    = ".section-container"
	ScopeImage        = ".section-image"
	ScopeImageWrapper = ".section-image-wrapper"
	ScopeTitle        = ".section-title"
	ScopePrice        = ".section-price"
	ScopeDescription  = ".section-description"
)

type mapping struct {
	scope    string
	property string
	value    func(models.StyleProperties) (string, bool)
}

// mappings lists every style property in emission order. Each input property
// maps to exactly one CSS declaration.
var mappings = []mapping{
	{ScopeRoot, "padding-top", func(p models.StyleProperties) (string, bool) { return pixels(p.PaddingTop, false) }},
	{ScopeRoot, "padding-right", func(p models.StyleProperties) (string, bool) { return pixels(p.PaddingRight, false) }},
	{ScopeRoot, "padding-bottom", func(p models.StyleProperties) (string, bool) { return pixels(p.PaddingBottom, false) }},
	{ScopeRoot, "padding-left", func(p models.StyleProperties) (string, bool) { return pixels(p.PaddingLeft, false) }},
	{ScopeRoot, "margin-top", func(p models.StyleProperties) (string, bool) { return pixels(p.MarginTop, true) }},
	{ScopeRoot, "margin-right", func(p models.StyleProperties) (string, bool) { return pixels(p.MarginRight, true) }},
	{ScopeRoot, "margin-bottom", func(p models.StyleProperties) (string, bool) { return pixels(p.MarginBottom, true) }},
	{ScopeRoot, "margin-left", func(p models.StyleProperties) (string, bool) { return pixels(p.MarginLeft, true) }},
	{ScopeRoot, "background-color", func(p models.StyleProperties) (string, bool) { return freeform(p.BackgroundColor) }},
	{ScopeRoot, "color", func(p models.StyleProperties) (string, bool) { return freeform(p.TextColor) }},
	{ScopeRoot, "text-align", func(p models.StyleProperties) (string, bool) { return enum(p.TextAlign, textAlignments) }},
	{ScopeContainer, "max-width", func(p models.StyleProperties) (string, bool) { return pixels(p.MaxWidth, false) }},
	{ScopeImage, "width", func(p models.StyleProperties) (string, bool) { return length(p.ImageWidth) }},
	{ScopeImage, "height", func(p models.StyleProperties) (string, bool) { return length(p.ImageHeight) }},
	{ScopeImage, "border-radius", func(p models.StyleProperties) (string, bool) { return pixels(p.ImageBorderRadius, false) }},
	{ScopeImageWrapper, "text-align", func(p models.StyleProperties) (string, bool) { return enum(p.ImageAlign, imageAlignments) }},
	{ScopeTitle, "font-size", func(p models.StyleProperties) (string, bool) { return pixels(p.TitleFontSize, false) }},
	{ScopePrice, "font-size", func(p models.StyleProperties) (string, bool) { return pixels(p.PriceFontSize, false) }},
	{ScopeDescription, "font-size", func(p models.StyleProperties) (string, bool) { return pixels(p.DescriptionFontSize, false) }},
}

// Resolve maps a section's style configuration to ordered rules: base first,
// then laptop, then mobile. Missing, empty and malformed values produce no
// rule. A nil style yields no rules.
func Resolve(sectionID string, style *models.StyleConfig) []Rule {
	if style == nil {
		return nil
	}

	root := SectionSelector(sectionID)
	rules := make([]Rule, 0, len(mappings))
	rules = appendTier(rules, root, BreakpointBase, style.StyleProperties)
	if style.Laptop != nil {
		rules = appendTier(rules, root, BreakpointLaptop, *style.Laptop)
	}
	if style.Mobile != nil {
		rules = appendTier(rules, root, BreakpointMobile, *style.Mobile)
	}
	return rules
}

func appendTier(rules []Rule, root string, breakpoint Breakpoint, props models.StyleProperties) []Rule {
	for _, m := range mappings {
		value, ok := m.value(props)
		if !ok {
			continue
		}
		scope := root
		if m.scope != ScopeRoot {
			scope = root + " " + m.scope
		}
		rules = append(rules, Rule{
			Scope:      scope,
			Breakpoint: breakpoint,
			Property:   m.property,
			Value:      value,
		})
	}
	return rules
}

// ResolveDocument resolves every active section of doc in document order.
// The result keeps each section's base, laptop, mobile ordering.
func ResolveDocument(doc models.LayoutDocument) []Rule {
	var rules []Rule
	for _, section := range doc.ActiveSections() {
		rules = append(rules, Resolve(section.ID, section.Style)...)
	}
	return rules
}

// SectionAnchor returns the DOM id used for a section.
func SectionAnchor(sectionID string) string {
	var b strings.Builder
	b.Grow(len(sectionID))
	for _, r := range sectionID {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		b.WriteString("unnamed")
	}
	return constants.SectionAnchorPrefix + b.String()
}

// SectionSelector returns the CSS selector matching a section's root element.
func SectionSelector(sectionID string) string {
	return "#" + SectionAnchor(sectionID)
}
