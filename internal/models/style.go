package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Pixels is a CSS length expressed in pixels. It decodes from JSON numbers as
// well as numeric strings such as "12" or "12px"; anything else decodes to NaN
// so that the style resolver can drop it.
type Pixels float64

// Px returns a pointer to a Pixels value.
func Px(value float64) *Pixels {
	p := Pixels(value)
	return &p
}

// Valid reports whether the value is a finite number.
func (p Pixels) Valid() bool {
	f := float64(p)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (p *Pixels) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*p = Pixels(math.NaN())
		return nil
	}

	var number float64
	if err := json.Unmarshal(data, &number); err == nil {
		*p = Pixels(number)
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		*p = Pixels(math.NaN())
		return nil
	}

	*p = ParsePixels(text)
	return nil
}

func (p Pixels) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(p))
}

// ParsePixels parses "12", "12px" or "  -4.5px ". Unparseable input yields NaN.
func ParsePixels(value string) Pixels {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	trimmed = strings.TrimSuffix(trimmed, "px")
	if trimmed == "" {
		return Pixels(math.NaN())
	}
	number, err := strconv.ParseFloat(strings.TrimSpace(trimmed), 64)
	if err != nil {
		return Pixels(math.NaN())
	}
	return Pixels(number)
}

// StyleProperties is the set of visual properties a section can override.
// Laptop and mobile overrides use the same type, so an override can never
// introduce a property the base does not know about.
type StyleProperties struct {
	PaddingTop    *Pixels `json:"paddingTop,omitempty"`
	PaddingRight  *Pixels `json:"paddingRight,omitempty"`
	PaddingBottom *Pixels `json:"paddingBottom,omitempty"`
	PaddingLeft   *Pixels `json:"paddingLeft,omitempty"`

	MarginTop    *Pixels `json:"marginTop,omitempty"`
	MarginRight  *Pixels `json:"marginRight,omitempty"`
	MarginBottom *Pixels `json:"marginBottom,omitempty"`
	MarginLeft   *Pixels `json:"marginLeft,omitempty"`

	BackgroundColor string  `json:"backgroundColor,omitempty"`
	TextColor       string  `json:"textColor,omitempty"`
	TextAlign       string  `json:"textAlign,omitempty"`
	MaxWidth        *Pixels `json:"maxWidth,omitempty"`

	ImageWidth        string  `json:"imageWidth,omitempty"`
	ImageHeight       string  `json:"imageHeight,omitempty"`
	ImageBorderRadius *Pixels `json:"imageBorderRadius,omitempty"`
	ImageAlign        string  `json:"imageAlign,omitempty"`

	TitleFontSize       *Pixels `json:"titleFontSize,omitempty"`
	PriceFontSize       *Pixels `json:"priceFontSize,omitempty"`
	DescriptionFontSize *Pixels `json:"descriptionFontSize,omitempty"`
}

// IsZero reports whether no property is set.
func (p StyleProperties) IsZero() bool {
	return p == StyleProperties{}
}

// Clone copies the pointer fields so the result shares nothing with p.
func (p StyleProperties) Clone() StyleProperties {
	cloned := p
	for _, field := range []struct {
		dst **Pixels
		src *Pixels
	}{
		{&cloned.PaddingTop, p.PaddingTop},
		{&cloned.PaddingRight, p.PaddingRight},
		{&cloned.PaddingBottom, p.PaddingBottom},
		{&cloned.PaddingLeft, p.PaddingLeft},
		{&cloned.MarginTop, p.MarginTop},
		{&cloned.MarginRight, p.MarginRight},
		{&cloned.MarginBottom, p.MarginBottom},
		{&cloned.MarginLeft, p.MarginLeft},
		{&cloned.MaxWidth, p.MaxWidth},
		{&cloned.ImageBorderRadius, p.ImageBorderRadius},
		{&cloned.TitleFontSize, p.TitleFontSize},
		{&cloned.PriceFontSize, p.PriceFontSize},
		{&cloned.DescriptionFontSize, p.DescriptionFontSize},
	} {
		if field.src != nil {
			value := *field.src
			*field.dst = &value
		}
	}
	return cloned
}

// StyleConfig holds the base properties of a section together with optional
// laptop and mobile overrides.
type StyleConfig struct {
	StyleProperties
	Laptop *StyleProperties `json:"laptop,omitempty"`
	Mobile *StyleProperties `json:"mobile,omitempty"`
}

func (c StyleConfig) Clone() StyleConfig {
	cloned := StyleConfig{StyleProperties: c.StyleProperties.Clone()}
	if c.Laptop != nil {
		laptop := c.Laptop.Clone()
		cloned.Laptop = &laptop
	}
	if c.Mobile != nil {
		mobile := c.Mobile.Clone()
		cloned.Mobile = &mobile
	}
	return cloned
}
