package styles

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"storefront-layout-backend/internal/models"
)

func TestResolve_NilStyleProducesNoRules(t *testing.T) {
	if rules := Resolve("abc", nil); len(rules) != 0 {
		t.Fatalf("expected no rules, got %v", rules)
	}
}

func TestResolve_OneRulePerDefinedProperty(t *testing.T) {
	style := &models.StyleConfig{
		StyleProperties: models.StyleProperties{
			PaddingTop:      models.Px(24),
			PaddingBottom:   models.Px(24),
			MarginTop:       models.Px(-8),
			BackgroundColor: "#fafafa",
			TextAlign:       "center",
			MaxWidth:        models.Px(1200),
			ImageWidth:      "100%",
			ImageHeight:     "auto",
			ImageAlign:      "right",
			TitleFontSize:   models.Px(32),
		},
		Laptop: &models.StyleProperties{
			PaddingTop:    models.Px(16),
			TitleFontSize: models.Px(28),
		},
		Mobile: &models.StyleProperties{
			PaddingTop:          models.Px(8),
			TextAlign:           "left",
			DescriptionFontSize: models.Px(14),
		},
	}

	rules := Resolve("abc", style)
	if len(rules) != 15 {
		t.Fatalf("expected 15 rules, got %d: %v", len(rules), rules)
	}

	rank := map[Breakpoint]int{BreakpointBase: 0, BreakpointLaptop: 1, BreakpointMobile: 2}
	for i := 1; i < len(rules); i++ {
		if rank[rules[i].Breakpoint] < rank[rules[i-1].Breakpoint] {
			t.Fatalf("rule %d (%s) emitted after %s", i, rules[i].Breakpoint, rules[i-1].Breakpoint)
		}
	}

	counts := map[Breakpoint]int{}
	for _, rule := range rules {
		counts[rule.Breakpoint]++
		if rule.Value == "" {
			t.Fatalf("empty declaration emitted: %+v", rule)
		}
	}
	if counts[BreakpointBase] != 10 || counts[BreakpointLaptop] != 2 || counts[BreakpointMobile] != 3 {
		t.Fatalf("unexpected per-breakpoint counts: %v", counts)
	}
}

func TestResolve_ScopesRulesToSection(t *testing.T) {
	style := &models.StyleConfig{
		StyleProperties: models.StyleProperties{
			PaddingTop:        models.Px(10),
			MaxWidth:          models.Px(960),
			ImageBorderRadius: models.Px(4),
			ImageAlign:        "center",
			PriceFontSize:     models.Px(18),
		},
	}

	rules := Resolve("hero-1", style)
	want := []Rule{
		{Scope: "#section-hero-1", Breakpoint: BreakpointBase, Property: "padding-top", Value: "10px"},
		{Scope: "#section-hero-1 .section-container", Breakpoint: BreakpointBase, Property: "max-width", Value: "960px"},
		{Scope: "#section-hero-1 .section-image", Breakpoint: BreakpointBase, Property: "border-radius", Value: "4px"},
		{Scope: "#section-hero-1 .section-image-wrapper", Breakpoint: BreakpointBase, Property: "text-align", Value: "center"},
		{Scope: "#section-hero-1 .section-price", Breakpoint: BreakpointBase, Property: "font-size", Value: "18px"},
	}
	if len(rules) != len(want) {
		t.Fatalf("expected %d rules, got %v", len(want), rules)
	}
	for i := range want {
		if rules[i] != want[i] {
			t.Fatalf("rule %d: expected %+v, got %+v", i, want[i], rules[i])
		}
	}
}

func TestResolve_ImageAlignmentIsSeparateFromSizing(t *testing.T) {
	style := &models.StyleConfig{
		StyleProperties: models.StyleProperties{ImageWidth: "320px", ImageAlign: "left"},
	}
	rules := Resolve("x", style)
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %v", rules)
	}
	if rules[0].Scope == rules[1].Scope {
		t.Fatalf("expected alignment and sizing on different scopes, got %q", rules[0].Scope)
	}
	if !strings.HasSuffix(rules[1].Scope, ScopeImageWrapper) {
		t.Fatalf("expected alignment on wrapper scope, got %q", rules[1].Scope)
	}
}

func TestResolve_MalformedValuesAreOmitted(t *testing.T) {
	style := &models.StyleConfig{
		StyleProperties: models.StyleProperties{
			PaddingTop:      models.Px(math.NaN()),
			PaddingLeft:     models.Px(math.Inf(1)),
			PaddingRight:    models.Px(-4),
			MaxWidth:        models.Px(-1),
			BackgroundColor: "   ",
			TextColor:       "red; background: url(javascript:alert(1))",
			TextAlign:       "diagonal",
			ImageWidth:      "expression(alert(1))",
			ImageHeight:     "10px}body{display:none",
			ImageAlign:      "justify",
		},
	}

	if rules := Resolve("x", style); len(rules) != 0 {
		t.Fatalf("expected all malformed values to be omitted, got %v", rules)
	}
}

func TestResolve_FreeformValuesPassThrough(t *testing.T) {
	style := &models.StyleConfig{
		StyleProperties: models.StyleProperties{
			BackgroundColor: " rgba(0, 0, 0, 0.5) ",
			ImageWidth:      "calc(100% - 2rem)",
			ImageHeight:     "240",
		},
	}

	rules := Resolve("x", style)
	values := map[string]string{}
	for _, rule := range rules {
		values[rule.Property] = rule.Value
	}
	if values["background-color"] != "rgba(0, 0, 0, 0.5)" {
		t.Fatalf("expected trimmed colour, got %q", values["background-color"])
	}
	if values["width"] != "calc(100% - 2rem)" {
		t.Fatalf("expected width unchanged, got %q", values["width"])
	}
	if values["height"] != "240px" {
		t.Fatalf("expected bare number rendered as pixels, got %q", values["height"])
	}
}

func TestResolve_DecodedStringPixels(t *testing.T) {
	var style models.StyleConfig
	payload := `{"paddingTop":"12px","marginLeft":"-6","maxWidth":"wide","mobile":{"paddingTop":4.5}}`
	if err := json.Unmarshal([]byte(payload), &style); err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}

	rules := Resolve("x", &style)
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %v", rules)
	}
	if rules[0].Value != "12px" || rules[1].Value != "-6px" {
		t.Fatalf("unexpected base values: %v", rules[:2])
	}
	if rules[2].Breakpoint != BreakpointMobile || rules[2].Value != "4.5px" {
		t.Fatalf("unexpected mobile rule: %+v", rules[2])
	}
}

func TestSectionSelector_SanitisesIDs(t *testing.T) {
	if got := SectionSelector("a b:c"); got != "#section-a-b-c" {
		t.Fatalf("unexpected selector %q", got)
	}
	if got := SectionSelector(""); got != "#section-unnamed" {
		t.Fatalf("unexpected selector for empty id %q", got)
	}
}

func TestResolveDocument_SkipsInactiveSections(t *testing.T) {
	style := &models.StyleConfig{StyleProperties: models.StyleProperties{PaddingTop: models.Px(1)}}
	doc := models.LayoutDocument{
		ScopeID: "global",
		Sections: []models.Section{
			{ID: "a", IsActive: true, Style: style},
			{ID: "b", IsActive: false, Style: style},
			{ID: "c", IsActive: true, Style: style},
		},
	}

	rules := ResolveDocument(doc)
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %v", rules)
	}
	if rules[0].Scope != "#section-a" || rules[1].Scope != "#section-c" {
		t.Fatalf("unexpected scopes: %v", rules)
	}
}
