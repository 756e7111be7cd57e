package styles

import (
	"github.com/aymerick/douceur/css"
)

// FormatOptions controls CSS serialisation.
type FormatOptions struct {
	// Important marks every declaration !important so section styles win over
	// theme stylesheets loaded later.
	Important bool
}

// Stylesheet groups rules into a douceur stylesheet. Consecutive rules sharing
// a scope and breakpoint become one rule block, and consecutive blocks of the
// same non-base breakpoint share one @media block. Input order is preserved.
func Stylesheet(rules []Rule, opts FormatOptions) *css.Stylesheet {
	sheet := css.NewStylesheet()

	var (
		current      *css.Rule
		currentScope string
		currentBP    Breakpoint
		media        *css.Rule
		mediaBP      Breakpoint
	)

	for _, rule := range rules {
		if current == nil || rule.Scope != currentScope || rule.Breakpoint != currentBP {
			current = css.NewRule(css.QualifiedRule)
			current.Selectors = []string{rule.Scope}
			currentScope = rule.Scope
			currentBP = rule.Breakpoint

			if rule.Breakpoint == BreakpointBase || rule.Breakpoint.MediaQuery() == "" {
				media = nil
				sheet.Rules = append(sheet.Rules, current)
			} else {
				if media == nil || mediaBP != rule.Breakpoint {
					media = css.NewRule(css.AtRule)
					media.Name = "@media"
					media.Prelude = rule.Breakpoint.MediaQuery()
					mediaBP = rule.Breakpoint
					sheet.Rules = append(sheet.Rules, media)
				}
				current.EmbedLevel = 1
				media.Rules = append(media.Rules, current)
			}
		}

		current.Declarations = append(current.Declarations, &css.Declaration{
			Property:  rule.Property,
			Value:     rule.Value,
			Important: opts.Important,
		})
	}

	return sheet
}

// Format serialises rules into CSS text.
func Format(rules []Rule, opts FormatOptions) string {
	if len(rules) == 0 {
		return ""
	}
	return Stylesheet(rules, opts).String()
}
