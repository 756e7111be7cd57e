package styles

import (
	"strconv"
	"strings"

	"github.com/gorilla/css/scanner"

	"storefront-layout-backend/internal/models"
)

var (
	textAlignments  = []string{"left", "center", "right", "justify"}
	imageAlignments = []string{"left", "center", "right"}
)

// pixels renders p as a pixel length. Missing, non-finite and (unless
// allowNegative) negative values are reported as absent.
func pixels(p *models.Pixels, allowNegative bool) (string, bool) {
	if p == nil || !p.Valid() {
		return "", false
	}
	value := float64(*p)
	if value < 0 && !allowNegative {
		return "", false
	}
	if value == 0 {
		return "0px", true
	}
	return strconv.FormatFloat(value, 'f', -1, 64) + "px", true
}

// length passes a free-form CSS length through. Bare numbers are treated as
// pixels; anything that could escape the declaration is dropped.
func length(value string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	if number, err := strconv.ParseFloat(trimmed, 64); err == nil {
		p := models.Pixels(number)
		return pixels(&p, false)
	}
	return freeform(trimmed)
}

// freeform passes a trimmed value through when it is a safe declaration value.
func freeform(value string) (string, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || !isSafeValue(trimmed) {
		return "", false
	}
	return trimmed, true
}

func enum(value string, options []string) (string, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	for _, option := range options {
		if option == trimmed {
			return trimmed, true
		}
	}
	return "", false
}

// isSafeValue tokenises value and rejects anything that would terminate the
// declaration, open a block, inject markup or load external resources.
func isSafeValue(value string) bool {
	s := scanner.New(value)
	for {
		token := s.Next()
		switch token.Type {
		case scanner.TokenEOF:
			return true
		case scanner.TokenError, scanner.TokenURI, scanner.TokenAtKeyword,
			scanner.TokenCDO, scanner.TokenCDC, scanner.TokenComment, scanner.TokenBOM:
			return false
		case scanner.TokenFunction:
			name := strings.ToLower(token.Value)
			if name == "url(" || name == "expression(" {
				return false
			}
		case scanner.TokenChar:
			switch token.Value {
			case ";", "{", "}", "<", ">", "!", "\\":
				return false
			}
		case scanner.TokenString:
			if strings.ContainsAny(token.Value, "<>") {
				return false
			}
		}
	}
}
