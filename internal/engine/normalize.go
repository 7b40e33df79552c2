package engine

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// NormalizeISO canonicalizes a country code: trim and uppercase. Three
// letter ISO is assumed, not enforced.
func NormalizeISO(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Slugify lowercases its input and collapses every run of characters
// outside [a-z0-9] into a single hyphen, stripping leading and trailing
// hyphens. Idempotent.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	pending := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}

// Titleize turns a slug-ish value into a last-resort display label:
// split on hyphen/underscore/space, uppercase the first letter of each
// token, join with spaces. Never used as a join key.
func Titleize(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, p := range parts {
		runes := []rune(p)
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}

// ParseScore extracts a numeric score from free text by dropping every
// character outside [0-9.-] before parsing. Reports false when nothing
// numeric remains.
func ParseScore(v string) (float64, bool) {
	var b strings.Builder
	for _, r := range v {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	n, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseWhen leniently parses an effective date in any common layout.
func ParseWhen(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SplitGroups tokenizes a delimiter-separated membership string
// (comma, semicolon, pipe or space) into lowercased tokens.
func SplitGroups(v string) []string {
	return strings.FieldsFunc(strings.ToLower(v), func(r rune) bool {
		return r == ',' || r == ';' || r == '|' || r == ' '
	})
}

// NormalizeHex prefixes a bare RRGGBB value with '#'; anything else is
// passed through untouched.
func NormalizeHex(v string) string {
	s := strings.TrimSpace(v)
	if len(s) != 6 {
		return s
	}
	for _, r := range s {
		if !((r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')) {
			return s
		}
	}
	return "#" + s
}
