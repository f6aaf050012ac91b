// Package slug turns product names into URL and object-key safe slugs.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// maxLen bounds slugs used as storage object key prefixes.
const maxLen = 64

// Generate lowercases name, strips diacritics and joins the remaining
// alphanumeric runs with single hyphens.
//
//	"Cardical-500 Tablet" → "cardical-500-tablet"
//	"Crème Anti-fongique" → "creme-anti-fongique"
func Generate(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	s := nonAlnum.ReplaceAllString(strings.ToLower(folded), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-")
	}
	return s
}

// OrDefault returns Generate(name), or fallback when nothing survives.
func OrDefault(name, fallback string) string {
	if s := Generate(name); s != "" {
		return s
	}
	return fallback
}
