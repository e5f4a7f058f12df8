// Package matching provides text normalization for product search.
package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName canonicalizes a product name for search comparison:
// lowercase, diacritics stripped, whitespace collapsed. Delivery addresses
// are deliberately NOT passed through here; the coordinate cache keys on the
// exact raw string.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = RemoveDiacritics(s)
	return strings.Join(strings.Fields(s), " ")
}

// RemoveDiacritics strips combining marks after NFD decomposition, so
// "crème brûlée" matches "creme brulee".
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// MatchesQuery reports whether a product name matches a free-text search
// query, comparing normalized forms. An empty query matches everything.
func MatchesQuery(name, query string) bool {
	q := NormalizeName(query)
	if q == "" {
		return true
	}
	return strings.Contains(NormalizeName(name), q)
}
