// file: internal/matcher/matcher.go
// version: 2.1.0
// guid: 1f2a3b4c-5d6e-7f8a-9b0c-1d2e3f4a5b6c

package matcher

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// parenPattern matches parenthesized segments, e.g. "(Acknowledgment)".
var parenPattern = regexp.MustCompile(`\(.*?\)`)

// artistSeparators splits combined artist credits, e.g.
// "Raphaël Pichon, Pygmalion & Sabine Devieilhe".
var artistSeparators = regexp.MustCompile(`[,&]`)

// minNamePartLen is the shortest composer name part considered distinctive
// enough to match against a free-text query. "Bach" qualifies, "de" does not.
const minNamePartLen = 4

// SplitArtists breaks a combined artist credit into individual names.
// Quotes are stripped so the parts can be embedded in a Lucene query.
func SplitArtists(artist string) []string {
	parts := artistSeparators.Split(artist, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.ReplaceAll(p, `"`, ""))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// TitleVariants returns search variants for a track title, most specific
// first: the cleaned title, the portion after a "Prefix: " separator, and the
// title with parenthesized text removed. Duplicates are dropped.
func TitleVariants(title string) []string {
	clean := strings.ReplaceAll(title, `"`, "")
	variants := []string{clean}

	if idx := strings.Index(clean, ": "); idx >= 0 {
		if rest := strings.TrimSpace(clean[idx+2:]); rest != "" {
			variants = appendUnique(variants, rest)
		}
	}

	base := strings.TrimSpace(parenPattern.ReplaceAllString(clean, ""))
	if base != "" {
		variants = appendUnique(variants, base)
	}
	return variants
}

func appendUnique(variants []string, v string) []string {
	for _, existing := range variants {
		if existing == v {
			return variants
		}
	}
	return append(variants, v)
}

// NameOverlap reports whether the candidate composer name occurs inside the
// artist credit, ignoring case and diacritics. Catches the common popular
// case where performer and composer are the same person.
func NameOverlap(composer, artist string) bool {
	if composer == "" || artist == "" {
		return false
	}
	return strings.Contains(Fold(artist), Fold(composer))
}

// NamePartInQuery reports whether any distinctive part of the composer name
// appears verbatim in the original query. Catches "Handel" in
// "Handel Giulio Cesare" even when the catalog artist is an ensemble.
func NamePartInQuery(composer, query string) bool {
	if composer == "" || query == "" {
		return false
	}
	foldedQuery := Fold(query)
	for _, part := range strings.Fields(composer) {
		if len([]rune(part)) >= minNamePartLen && strings.Contains(foldedQuery, Fold(part)) {
			return true
		}
	}
	return false
}

// AcceptComposer applies the work-search acceptance heuristics: the composer
// must overlap the catalog artist or surface in the original query text.
func AcceptComposer(composer, artist, query string) bool {
	return NameOverlap(composer, artist) || NamePartInQuery(composer, query)
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases and strips combining diacritical marks so that
// "Raphaël" matches "raphael".
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}
