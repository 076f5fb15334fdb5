// Package normalizer handles header-name normalization for colorder.
package normalizer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize rewrites a raw header into its comparable form.
// It trims surrounding whitespace, strips one pair of wrapping double quotes,
// turns newlines into spaces, collapses whitespace runs into a single space
// and trims again. Casing is preserved; use Lower or Equal to compare.
//
// Stripping a quote pair can expose another pair (`""Premium""`), so the
// steps repeat until the header stops changing. This keeps Normalize
// idempotent for every input.
func Normalize(raw string) string {
	current := raw
	for {
		next := normalizeOnce(current)
		if next == current {
			return next
		}
		current = next
	}
}

func normalizeOnce(s string) string {
	s = strings.TrimSpace(s)

	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}

	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")

	// Fields splits on any unicode whitespace run and drops the ends.
	return strings.Join(strings.Fields(s), " ")
}

// Lower returns the lowercase form of s for comparison only. It maps rune
// by rune without language rules, so "Straße" and "STRASSE" stay distinct.
func Lower(s string) string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Lower(language.Und).String(s)
}

// Key returns the comparison key of a raw header: its normalized, lowercased form.
func Key(raw string) string {
	return Lower(Normalize(raw))
}

// Equal reports whether two raw headers name the same column once both are
// normalized and lowercased.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}
