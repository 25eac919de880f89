// Package normalize folds free-text drug and allergy names into a
// comparable form: lowercase, diacritics stripped, whitespace trimmed.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Text normalizes s for comparison. It is a pure function and idempotent:
// Text(Text(s)) == Text(s). On a transform error the accent stripping is
// skipped and the input is only lowercased and trimmed.
func Text(s string) string {
	// A chained transformer carries internal buffers, so build one per call
	// instead of sharing a package-level instance across goroutines.
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(stripper, s)
	if err != nil {
		out = s
	}

	return strings.ToLower(strings.TrimSpace(out))
}
