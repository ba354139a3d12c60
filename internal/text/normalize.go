package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes characters and drops the combining marks, so
// "Agendá" and "Agenda" compare equal after folding.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize collapses runs of whitespace into single spaces and trims.
// It never fails and maps all-whitespace input to "".
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Fold prepares text for accent/case-insensitive matching: diacritics
// removed, whitespace normalized, uppercased.
func Fold(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(Normalize(out))
}
