package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Letters that do not decompose into a base letter plus a combining mark.
var foldMap = map[rune]string{
	'ı': "i",
	'ł': "l",
	'ø': "o",
	'đ': "d",
	'æ': "ae",
	'œ': "oe",
}

// Fold lowercases a word and strips its diacritics, so that "Çare" and
// "care" land on the same token.
func Fold(word string) string {
	// Casers and transform chains keep state, so build fresh ones per call.
	folded := cases.Fold().String(word)

	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripMarks, folded)
	if err != nil {
		stripped = folded
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if ascii, ok := foldMap[r]; ok {
			b.WriteString(ascii)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
