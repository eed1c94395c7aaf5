package ingest

import "strings"

const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// CutAtPunct truncates s at its first ASCII punctuation character,
// so "hello," and "hello!?" both become "hello".
func CutAtPunct(s string) string {
	if i := strings.IndexAny(s, asciiPunct); i >= 0 {
		return s[:i]
	}
	return s
}
