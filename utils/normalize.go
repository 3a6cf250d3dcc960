package utils

import (
	"strings"

	"golang.org/x/text/width"
)

// Normalize prepares free text for answer matching: full-width and
// half-width variants are folded to their canonical forms (the ideographic
// space U+3000 becomes a plain space, half-width katakana becomes
// full-width), every space is dropped, and ASCII is lowered. Matching is
// then plain substring containment on the result.
func Normalize(s string) string {
	folded := width.Fold.String(s)
	folded = strings.ReplaceAll(folded, " ", "")
	return strings.ToLower(folded)
}
