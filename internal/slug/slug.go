// Package slug derives URL-safe identifiers from display names.
package slug

import (
	"regexp"
	"strings"
)

var (
	nonWord    = regexp.MustCompile(`[^\w\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Make lower-cases text, strips every character that is not a word character,
// whitespace, or hyphen, and collapses whitespace runs into single hyphens.
// Deterministic and total; an input of only symbols yields an empty string,
// which callers must reject as an invalid name.
func Make(text string) string {
	text = strings.ToLower(text)
	text = nonWord.ReplaceAllString(text, "")
	return whitespace.ReplaceAllString(text, "-")
}
