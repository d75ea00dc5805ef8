package textclean

import (
	"regexp"
	"strings"
)

// Patterns for list markers that should never survive into output text.
// Bullets (•, *, -) and enumerated prefixes ("1.", "2)", "1.2.").
var (
	leadingMarkerRe = regexp.MustCompile(`^(?:[•*\-‣▪]|\d+(?:\.\d+)*[.)])(?:\s+|$)`)
	markerOnlyRe    = regexp.MustCompile(`^(?:[•*\-‣▪]|\d+(?:\.\d+)*[.)])(?:\s|$)`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// Clean strips a leading list marker, collapses whitespace runs (including
// newlines) to single spaces, and trims. Applied identically to heading text,
// section content, and refined snippets so all three stages agree on output.
func Clean(s string) string {
	if s == "" {
		return ""
	}
	s = strings.TrimSpace(s)
	s = leadingMarkerRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// HasListMarker reports whether the raw text starts with a bullet or an
// enumerated list marker.
func HasListMarker(s string) bool {
	return markerOnlyRe.MatchString(strings.TrimSpace(s))
}

// WordCount counts whitespace-separated words after cleaning.
func WordCount(s string) int {
	return len(strings.Fields(Clean(s)))
}
