package utils

import (
	"regexp"
	"strings"
)

var (
	htmlTagRe    = regexp.MustCompile(`(?s)<[^>]*>`)
	htmlEntityRe = regexp.MustCompile(`&(nbsp|#160|ensp|emsp|thinsp);`)
)

// StripHTML removes tags and whitespace entities, leaving the visible text.
func StripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, "")
	s = htmlEntityRe.ReplaceAllString(s, " ")
	return s
}

// IsHTMLEmpty reports whether an HTML fragment renders to no visible content.
// Editors routinely leave "<p><br/></p>" behind; such notes must not end up
// as invoice narrations.
func IsHTMLEmpty(s string) bool {
	return strings.TrimSpace(StripHTML(s)) == ""
}
