// Package normalize cleans raw merchant descriptions into the canonical form
// used for brand classification and display.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

// branchID matches store/branch suffixes such as "#123".
var branchID = regexp.MustCompile(`#\p{Nd}+`)

// Merchant lowercases raw, removes branch identifiers, drops everything that
// is not a-z, 0-9 or whitespace, and collapses whitespace to single spaces.
// The result is idempotent: Merchant(Merchant(s)) == Merchant(s).
func Merchant(raw string) string {
	if raw == "" {
		return ""
	}

	s := strings.ToLower(raw)
	s = branchID.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case unicode.IsSpace(r):
			return ' '
		}
		return -1
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// Blank reports whether raw is empty or whitespace only.
func Blank(raw string) bool {
	return strings.TrimSpace(raw) == ""
}
