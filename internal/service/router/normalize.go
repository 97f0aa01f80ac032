package router

import (
	"strings"
	"unicode"
)

// Normalize lower-cases s and collapses every run of characters that are not
// letters or digits into a single space. Hyphens, slashes and spaces become equivalent.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSpace := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// containsPhrase reports whether phrase occurs in text on word boundaries.
// Both arguments must already be normalized.
func containsPhrase(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	return strings.Contains(" "+text+" ", " "+phrase+" ")
}
