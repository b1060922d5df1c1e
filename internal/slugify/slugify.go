// Package slugify derives URL-safe identifiers from human-readable names.
package slugify

import "strings"

// Slugify lowercases s, drops non-ASCII runes, and collapses every run of
// whitespace or punctuation into a single hyphen. The result never has
// leading or trailing hyphens. An input with no usable characters yields "".
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r > 127:
			// non-ASCII is dropped, not transliterated
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
