// Package urlenc percent-encodes free text for use in query strings.
package urlenc

import "strings"

const upperHex = "0123456789ABCDEF"

// Encode percent-encodes s so it can be placed verbatim in a URL query.
// ASCII letters, digits and "-_.~" are kept, a space becomes "%20" and every
// other byte becomes "%XX" with uppercase hex digits.
func Encode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isUnreserved(c):
			b.WriteByte(c)
		case c == ' ':
			b.WriteString("%20")
		default:
			b.WriteByte('%')
			b.WriteByte(upperHex[c>>4])
			b.WriteByte(upperHex[c&0x0F])
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
