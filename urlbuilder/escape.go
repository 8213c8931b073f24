package urlbuilder

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

const upperhex = "0123456789ABCDEF"

type encoding int

const (
	// encodeSegment keeps the RFC 3986 reserved set, except the characters
	// that would end the path.
	encodeSegment encoding = iota
	// encodeQueryComponent keeps only the unreserved set.
	encodeQueryComponent
)

func shouldEscape(c byte, mode encoding) bool {
	if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' {
		return false
	}
	switch c {
	case '-', '_', '.', '~':
		return false
	case '?', '#':
		return true
	case ':', '/', '[', ']', '@', '!', '$', '&', '\'', '(', ')', '*', '+', ',', ';', '=':
		return mode == encodeQueryComponent
	}
	return true
}

func escape(s string, mode encoding) string {
	hexCount := 0
	for i := 0; i < len(s); i++ {
		if shouldEscape(s[i], mode) {
			hexCount++
		}
	}
	if hexCount == 0 {
		return s
	}

	t := make([]byte, len(s)+2*hexCount)
	j := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case shouldEscape(c, mode):
			t[j] = '%'
			t[j+1] = upperhex[c>>4]
			t[j+2] = upperhex[c&15]
			j += 3
		default:
			t[j] = c
			j++
		}
	}
	return string(t)
}

func ishex(c byte) bool {
	switch {
	case '0' <= c && c <= '9':
		return true
	case 'a' <= c && c <= 'f':
		return true
	case 'A' <= c && c <= 'F':
		return true
	}
	return false
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

// unescape decodes every well-formed %XX sequence in s. Malformed sequences
// are copied through unchanged.
func unescape(s string) string {
	if strings.IndexByte(s, '%') < 0 {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2]) {
			sb.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// escapeStrayPercent encodes every '%' that does not start a %XX sequence, so
// that "100%" becomes "100%25" and well-formed escapes are left alone.
func escapeStrayPercent(s string) string {
	if strings.IndexByte(s, '%') < 0 {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && !(i+2 < len(s) && ishex(s[i+1]) && ishex(s[i+2])) {
			sb.WriteString("%25")
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// cleanSegment normalises a path segment so that encoding it again is a no-op.
// Existing escapes are decoded first, so "a%20b" and "a b" clean to the same
// segment.
func cleanSegment(segment string) string {
	s := escape(unescape(segment), encodeSegment)
	return strings.Trim(strings.TrimSpace(s), "/")
}

// DecodeQueryValue decodes a URL-encoded query string name or value. A '+'
// decodes to a space.
func DecodeQueryValue(value string) string {
	return unescape(strings.ReplaceAll(value, "+", " "))
}

// EncodeQueryValue URL-encodes a query string name or value. Any value is
// first converted to its string form, with nil as the empty string.
// If encodeSpaceAsPlus is true, spaces are encoded as '+' rather than %20.
func EncodeQueryValue(value any, encodeSpaceAsPlus bool) string {
	result := escape(toString(value), encodeQueryComponent)
	if encodeSpaceAsPlus {
		return strings.ReplaceAll(result, "%20", "+")
	}
	return result
}

func toString(value any) string {
	s, err := cast.ToStringE(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return s
}
