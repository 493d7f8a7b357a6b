package cgi

import (
	"strings"
)

// Params holds the decoded parameters of one request.
type Params map[string]string

// Decode parses a key=value&key=value query string. A later duplicate key
// replaces an earlier one. Parsing stops at the first segment without '=',
// dropping it and everything after it.
func Decode(raw string) Params {
	p := Params{}
	rest := raw
	for rest != "" {
		segment := rest
		next := strings.IndexByte(rest, '&')
		if next >= 0 {
			segment = rest[:next]
		}
		eq := strings.IndexByte(segment, '=')
		if eq < 0 {
			break
		}
		p[decodeURI(segment[:eq])] = decodeURI(segment[eq+1:])

		if next < 0 {
			break
		}
		rest = rest[next+1:]
	}
	return p
}

func (p Params) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// decodeURI turns %XY into the byte 0xXY and '+' into a space. A '%' not
// followed by two hex digits is kept as is.
func decodeURI(s string) string {
	if strings.IndexByte(s, '%') < 0 && strings.IndexByte(s, '+') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		case c == '+':
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}
