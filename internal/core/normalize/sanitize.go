package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize drops invalid UTF-8 and control characters other than
// '\n', '\r' and '\t'. Clean input is returned as is
func Sanitize(s string) string {
	if clean(s) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if control(r) {
			return -1
		}
		return r
	}, strings.ToValidUTF8(s, ""))
}

func clean(s string) bool {
	for i := 0; i < len(s); {
		if b := s[i]; b < utf8.RuneSelf {
			if control(rune(b)) {
				return false
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r == utf8.RuneError && size == 1) || control(r) {
			return false
		}
		i += size
	}
	return true
}

// control covers C0 except tab and line breaks, DEL and C1
func control(r rune) bool {
	switch {
	case r == '\n' || r == '\r' || r == '\t':
		return false
	case r < 0x20, r == 0x7F:
		return true
	case r >= 0x80 && r <= 0x9F:
		return true
	}
	return false
}
