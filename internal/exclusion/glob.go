package exclusion

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// regexMeta lists the bytes escaped before wildcards are translated.
// Closing ']' and '}' are left alone: without an opener RE2 reads them as
// literals.
const regexMeta = `\^$.|+(){[`

// compileGlob compiles a glob into a regexp that only matches whole strings.
// '*' becomes ".*" and so crosses '/'. The pattern is widened byte by byte,
// so subjects must be passed through widen too.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`^(?s:` + widen(translateGlob(pattern)) + `)$`)
	if err != nil {
		return nil, fmt.Errorf("exclusion: compile glob %q: %w", pattern, err)
	}
	return re, nil
}

// translateGlob returns the unanchored regexp body for pattern.
func translateGlob(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern) * 2)
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if strings.IndexByte(regexMeta, c) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}

	return expandStars(strings.ReplaceAll(b.String(), "?", "."))
}

// expandStars inserts '.' before every '*', resuming the search past the
// inserted pair.
func expandStars(s string) string {
	pos := strings.IndexByte(s, '*')
	for pos >= 0 {
		s = s[:pos] + "." + s[pos:]
		next := strings.IndexByte(s[pos+2:], '*')
		if next < 0 {
			break
		}
		pos += 2 + next
	}
	return s
}

// widen maps every byte to the rune of the same value. RE2 works on UTF-8
// runes; after widening each rune is one input byte, so '.' consumes exactly
// one byte and invalid UTF-8 compiles and matches like any other byte.
func widen(s string) string {
	i := 0
	for i < len(s) && s[i] < utf8.RuneSelf {
		i++
	}
	if i == len(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(s) - i)
	b.WriteString(s[:i])
	for ; i < len(s); i++ {
		b.WriteRune(rune(s[i]))
	}
	return b.String()
}
