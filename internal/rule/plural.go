package rule

import (
	"regexp"
	"strings"
)

var icuComplexHead = regexp.MustCompile(`^\s*[\w.-]+\s*,\s*(plural|select|selectordinal)\s*,`)

// stripPlurals removes ICU plural, select and selectordinal arguments so that
// text inside their branches is not counted as ordinary string content.
// Unbalanced braces leave the remainder untouched.
func stripPlurals(s string) string {
	if !strings.Contains(s, "{") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		if s[i] != '{' {
			b.WriteByte(s[i])
			i++
			continue
		}
		end := matchBrace(s, i)
		if end < 0 {
			b.WriteString(s[i:])
			break
		}
		if icuComplexHead.MatchString(s[i+1 : end]) {
			i = end + 1
			continue
		}
		b.WriteByte('{')
		i++
	}
	return b.String()
}

// matchBrace returns the index of the brace closing the one at open, or -1.
func matchBrace(s string, open int) int {
	depth := 0
	for j := open; j < len(s); j++ {
		switch s[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}
