package rule

import (
	"strings"
	"unicode/utf8"
)

const (
	markStart = "<e0>"
	markEnd   = "</e0>"
	ellipsis  = "…"
	// contextRunes bounds the text shown on each side of a match.
	contextRunes = 100
)

// mark wraps text[start:end] in highlight markers.
func mark(text string, start, end int) string {
	var b strings.Builder
	b.Grow(len(text) + len(markStart) + len(markEnd))
	b.WriteString(text[:start])
	b.WriteString(markStart)
	b.WriteString(text[start:end])
	b.WriteString(markEnd)
	b.WriteString(text[end:])
	return b.String()
}

// appendEmptyMark points at the end of text; used when the defect is an absence.
func appendEmptyMark(text string) string {
	return text + markStart + markEnd
}

// window highlights text[start:end] within its line, keeping at most
// contextRunes runes on each side. An ellipsis marks each side that was cut
// by that bound.
func window(text string, start, end int) string {
	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	lineEnd := len(text)
	if i := strings.IndexByte(text[end:], '\n'); i >= 0 {
		lineEnd = end + i
	}

	from := start
	for n := 0; n < contextRunes && from > lineStart; n++ {
		_, size := utf8.DecodeLastRuneInString(text[lineStart:from])
		from -= size
	}
	to := end
	for n := 0; n < contextRunes && to < lineEnd; n++ {
		_, size := utf8.DecodeRuneInString(text[to:lineEnd])
		to += size
	}

	var b strings.Builder
	if from > lineStart {
		b.WriteString(ellipsis)
	}
	b.WriteString(text[from:start])
	b.WriteString(markStart)
	b.WriteString(text[start:end])
	b.WriteString(markEnd)
	b.WriteString(text[end:to])
	if to < lineEnd {
		b.WriteString(ellipsis)
	}
	return b.String()
}
