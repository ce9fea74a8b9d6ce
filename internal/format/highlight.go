package format

import (
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

const (
	markStart = "<e0>"
	markEnd   = "</e0>"
)

var markColor = color.New(color.FgRed, color.Underline)

// splitHighlight cuts a highlight into the text before, inside and after
// its marked span. ok is false when the markers are missing.
func splitHighlight(h string) (before, inside, after string, ok bool) {
	i := strings.Index(h, markStart)
	if i < 0 {
		return h, "", "", false
	}
	rest := h[i+len(markStart):]
	j := strings.Index(rest, markEnd)
	if j < 0 {
		return h, "", "", false
	}
	return h[:i], rest[:j], rest[j+len(markEnd):], true
}

// renderHighlight returns the highlight with the marked span colored, or,
// without color, the plain text and a caret line under the span. The caret
// line is empty when it cannot be aligned.
func renderHighlight(h, indent string, useColor bool) (text, carets string) {
	before, inside, after, ok := splitHighlight(h)
	if !ok {
		return h, ""
	}
	if useColor {
		if inside == "" {
			return before + markColor.Sprint("⎀") + after, ""
		}
		return before + markColor.Sprint(inside) + after, ""
	}
	text = before + inside + after
	if strings.ContainsRune(before+inside, '\n') {
		return text, ""
	}
	width := runewidth.StringWidth(inside)
	if width == 0 {
		width = 1
	}
	pad := runewidth.StringWidth(indent + before)
	return text, strings.Repeat(" ", pad) + strings.Repeat("^", width)
}
