package source

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// LineCol represents a human-readable position in a text.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}

// Text is raw content with a precomputed newline index.
type Text struct {
	Content string
	lineIdx []int // offsets of '\n'
}

// NewText indexes content for offset -> line lookups.
func NewText(content string) *Text {
	return &Text{Content: content, lineIdx: buildLineIndex(content)}
}

// LineCount returns the number of lines; a trailing newline does not open a new line.
func (t *Text) LineCount() int {
	if t.Content == "" {
		return 0
	}
	n := len(t.lineIdx)
	if t.Content[len(t.Content)-1] != '\n' {
		n++
	}
	return n
}

// Position converts a byte offset to a 1-based line and column.
func (t *Text) Position(off int) LineCol {
	if off < 0 {
		off = 0
	}
	if off > len(t.Content) {
		off = len(t.Content)
	}
	// number of newlines strictly before off
	line := sort.SearchInts(t.lineIdx, off)
	start := 0
	if line > 0 {
		start = t.lineIdx[line-1] + 1
	}
	l, err := safecast.Conv[uint32](line + 1)
	if err != nil {
		panic(fmt.Errorf("line number overflow: %w", err))
	}
	c, err := safecast.Conv[uint32](off - start + 1)
	if err != nil {
		panic(fmt.Errorf("column overflow: %w", err))
	}
	return LineCol{Line: l, Col: c}
}

// Line returns the text of a 1-based line without its newline.
func (t *Text) Line(n int) string {
	if n <= 0 {
		return ""
	}
	start := 0
	if n > 1 {
		if n-2 >= len(t.lineIdx) {
			return ""
		}
		start = t.lineIdx[n-2] + 1
	}
	end := len(t.Content)
	if n-1 < len(t.lineIdx) {
		end = t.lineIdx[n-1]
	}
	if start > end {
		return ""
	}
	return t.Content[start:end]
}

func buildLineIndex(content string) []int {
	out := make([]int, 0, len(content)/32)
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			out = append(out, i)
		}
	}
	return out
}
