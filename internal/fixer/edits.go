package fixer

import (
	"fmt"
	"sort"
)

// buffer is a string being edited by several fixes in turn. Edit spans are
// always expressed against the original text; applied keeps the edits done
// so far, ordered by position, to translate later spans.
type buffer struct {
	text    string
	applied []Edit
}

// apply performs all edits of one fix or none of them. It returns a skip
// reason when the fix cannot be performed.
func (b *buffer) apply(edits []Edit) string {
	for i, e := range edits {
		for _, prev := range b.applied {
			if prev.Span.Overlaps(e.Span) {
				return "conflicts with a previously applied edit"
			}
		}
		for _, other := range edits[i+1:] {
			if other.Span.Overlaps(e.Span) {
				return "fix contains overlapping edits"
			}
		}
	}

	ordered := append([]Edit(nil), edits...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Span.Start == ordered[j].Span.Start {
			return ordered[i].Span.End > ordered[j].Span.End
		}
		return ordered[i].Span.Start > ordered[j].Span.Start
	})

	working := b.text
	applied := append([]Edit(nil), b.applied...)
	for _, e := range ordered {
		start := e.Span.Start + cumulativeDelta(applied, e.Span.Start)
		end := e.Span.End + cumulativeDelta(applied, e.Span.End)
		if start < 0 || end < start || end > len(working) {
			return fmt.Sprintf("edit span %s out of range", e.Span)
		}
		if e.OldText != "" && working[start:end] != e.OldText {
			return "existing text does not match expected content"
		}
		working = working[:start] + e.NewText + working[end:]
		applied = insertEditSorted(applied, e)
	}
	b.text = working
	b.applied = applied
	return ""
}

// cumulativeDelta is the length change caused by applied edits that end at
// or before pos.
func cumulativeDelta(edits []Edit, pos int) int {
	delta := 0
	for _, e := range edits {
		if e.Span.Start > pos {
			break
		}
		if e.Span.End <= pos {
			delta += len(e.NewText) - e.Span.Len()
		}
	}
	return delta
}

func insertEditSorted(edits []Edit, edit Edit) []Edit {
	idx := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	edits = append(edits, Edit{})
	copy(edits[idx+1:], edits[idx:])
	edits[idx] = edit
	return edits
}
