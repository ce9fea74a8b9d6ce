package diag

import (
	"sort"
)

// Bag collects results for a file or a whole run.
type Bag struct {
	items []Result
}

func NewBag(capacity int) *Bag {
	return &Bag{items: make([]Result, 0, capacity)}
}

// Add appends results in emission order.
func (b *Bag) Add(rs ...Result) {
	b.items = append(b.items, rs...)
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the underlying slice; callers must not modify it.
func (b *Bag) Items() []Result {
	return b.items
}

// Filter keeps only results for which keep returns true.
func (b *Bag) Filter(keep func(*Result) bool) {
	out := b.items[:0]
	for i := range b.items {
		if keep(&b.items[i]) {
			out = append(out, b.items[i])
		}
	}
	b.items = out
}

// Sort orders results by path, then by line with unknown lines first.
// Ties keep emission order.
func (b *Bag) Sort() {
	Sort(b.items)
}

// Stats counts the bag's results by severity.
func (b *Bag) Stats() Stats {
	var s Stats
	for i := range b.items {
		s.Add(b.items[i].Severity)
	}
	return s
}

// Sort applies the bag ordering to an arbitrary slice.
func Sort(items []Result) {
	sort.SliceStable(items, func(i, j int) bool {
		return Less(items[i], items[j])
	})
}

// Less is the strict ordering used by Sort.
func Less(a, b Result) bool {
	if a.PathName != b.PathName {
		return a.PathName < b.PathName
	}
	if a.LineNumber == b.LineNumber {
		return false
	}
	if a.LineNumber == 0 {
		return true
	}
	if b.LineNumber == 0 {
		return false
	}
	return a.LineNumber < b.LineNumber
}
