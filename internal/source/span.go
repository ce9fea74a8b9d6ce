package source

import (
	"fmt"
)

// Span is a half-open byte range [Start, End) within a text.
type Span struct {
	Start int
	End   int
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Overlaps reports whether two spans conflict when both are edited.
// Two zero-length spans never conflict. A zero-length span conflicts with a
// non-empty one only when it falls strictly inside it.
func (s Span) Overlaps(other Span) bool {
	if s.Empty() && other.Empty() {
		return false
	}
	if s.Empty() {
		return other.Start < s.Start && s.Start < other.End
	}
	if other.Empty() {
		return s.Start < other.Start && other.Start < s.End
	}
	return s.Start < other.End && other.Start < s.End
}

func (s Span) Contains(off int) bool {
	return s.Start <= off && off < s.End
}
