// Package ir defines the intermediate representations that parsers produce
// and rules inspect.
//
// An IR is a typed view of one file's content. The Type tag decides the
// shape of Representation:
//
//   - TypeResource: []*Resource, the translation units of a resource file.
//   - TypeSource: string, the raw text of the file.
//
// Custom parsers may introduce other tags; rules and fixers bind to a tag
// by declaring the same string.
package ir

// Well-known IR types.
const (
	TypeResource = "resource"
	TypeSource   = "source"
)

// Stats are size counters a parser reports for the file it parsed.
type Stats struct {
	Lines   int
	Bytes   int
	Modules int
}

// IR is a parsed representation of a file.
//
// Rules never mutate an IR. A fixer is the only component allowed to
// change Representation in place, and the IR is discarded as soon as the
// owning parser writes it back.
type IR struct {
	Type           string
	FilePath       string
	Representation any
	Stats          Stats
	// Origin is parser-private state needed to write the file back, such
	// as the original bytes or line ending style. Only the producing parser
	// reads it.
	Origin         any
}

// New builds an IR for path.
func New(typ, path string, repr any) *IR {
	return &IR{Type: typ, FilePath: path, Representation: repr}
}

// Resources returns the resource payload, or nil when the IR has another shape.
func (r *IR) Resources() []*Resource {
	if r == nil {
		return nil
	}
	res, _ := r.Representation.([]*Resource)
	return res
}

// Text returns the raw text payload and whether the IR carries one.
func (r *IR) Text() (string, bool) {
	if r == nil {
		return "", false
	}
	s, ok := r.Representation.(string)
	return s, ok
}
