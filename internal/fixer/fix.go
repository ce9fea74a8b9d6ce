package fixer

import (
	"ilint/internal/diag"
	"ilint/internal/ir"
	"ilint/internal/source"
)

// Edit replaces Span of a string with NewText. When OldText is set the
// fixer checks that the span still holds it before editing.
type Edit struct {
	Span    source.Span
	NewText string
	OldText string
}

// ResourceFix edits the target string of one resource.
type ResourceFix struct {
	diag.FixState
	Resource *ir.Resource
	Edits    []Edit
}

func (*ResourceFix) FixType() string { return ir.TypeResource }

// NewResourceFix builds a fix against res, which must belong to the IR the
// fix will be applied to.
func NewResourceFix(res *ir.Resource, edits ...Edit) *ResourceFix {
	return &ResourceFix{Resource: res, Edits: edits}
}

// SourceFix edits the raw text of a source IR.
type SourceFix struct {
	diag.FixState
	Edits []Edit
}

func (*SourceFix) FixType() string { return ir.TypeSource }

func NewSourceFix(edits ...Edit) *SourceFix {
	return &SourceFix{Edits: edits}
}
