package fixer

import (
	"ilint/internal/diag"
	"ilint/internal/ir"
)

// SourceFixer edits the raw text of source IRs.
type SourceFixer struct{}

func (SourceFixer) Type() string { return ir.TypeSource }

func (SourceFixer) ApplyFixes(r *ir.IR, fixes []diag.Fix) Report {
	var rep Report
	text, ok := r.Text()
	if !ok {
		for _, f := range fixes {
			rep.skip(f, "representation is not text")
		}
		return rep
	}

	buf := &buffer{text: text}
	for _, f := range fixes {
		fix, ok := f.(*SourceFix)
		if !ok {
			rep.skip(f, "not a source fix")
			continue
		}
		if fix.Applied() {
			continue
		}
		if len(fix.Edits) == 0 {
			rep.skip(f, "fix has no edits")
			continue
		}
		if reason := buf.apply(fix.Edits); reason != "" {
			rep.skip(f, reason)
			continue
		}
		fix.MarkApplied()
		rep.Applied++
	}
	if rep.Applied > 0 {
		r.Representation = buf.text
	}
	return rep
}
