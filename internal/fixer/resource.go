package fixer

import (
	"ilint/internal/diag"
	"ilint/internal/ir"
)

// ResourceFixer edits the target strings of resource IRs.
type ResourceFixer struct{}

func (ResourceFixer) Type() string { return ir.TypeResource }

func (ResourceFixer) ApplyFixes(r *ir.IR, fixes []diag.Fix) Report {
	var rep Report
	owned := make(map[*ir.Resource]bool)
	for _, res := range r.Resources() {
		owned[res] = true
	}

	buffers := make(map[*ir.Resource]*buffer)
	for _, f := range fixes {
		fix, ok := f.(*ResourceFix)
		if !ok {
			rep.skip(f, "not a resource fix")
			continue
		}
		if fix.Applied() {
			continue
		}
		if fix.Resource == nil || !owned[fix.Resource] {
			rep.skip(f, "resource does not belong to this representation")
			continue
		}
		if len(fix.Edits) == 0 {
			rep.skip(f, "fix has no edits")
			continue
		}
		buf := buffers[fix.Resource]
		if buf == nil {
			buf = &buffer{text: fix.Resource.Target}
			buffers[fix.Resource] = buf
		}
		if reason := buf.apply(fix.Edits); reason != "" {
			rep.skip(f, reason)
			continue
		}
		fix.Resource.Target = buf.text
		fix.Resource.HasTarget = true
		fix.MarkApplied()
		rep.Applied++
	}
	return rep
}
