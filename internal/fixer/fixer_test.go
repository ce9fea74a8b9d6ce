package fixer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilint/internal/diag"
	"ilint/internal/ir"
	"ilint/internal/source"
)

func edit(start, end int, old, repl string) Edit {
	return Edit{Span: source.Span{Start: start, End: end}, OldText: old, NewText: repl}
}

func TestSourceFixerAppliesNonOverlapping(t *testing.T) {
	r := ir.New(ir.TypeSource, "a.js", "foo(); bar(); baz();")
	f1 := NewSourceFix(edit(0, 3, "foo", "fooooo"))
	f2 := NewSourceFix(edit(7, 10, "bar", "b"))
	f3 := NewSourceFix(edit(14, 17, "baz", "qux"))

	rep := SourceFixer{}.ApplyFixes(r, []diag.Fix{f1, f2, f3})
	assert.Equal(t, 3, rep.Applied)
	assert.Empty(t, rep.Skipped)

	text, _ := r.Text()
	assert.Equal(t, "fooooo(); b(); qux();", text)
	assert.True(t, f1.Applied())
	assert.True(t, f2.Applied())
	assert.True(t, f3.Applied())
}

func TestSourceFixerSkipsConflicts(t *testing.T) {
	r := ir.New(ir.TypeSource, "a.js", "abcdef")
	first := NewSourceFix(edit(1, 4, "bcd", "X"))
	overlapping := NewSourceFix(edit(3, 5, "de", "Y"))

	rep := SourceFixer{}.ApplyFixes(r, []diag.Fix{first, overlapping})
	assert.Equal(t, 1, rep.Applied)
	require.Len(t, rep.Skipped, 1)
	assert.Same(t, overlapping, rep.Skipped[0].Fix)

	text, _ := r.Text()
	assert.Equal(t, "aXef", text)
	assert.False(t, overlapping.Applied())
}

func TestSourceFixerGuardsOldText(t *testing.T) {
	r := ir.New(ir.TypeSource, "a.js", "hello")
	stale := NewSourceFix(edit(0, 5, "world", "there"))

	rep := SourceFixer{}.ApplyFixes(r, []diag.Fix{stale})
	assert.Zero(t, rep.Applied)
	assert.False(t, stale.Applied())
	text, _ := r.Text()
	assert.Equal(t, "hello", text)
}

func TestSourceFixerMultiEditFixIsAtomic(t *testing.T) {
	r := ir.New(ir.TypeSource, "a.js", "a b c")
	fix := NewSourceFix(edit(0, 1, "a", "A"), edit(4, 5, "x", "C"))

	rep := SourceFixer{}.ApplyFixes(r, []diag.Fix{fix})
	assert.Zero(t, rep.Applied)
	text, _ := r.Text()
	assert.Equal(t, "a b c", text)
}

func TestResourceFixerEditsTarget(t *testing.T) {
	res := &ir.Resource{Key: "k", Source: "a b c", Target: "a\u3000b\u3000c", HasTarget: true}
	other := &ir.Resource{Key: "j", Target: "untouched"}
	r := ir.New(ir.TypeResource, "de.xliff", []*ir.Resource{res, other})

	f1 := NewResourceFix(res, edit(1, 4, "\u3000", " "))
	f2 := NewResourceFix(res, edit(5, 8, "\u3000", " "))
	rep := ResourceFixer{}.ApplyFixes(r, []diag.Fix{f1, f2})

	assert.Equal(t, 2, rep.Applied)
	assert.Equal(t, "a b c", res.Target)
	assert.Equal(t, "untouched", other.Target)
}

func TestResourceFixerRejectsForeignResource(t *testing.T) {
	inIR := &ir.Resource{Key: "k", Target: "x"}
	foreign := &ir.Resource{Key: "k", Target: "x"}
	r := ir.New(ir.TypeResource, "de.xliff", []*ir.Resource{inIR})

	fix := NewResourceFix(foreign, edit(0, 1, "x", "y"))
	rep := ResourceFixer{}.ApplyFixes(r, []diag.Fix{fix, NewSourceFix(edit(0, 0, "", "z"))})
	assert.Zero(t, rep.Applied)
	assert.Len(t, rep.Skipped, 2)
	assert.Equal(t, "x", inIR.Target)
	assert.Equal(t, "x", foreign.Target)
}

func TestManagerRegister(t *testing.T) {
	m := NewDefaultManager()
	assert.Equal(t, []string{ir.TypeResource, ir.TypeSource}, m.Types())

	err := m.Register(SourceFixer{})
	require.ErrorIs(t, err, ErrConfig)

	f, ok := m.Get(ir.TypeResource)
	require.True(t, ok)
	assert.Equal(t, ir.TypeResource, f.Type())

	_, ok = m.Get("xml")
	assert.False(t, ok)
}

func TestCumulativeDelta(t *testing.T) {
	applied := []Edit{edit(0, 2, "", "abcd"), edit(5, 8, "", "")}
	assert.Equal(t, 0, cumulativeDelta(applied, 0))
	assert.Equal(t, 2, cumulativeDelta(applied, 3))
	assert.Equal(t, -1, cumulativeDelta(applied, 9))
}
