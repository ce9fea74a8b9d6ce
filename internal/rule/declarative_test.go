package rule

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilint/internal/diag"
	"ilint/internal/ir"
)

func namedParams(t *testing.T) Rule {
	t.Helper()
	r, ok := NewDefaultManager().Get("resource-named-params", nil)
	require.True(t, ok)
	return r
}

func resourceIR(resources ...*ir.Resource) *ir.IR {
	return ir.New(ir.TypeResource, "x/de-DE/strings.xliff", resources)
}

func pair(source, target string) *ir.Resource {
	return &ir.Resource{
		Key:          "a.b.c",
		SourceLocale: "en-US",
		Source:       source,
		TargetLocale: "de-DE",
		Target:       target,
		HasTarget:    true,
		Line:         4,
	}
}

func TestResourceMatcherMissingParam(t *testing.T) {
	r := namedParams(t)
	results, err := r.Match(Params{
		IR:       resourceIR(pair("This has an {URL} in it.", "Dies hat ein {job} drin.")),
		Locale:   "de-DE",
		FilePath: "x/de-DE/strings.xliff",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "The named parameter '{URL}' from the source string does not appear in the target string", got.Description)
	assert.Equal(t, "Target: Dies hat ein {job} drin.<e0></e0>", got.Highlight)
	assert.Equal(t, diag.SevError, got.Severity)
	assert.Equal(t, "a.b.c", got.ID)
	assert.Equal(t, 4, got.LineNumber)
	assert.Equal(t, "resource-named-params", got.Rule)
	assert.Equal(t, "x/de-DE/strings.xliff", got.PathName)
}

func TestResourceMatcherAllPresent(t *testing.T) {
	r := namedParams(t)
	results, err := r.Match(Params{IR: resourceIR(pair("Hi {name}, see {place}", "{place} sehen, {name}"))})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestResourceMatcherOneResultPerMissingMatch(t *testing.T) {
	r := namedParams(t)
	results, err := r.Match(Params{IR: resourceIR(pair("{a} and {b} and {c}", "{b} und nichts"))})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Contains(t, results[0].Description, "'{a}'")
	assert.Contains(t, results[1].Description, "'{c}'")
}

func TestResourceMatcherIgnoresPluralInterior(t *testing.T) {
	r := namedParams(t)
	source := "In {number} {days, plural, one {day} other {days}}"

	results, err := r.Match(Params{IR: resourceIR(pair(source, "In {number} {days, plural, one {Tag} other {Tagen}}"))})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = r.Match(Params{IR: resourceIR(pair(source, "In {num} {days, plural, one {Tag} other {Tagen}}"))})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Description, "'{number}'")
}

func TestResourceMatcherSkipsUntranslated(t *testing.T) {
	r := namedParams(t)
	res := pair("Hello {name}", "")
	res.HasTarget = false
	results, err := r.Match(Params{IR: resourceIR(res)})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestResourceURLMatch(t *testing.T) {
	r, ok := NewDefaultManager().Get("resource-url-match", nil)
	require.True(t, ok)
	results, err := r.Match(Params{IR: resourceIR(pair(
		"See http://www.box.com/foobar for details",
		"Siehe http://www.yahoo.com/foobar für Details",
	))})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "URL 'http://www.box.com/foobar' from the source string does not appear in the target string", results[0].Description)
}

func TestResourceTargetRule(t *testing.T) {
	r, ok := NewDefaultManager().Get("resource-no-fullwidth-latin", nil)
	require.True(t, ok)
	results, err := r.Match(Params{IR: resourceIR(pair("Use ABC", "\uff21\uff22\uff23\u3092\u4f7f\u3046"))})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Target: <e0>\uff21\uff22\uff23</e0>\u3092\u4f7f\u3046", results[0].Highlight)
	assert.Equal(t, diag.SevWarning, results[0].Severity)
}

func TestResourceSourceRule(t *testing.T) {
	r, ok := NewDefaultManager().Get("resource-no-escaped-unicode", nil)
	require.True(t, ok)
	res := pair(`Caf\u00e9 and na\u00efve`, "x")
	results, err := r.Match(Params{IR: resourceIR(res)})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, `Source: Caf<e0>\u00e9</e0> and na\u00efve`, results[0].Highlight)
}

func TestResourceRulesSkipEmptyMatches(t *testing.T) {
	m := NewManager()
	for _, kind := range []Kind{KindResourceSource, KindResourceTarget} {
		name := "optional-x-" + string(kind)
		require.NoError(t, m.Register(Definition{Type: kind, Name: name, Description: "d", Note: "n", Regexps: []string{"x*"}}))
		r, ok := m.Get(name, nil)
		require.True(t, ok)

		results, err := r.Match(Params{IR: resourceIR(pair("abc", "abc"))})
		require.NoError(t, err)
		assert.Empty(t, results, kind)

		results, err = r.Match(Params{IR: resourceIR(pair("axxb", "axxb"))})
		require.NoError(t, err)
		require.Len(t, results, 1, kind)
		assert.Contains(t, results[0].Highlight, "a<e0>xx</e0>b")
	}
}

func TestSourceCheckerLineNumbers(t *testing.T) {
	r, ok := NewDefaultManager().Get("source-no-normalize", nil)
	require.True(t, ok)

	text := "const a = s.normalize('NFC');\n" +
		"// nothing here\n" +
		"const b = t.normalize(); const c = u.normalize();\n"
	results, err := r.Match(Params{IR: ir.New(ir.TypeSource, "src/a.js", text), FilePath: "src/a.js"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, 1, results[0].LineNumber)
	assert.Equal(t, 3, results[1].LineNumber)
	assert.Equal(t, 3, results[2].LineNumber)
	assert.Equal(t, "const a = s<e0>.normalize(</e0>'NFC');", results[0].Highlight)
	assert.NotContains(t, results[1].Highlight, "…")
	assert.Equal(t, "src/a.js", results[0].PathName)
}

func TestSourceCheckerTruncatesLongLines(t *testing.T) {
	r, ok := NewDefaultManager().Get("source-no-normalize", nil)
	require.True(t, ok)

	pad := strings.Repeat("x", 150)
	text := pad + "s.normalize()" + pad
	results, err := r.Match(Params{IR: ir.New(ir.TypeSource, "a.js", text)})
	require.NoError(t, err)
	require.Len(t, results, 1)

	want := "…" + strings.Repeat("x", 99) + "s<e0>.normalize(</e0>)" + strings.Repeat("x", 99) + "…"
	assert.Equal(t, want, results[0].Highlight)
}

func TestDefinitionValidation(t *testing.T) {
	m := NewManager()

	err := m.Register(Definition{Type: KindResourceMatcher, Name: "x", Note: "n", Regexps: []string{"a"}})
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "description")

	err = m.Register(Definition{Type: "resource-bogus", Name: "x", Description: "d", Note: "n", Regexps: []string{"a"}})
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "unknown type")

	err = m.Register(Definition{Type: KindSourceChecker, Name: "x", Description: "d", Note: "n", Regexps: []string{"("}})
	require.ErrorIs(t, err, ErrConfig)

	err = m.Register(Definition{Type: KindSourceChecker, Name: "x", Description: "d", Note: "n", Regexps: []string{"a"}, Severity: "fatal"})
	require.ErrorIs(t, err, ErrConfig)

	require.NoError(t, m.Register(Definition{Type: KindSourceChecker, Name: "x", Description: "d", Note: "n", Regexps: []string{"a"}}))
	r, ok := m.Get("x", nil)
	require.True(t, ok)
	assert.Equal(t, ir.TypeSource, r.RuleType())
	assert.Equal(t, diag.SevError, r.Severity())
}

func TestStripPlurals(t *testing.T) {
	assert.Equal(t, "In {number} ", stripPlurals("In {number} {days, plural, one {day} other {days}}"))
	assert.Equal(t, "a {b} c", stripPlurals("a {b} c"))
	assert.Equal(t, "x  y", stripPlurals("x {g, select, male {he} other {they}} y"))
	assert.Equal(t, "open {brace", stripPlurals("open {brace"))
}
