package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilint/internal/diag"
	"ilint/internal/ir"
)

func ruleNames(rules []Rule) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.Name())
	}
	return out
}

func TestManagerGetUnknown(t *testing.T) {
	m := NewDefaultManager()
	r, ok := m.Get("no-such-rule", nil)
	assert.False(t, ok)
	assert.Nil(t, r)
}

func TestManagerCachesPerOptions(t *testing.T) {
	m := NewDefaultManager()
	a, ok := m.Get("resource-named-params", nil)
	require.True(t, ok)
	b, _ := m.Get("resource-named-params", true)
	assert.Same(t, a, b)

	c, _ := m.Get("resource-named-params", map[string]any{"severity": "warning"})
	assert.NotSame(t, a, c)
	assert.Equal(t, diag.SevWarning, c.Severity())
	d, _ := m.Get("resource-named-params", map[string]any{"severity": "warning"})
	assert.Same(t, c, d)
}

func TestGetRulesLaterSetOverrides(t *testing.T) {
	m := NewDefaultManager()
	m.AddRuleSet("base", RuleSet{
		{Rule: "resource-url-match", Value: true},
		{Rule: "resource-named-params", Value: true},
		{Rule: "resource-unique-keys", Value: true},
	})
	m.AddRuleSetDefinition("child", map[string]any{
		"resource-named-params": false,
		"resource-url-match":    map[string]any{"severity": "suggestion"},
		"no-such-rule":          true,
	})

	rules := m.GetRules([]string{"base", "child"})
	assert.Equal(t, []string{"resource-url-match", "resource-unique-keys"}, ruleNames(rules))
	assert.Equal(t, diag.SevSuggestion, rules[0].Severity())

	assert.Equal(t, []string{"resource-url-match", "resource-named-params", "resource-unique-keys"},
		ruleNames(m.GetRules([]string{"base"})))
	assert.Empty(t, m.GetRules(nil))
	assert.Empty(t, m.GetRules([]string{"missing"}))
}

func TestGetRulesDeduplicates(t *testing.T) {
	m := NewDefaultManager()
	rules := m.GetRules([]string{"resource", "generic"})
	seen := map[string]bool{}
	for _, r := range rules {
		require.False(t, seen[r.Name()], "duplicate %s", r.Name())
		seen[r.Name()] = true
	}
	assert.Len(t, rules, len(BuiltinRuleSets()["generic"]))
}

func TestRegisterProgrammatic(t *testing.T) {
	m := NewManager()
	require.ErrorIs(t, m.Register(Builtin{Name: "x"}), ErrConfig)
	require.NoError(t, m.Register(Builtin{Name: "x", New: NewNoTranslation}))
	assert.Equal(t, []string{"x"}, m.Names())
}

func TestManagerResetClearsStatefulRules(t *testing.T) {
	m := NewDefaultManager()
	r, ok := m.Get("resource-unique-keys", nil)
	require.True(t, ok)

	batch := ir.New(ir.TypeResource, "a.xliff", []*ir.Resource{{Key: "k", SourceLocale: "en-US", TargetLocale: "de-DE"}})
	res, err := r.Match(Params{IR: batch, FilePath: "a.xliff"})
	require.NoError(t, err)
	assert.Empty(t, res)

	res, _ = r.Match(Params{IR: batch, FilePath: "b.xliff"})
	assert.Len(t, res, 1)

	m.Reset()
	res, _ = r.Match(Params{IR: batch, FilePath: "b.xliff"})
	assert.Empty(t, res)
}
