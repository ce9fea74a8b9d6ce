package rule

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"ilint/internal/diag"
	"ilint/internal/fixer"
	"ilint/internal/ir"
	"ilint/internal/source"
)

// defaultDeprecatedCalls maps deprecated i18n calls to their replacements.
var defaultDeprecatedCalls = map[string]string{
	"getStringJS":   "getString",
	"getLocaleInfo": "getLocaleData",
	"formatChoice":  "formatPlural",
}

type deprecatedAPI struct {
	Info
	names []string
	repl  map[string]string
	re    *regexp.Regexp
}

// NewDeprecatedAPI reports calls to deprecated i18n functions in source
// text and offers to rename them. Options, when given as an object, replace
// the default table of name -> replacement.
func NewDeprecatedAPI(opts any) (Rule, error) {
	repl := defaultDeprecatedCalls
	if m, ok := opts.(map[string]any); ok && len(m) > 0 {
		repl = make(map[string]string, len(m))
		for k, v := range m {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: source-no-deprecated-api: replacement for %q must be a string", ErrConfig, k)
			}
			repl[k] = s
		}
	}
	names := make([]string, 0, len(repl))
	for k := range repl {
		names = append(names, regexp.QuoteMeta(k))
	}
	sort.Strings(names)
	return &deprecatedAPI{
		Info: Info{
			RuleName: "source-no-deprecated-api",
			Desc:     "Ensure that deprecated i18n functions are not called",
			Sev:      diag.SevWarning,
			Type:     ir.TypeSource,
			URL:      docLink("source-no-deprecated-api"),
		},
		names: names,
		repl:  repl,
		re:    regexp.MustCompile(`\b(` + strings.Join(names, "|") + `)\s*\(`),
	}, nil
}

func (d *deprecatedAPI) Match(p Params) ([]diag.Result, error) {
	text, ok := p.IR.Text()
	if !ok {
		return nil, nil
	}
	idx := source.NewText(text)
	var out []diag.Result
	for _, m := range d.re.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2], m[3]
		name := text[start:end]
		r := d.result(p)
		r.Description = fmt.Sprintf("The function %s is deprecated. Use %s instead.", name, d.repl[name])
		r.LineNumber = int(idx.Position(start).Line)
		r.Highlight = window(text, start, end)
		r.Fix = fixer.NewSourceFix(fixer.Edit{
			Span:    source.Span{Start: start, End: end},
			OldText: name,
			NewText: d.repl[name],
		})
		out = append(out, r)
	}
	return out, nil
}
