package rule

import (
	"fmt"
	"regexp"
	"strings"

	"ilint/internal/diag"
	"ilint/internal/ir"
	"ilint/internal/source"
)

// Kind selects the evaluator of a declarative rule.
type Kind string

const (
	// KindResourceMatcher: every source match must reappear in the target.
	KindResourceMatcher Kind = "resource-matcher"
	// KindResourceSource: any match in the source string is a finding.
	KindResourceSource Kind = "resource-source"
	// KindResourceTarget: any match in the target string is a finding.
	KindResourceTarget Kind = "resource-target"
	// KindSourceChecker: any match in the raw file text is a finding.
	KindSourceChecker Kind = "source-checker"
)

// matchToken is replaced by the offending text in a rule's note.
const matchToken = "{matchString}"

type evaluator struct {
	irType string
	match  func(d *declarative, p Params) []diag.Result
}

var evaluators = map[Kind]evaluator{
	KindResourceMatcher: {irType: ir.TypeResource, match: matchResourceMatcher},
	KindResourceSource:  {irType: ir.TypeResource, match: matchResourceSource},
	KindResourceTarget:  {irType: ir.TypeResource, match: matchResourceTarget},
	KindSourceChecker:   {irType: ir.TypeSource, match: matchSourceChecker},
}

// Definition is a regex-table rule that needs no code.
type Definition struct {
	Type         Kind     `toml:"type" yaml:"type" json:"type"`
	Name         string   `toml:"name" yaml:"name" json:"name"`
	Description  string   `toml:"description" yaml:"description" json:"description"`
	Note         string   `toml:"note" yaml:"note" json:"note"`
	Regexps      []string `toml:"regexps" yaml:"regexps" json:"regexps"`
	Severity     string   `toml:"severity" yaml:"severity" json:"severity,omitempty"`
	Link         string   `toml:"link" yaml:"link" json:"link,omitempty"`
	SourceLocale string   `toml:"sourceLocale" yaml:"sourceLocale" json:"sourceLocale,omitempty"`
}

func (d Definition) ruleName() string { return d.Name }

// validate reports the first missing or invalid field.
func (d Definition) validate() error {
	missing := []string{}
	if d.Type == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(d.Note) == "" {
		missing = append(missing, "note")
	}
	if len(d.Regexps) == 0 {
		missing = append(missing, "regexps")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: rule %q: missing %s", ErrConfig, d.Name, strings.Join(missing, ", "))
	}
	if _, ok := evaluators[d.Type]; !ok {
		return fmt.Errorf("%w: rule %q: unknown type %q", ErrConfig, d.Name, d.Type)
	}
	if d.Severity != "" {
		if _, err := diag.ParseSeverity(d.Severity); err != nil {
			return fmt.Errorf("%w: rule %q: %w", ErrConfig, d.Name, err)
		}
	}
	return nil
}

// compile validates the definition and builds its rule; options may
// override severity, note and link.
func (d Definition) compile(opts any) (Rule, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	res := make([]*regexp.Regexp, 0, len(d.Regexps))
	for _, expr := range d.Regexps {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %q: %w", ErrConfig, d.Name, err)
		}
		res = append(res, re)
	}
	sev := diag.SevError
	if d.Severity != "" {
		sev, _ = diag.ParseSeverity(d.Severity)
	}
	r := &declarative{
		Info: Info{
			RuleName:     d.Name,
			Desc:         d.Description,
			Note:         d.Note,
			Sev:          sev,
			Type:         evaluators[d.Type].irType,
			URL:          d.Link,
			SourceLocale: d.SourceLocale,
		},
		kind: d.Type,
		res:  res,
	}
	if m, ok := opts.(map[string]any); ok {
		if s, ok := m["severity"].(string); ok {
			parsed, err := diag.ParseSeverity(s)
			if err != nil {
				return nil, fmt.Errorf("%w: rule %q: %w", ErrConfig, d.Name, err)
			}
			r.Sev = parsed
		}
		if s, ok := m["note"].(string); ok && s != "" {
			r.Note = s
		}
		if s, ok := m["link"].(string); ok {
			r.URL = s
		}
	}
	return r, nil
}

type declarative struct {
	Info
	kind Kind
	res  []*regexp.Regexp
}

func (d *declarative) Match(p Params) ([]diag.Result, error) {
	ev, ok := evaluators[d.kind]
	if !ok {
		return nil, fmt.Errorf("rule %q: no evaluator for %q", d.RuleName, d.kind)
	}
	return ev.match(d, p), nil
}

func (d *declarative) note(match string) string {
	return strings.ReplaceAll(d.Note, matchToken, match)
}

func (d *declarative) appliesTo(res *ir.Resource) bool {
	return d.SourceLocale == "" || d.SourceLocale == res.SourceLocale
}

func matchResourceMatcher(d *declarative, p Params) []diag.Result {
	var out []diag.Result
	for _, res := range p.IR.Resources() {
		if !res.HasTarget || !d.appliesTo(res) {
			continue
		}
		src := stripPlurals(res.Source)
		tgt := stripPlurals(res.Target)
		for _, re := range d.res {
			srcMatches := re.FindAllString(src, -1)
			if len(srcMatches) == 0 {
				continue
			}
			tgtMatches := make(map[string]struct{})
			for _, m := range re.FindAllString(tgt, -1) {
				tgtMatches[m] = struct{}{}
			}
			for _, m := range srcMatches {
				if _, ok := tgtMatches[m]; ok {
					continue
				}
				r := d.resourceResult(p, res)
				r.Description = d.note(m)
				r.Highlight = "Target: " + appendEmptyMark(res.Target)
				out = append(out, r)
			}
		}
	}
	return out
}

func matchResourceSource(d *declarative, p Params) []diag.Result {
	var out []diag.Result
	for _, res := range p.IR.Resources() {
		if !d.appliesTo(res) {
			continue
		}
		out = append(out, matchString(d, p, res, res.Source, "Source: ")...)
	}
	return out
}

func matchResourceTarget(d *declarative, p Params) []diag.Result {
	var out []diag.Result
	for _, res := range p.IR.Resources() {
		if !res.HasTarget || !d.appliesTo(res) {
			continue
		}
		out = append(out, matchString(d, p, res, res.Target, "Target: ")...)
	}
	return out
}

func matchString(d *declarative, p Params, res *ir.Resource, text, label string) []diag.Result {
	var out []diag.Result
	for _, re := range d.res {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if loc[0] == loc[1] {
				continue
			}
			r := d.resourceResult(p, res)
			r.Description = d.note(text[loc[0]:loc[1]])
			r.Highlight = label + mark(text, loc[0], loc[1])
			out = append(out, r)
		}
	}
	return out
}

func matchSourceChecker(d *declarative, p Params) []diag.Result {
	text, ok := p.IR.Text()
	if !ok {
		return nil
	}
	idx := source.NewText(text)
	var out []diag.Result
	for _, re := range d.res {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if loc[0] == loc[1] {
				continue
			}
			r := d.result(p)
			r.Description = d.note(text[loc[0]:loc[1]])
			r.LineNumber = int(idx.Position(loc[0]).Line)
			r.Highlight = window(text, loc[0], loc[1])
			out = append(out, r)
		}
	}
	return out
}
