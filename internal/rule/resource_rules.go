package rule

import (
	"regexp"
	"strings"

	"ilint/internal/diag"
	"ilint/internal/fixer"
	"ilint/internal/ir"
	"ilint/internal/source"
)

const docBase = "https://github.com/ilib-js/ilib-lint/blob/main/docs/"

func docLink(name string) string {
	return docBase + name + ".md"
}

// resourceRule runs check over every resource of the IR.
type resourceRule struct {
	Info
	check func(i *Info, p Params, res *ir.Resource) []diag.Result
}

func (r *resourceRule) Match(p Params) ([]diag.Result, error) {
	var out []diag.Result
	for _, res := range p.IR.Resources() {
		out = append(out, r.check(&r.Info, p, res)...)
	}
	return out, nil
}

// NewNoTranslation reports resources with a source string but no target.
func NewNoTranslation(any) (Rule, error) {
	return &resourceRule{
		Info: Info{
			RuleName: "resource-no-translation",
			Desc:     "Ensure that every source string has a translation",
			Sev:      diag.SevWarning,
			Type:     ir.TypeResource,
			URL:      docLink("resource-no-translation"),
		},
		check: func(i *Info, p Params, res *ir.Resource) []diag.Result {
			if strings.TrimSpace(res.Source) == "" || res.TargetLocale == "" || res.TargetLocale == res.SourceLocale {
				return nil
			}
			if res.HasTarget && strings.TrimSpace(res.Target) != "" {
				return nil
			}
			r := i.resourceResult(p, res)
			r.Description = "Missing translation for locale " + res.TargetLocale
			r.Highlight = "Source: " + appendEmptyMark(res.Source)
			return []diag.Result{r}
		},
	}, nil
}

// wideSpace matches spaces that do not belong in translated text.
var wideSpace = regexp.MustCompile(`[\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}]`)

// NewNoDoubleByteSpace reports double-byte and other exotic spaces in targets
// and offers to replace each with an ASCII space.
func NewNoDoubleByteSpace(any) (Rule, error) {
	return &resourceRule{
		Info: Info{
			RuleName: "resource-no-double-byte-space",
			Desc:     "Ensure that double-byte spaces are not used in the target string",
			Sev:      diag.SevWarning,
			Type:     ir.TypeResource,
			URL:      docLink("resource-no-double-byte-space"),
		},
		check: func(i *Info, p Params, res *ir.Resource) []diag.Result {
			if !res.HasTarget {
				return nil
			}
			var out []diag.Result
			for _, loc := range wideSpace.FindAllStringIndex(res.Target, -1) {
				old := res.Target[loc[0]:loc[1]]
				r := i.resourceResult(p, res)
				r.Description = "Double-byte space characters should not be used in the target string. Use ASCII symbols instead."
				r.Highlight = "Target: " + mark(res.Target, loc[0], loc[1])
				r.Fix = fixer.NewResourceFix(res, fixer.Edit{
					Span:    source.Span{Start: loc[0], End: loc[1]},
					OldText: old,
					NewText: " ",
				})
				out = append(out, r)
			}
			return out
		},
	}, nil
}

var (
	snakeCase = regexp.MustCompile(`^\s*[a-zA-Z0-9]*(_[a-zA-Z0-9]+)+\s*$`)
	camelCase = regexp.MustCompile(`^\s*[a-z\d]+([A-Z][a-z\d]+)+\s*$`)
)

// NewSnakeCase reports translated snake_case identifiers.
func NewSnakeCase(any) (Rule, error) {
	return newIdentifierRule("resource-snake-case", "snake cased", snakeCase), nil
}

// NewCamelCase reports translated camelCase identifiers.
func NewCamelCase(any) (Rule, error) {
	return newIdentifierRule("resource-camel-case", "camel cased", camelCase), nil
}

// newIdentifierRule checks that sources made only of identifiers are copied
// verbatim to the target; the fix restores the source text.
func newIdentifierRule(name, style string, re *regexp.Regexp) Rule {
	return &resourceRule{
		Info: Info{
			RuleName: name,
			Desc:     "Ensure that when source strings contain only " + style + " strings, they are not translated",
			Sev:      diag.SevError,
			Type:     ir.TypeResource,
			URL:      docLink(name),
		},
		check: func(i *Info, p Params, res *ir.Resource) []diag.Result {
			if !res.HasTarget || res.Source == res.Target || !re.MatchString(res.Source) {
				return nil
			}
			r := i.resourceResult(p, res)
			r.Description = "Do not translate the source string if it consists solely of " + style +
				" strings and/or digits. Please update the target string so it matches the source string."
			r.Highlight = "Target: " + mark(res.Target, 0, len(res.Target))
			r.Fix = fixer.NewResourceFix(res, fixer.Edit{
				Span:    source.Span{Start: 0, End: len(res.Target)},
				OldText: res.Target,
				NewText: res.Source,
			})
			return []diag.Result{r}
		},
	}
}
