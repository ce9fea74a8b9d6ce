package rule

import (
	"errors"

	"ilint/internal/diag"
	"ilint/internal/ir"
)

// ErrConfig marks invalid rule or rule-set configuration. Such errors are
// fatal at setup time.
var ErrConfig = errors.New("rule configuration error")

// Params are the per-invocation inputs of Match.
type Params struct {
	IR *ir.IR
	// Locale is the locale parsed from the file path, or the project source
	// locale when the path carries none.
	Locale   string
	FilePath string
	// Locales are the locales the file type is checked for.
	Locales []string
}

// Rule is a named check over one IR type.
//
// Rules are immutable after construction; everything that varies per file is
// passed through Params.
type Rule interface {
	Name() string
	Description() string
	Severity() diag.Severity
	// RuleType is the IR type the rule can process.
	RuleType() string
	Link() string
	Match(p Params) ([]diag.Result, error)
}

// Resetter is implemented by rules that accumulate state across the files of
// one run. The state must be cleared before the next run starts.
type Resetter interface {
	Reset()
}

// FileForgetter is implemented by stateful rules that must drop what they
// learned from a file before that file is parsed again.
type FileForgetter interface {
	ForgetFile(path string)
}

// Info carries the descriptive attributes shared by every rule.
type Info struct {
	RuleName     string
	Desc         string
	Note         string
	Sev          diag.Severity
	Type         string
	URL          string
	SourceLocale string
}

func (i *Info) Name() string            { return i.RuleName }
func (i *Info) Description() string     { return i.Desc }
func (i *Info) Severity() diag.Severity { return i.Sev }
func (i *Info) RuleType() string        { return i.Type }
func (i *Info) Link() string            { return i.URL }

// result starts a result that carries the rule's identity.
func (i *Info) result(p Params) diag.Result {
	return diag.Result{
		Severity: i.Sev,
		PathName: p.FilePath,
		Rule:     i.RuleName,
		Link:     i.URL,
		Locale:   p.Locale,
	}
}

// resourceResult starts a result about res.
func (i *Info) resourceResult(p Params, res *ir.Resource) diag.Result {
	r := i.result(p)
	r.ID = res.Key
	r.Source = res.Source
	r.Target = res.Target
	r.LineNumber = res.Line
	if res.TargetLocale != "" {
		r.Locale = res.TargetLocale
	}
	return r
}
