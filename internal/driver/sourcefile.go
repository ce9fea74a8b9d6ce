package driver

import (
	"fmt"

	"go.uber.org/zap"

	"ilint/internal/diag"
	"ilint/internal/ir"
	"ilint/internal/parser"
	"ilint/internal/project"
	"ilint/internal/rule"
)

// RuleFailure names the results produced when a rule fails to evaluate.
const RuleFailure = "rule-failure"

// SourceFile is one lintable file bound to its file type.
type SourceFile struct {
	Path     string
	FileType *project.FileType

	project *project.Project
	log     *zap.Logger
	sink    ProgressSink

	// Stats are the sizes reported by the last parse.
	Stats project.FileStats
	// Writes counts the fix passes written back by the last FindIssues
	// call, over all parsers.
	Writes int
}

// NewSourceFile binds path to the file type the project assigns it.
func NewSourceFile(p *project.Project, path string) *SourceFile {
	return &SourceFile{
		Path:     path,
		FileType: p.FileTypeForPath(path),
		project:  p,
		log:      p.Logger().With(zap.String("file", path)),
	}
}

// FindIssues parses, checks and, when auto-fix is on, fixes the file until
// a pass completes without writing. The results are those of the final pass
// plus every result whose fix was applied on the way.
//
// A parse or write error aborts the file and is returned.
func (f *SourceFile) FindIssues(locales []string) ([]diag.Result, error) {
	parsers := f.project.ParsersFor(f.Path, f.FileType)
	locale := f.project.LocaleFor(f.Path, f.FileType)
	if len(locales) == 0 {
		locales = f.FileType.Locales()
	}

	var out []diag.Result
	f.Stats = project.FileStats{Files: 1}
	f.Writes = 0
	for _, ps := range parsers {
		results, stats, err := f.runParser(ps, locale, locales)
		if err != nil {
			return nil, err
		}
		f.Stats.Lines = max(f.Stats.Lines, stats.Lines)
		f.Stats.Bytes = max(f.Stats.Bytes, stats.Bytes)
		f.Stats.Modules = max(f.Stats.Modules, stats.Modules)
		out = append(out, results...)
	}
	return out, nil
}

// runParser is the fixed-point loop for one parser. Each parser gets its own
// write budget.
func (f *SourceFile) runParser(ps parser.Parser, locale string, locales []string) ([]diag.Result, project.FileStats, error) {
	cfg := f.project.Config()
	maxWrites := cfg.MaxFixIterations
	if maxWrites <= 0 {
		maxWrites = project.DefaultMaxFixIterations
	}

	var fixed []diag.Result
	writes := 0
	for pass := 1; ; pass++ {
		emit(f.sink, Event{File: f.Path, Stage: StageParse, Status: StatusWorking})
		irs, err := ps.Parse(f.Path)
		if err != nil {
			return nil, project.FileStats{}, fmt.Errorf("%s: %w", ps.Name(), err)
		}
		var stats project.FileStats
		for _, r := range irs {
			stats.AddIR(r.Stats)
		}

		fixing := cfg.AutoFix && ps.CanWrite() && writes < maxWrites
		if cfg.AutoFix && ps.CanWrite() && writes >= maxWrites {
			f.log.Warn("fix iteration limit reached", zap.String("parser", ps.Name()), zap.Int("writes", writes))
		}

		var running []diag.Result
		wrote := false
		for _, r := range irs {
			emit(f.sink, Event{File: f.Path, Stage: StageCheck, Status: StatusWorking})
			results := f.check(r, locale, locales)

			if fixing {
				applied, err := f.fix(ps, r, results)
				if err != nil {
					return nil, project.FileStats{}, err
				}
				if applied {
					writes++
					f.Writes++
					for _, res := range results {
						if res.Fixed() {
							fixed = append(fixed, res)
						}
					}
					wrote = true
					break
				}
			}
			running = append(running, results...)
		}
		if !wrote {
			f.log.Debug("file settled", zap.String("parser", ps.Name()), zap.Int("passes", pass),
				zap.Int("fixed", len(fixed)), zap.Int("results", len(running)))
			return append(fixed, running...), stats, nil
		}
	}
}

// check runs the file type's rules for the IR's type.
func (f *SourceFile) check(r *ir.IR, locale string, locales []string) []diag.Result {
	params := rule.Params{IR: r, Locale: locale, FilePath: f.Path, Locales: locales}
	var out []diag.Result
	for _, rl := range f.FileType.Rules() {
		if rl.RuleType() != r.Type {
			continue
		}
		out = append(out, f.match(rl, params)...)
	}
	return out
}

// match runs one rule. A rule that errors or panics yields a single
// rule-failure result instead of its findings; other rules are unaffected.
func (f *SourceFile) match(rl rule.Rule, p rule.Params) (results []diag.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			results = []diag.Result{f.failure(rl, fmt.Errorf("panic: %v", rec))}
		}
	}()
	found, err := rl.Match(p)
	if err != nil {
		return []diag.Result{f.failure(rl, err)}
	}
	return found
}

func (f *SourceFile) failure(rl rule.Rule, err error) diag.Result {
	f.log.Warn("rule failed", zap.String("rule", rl.Name()), zap.Error(err))
	return diag.Result{
		Severity:    diag.SevError,
		PathName:    f.Path,
		Description: fmt.Sprintf("Rule %s could not be evaluated: %v", rl.Name(), err),
		Rule:        RuleFailure,
		Link:        rl.Link(),
	}
}

// fix applies the fixable results of r and, when anything was applied,
// writes r back. Stateful rules forget the file before it is parsed again.
func (f *SourceFile) fix(ps parser.Parser, r *ir.IR, results []diag.Result) (bool, error) {
	fixes := make([]diag.Fix, 0)
	for _, res := range results {
		if res.Fixable() && !res.Fixed() {
			fixes = append(fixes, res.Fix)
		}
	}
	if len(fixes) == 0 {
		return false, nil
	}
	fx, ok := f.project.Fixers().Get(r.Type)
	if !ok {
		return false, nil
	}

	emit(f.sink, Event{File: f.Path, Stage: StageFix, Status: StatusWorking})
	rep := fx.ApplyFixes(r, fixes)
	for _, s := range rep.Skipped {
		f.log.Debug("fix skipped", zap.String("type", s.Fix.FixType()), zap.String("reason", s.Reason))
	}
	if rep.Applied == 0 {
		return false, nil
	}

	emit(f.sink, Event{File: f.Path, Stage: StageWrite, Status: StatusWorking})
	if err := ps.Write(r); err != nil {
		return false, fmt.Errorf("%s: %w", ps.Name(), err)
	}
	f.log.Info("applied fixes", zap.Int("applied", rep.Applied), zap.Int("skipped", len(rep.Skipped)))

	for _, rl := range f.FileType.Rules() {
		if ff, ok := rl.(rule.FileForgetter); ok {
			ff.ForgetFile(f.Path)
		}
	}
	return true, nil
}
