// Package driver evaluates a project: it runs the parse, check and fix loop
// over every file, orders and counts the results, and derives the score and
// the exit code.
package driver

import (
	"context"
	"runtime"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ilint/internal/diag"
	"ilint/internal/observ"
	"ilint/internal/project"
	"ilint/internal/rule"
)

// Options configure a run.
type Options struct {
	// Jobs bounds the files evaluated concurrently; 0 means GOMAXPROCS.
	// Runs with cross-file stateful rules are always sequential.
	Jobs int
	// Locales override the file types' locales when set.
	Locales  []string
	Progress ProgressSink
	Timer    *observ.Timer
}

// FileError records a file that could not be evaluated.
type FileError struct {
	Path string
	Err  error
}

// Report is the outcome of a run.
type Report struct {
	RunID string
	// Results are sorted by path, then line.
	Results []diag.Result
	Files   project.FileStats
	// Stats count the results that are still present; fixed ones are in Fixed.
	Stats  diag.Stats
	Fixed  int
	Failed []FileError
}

type fileOutcome struct {
	results []diag.Result
	stats   project.FileStats
	err     error
}

// Run evaluates files, which should come from p.Walk. Stateful rules are
// reset first so a project can be run more than once. A file that fails to
// parse or write is logged and skipped; only cancellation aborts the run.
func Run(ctx context.Context, p *project.Project, files []string, opts Options) (*Report, error) {
	runID := uuid.NewString()
	log := p.Logger().With(zap.String("run_id", runID))
	p.Reset()

	timer := opts.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}

	sources := make([]*SourceFile, len(files))
	for i, path := range files {
		sf := NewSourceFile(p, path)
		sf.log = log.With(zap.String("file", path))
		sf.sink = opts.Progress
		sources[i] = sf
		emit(opts.Progress, Event{File: path, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if hasStatefulRules(sources) {
		jobs = 1
	}
	log.Debug("starting run", zap.Int("files", len(files)), zap.Int("jobs", jobs),
		zap.Bool("autofix", p.Config().AutoFix))

	idx := timer.Begin("lint")
	outcomes := make([]fileOutcome, len(sources))
	evaluate := func(i int) {
		start := time.Now()
		sf := sources[i]
		results, err := sf.FindIssues(opts.Locales)
		outcomes[i] = fileOutcome{results: results, stats: sf.Stats, err: err}
		if err != nil {
			log.Warn("skipping file", zap.String("file", sf.Path), zap.Error(err))
			emit(opts.Progress, Event{File: sf.Path, Status: StatusError, Err: err, Elapsed: time.Since(start)})
			return
		}
		emit(opts.Progress, Event{File: sf.Path, Status: StatusDone, Results: len(results), Elapsed: time.Since(start)})
	}

	var err error
	if jobs == 1 {
		for i := range sources {
			if err = ctx.Err(); err != nil {
				break
			}
			evaluate(i)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(min(jobs, max(len(sources), 1)))
		for i := range sources {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				evaluate(i)
				return nil
			})
		}
		err = g.Wait()
	}
	timer.End(idx, "")
	if err != nil {
		return nil, err
	}

	idx = timer.Begin("aggregate")
	rep := aggregate(files, outcomes)
	rep.RunID = runID
	timer.End(idx, "")

	p.SetResults(rep.Files, rep.Stats)
	log.Info("run finished",
		zap.Int("files", rep.Files.Files),
		zap.Int("errors", rep.Stats.Errors),
		zap.Int("warnings", rep.Stats.Warnings),
		zap.Int("suggestions", rep.Stats.Suggestions),
		zap.Int("fixed", rep.Fixed),
		zap.Int("failed", len(rep.Failed)))
	return rep, nil
}

// aggregate merges per-file outcomes in file order, then sorts once.
func aggregate(files []string, outcomes []fileOutcome) *Report {
	rep := &Report{}
	bag := diag.NewBag(0)
	for i, o := range outcomes {
		if o.err != nil {
			rep.Failed = append(rep.Failed, FileError{Path: files[i], Err: o.err})
			continue
		}
		rep.Files.Merge(o.stats)
		bag.Add(o.results...)
	}
	bag.Sort()
	rep.Results = slices.Clone(bag.Items())

	bag.Filter(func(r *diag.Result) bool { return !r.Fixed() })
	rep.Stats = bag.Stats()
	rep.Fixed = len(rep.Results) - bag.Len()
	return rep
}

func hasStatefulRules(sources []*SourceFile) bool {
	seen := make(map[*project.FileType]bool)
	for _, sf := range sources {
		if seen[sf.FileType] {
			continue
		}
		seen[sf.FileType] = true
		for _, r := range sf.FileType.Rules() {
			if _, ok := r.(rule.Resetter); ok {
				return true
			}
		}
	}
	return false
}
