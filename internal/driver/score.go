package driver

import (
	"errors"

	"ilint/internal/diag"
	"ilint/internal/project"
)

// ErrNoResults is returned when a score is requested before any run completed.
var ErrNoResults = errors.New("no lint results: run the project before computing a score")

// Score rates the last run of p from 0 to 100.
func Score(p *project.Project) (float64, error) {
	files, stats, ok := p.Results()
	if !ok {
		return 0, ErrNoResults
	}
	return ComputeScore(stats, files), nil
}

// ComputeScore is 100 / (1 + demerits/basis). The basis is the first non-zero
// of modules, lines, files and bytes, else 1, so equal demerits weigh less in
// a larger project.
func ComputeScore(stats diag.Stats, files project.FileStats) float64 {
	basis := 1
	for _, n := range []int{files.Modules, files.Lines, files.Files, files.Bytes} {
		if n > 0 {
			basis = n
			break
		}
	}
	return 100 / (1 + float64(stats.Demerits())/float64(basis))
}
