package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilint/internal/diag"
	"ilint/internal/project"
)

func TestScoreBeforeRun(t *testing.T) {
	p, err := project.New(t.TempDir(), nil, project.Options{})
	require.NoError(t, err)
	_, err = Score(p)
	assert.ErrorIs(t, err, ErrNoResults)

	p.SetResults(project.FileStats{Files: 1, Lines: 10}, diag.Stats{})
	score, err := Score(p)
	require.NoError(t, err)
	assert.Equal(t, 100.0, score)

	p.Reset()
	_, err = Score(p)
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestComputeScore(t *testing.T) {
	tests := []struct {
		name  string
		stats diag.Stats
		files project.FileStats
		want  float64
	}{
		{"clean", diag.Stats{}, project.FileStats{Lines: 3}, 100},
		{"warnings over lines", diag.Stats{Warnings: 2}, project.FileStats{Files: 1, Lines: 6}, 50},
		{"modules first", diag.Stats{Errors: 2}, project.FileStats{Modules: 2, Lines: 100}, 100.0 / 6},
		{"files when no lines", diag.Stats{Suggestions: 4}, project.FileStats{Files: 4, Bytes: 1000}, 50},
		{"bytes last", diag.Stats{Suggestions: 1}, project.FileStats{Bytes: 1}, 50},
		{"empty basis", diag.Stats{Errors: 1}, project.FileStats{}, 100.0 / 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ComputeScore(tt.stats, tt.files), 1e-9)
		})
	}
}

func TestComputeScoreBounds(t *testing.T) {
	prev := 100.0
	for n := 0; n < 50; n++ {
		s := ComputeScore(diag.Stats{Errors: n, Warnings: n}, project.FileStats{Lines: 20})
		assert.LessOrEqual(t, s, 100.0)
		assert.Greater(t, s, 0.0)
		assert.LessOrEqual(t, s, prev)
		prev = s
	}
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestExitCode(t *testing.T) {
	tests := []struct {
		name  string
		stats diag.Stats
		score float64
		th    Thresholds
		want  int
	}{
		{"clean", diag.Stats{}, 100, Thresholds{}, ExitOK},
		{"errors", diag.Stats{Errors: 1, Warnings: 3}, 10, Thresholds{}, ExitErrors},
		{"warnings", diag.Stats{Warnings: 1}, 90, Thresholds{}, ExitWarnings},
		{"suggestions only", diag.Stats{Suggestions: 9}, 90, Thresholds{}, ExitOK},
		{"max errors within", diag.Stats{Errors: 2}, 50, Thresholds{MaxErrors: intp(2)}, ExitOK},
		{"max errors exceeded", diag.Stats{Errors: 3}, 50, Thresholds{MaxErrors: intp(2)}, ExitErrors},
		{"max errors wins over min score", diag.Stats{Errors: 1}, 5, Thresholds{MaxErrors: intp(1), MinScore: floatp(90)}, ExitOK},
		{"max warnings exceeded", diag.Stats{Warnings: 5}, 50, Thresholds{MaxWarnings: intp(4)}, ExitWarnings},
		{"max warnings ignores errors", diag.Stats{Errors: 5}, 50, Thresholds{MaxWarnings: intp(0)}, ExitOK},
		{"max suggestions exceeded", diag.Stats{Suggestions: 2}, 50, Thresholds{MaxSuggestions: intp(1)}, ExitWarnings},
		{"min score met", diag.Stats{Warnings: 1}, 80, Thresholds{MinScore: floatp(80)}, ExitOK},
		{"min score missed", diag.Stats{}, 79.9, Thresholds{MinScore: floatp(80)}, ExitErrors},
		{"errors only with warnings", diag.Stats{Warnings: 7}, 50, Thresholds{ErrorsOnly: true}, ExitOK},
		{"errors only with errors", diag.Stats{Errors: 1}, 50, Thresholds{ErrorsOnly: true}, ExitErrors},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.stats, tt.score, tt.th))
		})
	}
}
