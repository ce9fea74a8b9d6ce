package driver

import "ilint/internal/diag"

// Exit codes of the ilint command.
const (
	ExitOK       = 0
	ExitWarnings = 1
	ExitErrors   = 2
	ExitConfig   = 3
)

// Thresholds decide whether a run fails. Nil fields are not configured.
type Thresholds struct {
	MaxErrors      *int
	MaxWarnings    *int
	MaxSuggestions *int
	MinScore       *float64
	ErrorsOnly     bool
}

// ExitCode applies the first configured threshold, in the order max-errors,
// max-warnings, max-suggestions, min-score, errors-only. Without thresholds,
// errors give ExitErrors and warnings ExitWarnings.
func ExitCode(stats diag.Stats, score float64, t Thresholds) int {
	switch {
	case t.MaxErrors != nil:
		if stats.Errors > *t.MaxErrors {
			return ExitErrors
		}
		return ExitOK
	case t.MaxWarnings != nil:
		if stats.Warnings > *t.MaxWarnings {
			return ExitWarnings
		}
		return ExitOK
	case t.MaxSuggestions != nil:
		if stats.Suggestions > *t.MaxSuggestions {
			return ExitWarnings
		}
		return ExitOK
	case t.MinScore != nil:
		if score < *t.MinScore {
			return ExitErrors
		}
		return ExitOK
	case t.ErrorsOnly:
		if stats.Errors > 0 {
			return ExitErrors
		}
		return ExitOK
	}
	if stats.Errors > 0 {
		return ExitErrors
	}
	if stats.Warnings > 0 {
		return ExitWarnings
	}
	return ExitOK
}
