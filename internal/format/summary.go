package format

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"ilint/internal/diag"
)

// Summary is the closing report of a run.
type Summary struct {
	Stats   diag.Stats    `json:"results"`
	Files   int           `json:"files"`
	Lines   int           `json:"lines"`
	Fixed   int           `json:"fixed"`
	Score   float64       `json:"score"`
	Elapsed time.Duration `json:"-"`
}

// WriteSummary prints the totals table and the score.
func WriteSummary(w io.Writer, s Summary, opts Options) error {
	paint := func(c *color.Color, n int) string {
		v := fmt.Sprintf("%6d", n)
		if !opts.Color || n == 0 {
			return v
		}
		return c.Sprint(v)
	}
	_, err := fmt.Fprintf(w, "%-12s%8s%10s%13s\n", "", "Errors", "Warnings", "Suggestions")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%-12s  %s    %s       %s\n", "Totals:",
		paint(severityColors[diag.SevError], s.Stats.Errors),
		paint(severityColors[diag.SevWarning], s.Stats.Warnings),
		paint(severityColors[diag.SevSuggestion], s.Stats.Suggestions))
	if err != nil {
		return err
	}
	if s.Fixed > 0 {
		if _, err := fmt.Fprintf(w, "%-12s%8d\n", "Fixed:", s.Fixed); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "\n%d files, %d lines checked in %s\nI18N Score (0-100): %.0f\n",
		s.Files, s.Lines, s.Elapsed.Round(time.Millisecond), s.Score)
	return err
}

// WriteJSONSummary prints the summary as one JSON object.
func WriteJSONSummary(w io.Writer, s Summary) error {
	return json.NewEncoder(w).Encode(s)
}
