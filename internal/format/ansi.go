package format

import (
	"strings"

	"github.com/fatih/color"

	"ilint/internal/diag"
)

var severityColors = map[diag.Severity]*color.Color{
	diag.SevError:      color.New(color.FgRed, color.Bold),
	diag.SevWarning:    color.New(color.FgYellow, color.Bold),
	diag.SevSuggestion: color.New(color.FgCyan),
}

// AnsiConsole is the default multi-line report for terminals.
type AnsiConsole struct {
	opts Options
}

func NewAnsiConsole(opts Options) *AnsiConsole { return &AnsiConsole{opts: opts} }

func (*AnsiConsole) Name() string        { return DefaultFormatter }
func (*AnsiConsole) Description() string { return "Formats results for a terminal, with colors when available" }

func (a *AnsiConsole) Format(r diag.Result) string {
	paint := func(c *color.Color, s string) string {
		if !a.opts.Color {
			return s
		}
		return c.Sprint(s)
	}
	dim := color.New(color.Faint)

	var b strings.Builder
	b.WriteString(location(r, a.opts))
	b.WriteString(":\n  ")
	sev := r.Severity.String()
	if c, ok := severityColors[r.Severity]; ok {
		sev = paint(c, sev)
	}
	b.WriteString(sev)
	b.WriteString(": ")
	b.WriteString(r.Description)
	if r.Fixed() {
		b.WriteString(paint(dim, " (fixed)"))
	}
	b.WriteByte('\n')

	if r.ID != "" {
		b.WriteString("  Key: ")
		b.WriteString(r.ID)
		b.WriteByte('\n')
	}
	if r.Source != "" {
		b.WriteString("  Source: ")
		b.WriteString(r.Source)
		b.WriteByte('\n')
	}
	if r.Highlight != "" {
		const indent = "  "
		text, carets := renderHighlight(r.Highlight, indent, a.opts.Color)
		b.WriteString(indent)
		b.WriteString(text)
		b.WriteByte('\n')
		if carets != "" {
			b.WriteString(carets)
			b.WriteByte('\n')
		}
	}
	if r.Rule != "" {
		b.WriteString("  Rule (")
		b.WriteString(r.Rule)
		b.WriteString(")")
		if a.opts.Describe != nil {
			if d := a.opts.Describe(r.Rule); d != "" {
				b.WriteString(": ")
				b.WriteString(d)
			}
		}
		b.WriteByte('\n')
	}
	if r.Link != "" {
		b.WriteString("  More info: ")
		b.WriteString(paint(dim, r.Link))
		b.WriteByte('\n')
	}
	return b.String()
}
