package format

import (
	"fmt"

	"ilint/internal/diag"
)

// Short prints one line per result, in the style of compiler output.
type Short struct {
	opts Options
}

func NewShort(opts Options) *Short { return &Short{opts: opts} }

func (*Short) Name() string        { return "short" }
func (*Short) Description() string { return "One line per result: path:line: severity: description [rule]" }

func (s *Short) Format(r diag.Result) string {
	path := displayPath(r.PathName, s.opts)
	if r.LineNumber > 0 {
		path = fmt.Sprintf("%s:%d", path, r.LineNumber)
	}
	return fmt.Sprintf("%s: %s: %s [%s]\n", path, r.Severity, r.Description, r.Rule)
}
