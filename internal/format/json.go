package format

import (
	"encoding/json"

	"ilint/internal/diag"
)

// ResultJSON is the wire shape of one result.
type ResultJSON struct {
	Severity    string `json:"severity"`
	Path        string `json:"path"`
	Line        int    `json:"line,omitempty"`
	Description string `json:"description"`
	Rule        string `json:"rule"`
	Link        string `json:"link,omitempty"`
	Key         string `json:"key,omitempty"`
	Source      string `json:"source,omitempty"`
	Target      string `json:"target,omitempty"`
	Highlight   string `json:"highlight,omitempty"`
	Locale      string `json:"locale,omitempty"`
	Fixable     bool   `json:"fixable,omitempty"`
	Fixed       bool   `json:"fixed,omitempty"`
}

// NewResultJSON converts r to its wire shape.
func NewResultJSON(r diag.Result, opts Options) ResultJSON {
	return ResultJSON{
		Severity:    r.Severity.String(),
		Path:        displayPath(r.PathName, opts),
		Line:        r.LineNumber,
		Description: r.Description,
		Rule:        r.Rule,
		Link:        r.Link,
		Key:         r.ID,
		Source:      r.Source,
		Target:      r.Target,
		Highlight:   r.Highlight,
		Locale:      r.Locale,
		Fixable:     r.Fixable(),
		Fixed:       r.Fixed(),
	}
}

// JSON writes one JSON object per line.
type JSON struct {
	opts Options
}

func NewJSON(opts Options) *JSON { return &JSON{opts: opts} }

func (*JSON) Name() string        { return "json" }
func (*JSON) Description() string { return "One JSON object per result, newline separated" }

func (j *JSON) Format(r diag.Result) string {
	data, err := json.Marshal(NewResultJSON(r, j.opts))
	if err != nil {
		// Only strings and ints are marshaled.
		panic(err)
	}
	return string(data) + "\n"
}
