package diag

// Fix is a proposed remediation attached to a result. The payload is
// defined by the fixer that handles IR type FixType; the engine only reads
// and writes the applied flag.
type Fix interface {
	FixType() string
	Applied() bool
	MarkApplied()
}

// FixState is embedded by concrete fixes to carry the applied flag.
type FixState struct {
	applied bool
}

func (f *FixState) Applied() bool { return f.applied }

func (f *FixState) MarkApplied() { f.applied = true }

// Result is one finding produced by a rule.
type Result struct {
	Severity Severity
	PathName string
	// LineNumber is 1-based; 0 means the position is unknown.
	LineNumber  int
	Description string
	// ID is the resource key, when the finding is about a resource.
	ID        string
	Source    string
	Target    string
	Highlight string
	Locale    string
	// Rule and Link refer back to the rule that produced the result.
	Rule string
	Link string
	Fix  Fix
}

// Fixable reports whether the result carries a fix.
func (r Result) Fixable() bool {
	return r.Fix != nil
}

// Fixed reports whether the result's fix has been applied.
func (r Result) Fixed() bool {
	return r.Fix != nil && r.Fix.Applied()
}
