// Package diag defines the result model shared by rules, fixers, the driver
// and formatters.
//
// # Data model
//
// Result is the central record. It contains:
//
//   - Severity – tri-level enum (Suggestion, Warning, Error) defined in severity.go.
//   - PathName and LineNumber – where the finding is; LineNumber is 0 when unknown.
//   - Description – human oriented text; keep it short and actionable.
//   - ID, Source, Target – the resource the finding is about, when there is one.
//   - Highlight – the offending text with the span wrapped in <e0>…</e0>.
//   - Rule and Link – the name and documentation URL of the producing rule.
//   - Fix – an optional remediation that a fixer can perform.
//
// Results are values and are never changed after a rule returns them. The one
// exception is the applied flag of a Fix, which a fixer sets when it performs
// the remediation.
//
// # Ordering
//
// Bag.Sort orders results by path, then line (unknown lines first), keeping
// emission order for ties, so that a reader meets the findings of one file
// top to bottom.
//
// # Scope
//
// Package diag does no formatting and no IO. Rendering lives in
// internal/format, fix application in internal/fixer and orchestration in
// internal/driver.
package diag
