// Package fixer applies the remediations that rules attach to results.
//
// A Fixer handles one IR type. It edits the IR's representation in memory
// and marks every fix it performed as applied; writing the file back is the
// parser's job. Fixes that no longer fit the text, or that collide with a
// fix already performed in the same batch, are skipped and left for the
// next pass of the fixed-point loop.
package fixer

import (
	"errors"

	"ilint/internal/diag"
	"ilint/internal/ir"
)

// ErrConfig marks an invalid fixer registration.
var ErrConfig = errors.New("fixer configuration error")

// Fixer performs fixes against IRs of type Type.
type Fixer interface {
	Type() string
	// ApplyFixes performs as many of fixes as it can on r. Fixes of another
	// type are skipped. Partial application is normal.
	ApplyFixes(r *ir.IR, fixes []diag.Fix) Report
}

// Skipped records a fix that was not performed and why.
type Skipped struct {
	Fix    diag.Fix
	Reason string
}

// Report summarizes one ApplyFixes call.
type Report struct {
	Applied int
	Skipped []Skipped
}

func (r *Report) skip(f diag.Fix, reason string) {
	r.Skipped = append(r.Skipped, Skipped{Fix: f, Reason: reason})
}
