// Package parser turns files into IRs and writes fixed IRs back.
//
// A parser is selected by file extension unless a file type names its
// parsers explicitly. Each parser produces IRs of a single type.
package parser

import (
	"errors"

	"ilint/internal/ir"
)

var (
	// ErrConfig marks an invalid parser registration.
	ErrConfig = errors.New("parser configuration error")
	// ErrNotWritable is returned by Write on read-only parsers.
	ErrNotWritable = errors.New("parser cannot write files")
)

// Parser reads one kind of file.
type Parser interface {
	Name() string
	Description() string
	// Extensions lists handled extensions without the leading dot.
	Extensions() []string
	// Type is the IR type produced by Parse.
	Type() string
	Parse(path string) ([]*ir.IR, error)
	CanWrite() bool
	// Write serializes r back to r.FilePath.
	Write(r *ir.IR) error
}
