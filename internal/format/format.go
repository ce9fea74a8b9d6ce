// Package format renders results for people and tools.
//
// Formatters are looked up by name through a Manager. Each turns one result
// into a string; the caller decides where it goes and prints the summary
// with WriteSummary.
package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"ilint/internal/diag"
	"ilint/internal/source"
)

// DefaultFormatter is used when none is requested.
const DefaultFormatter = "ansi-console"

// ErrUnknownFormatter is returned when a requested formatter is not registered.
var ErrUnknownFormatter = errors.New("unknown formatter")

// Formatter turns a result into text.
type Formatter interface {
	Name() string
	Description() string
	Format(r diag.Result) string
}

// Factory builds a formatter for the given options.
type Factory func(opts Options) Formatter

// Manager holds formatter factories by name.
type Manager struct {
	mu        sync.RWMutex
	factories map[string]Factory
	desc      map[string]string
}

func NewManager() *Manager {
	return &Manager{
		factories: make(map[string]Factory),
		desc:      make(map[string]string),
	}
}

// NewDefaultManager registers the ansi-console, json and short formatters.
func NewDefaultManager() *Manager {
	m := NewManager()
	m.Register(DefaultFormatter, func(o Options) Formatter { return NewAnsiConsole(o) })
	m.Register("json", func(o Options) Formatter { return NewJSON(o) })
	m.Register("short", func(o Options) Formatter { return NewShort(o) })
	return m
}

// Register adds or replaces the factory for name.
func (m *Manager) Register(name string, f Factory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[name] = f
	m.desc[name] = f(Options{}).Description()
}

// Get builds the formatter registered as name.
func (m *Manager) Get(name string, opts Options) (Formatter, error) {
	if name == "" {
		name = DefaultFormatter
	}
	m.mu.RLock()
	f, ok := m.factories[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownFormatter, name, strings.Join(m.Names(), ", "))
	}
	return f(opts), nil
}

// Names lists formatters alphabetically.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.factories))
	for n := range m.factories {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Description returns the description of a registered formatter.
func (m *Manager) Description(name string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.desc[name]
}

func displayPath(path string, opts Options) string {
	if path == "" {
		return ""
	}
	switch opts.PathMode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return source.NormalizePath(abs)
		}
		return source.NormalizePath(path)
	case PathModeBasename:
		return filepath.Base(path)
	default:
		if opts.BaseDir != "" && filepath.IsAbs(path) {
			return source.RelativePath(path, opts.BaseDir)
		}
		return source.NormalizePath(path)
	}
}

// location renders path(line), or just path when the line is unknown.
func location(r diag.Result, opts Options) string {
	p := displayPath(r.PathName, opts)
	if r.LineNumber > 0 {
		return fmt.Sprintf("%s(%d)", p, r.LineNumber)
	}
	return p
}
