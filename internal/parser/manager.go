package parser

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Manager indexes parsers by name and by extension.
type Manager struct {
	mu     sync.RWMutex
	byName map[string]Parser
	byExt  map[string][]Parser
}

func NewManager() *Manager {
	return &Manager{
		byName: make(map[string]Parser),
		byExt:  make(map[string][]Parser),
	}
}

// NewDefaultManager returns a manager with the built-in parsers.
func NewDefaultManager() *Manager {
	m := NewManager()
	for _, p := range []Parser{NewXliff(), NewText()} {
		if err := m.Register(p); err != nil {
			panic(err)
		}
	}
	return m
}

// Register adds p under its name and extensions.
func (m *Manager) Register(p Parser) error {
	if p == nil || strings.TrimSpace(p.Name()) == "" {
		return fmt.Errorf("%w: parser without a name", ErrConfig)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.byName[p.Name()]; dup {
		return fmt.Errorf("%w: parser %q already registered", ErrConfig, p.Name())
	}
	m.byName[p.Name()] = p
	for _, ext := range p.Extensions() {
		ext = normalizeExt(ext)
		m.byExt[ext] = append(m.byExt[ext], p)
	}
	return nil
}

// Get returns the parser registered as name.
func (m *Manager) Get(name string) (Parser, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.byName[name]
	return p, ok
}

// ForPath returns the parsers that handle path's extension, in registration
// order.
func (m *Manager) ForPath(path string) []Parser {
	ext := normalizeExt(filepath.Ext(path))
	if ext == "" {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Parser(nil), m.byExt[ext]...)
}

// Names lists registered parsers alphabetically.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.byName))
	for n := range m.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
