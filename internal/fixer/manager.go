package fixer

import (
	"fmt"
	"sort"
	"sync"
)

// Manager maps IR types to fixers.
type Manager struct {
	mu     sync.RWMutex
	fixers map[string]Fixer
}

func NewManager() *Manager {
	return &Manager{fixers: make(map[string]Fixer)}
}

// NewDefaultManager returns a manager with the resource and source fixers.
func NewDefaultManager() *Manager {
	m := NewManager()
	for _, f := range []Fixer{ResourceFixer{}, SourceFixer{}} {
		if err := m.Register(f); err != nil {
			panic(err)
		}
	}
	return m
}

// Register adds f. Only one fixer may handle a given IR type.
func (m *Manager) Register(f Fixer) error {
	if f == nil || f.Type() == "" {
		return fmt.Errorf("%w: fixer without a type", ErrConfig)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.fixers[f.Type()]; dup {
		return fmt.Errorf("%w: a fixer for %q is already registered", ErrConfig, f.Type())
	}
	m.fixers[f.Type()] = f
	return nil
}

// Get returns the fixer for irType.
func (m *Manager) Get(irType string) (Fixer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.fixers[irType]
	return f, ok
}

// Types lists handled IR types alphabetically.
func (m *Manager) Types() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.fixers))
	for t := range m.fixers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
