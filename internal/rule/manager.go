package rule

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Source is something the Manager can turn into rules: a programmatic
// Builtin or a declarative Definition.
type Source interface {
	ruleName() string
}

// Factory constructs a programmatic rule from its options. Options are nil,
// a string, or a decoded object (map[string]any).
type Factory func(opts any) (Rule, error)

// Builtin registers a programmatic rule under Name.
type Builtin struct {
	Name string
	New  Factory
}

func (b Builtin) ruleName() string { return b.Name }

// Entry is one line of a rule set: a rule name and true, false or options.
type Entry struct {
	Rule  string
	Value any
}

// RuleSet is an ordered list of entries.
type RuleSet []Entry

// Manager owns the rule catalog and named rule sets, and resolves names to
// live rule instances.
//
// Instances are cached per (name, options), so a stateful rule is shared by
// every file of a run. The Manager is read-mostly once a project is set up;
// the mutex only guards cache population.
type Manager struct {
	mu       sync.Mutex
	sources  map[string]Source
	order    []string
	ruleSets map[string]RuleSet
	cache    map[string]Rule
}

// NewManager returns an empty manager.
func NewManager() *Manager {
	return &Manager{
		sources:  make(map[string]Source),
		ruleSets: make(map[string]RuleSet),
		cache:    make(map[string]Rule),
	}
}

// NewDefaultManager returns a manager with the built-in rules and rule sets.
func NewDefaultManager() *Manager {
	m := NewManager()
	for _, src := range Builtins() {
		if err := m.Register(src); err != nil {
			panic(fmt.Errorf("built-in rule: %w", err))
		}
	}
	for name, set := range BuiltinRuleSets() {
		m.AddRuleSet(name, set)
	}
	return m
}

// Register adds a rule source. Declarative definitions are validated and
// compiled once so that configuration errors surface at setup time. A later
// registration under the same name replaces the earlier one.
func (m *Manager) Register(src Source) error {
	name := strings.TrimSpace(src.ruleName())
	switch s := src.(type) {
	case Definition:
		if _, err := s.compile(nil); err != nil {
			return err
		}
	case Builtin:
		if name == "" || s.New == nil {
			return fmt.Errorf("%w: programmatic rule %q has no name or constructor", ErrConfig, name)
		}
	default:
		return fmt.Errorf("%w: unsupported rule source %T", ErrConfig, src)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sources[name]; !ok {
		m.order = append(m.order, name)
	}
	m.sources[name] = src
	for key := range m.cache {
		if strings.HasPrefix(key, name+"\x00") {
			delete(m.cache, key)
		}
	}
	return nil
}

// Get instantiates the named rule with opts, reusing a cached instance for
// identical options. Unknown names report false; callers skip them.
func (m *Manager) Get(name string, opts any) (Rule, bool) {
	r, err := m.get(name, opts)
	if err != nil || r == nil {
		return nil, false
	}
	return r, true
}

// Resolve is Get with the construction error preserved.
func (m *Manager) Resolve(name string, opts any) (Rule, error) {
	return m.get(name, opts)
}

func (m *Manager) get(name string, opts any) (Rule, error) {
	if b, ok := opts.(bool); ok && b {
		opts = nil
	}
	key, err := cacheKey(name, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: rule %q: %w", ErrConfig, name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.cache[key]; ok {
		return r, nil
	}
	src, ok := m.sources[name]
	if !ok {
		return nil, nil
	}
	var r Rule
	switch s := src.(type) {
	case Definition:
		r, err = s.compile(opts)
	case Builtin:
		r, err = s.New(opts)
	}
	if err != nil {
		return nil, err
	}
	m.cache[key] = r
	return r, nil
}

func cacheKey(name string, opts any) (string, error) {
	if opts == nil {
		return name + "\x00", nil
	}
	// encoding/json sorts map keys, giving a canonical form.
	b, err := json.Marshal(opts)
	if err != nil {
		return "", err
	}
	return name + "\x00" + string(b), nil
}

// Names lists registered rules in registration order.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

// AddRuleSet stores a named rule set, replacing any previous definition.
func (m *Manager) AddRuleSet(name string, set RuleSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ruleSets[name] = append(RuleSet(nil), set...)
}

// AddRuleSetDefinition stores a rule set given as a mapping. Map iteration
// is unordered, so entries are ordered by rule name.
func (m *Manager) AddRuleSetDefinition(name string, mapping map[string]any) {
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	set := make(RuleSet, 0, len(keys))
	for _, k := range keys {
		set = append(set, Entry{Rule: k, Value: mapping[k]})
	}
	m.AddRuleSet(name, set)
}

// HasRuleSet reports whether a rule set named name exists.
func (m *Manager) HasRuleSet(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ruleSets[name]
	return ok
}

// RuleSet returns a copy of the named rule set.
func (m *Manager) RuleSet(name string) (RuleSet, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.ruleSets[name]
	return append(RuleSet(nil), set...), ok
}

// RuleSetNames lists rule sets alphabetically.
func (m *Manager) RuleSetNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.ruleSets))
	for n := range m.ruleSets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// GetRules composes the named rule sets in order. A later entry for a rule
// overrides an earlier one, so false removes a rule a previous set enabled.
// Each rule appears once, at the position where it was first enabled.
// Unknown rule sets and rules are skipped.
func (m *Manager) GetRules(names []string) []Rule {
	order := make([]string, 0)
	enabled := make(map[string]any)
	for _, setName := range names {
		set, ok := m.RuleSet(setName)
		if !ok {
			continue
		}
		for _, e := range set {
			if !truthy(e.Value) {
				delete(enabled, e.Rule)
				continue
			}
			if _, seen := enabled[e.Rule]; !seen && !contains(order, e.Rule) {
				order = append(order, e.Rule)
			}
			enabled[e.Rule] = e.Value
		}
	}

	rules := make([]Rule, 0, len(order))
	for _, name := range order {
		opts, ok := enabled[name]
		if !ok {
			continue
		}
		if r, ok := m.Get(name, opts); ok {
			rules = append(rules, r)
		}
	}
	return rules
}

// Reset clears the state of every cached stateful rule for a new run.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.cache {
		if s, ok := r.(Resetter); ok {
			s.Reset()
		}
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	default:
		return true
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
