// Package project ties a configuration to the registries that evaluate it.
//
// A Project owns the rule, parser and fixer managers for one run, the file
// types declared in the configuration and the statistics of the last run.
package project

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"ilint/internal/diag"
	"ilint/internal/fixer"
	"ilint/internal/ir"
	"ilint/internal/parser"
	"ilint/internal/rule"
	"ilint/internal/source"
)

// Options supply the registries of a project. Nil fields get the defaults.
type Options struct {
	Logger  *zap.Logger
	Rules   *rule.Manager
	Parsers *parser.Manager
	Fixers  *fixer.Manager
}

// FileStats count what a run looked at.
type FileStats struct {
	Files   int `json:"files"`
	Lines   int `json:"lines"`
	Bytes   int `json:"bytes"`
	Modules int `json:"modules"`
}

// AddIR adds the sizes reported by a parser.
func (s *FileStats) AddIR(st ir.Stats) {
	s.Lines += st.Lines
	s.Bytes += st.Bytes
	s.Modules += st.Modules
}

func (s *FileStats) Merge(o FileStats) {
	s.Files += o.Files
	s.Lines += o.Lines
	s.Bytes += o.Bytes
	s.Modules += o.Modules
}

type pathEntry struct {
	glob string
	ft   *FileType
}

// Project is a configured lint run over a directory tree.
type Project struct {
	Root       string
	ConfigPath string

	config  *Config
	log     *zap.Logger
	rules   *rule.Manager
	parsers *parser.Manager
	fixers  *fixer.Manager

	fileTypes map[string]*FileType
	paths     []pathEntry

	mu          sync.Mutex
	files       []string
	fileStats   FileStats
	resultStats diag.Stats
	hasResults  bool
}

// Open finds the configuration above startDir and builds the project. Without
// a configuration file the defaults apply and startDir is the root.
func Open(startDir string, opts Options) (*Project, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		root, err := filepath.Abs(startDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve start directory: %w", err)
		}
		return New(root, DefaultConfig(), opts)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	p, err := New(filepath.Dir(path), cfg, opts)
	if err != nil {
		return nil, err
	}
	p.ConfigPath = path
	return p, nil
}

// New builds a project from cfg. Custom rules, rule sets, file types and path
// settings are registered and validated here; any problem is an ErrConfig.
func New(root string, cfg *Config, opts Options) (*Project, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	p := &Project{
		Root:      root,
		config:    cfg,
		log:       opts.Logger,
		rules:     opts.Rules,
		parsers:   opts.Parsers,
		fixers:    opts.Fixers,
		fileTypes: make(map[string]*FileType),
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	if p.rules == nil {
		p.rules = rule.NewDefaultManager()
	}
	if p.parsers == nil {
		p.parsers = parser.NewDefaultManager()
	}
	if p.fixers == nil {
		p.fixers = fixer.NewDefaultManager()
	}

	for _, def := range cfg.Rules {
		if err := p.rules.Register(def); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfig, err)
		}
	}
	for name, set := range cfg.RuleSets {
		p.rules.AddRuleSetDefinition(name, set)
	}

	for name, ftc := range builtinFileTypes {
		p.fileTypes[name] = newFileType(name, ftc, p)
	}
	for name, ftc := range cfg.FileTypes {
		if err := p.validateFileType(name, ftc); err != nil {
			return nil, err
		}
		p.fileTypes[name] = newFileType(name, ftc, p)
	}
	for _, ps := range cfg.Paths {
		if !doublestar.ValidatePattern(ps.Glob) {
			return nil, fmt.Errorf("%w: paths: invalid glob %q", ErrConfig, ps.Glob)
		}
		var ft *FileType
		if ps.Inline != nil {
			if err := p.validateFileType(ps.Glob, *ps.Inline); err != nil {
				return nil, err
			}
			ft = newFileType(ps.Glob, *ps.Inline, p)
		} else {
			named, ok := p.fileTypes[ps.FileType]
			if !ok {
				return nil, fmt.Errorf("%w: paths.%q: unknown file type %q", ErrConfig, ps.Glob, ps.FileType)
			}
			ft = named
		}
		p.paths = append(p.paths, pathEntry{glob: ps.Glob, ft: ft})
	}
	for _, ex := range cfg.Excludes {
		if !doublestar.ValidatePattern(ex) {
			return nil, fmt.Errorf("%w: excludes: invalid glob %q", ErrConfig, ex)
		}
	}
	return p, nil
}

func (p *Project) validateFileType(name string, ftc FileTypeConfig) error {
	for _, rs := range ftc.RuleSets {
		if !p.rules.HasRuleSet(rs) {
			return fmt.Errorf("%w: file type %q: unknown rule set %q", ErrConfig, name, rs)
		}
	}
	for _, pn := range ftc.Parsers {
		if _, ok := p.parsers.Get(pn); !ok {
			return fmt.Errorf("%w: file type %q: unknown parser %q", ErrConfig, name, pn)
		}
	}
	if _, err := compileTemplate(ftc.Template); err != nil {
		return fmt.Errorf("%w: file type %q: %w", ErrConfig, name, err)
	}
	return nil
}

func (p *Project) Config() *Config          { return p.config }
func (p *Project) Logger() *zap.Logger      { return p.log }
func (p *Project) Rules() *rule.Manager     { return p.rules }
func (p *Project) Parsers() *parser.Manager { return p.parsers }
func (p *Project) Fixers() *fixer.Manager   { return p.fixers }
func (p *Project) SourceLocale() string     { return p.config.SourceLocale }
func (p *Project) Locales() []string        { return p.config.Locales }

// FileType returns a named file type.
func (p *Project) FileType(name string) (*FileType, bool) {
	ft, ok := p.fileTypes[name]
	return ft, ok
}

// FileTypeNames lists named file types alphabetically.
func (p *Project) FileTypeNames() []string {
	out := make([]string, 0, len(p.fileTypes))
	for n := range p.fileTypes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Settings returns the file type configured for exactly glob under [paths].
func (p *Project) Settings(glob string) (*FileType, bool) {
	for _, e := range p.paths {
		if e.glob == glob {
			return e.ft, true
		}
	}
	return nil, false
}

// FileTypeForPath returns the file type of the first [paths] glob matching
// path. Unmatched paths get a built-in type chosen by their parsers.
func (p *Project) FileTypeForPath(path string) *FileType {
	rel := p.relative(path)
	for _, e := range p.paths {
		if ok, _ := doublestar.Match(e.glob, rel); ok {
			return e.ft
		}
	}
	for _, ps := range p.parsers.ForPath(path) {
		switch ps.Type() {
		case ir.TypeResource:
			return p.fileTypes[FileTypeXliff]
		case ir.TypeSource:
			return p.fileTypes[FileTypeSource]
		}
	}
	return p.fileTypes[FileTypeUnknown]
}

// ParsersFor returns the parsers to use on path: those named by the file
// type, otherwise those registered for its extension, restricted to the file
// type's IR type when it has one.
func (p *Project) ParsersFor(path string, ft *FileType) []parser.Parser {
	var candidates []parser.Parser
	if ft != nil && len(ft.Parsers) > 0 {
		for _, name := range ft.Parsers {
			if ps, ok := p.parsers.Get(name); ok {
				candidates = append(candidates, ps)
			}
		}
	} else {
		candidates = p.parsers.ForPath(path)
	}
	if ft == nil || ft.Type == "" {
		return candidates
	}
	out := candidates[:0:0]
	for _, ps := range candidates {
		if ps.Type() == ft.Type {
			out = append(out, ps)
		}
	}
	return out
}

// LocaleFor returns the locale of path, falling back to the source locale.
func (p *Project) LocaleFor(path string, ft *FileType) string {
	if ft != nil {
		if l, ok := ft.LocaleFromPath(path); ok {
			return l
		}
	}
	return p.SourceLocale()
}

// Excluded reports whether path matches an exclude glob.
func (p *Project) Excluded(path string) bool {
	rel := p.relative(path)
	for _, ex := range p.config.Excludes {
		if ok, _ := doublestar.Match(ex, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(ex+"/**", rel); ok {
			return true
		}
	}
	return false
}

func (p *Project) relative(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return source.NormalizePath(path)
	}
	return source.RelativePath(abs, p.Root)
}

// Files returns the files found by the last Walk.
func (p *Project) Files() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.files...)
}

// SetResults records the statistics of a finished run.
func (p *Project) SetResults(files FileStats, results diag.Stats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fileStats = files
	p.resultStats = results
	p.hasResults = true
}

// Results returns the statistics of the last run; ok is false before any run.
func (p *Project) Results() (files FileStats, results diag.Stats, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fileStats, p.resultStats, p.hasResults
}

// Reset clears stateful rules and the last run's statistics.
func (p *Project) Reset() {
	p.rules.Reset()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fileStats = FileStats{}
	p.resultStats = diag.Stats{}
	p.hasResults = false
}
