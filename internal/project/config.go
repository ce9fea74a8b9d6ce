package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"ilint/internal/rule"
)

// ConfigNames are the file names searched for, in order of preference.
var ConfigNames = []string{"ilint.toml", "ilint.yaml", "ilint.yml", "ilint.json"}

// DefaultSourceLocale is used when the configuration names none.
const DefaultSourceLocale = "en-US"

// DefaultMaxFixIterations bounds the parse, check and fix loop of one file.
const DefaultMaxFixIterations = 10

// ErrConfig marks an invalid project configuration.
var ErrConfig = errors.New("invalid configuration")

// FileTypeConfig describes a class of files and how to check them.
type FileTypeConfig struct {
	// Type restricts the file type to parsers producing this IR type.
	Type string `toml:"type" yaml:"type" json:"type"`
	// Template extracts the locale from a path, e.g. "[dir]/[locale]/[basename].xliff".
	Template string   `toml:"template" yaml:"template" json:"template"`
	Locales  []string `toml:"locales" yaml:"locales" json:"locales"`
	RuleSets []string `toml:"ruleSets" yaml:"ruleSets" json:"ruleSets"`
	Parsers  []string `toml:"parsers" yaml:"parsers" json:"parsers"`
}

// PathSetting maps a glob to a named file type or an inline one.
type PathSetting struct {
	Glob     string
	FileType string
	Inline   *FileTypeConfig
}

// Config is the decoded ilint configuration file.
type Config struct {
	Name             string                    `toml:"name" yaml:"name" json:"name"`
	Locales          []string                  `toml:"locales" yaml:"locales" json:"locales"`
	SourceLocale     string                    `toml:"sourceLocale" yaml:"sourceLocale" json:"sourceLocale"`
	AutoFix          bool                      `toml:"autofix" yaml:"autofix" json:"autofix"`
	MaxFixIterations int                       `toml:"maxFixIterations" yaml:"maxFixIterations" json:"maxFixIterations"`
	Excludes         []string                  `toml:"excludes" yaml:"excludes" json:"excludes"`
	Rules            []rule.Definition         `toml:"rules" yaml:"rules" json:"rules"`
	RuleSets         map[string]map[string]any `toml:"ruleSets" yaml:"ruleSets" json:"ruleSets"`
	FileTypes        map[string]FileTypeConfig `toml:"fileTypes" yaml:"fileTypes" json:"fileTypes"`

	// Paths keeps the order of the [paths] table; the first matching glob wins.
	Paths []PathSetting `toml:"-" yaml:"-" json:"-"`
}

// FindConfig walks up from startDir to locate a configuration file.
func FindConfig(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range ConfigNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// DefaultConfig is the configuration used when no file is found.
func DefaultConfig() *Config {
	return &Config{
		SourceLocale:     DefaultSourceLocale,
		MaxFixIterations: DefaultMaxFixIterations,
	}
}

// LoadConfig reads a TOML, YAML or JSON configuration file.
func LoadConfig(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		cfg, err = loadTOML(path)
	case ".yaml", ".yml", ".json":
		cfg, err = loadYAML(path)
	default:
		return nil, fmt.Errorf("%w: %s: unsupported configuration format", ErrConfig, path)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfig, path, err)
	}
	return cfg, nil
}

type tomlPaths struct {
	Paths map[string]any `toml:"paths"`
}

func loadTOML(path string) (*Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to parse TOML: %w", ErrConfig, path, err)
	}
	if !meta.IsDefined("paths") {
		return cfg, nil
	}
	var raw tomlPaths
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: failed to parse TOML: %w", ErrConfig, path, err)
	}
	// MetaData keeps keys in document order; a glob key is the second part.
	seen := make(map[string]bool)
	for _, key := range meta.Keys() {
		if len(key) < 2 || key[0] != "paths" || seen[key[1]] {
			continue
		}
		glob := key[1]
		seen[glob] = true
		ps, err := pathSetting(glob, raw.Paths[glob])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfig, path, err)
		}
		cfg.Paths = append(cfg.Paths, ps)
	}
	return cfg, nil
}

func loadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: failed to parse: %w", ErrConfig, path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: failed to parse: %w", ErrConfig, path, err)
	}
	paths := mappingValue(&doc, "paths")
	if paths == nil {
		return cfg, nil
	}
	if paths.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s: paths must be a mapping", ErrConfig, path)
	}
	for i := 0; i+1 < len(paths.Content); i += 2 {
		glob := paths.Content[i].Value
		var v any
		if err := paths.Content[i+1].Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: %s: paths.%s: %w", ErrConfig, path, glob, err)
		}
		ps, err := pathSetting(glob, v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfig, path, err)
		}
		cfg.Paths = append(cfg.Paths, ps)
	}
	return cfg, nil
}

// mappingValue finds key in the top-level mapping of a document node.
func mappingValue(doc *yaml.Node, key string) *yaml.Node {
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// pathSetting interprets a [paths] value: a file type name or an inline table.
func pathSetting(glob string, v any) (PathSetting, error) {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return PathSetting{}, fmt.Errorf("paths.%q: empty file type name", glob)
		}
		return PathSetting{Glob: glob, FileType: t}, nil
	case map[string]any:
		ft, err := fileTypeFromMap(t)
		if err != nil {
			return PathSetting{}, fmt.Errorf("paths.%q: %w", glob, err)
		}
		return PathSetting{Glob: glob, Inline: &ft}, nil
	default:
		return PathSetting{}, fmt.Errorf("paths.%q: expected a file type name or a table, got %T", glob, v)
	}
}

func fileTypeFromMap(m map[string]any) (FileTypeConfig, error) {
	var ft FileTypeConfig
	for k, v := range m {
		var err error
		switch k {
		case "type":
			ft.Type, err = asString(k, v)
		case "template":
			ft.Template, err = asString(k, v)
		case "locales":
			ft.Locales, err = asStrings(k, v)
		case "ruleSets":
			ft.RuleSets, err = asStrings(k, v)
		case "parsers":
			ft.Parsers, err = asStrings(k, v)
		default:
			err = fmt.Errorf("unknown key %q", k)
		}
		if err != nil {
			return FileTypeConfig{}, err
		}
	}
	return ft, nil
}

func asString(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return s, nil
}

func asStrings(key string, v any) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be a list of strings", key)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be a list of strings", key)
		}
		out = append(out, s)
	}
	return out, nil
}

// normalize fills defaults and validates locales.
func (c *Config) normalize() error {
	if strings.TrimSpace(c.SourceLocale) == "" {
		c.SourceLocale = DefaultSourceLocale
	}
	if c.MaxFixIterations <= 0 {
		c.MaxFixIterations = DefaultMaxFixIterations
	}
	tag, err := CanonicalLocale(c.SourceLocale)
	if err != nil {
		return fmt.Errorf("sourceLocale: %w", err)
	}
	c.SourceLocale = tag
	if c.Locales, err = canonicalLocales(c.Locales); err != nil {
		return fmt.Errorf("locales: %w", err)
	}
	for name, ft := range c.FileTypes {
		if ft.Locales, err = canonicalLocales(ft.Locales); err != nil {
			return fmt.Errorf("fileTypes.%s.locales: %w", name, err)
		}
		c.FileTypes[name] = ft
	}
	return nil
}

func canonicalLocales(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for _, l := range in {
		tag, err := CanonicalLocale(l)
		if err != nil {
			return nil, err
		}
		out = append(out, tag)
	}
	return out, nil
}

// CanonicalLocale parses a BCP 47 tag, accepting '_' separators, and
// returns its canonical form.
func CanonicalLocale(s string) (string, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	if err != nil {
		return "", fmt.Errorf("invalid locale %q: %w", s, err)
	}
	return tag.String(), nil
}
