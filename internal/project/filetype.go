package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"ilint/internal/rule"
	"ilint/internal/source"
)

// Built-in file types, used when no path setting matches.
const (
	FileTypeXliff   = "xliff"
	FileTypeSource  = "source"
	FileTypeUnknown = "unknown"
)

var builtinFileTypes = map[string]FileTypeConfig{
	FileTypeXliff:   {Type: "resource", RuleSets: []string{"resource"}, Parsers: []string{"xliff"}},
	FileTypeSource:  {Type: "source", RuleSets: []string{"source"}, Parsers: []string{"text"}},
	FileTypeUnknown: {},
}

// FileType is a class of files sharing parsers, locales and rules.
type FileType struct {
	Name     string
	Type     string
	Template string
	RuleSets []string
	Parsers  []string

	locales  []string
	project  *Project
	template *regexp.Regexp

	once  sync.Once
	rules []rule.Rule
}

// newFileType expects cfg to have passed validateFileType.
func newFileType(name string, cfg FileTypeConfig, p *Project) *FileType {
	template, _ := compileTemplate(cfg.Template)
	return &FileType{
		Name:     name,
		Type:     cfg.Type,
		Template: cfg.Template,
		RuleSets: append([]string(nil), cfg.RuleSets...),
		Parsers:  append([]string(nil), cfg.Parsers...),
		locales:  append([]string(nil), cfg.Locales...),
		project:  p,
		template: template,
	}
}

// Locales returns the file type's locales, or the project's when it has none.
func (ft *FileType) Locales() []string {
	if len(ft.locales) > 0 {
		return ft.locales
	}
	if ft.project != nil {
		return ft.project.Locales()
	}
	return nil
}

// Rules composes the file type's rule sets once and returns the same slice
// on every later call. A file type without rule sets has no rules.
func (ft *FileType) Rules() []rule.Rule {
	ft.once.Do(func() {
		if len(ft.RuleSets) == 0 || ft.project == nil {
			ft.rules = []rule.Rule{}
			return
		}
		ft.rules = ft.project.rules.GetRules(ft.RuleSets)
	})
	return ft.rules
}

// LocaleFromPath extracts the locale of path using the template, or, without
// one, the first path segment that is a valid locale. ok is false when the
// path carries no locale.
func (ft *FileType) LocaleFromPath(path string) (string, bool) {
	if ft.project != nil && filepath.IsAbs(path) {
		path = source.RelativePath(path, ft.project.Root)
	}
	path = source.NormalizePath(path)
	if ft.template != nil {
		m := ft.template.FindStringSubmatch(path)
		if m == nil {
			return "", false
		}
		for i, name := range ft.template.SubexpNames() {
			if name == "locale" && m[i] != "" {
				if tag, err := CanonicalLocale(strings.ReplaceAll(m[i], "/", "-")); err == nil {
					return tag, true
				}
			}
		}
		return "", false
	}
	return guessLocale(path, ft.Locales())
}

// localeLike matches tags that carry a script or region, such as de-DE,
// zh_Hant_TW or es-419. Bare language codes are too easily confused with
// ordinary names and are only accepted when listed in the known locales.
var localeLike = regexp.MustCompile(`^[a-z]{2,3}(?:[-_][A-Z][a-z]{3})?(?:[-_](?:[A-Z]{2}|\d{3}))$|^[a-z]{2,3}[-_][A-Z][a-z]{3}$`)

// guessLocale scans path segments and file name parts from the end.
func guessLocale(path string, known []string) (string, bool) {
	segs := strings.Split(path, "/")
	for i := len(segs) - 1; i >= 0; i-- {
		parts := []string{segs[i]}
		if i == len(segs)-1 {
			parts = strings.FieldsFunc(segs[i], func(r rune) bool { return r == '.' })
			if len(parts) > 1 {
				parts = parts[:len(parts)-1]
			}
		}
		for j := len(parts) - 1; j >= 0; j-- {
			part := parts[j]
			if !localeLike.MatchString(part) && !contains(known, part) {
				continue
			}
			if tag, err := CanonicalLocale(part); err == nil {
				return tag, true
			}
		}
	}
	return "", false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var templateTokens = map[string]string{
	"[dir]":         `(?:.*/)?`,
	"[basename]":    `[^/]*?`,
	"[filename]":    `[^/]*`,
	"[extension]":   `[^/.]*`,
	"[locale]":      `(?P<locale>[a-z]{2,3}(?:[-_][A-Za-z0-9]{2,8})*)`,
	"[localeDir]":   `(?P<locale>[a-z]{2,3}(?:/[A-Za-z0-9]{2,8})*)`,
	"[localeUnder]": `(?P<locale>[a-z]{2,3}(?:_[A-Za-z0-9]{2,8})*)`,
	"[language]":    `[a-z]{2,3}`,
	"[region]":      `(?:[A-Z]{2}|\d{3})`,
	"[script]":      `[A-Z][a-z]{3}`,
}

var templateToken = regexp.MustCompile(`\[[a-zA-Z]+\]`)

var errNoLocaleToken = errors.New("template has no [locale], [localeDir] or [localeUnder] token")

// compileTemplate turns a path template into an anchored regexp. A "[dir]/"
// prefix may match nothing. An empty template yields nil.
func compileTemplate(tmpl string) (*regexp.Regexp, error) {
	if strings.TrimSpace(tmpl) == "" {
		return nil, nil
	}
	tmpl = strings.ReplaceAll(tmpl, "[dir]/", "[dir]")
	var b strings.Builder
	b.WriteString("^")
	last := 0
	named := false
	for _, loc := range templateToken.FindAllStringIndex(tmpl, -1) {
		b.WriteString(regexp.QuoteMeta(tmpl[last:loc[0]]))
		tok := tmpl[loc[0]:loc[1]]
		expr, ok := templateTokens[tok]
		switch {
		case !ok:
			return nil, fmt.Errorf("template %q: unknown token %s", tmpl, tok)
		case strings.Contains(expr, "?P<locale>") && named:
			expr = strings.Replace(expr, "?P<locale>", "?:", 1)
		case strings.Contains(expr, "?P<locale>"):
			named = true
		}
		b.WriteString(expr)
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(tmpl[last:]))
	b.WriteString("$")
	if !named {
		return nil, fmt.Errorf("template %q: %w", tmpl, errNoLocaleToken)
	}
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", tmpl, err)
	}
	return re, nil
}
