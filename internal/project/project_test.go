package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilint/internal/diag"
	"ilint/internal/rule"
)

const sampleTOML = `name = "demo"
locales = ["de-DE", "fr_FR"]
sourceLocale = "en-US"
autofix = true
excludes = ["build/**"]

[[rules]]
type = "resource-matcher"
name = "resource-percent-params"
description = "Ensure percent parameters survive translation"
note = "The parameter {matchString} is missing from the target"
regexps = ['%\d+']

[ruleSets.strict]
resource-percent-params = true
resource-no-translation = false

[fileTypes.translations]
type = "resource"
template = "[dir]/[locale]/[basename].xliff"
ruleSets = ["resource", "strict"]

[paths]
"res/**/*.xliff" = "translations"
"src/**/*.js" = { ruleSets = ["source"] }
`

const sampleYAML = `name: demo
locales: [de-DE, fr_FR]
autofix: true
excludes: ["build/**"]
rules:
  - type: resource-matcher
    name: resource-percent-params
    description: Ensure percent parameters survive translation
    note: The parameter {matchString} is missing from the target
    regexps: ['%\d+']
ruleSets:
  strict:
    resource-percent-params: true
    resource-no-translation: false
fileTypes:
  translations:
    type: resource
    template: "[dir]/[locale]/[basename].xliff"
    ruleSets: [resource, strict]
paths:
  "src/**/*.js":
    ruleSets: [source]
  "res/**/*.xliff": translations
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadConfigTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ilint.toml")
	writeFile(t, path, sampleTOML)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Name)
	assert.Equal(t, []string{"de-DE", "fr-FR"}, cfg.Locales)
	assert.True(t, cfg.AutoFix)
	assert.Equal(t, DefaultMaxFixIterations, cfg.MaxFixIterations)
	require.Len(t, cfg.Rules, 1)
	assert.Equal(t, rule.KindResourceMatcher, cfg.Rules[0].Type)
	assert.Equal(t, []string{`%\d+`}, cfg.Rules[0].Regexps)

	require.Len(t, cfg.Paths, 2)
	assert.Equal(t, "res/**/*.xliff", cfg.Paths[0].Glob)
	assert.Equal(t, "translations", cfg.Paths[0].FileType)
	assert.Equal(t, "src/**/*.js", cfg.Paths[1].Glob)
	require.NotNil(t, cfg.Paths[1].Inline)
	assert.Equal(t, []string{"source"}, cfg.Paths[1].Inline.RuleSets)
}

func TestLoadConfigYAMLKeepsPathOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ilint.yaml")
	writeFile(t, path, sampleYAML)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSourceLocale, cfg.SourceLocale)
	assert.Equal(t, []string{"de-DE", "fr-FR"}, cfg.Locales)
	require.Len(t, cfg.Paths, 2)
	assert.Equal(t, "src/**/*.js", cfg.Paths[0].Glob)
	assert.Equal(t, "res/**/*.xliff", cfg.Paths[1].Glob)
	assert.Equal(t, false, cfg.RuleSets["strict"]["resource-no-translation"])
}

func TestLoadConfigJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ilint.json")
	writeFile(t, path, `{"sourceLocale": "en_GB", "paths": {"**/*.xlf": "xliff"}}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "en-GB", cfg.SourceLocale)
	require.Len(t, cfg.Paths, 1)
	assert.Equal(t, "xliff", cfg.Paths[0].FileType)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"bad.toml":    "name = ",
		"locale.toml": `locales = ["not a locale"]`,
		"paths.toml":  "[paths]\n\"a/**\" = 3\n",
		"ext.ini":     "",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			writeFile(t, path, content)
			_, err := LoadConfig(path)
			require.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestFindConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ilint.yaml"), "name: x\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, ok, err := FindConfig(nested)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "ilint.yaml"), path)
}

func openSample(t *testing.T) *Project {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ilint.toml"), sampleTOML)
	p, err := Open(root, Options{})
	require.NoError(t, err)
	return p
}

func TestProjectFileTypes(t *testing.T) {
	p := openSample(t)
	assert.Equal(t, "en-US", p.SourceLocale())
	assert.True(t, p.Config().AutoFix)

	ft, ok := p.Settings("res/**/*.xliff")
	require.True(t, ok)
	assert.Equal(t, "translations", ft.Name)
	assert.Same(t, ft, p.FileTypeForPath(filepath.Join(p.Root, "res", "de-DE", "strings.xliff")))

	inline, ok := p.Settings("src/**/*.js")
	require.True(t, ok)
	assert.Same(t, inline, p.FileTypeForPath(filepath.Join(p.Root, "src", "app", "main.js")))

	assert.Equal(t, FileTypeXliff, p.FileTypeForPath(filepath.Join(p.Root, "other", "a.xlf")).Name)
	assert.Equal(t, FileTypeSource, p.FileTypeForPath(filepath.Join(p.Root, "lib", "a.ts")).Name)
	assert.Equal(t, FileTypeUnknown, p.FileTypeForPath(filepath.Join(p.Root, "README.md")).Name)

	_, ok = p.Settings("nope/**")
	assert.False(t, ok)
}

func TestFileTypeRulesMemoized(t *testing.T) {
	p := openSample(t)
	ft, _ := p.FileType("translations")

	rules := ft.Rules()
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		names = append(names, r.Name())
	}
	assert.Contains(t, names, "resource-percent-params")
	assert.Contains(t, names, "resource-named-params")
	assert.NotContains(t, names, "resource-no-translation")

	again := ft.Rules()
	require.Len(t, again, len(rules))
	assert.True(t, &rules[0] == &again[0])

	unknown, _ := p.FileType(FileTypeUnknown)
	assert.Empty(t, unknown.Rules())
}

func TestLocaleFromPath(t *testing.T) {
	p := openSample(t)
	ft, _ := p.FileType("translations")

	loc, ok := ft.LocaleFromPath(filepath.Join(p.Root, "res", "de-DE", "strings.xliff"))
	require.True(t, ok)
	assert.Equal(t, "de-DE", loc)

	loc, ok = ft.LocaleFromPath("de_DE/strings.xliff")
	require.True(t, ok)
	assert.Equal(t, "de-DE", loc)

	_, ok = ft.LocaleFromPath("strings.xliff")
	assert.False(t, ok)

	xliff, _ := p.FileType(FileTypeXliff)
	loc, ok = xliff.LocaleFromPath("i18n/app.fr-FR.xliff")
	require.True(t, ok)
	assert.Equal(t, "fr-FR", loc)

	loc, ok = xliff.LocaleFromPath("locales/zh_Hant_TW/app.xliff")
	require.True(t, ok)
	assert.Equal(t, "zh-Hant-TW", loc)

	_, ok = xliff.LocaleFromPath("res/app.xliff")
	assert.False(t, ok)
	assert.Equal(t, "en-US", p.LocaleFor("res/app.xliff", xliff))
}

func TestNewRejectsUnknownReferences(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FileTypes = map[string]FileTypeConfig{"x": {RuleSets: []string{"missing"}}}
	_, err := New(t.TempDir(), cfg, Options{})
	require.ErrorIs(t, err, ErrConfig)

	cfg = DefaultConfig()
	cfg.Paths = []PathSetting{{Glob: "**/*.xliff", FileType: "nope"}}
	_, err = New(t.TempDir(), cfg, Options{})
	require.ErrorIs(t, err, ErrConfig)

	for _, tmpl := range []string{"[dir]/[lang]/[basename].xliff", "[dir]/[basename].xliff"} {
		cfg = DefaultConfig()
		cfg.FileTypes = map[string]FileTypeConfig{"x": {Type: "resource", Template: tmpl}}
		_, err = New(t.TempDir(), cfg, Options{})
		require.ErrorIs(t, err, ErrConfig, tmpl)
		assert.Contains(t, err.Error(), tmpl)
	}

	cfg = DefaultConfig()
	cfg.Paths = []PathSetting{{Glob: "res/**/*.xliff", Inline: &FileTypeConfig{Type: "resource", Template: "[dir]/[file].xliff"}}}
	_, err = New(t.TempDir(), cfg, Options{})
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "unknown token [file]")

	cfg = DefaultConfig()
	cfg.Rules = []rule.Definition{{Name: "broken"}}
	_, err = New(t.TempDir(), cfg, Options{})
	require.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, rule.ErrConfig)
}

func TestWalk(t *testing.T) {
	p := openSample(t)
	for _, rel := range []string{
		"res/de-DE/a.xliff",
		"res/fr-FR/a.xliff",
		"build/de-DE/a.xliff",
		"node_modules/pkg/b.xliff",
		"src/app.js",
		"notes.md",
	} {
		writeFile(t, filepath.Join(p.Root, rel), "x")
	}

	files, err := p.Walk(nil)
	require.NoError(t, err)
	want := []string{
		filepath.Join(p.Root, "res", "de-DE", "a.xliff"),
		filepath.Join(p.Root, "res", "fr-FR", "a.xliff"),
		filepath.Join(p.Root, "src", "app.js"),
	}
	assert.Equal(t, want, files)
	assert.Equal(t, want, p.Files())

	files, err = p.Walk([]string{filepath.Join(p.Root, "src", "app.js")})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(p.Root, "src", "app.js")}, files)

	_, err = p.Walk([]string{filepath.Join(p.Root, "missing")})
	assert.Error(t, err)
}

func TestResults(t *testing.T) {
	p := openSample(t)
	_, _, ok := p.Results()
	assert.False(t, ok)

	p.SetResults(FileStats{Files: 2, Lines: 10}, diagStats(1, 2, 3))
	fs, rs, ok := p.Results()
	require.True(t, ok)
	assert.Equal(t, 2, fs.Files)
	assert.Equal(t, 6, rs.Total())

	p.Reset()
	_, _, ok = p.Results()
	assert.False(t, ok)
}

func diagStats(e, w, s int) diag.Stats {
	return diag.Stats{Errors: e, Warnings: w, Suggestions: s}
}
