package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ilint/internal/driver"
)

const untranslated = `<?xml version="1.0" encoding="utf-8"?>
<xliff version="1.2">
  <file original="app" source-language="en-US" target-language="de-DE">
    <body>
      <trans-unit id="1" resname="title">
        <source>Hello</source>
      </trans-unit>
    </body>
  </file>
</xliff>
`

const wideSpaced = `<?xml version="1.0" encoding="utf-8"?>
<xliff version="1.2">
  <file original="app" source-language="en-US" target-language="de-DE">
    <body>
      <trans-unit id="1" resname="title">
        <source>Hello World</source>
        <target>Hallo` + "\u3000" + `Welt</target>
      </trans-unit>
    </body>
  </file>
</xliff>
`

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func projectDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestVersionCommand(t *testing.T) {
	code, out, _ := run(t, "--color", "off", "version")
	assert.Equal(t, driver.ExitOK, code)
	assert.True(t, strings.HasPrefix(out, "ilint "))

	code, out, _ = run(t, "version", "--format", "json")
	assert.Equal(t, driver.ExitOK, code)
	assert.Contains(t, out, `"tool": "ilint"`)

	code, _, errOut := run(t, "version", "--format", "xml")
	assert.Equal(t, driver.ExitConfig, code)
	assert.Contains(t, errOut, "unsupported format")
}

func TestLintReportsWarnings(t *testing.T) {
	dir := projectDir(t, map[string]string{"de-DE.xliff": untranslated})

	code, out, _ := run(t, "--color", "off", "lint", dir, "--format", "short")
	assert.Equal(t, driver.ExitWarnings, code)
	assert.Contains(t, out, "de-DE.xliff:5: warning: Missing translation for locale de-DE [resource-no-translation]")
	assert.Contains(t, out, "I18N Score (0-100):")

	code, _, _ = run(t, "--color", "off", "lint", dir, "--max-warnings", "1")
	assert.Equal(t, driver.ExitOK, code)

	code, out, _ = run(t, "--color", "off", "--quiet", "lint", dir, "--errors-only")
	assert.Equal(t, driver.ExitOK, code)
	assert.Empty(t, out)
}

func TestLintConfigurationFailures(t *testing.T) {
	dir := projectDir(t, map[string]string{"de-DE.xliff": untranslated})
	code, _, errOut := run(t, "--color", "off", "lint", dir, "--format", "nope")
	assert.Equal(t, driver.ExitConfig, code)
	assert.Contains(t, errOut, "unknown formatter")

	code, _, _ = run(t, "--color", "off", "lint", dir, "--locales", "not a locale!")
	assert.Equal(t, driver.ExitConfig, code)

	bad := projectDir(t, map[string]string{
		"ilint.toml": "[fileTypes.strings]\ntype = \"resource\"\nruleSets = [\"missing\"]\n",
	})
	code, _, errOut = run(t, "--color", "off", "lint", bad)
	assert.Equal(t, driver.ExitConfig, code)
	assert.Contains(t, errOut, "missing")
}

func TestLintFixWritesFiles(t *testing.T) {
	dir := projectDir(t, map[string]string{"de-DE.xliff": wideSpaced})

	code, out, _ := run(t, "--color", "off", "lint", dir, "--fix", "--format", "json")
	assert.Equal(t, driver.ExitOK, code)
	assert.Contains(t, out, `"fixed":true`)
	assert.Contains(t, out, `"score":100`)

	data, err := os.ReadFile(filepath.Join(dir, "de-DE.xliff"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Hallo Welt")
}

func TestLintBaseline(t *testing.T) {
	dir := projectDir(t, map[string]string{"de-DE.xliff": untranslated})
	base := filepath.Join(t.TempDir(), "baseline.mp")

	code, _, errOut := run(t, "--color", "off", "lint", dir, "--write-baseline", base)
	assert.Equal(t, driver.ExitOK, code)
	assert.Contains(t, errOut, "recorded 1 findings")

	code, out, _ := run(t, "--color", "off", "lint", dir, "--baseline", base, "--format", "short")
	assert.Equal(t, driver.ExitOK, code)
	assert.NotContains(t, out, "resource-no-translation")

	code, _, _ = run(t, "--color", "off", "lint", dir, "--baseline", filepath.Join(dir, "nope.mp"))
	assert.Equal(t, driver.ExitConfig, code)
}

func TestRulesCommand(t *testing.T) {
	code, out, _ := run(t, "rules", t.TempDir())
	assert.Equal(t, driver.ExitOK, code)
	for _, want := range []string{"resource-unique-keys", "source-no-normalize", "Rule sets:", "generic:", "xliff (xliff", "ansi-console"} {
		assert.Contains(t, out, want)
	}
}

func TestProfilingFlags(t *testing.T) {
	dir := projectDir(t, map[string]string{"de-DE.xliff": untranslated})
	cpu := filepath.Join(t.TempDir(), "cpu.pprof")

	code, _, _ := run(t, "--color", "off", "--cpu-profile", cpu, "lint", dir)
	assert.Equal(t, driver.ExitWarnings, code)
	_, err := os.Stat(cpu)
	assert.NoError(t, err)
}
