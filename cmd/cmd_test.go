package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/surgeon/formatter"
	"github.com/gnolang/surgeon/recipe"
)

const fooSource = `<?php

class Foo extends Base {
    public function handle() {
        return 1;
    }
}
`

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// run executes the root command with fresh flag values. Commands share
// package-level flag variables, so these tests must not run in parallel.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile, timeout, verbose = "", defaultTimeout, false
	dryRun, inspectJsonOutput = false, false
	newName, baseName, methodName, topCode, bottomCode = "", "", "", "", ""
	interfaces = nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readSource(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestRenameCommand(t *testing.T) {
	path := writeSource(t, t.TempDir(), "Foo.php", fooSource)

	out, err := run(t, "rename", "--to", "Bar", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Updated "+path)
	assert.Contains(t, readSource(t, path), "class Bar extends Base {")
}

func TestRenameDryRun(t *testing.T) {
	path := writeSource(t, t.TempDir(), "Foo.php", fooSource)

	out, err := run(t, "rename", "--dry-run", "--to", "Bar", path)
	require.NoError(t, err)
	assert.Contains(t, out, "-class Foo extends Base {")
	assert.Contains(t, out, "+class Bar extends Base {")
	assert.Equal(t, fooSource, readSource(t, path))
}

func TestExtendAndImplementCommands(t *testing.T) {
	path := writeSource(t, t.TempDir(), "Foo.php", fooSource)

	_, err := run(t, "extend", "--base", "Model", path)
	require.NoError(t, err)
	_, err = run(t, "implement", "--iface", "Countable,Stringable", path)
	require.NoError(t, err)

	assert.Contains(t, readSource(t, path), "class Foo extends Model implements Countable, Stringable {")
}

func TestMethodCommand(t *testing.T) {
	path := writeSource(t, t.TempDir(), "Foo.php", fooSource)

	out, err := run(t, "method", "--name", "handle", path)
	require.NoError(t, err)
	assert.Equal(t, "\n        return 1;\n    \n", out)

	_, err = run(t, "method", "--name", "missing", path)
	assert.Error(t, err)
}

func TestWrapCommand(t *testing.T) {
	path := writeSource(t, t.TempDir(), "Foo.php", fooSource)

	_, err := run(t, "wrap", "--name", "handle", "--top", " $this->begin();", "--bottom", "$this->end();", path)
	require.NoError(t, err)
	assert.Contains(t, readSource(t, path), "public function handle() { $this->begin();\n        return 1;\n    $this->end();}")
}

func TestInspectCommand(t *testing.T) {
	dir := t.TempDir()
	foo := writeSource(t, dir, "Foo.php", fooSource)
	bar := writeSource(t, dir, "Bar.php", "<?php\nfinal class Bar implements A, B {}\n")

	out, err := run(t, "inspect", foo, bar)
	require.NoError(t, err)
	assert.Contains(t, out, "class: Foo\n --> "+foo+"\n  | extends    Base\n")
	assert.Contains(t, out, "class: Bar\n --> "+bar+"\n  | implements A, B\n")

	out, err = run(t, "inspect", "--json", foo, bar)
	require.NoError(t, err)

	var summaries []formatter.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	assert.Equal(t, []formatter.Summary{
		{File: foo, Class: "Foo", Base: "Base", Interfaces: []string{}},
		{File: bar, Class: "Bar", Interfaces: []string{"A", "B"}},
	}, summaries)
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipe.yaml")

	out, err := run(t, "init", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "Recipe file created: "+path+"\n", out)

	config, err := recipe.Load(path)
	require.NoError(t, err)
	require.Len(t, config.Edits, 1)
	assert.Equal(t, "Example", config.Edits[0].Class)

	_, err = run(t, "init", "--config", path)
	assert.Error(t, err)
}

func TestApplyCommand(t *testing.T) {
	dir := t.TempDir()
	foo := writeSource(t, dir, "Foo.php", fooSource)
	other := writeSource(t, dir, "Other.php", "<?php\nclass Other {}\n")
	writeSource(t, dir, "notes.txt", "class Foo {}")
	config := writeSource(t, t.TempDir(), "recipe.toml", `
[[edits]]
class = "Foo"
rename = "Bar"
implements = ["Countable"]
`)

	out, err := run(t, "apply", "--config", config, dir)
	require.NoError(t, err)
	assert.Contains(t, out, "edited: Foo\n --> "+foo+"\n  = rename Foo -> Bar\n  = implements Countable\n")
	assert.NotContains(t, out, other)
	assert.Contains(t, out, "1 edited")

	assert.Contains(t, readSource(t, foo), "class Bar extends Base implements Countable {")
	assert.Equal(t, "<?php\nclass Other {}\n", readSource(t, other))
	assert.Equal(t, "class Foo {}", readSource(t, filepath.Join(dir, "notes.txt")))
}

func TestApplyCommandFailure(t *testing.T) {
	foo := writeSource(t, t.TempDir(), "Foo.php", fooSource)
	config := writeSource(t, t.TempDir(), "recipe.yaml", `edits:
  - class: Foo
    rename: Bar
    wrap:
      - method: missing
        top: "x();"
`)

	out, err := run(t, "apply", "--config", config, foo)
	assert.ErrorIs(t, err, errFailedFiles)
	assert.Contains(t, out, "error: Foo")
	assert.Equal(t, fooSource, readSource(t, foo))
}
