package surgeon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const withMethod = "class Foo extends Base { function bar(){ return 1; } }"

func TestName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"fragment", "class Foo { }", "Foo"},
		{"open tag", "<?php\nnamespace App;\n\nfinal class Foo extends Base {}\n", "Foo"},
		{"doc comment", "/** class Nope */\nabstract class Foo {}", "Foo"},
		{"mixed case keyword", "Class Foo {}", "Foo"},
		{"non-ascii", "<?php\nclass Föo { }", "Föo"},
		{"after a class constant", "<?php\n$map = [Bar::class];\nregister($map);\nclass Foo { }\n", "Foo"},
		{"after an anonymous class", "<?php\n$x = new class { };\nclass Foo { }\n", "Foo"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := New(tt.input).Name()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNameNotFound(t *testing.T) {
	t.Parallel()

	_, err := New("<?php echo 1;").Name()
	assert.ErrorIs(t, err, ErrClassNotFound)

	_, err = New("<?php $x = new class(1) extends Base {};").Name()
	assert.ErrorIs(t, err, ErrClassNotFound)

	c := New("<?php echo 1;")
	c.SetFile("src/Foo.php")
	_, err = c.Name()
	assert.ErrorIs(t, err, ErrClassNotFound)
	assert.Contains(t, err.Error(), "src/Foo.php")
}

func TestBase(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		input  string
		want   string
		wantOk bool
	}{
		{"simple", "class Foo extends Base { }", "Base", true},
		{"qualified", "class Foo extends \\App\\Base implements I {}", "\\App\\Base", true},
		{"none", "class Foo implements I { }", "", false},
		{"extends only inside the body", "class Foo { function f() { $x = 'extends'; } }", "", false},
		{"no class", "<?php echo 1;", "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok, err := New(tt.input).Base()
			require.NoError(t, err)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterfaces(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"none", "class Foo { }", []string{}},
		{"one", "class Foo implements A { }", []string{"A"}},
		{"several", "class Foo implements A, \\B\\C ,D {}", []string{"A", "\\B\\C", "D"}},
		{"after extends with comments", "class Foo extends Base implements A /* x */, B {}", []string{"A", "B"}},
		{"multiline", "class Foo implements\n    A,\n    B\n{\n}", []string{"A", "B"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := New(tt.input).Interfaces()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRename(t *testing.T) {
	t.Parallel()

	c := New("class Foo { }")
	require.NoError(t, c.Rename("Bar"))
	assert.Equal(t, "class Bar { }", c.Code())

	name, err := c.Name()
	require.NoError(t, err)
	assert.Equal(t, "Bar", name)

	c = New("<?php\n\nfinal class Foo extends Foo2 {}\n")
	require.NoError(t, c.Rename("Renamed"))
	assert.Equal(t, "<?php\n\nfinal class Renamed extends Foo2 {}\n", c.Code())

	err = New("<?php echo 1;").Rename("Bar")
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestRenameNonASCII(t *testing.T) {
	t.Parallel()

	c := New("<?php\nclass Föo extends Bäse { }")
	require.NoError(t, c.Rename("Bar"))
	assert.Equal(t, "<?php\nclass Bar extends Bäse { }", c.Code())

	base, ok, err := c.Base()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Bäse", base)
}

func TestEditsSkipClassExpressions(t *testing.T) {
	t.Parallel()
	const (
		constant  = "<?php\n$map = [Bar::class];\nregister($map);\nclass Foo { }\n"
		anonymous = "<?php\n$x = new class(1) extends A implements I { };\nfinal class Foo extends B implements J { }\n"
	)

	c := New(constant)
	require.NoError(t, c.Rename("Baz"))
	assert.Equal(t, "<?php\n$map = [Bar::class];\nregister($map);\nclass Baz { }\n", c.Code())

	c = New(constant)
	require.NoError(t, c.SetBase("Model"))
	assert.Equal(t, "<?php\n$map = [Bar::class];\nregister($map);\nclass Foo extends Model { }\n", c.Code())

	c = New(anonymous)
	base, ok, err := c.Base()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "B", base)

	ifaces, err := c.Interfaces()
	require.NoError(t, err)
	assert.Equal(t, []string{"J"}, ifaces)

	require.NoError(t, c.SetBase("C"))
	require.NoError(t, c.AddInterfaces("K"))
	assert.Equal(t, "<?php\n$x = new class(1) extends A implements I { };\nfinal class Foo extends C implements J, K { }\n", c.Code())
}

func TestSetBase(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"add", "class Foo { }", "class Foo extends Base { }"},
		{"add without space", "class Foo{}", "class Foo extends Base {}"},
		{"add before implements", "class Foo implements I { }", "class Foo extends Base implements I { }"},
		{"replace", "class Foo extends Old implements I { }", "class Foo extends Base implements I { }"},
		{"replace qualified", "class Foo extends \\App\\Old {}", "class Foo extends Base {}"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := New(tt.input)
			require.NoError(t, c.SetBase("Base"))
			assert.Equal(t, tt.want, c.Code())

			base, ok, err := c.Base()
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "Base", base)
		})
	}

	assert.ErrorIs(t, New("<?php echo 1;").SetBase("Base"), ErrClassNotFound)
}

func TestAddInterfaces(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		add   []string
		want  string
	}{
		{"append", "class Foo implements A { }", []string{"B"}, "class Foo implements A, B { }"},
		{"first", "class Foo { }", []string{"A", "B"}, "class Foo implements A, B { }"},
		{"first without space", "class Foo{}", []string{"A"}, "class Foo implements A{}"},
		{"after extends", "class Foo extends Base { }", []string{"A"}, "class Foo extends Base implements A { }"},
		{"duplicates", "class Foo implements A { }", []string{"B", "A", "B"}, "class Foo implements A, B { }"},
		{"already present", "class Foo implements A, B { }", []string{"A"}, "class Foo implements A, B { }"},
		{"nothing", "class Foo { }", nil, "class Foo { }"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := New(tt.input)
			require.NoError(t, c.AddInterfaces(tt.add...))
			assert.Equal(t, tt.want, c.Code())
		})
	}
}

func TestAddInterfacesIdempotent(t *testing.T) {
	t.Parallel()
	c := New("class Foo extends Base implements A {\n}")

	require.NoError(t, c.AddInterfaces("B"))
	once := c.Code()
	require.NoError(t, c.AddInterfaces("B"))
	assert.Equal(t, once, c.Code())

	got, err := c.Interfaces()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, got)
}

func TestDeclaration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		input       string
		withLeading bool
		want        string
	}{
		{
			name:  "modifiers and doc comment",
			input: "/** doc */\nfinal class Foo extends Base implements I {\n}",
			want:  "/** doc */\nfinal class Foo extends Base implements I ",
		},
		{
			name:  "stops at statements",
			input: "<?php\nnamespace App;\n\nabstract class Foo {}",
			want:  "\n\nabstract class Foo ",
		},
		{
			name:        "leading fragment",
			input:       "namespace App;\n\nclass Foo {}",
			withLeading: true,
			want:        "namespace App;\n\nclass Foo ",
		},
		{
			name:        "leading after open tag",
			input:       "<?php\nnamespace App;\n\nclass Foo {}",
			withLeading: true,
			want:        "\nnamespace App;\n\nclass Foo ",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := New(tt.input).Declaration(tt.withLeading)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := New("<?php echo 1;").Declaration(false)
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestBody(t *testing.T) {
	t.Parallel()
	got, err := New(withMethod).Body()
	require.NoError(t, err)
	assert.Equal(t, " function bar(){ return 1; } ", got)
}

func TestMethodBody(t *testing.T) {
	t.Parallel()
	const closures = "class Foo { function a() { $f = function () { return 1; }; } function b() { return 2; } }"
	const reserved = "class Foo { public static function new() { return new static(); } function use() { x(); } }"
	tests := []struct {
		name   string
		input  string
		method string
		want   string
	}{
		{"simple", withMethod, "bar", " return 1; "},
		{"empty", "class Foo { function a() {} function b() { return 2; } }", "a", ""},
		{"second", "class Foo { function a() {} function b() { return 2; } }", "b", " return 2; "},
		{"nested braces", closures, "a", " $f = function () { return 1; }; "},
		{"after a closure", closures, "b", " return 2; "},
		{"skips abstract", "abstract class Foo { abstract function a(); function a2() { x(); } }", "a2", " x(); "},
		{"reserved word", reserved, "new", " return new static(); "},
		{"reserved word after another", reserved, "use", " x(); "},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := New(tt.input).MethodBody(tt.method)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMethodBodyNotFound(t *testing.T) {
	t.Parallel()

	_, err := New(withMethod).MethodBody("missing")
	assert.ErrorIs(t, err, ErrMethodNotFound)

	_, err = New("abstract class Foo { abstract function a(); }").MethodBody("a")
	assert.ErrorIs(t, err, ErrMethodNotFound)

	_, err = New("<?php function bar() {}").MethodBody("bar")
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestWrapMethod(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		input  string
		top    string
		bottom string
		want   string
	}{
		{
			name:   "both",
			input:  withMethod,
			top:    " echo 'in';",
			bottom: "echo 'out'; ",
			want:   "class Foo extends Base { function bar(){ echo 'in'; return 1; echo 'out'; } }",
		},
		{
			name:  "top only",
			input: withMethod,
			top:   " start();",
			want:  "class Foo extends Base { function bar(){ start(); return 1; } }",
		},
		{
			name:   "bottom only",
			input:  withMethod,
			bottom: "stop(); ",
			want:   "class Foo extends Base { function bar(){ return 1; stop(); } }",
		},
		{
			name:   "empty body",
			input:  "class Foo { function bar() {} }",
			top:    "x();",
			bottom: "y();",
			want:   "class Foo { function bar() {x();y();} }",
		},
		{
			name:   "nested braces",
			input:  "class Foo { function bar() { if ($x) { return; } } }",
			bottom: "done(); ",
			want:   "class Foo { function bar() { if ($x) { return; } done(); } }",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := New(tt.input)
			require.NoError(t, c.WrapMethod("bar", tt.top, tt.bottom))
			assert.Equal(t, tt.want, c.Code())
		})
	}
}

func TestWrapMethodNotFound(t *testing.T) {
	t.Parallel()
	c := New(withMethod)

	err := c.WrapMethod("missing", "a();", "b();")
	assert.ErrorIs(t, err, ErrMethodNotFound)
	assert.Equal(t, withMethod, c.Code())
}

func TestCodeKeepsFragments(t *testing.T) {
	t.Parallel()
	for _, src := range []string{"", "class Foo {}", "  class Foo {}\n", "<?php class Foo {}"} {
		assert.Equal(t, src, New(src).Code())
	}
}

func TestFileBinding(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.php")
	require.NoError(t, os.WriteFile(path, []byte("<?php\n\nclass Foo {\n}\n"), 0o644))

	c, err := FromFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.File())

	require.NoError(t, c.Rename("Bar"))
	require.NoError(t, c.AddInterfaces("Countable"))
	require.NoError(t, c.Save())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<?php\n\nclass Bar implements Countable {\n}\n", string(content))

	_, err = FromFile(filepath.Join(dir, "missing.php"))
	assert.Error(t, err)
}

func TestSaveFragment(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "fragment.php")

	c := New("class Foo {}")
	assert.ErrorIs(t, c.Save(), ErrNoFile)

	c.SetFile(path)
	require.NoError(t, c.SetBase("Base"))
	require.NoError(t, c.Save())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "class Foo extends Base {}", string(content))
}

func TestWithLogger(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.DebugLevel)
	c := New("class Foo {}", WithLogger(zap.New(core)))

	_, err := c.Name()
	require.NoError(t, err)
	assert.NotZero(t, logs.FilterMessage("instruction executed").Len())
}
