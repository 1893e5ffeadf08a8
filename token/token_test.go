package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenMatches(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		tok     Token
		targets []Kind
		want    bool
	}{
		{"kind", Token{Kind: Ident, Text: "Foo"}, []Kind{Ident}, true},
		{"text", Token{Kind: Ident, Text: "Foo"}, []Kind{"Foo"}, true},
		{"bare", Bare("{"), []Kind{LBrace}, true},
		{"any of several", Token{Kind: Implements, Text: "implements"}, []Kind{LBrace, Implements}, true},
		{"no match", Token{Kind: Ident, Text: "Foo"}, []Kind{Class, "Bar"}, false},
		{"no targets", Bare(";"), nil, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.tok.Matches(tt.targets...))
		})
	}
}

func TestBareAndRaw(t *testing.T) {
	t.Parallel()
	assert.True(t, Bare(",").IsBare())
	assert.False(t, Token{Kind: Ident, Text: "x"}.IsBare())

	raw := RawText(" extends Base")
	assert.Equal(t, Raw, raw.Kind)
	assert.Equal(t, " extends Base", raw.Text)
}

func TestRenderAndTexts(t *testing.T) {
	t.Parallel()
	tokens := []Token{
		{Kind: Class, Text: "class"},
		{Kind: Whitespace, Text: " "},
		{Kind: Ident, Text: "Foo"},
		{Kind: Whitespace, Text: " "},
		Bare("{"),
		Bare("}"),
	}

	assert.Equal(t, "class Foo {}", Render(tokens))
	assert.Equal(t, []string{"class", " ", "Foo", " ", "{", "}"}, Texts(tokens))
	assert.Equal(t, "", Render(nil))
}

func TestClone(t *testing.T) {
	t.Parallel()
	src := []Token{Bare("{"), Bare("}")}
	dup := Clone(src)
	dup[0] = Bare(";")

	assert.Equal(t, LBrace, src[0].Kind)
	assert.Nil(t, Clone(nil))
}

func TestString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "{", Bare("{").String())
	assert.Equal(t, "IDENT(Foo)", Token{Kind: Ident, Text: "Foo"}.String())
}
