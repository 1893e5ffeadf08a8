package token

import "strings"

// Kind tags a token. Bare tokens use their literal text as kind.
type Kind string

const (
	OpenTag       Kind = "OPEN_TAG"       // <?php
	CloseTag      Kind = "CLOSE_TAG"      // ?>
	Whitespace    Kind = "WHITESPACE"     // spaces, tabs, newlines
	Comment       Kind = "COMMENT"        // // ..., # ..., /* ... */
	DocComment    Kind = "DOC_COMMENT"    // /** ... */
	Ident         Kind = "IDENT"          // Foo, bar
	QualifiedName Kind = "NAME_QUALIFIED" // \Foo\Bar, Foo\Bar
	Variable      Kind = "VARIABLE"       // $foo
	Number        Kind = "NUMBER"         // 42, 3.14
	String        Kind = "STRING"         // 'x', "y"
	Raw           Kind = "RAW"            // unclassified fragment awaiting re-lex

	Class      Kind = "CLASS"
	Interface  Kind = "INTERFACE"
	Trait      Kind = "TRAIT"
	Extends    Kind = "EXTENDS"
	Implements Kind = "IMPLEMENTS"
	Function   Kind = "FUNCTION"
	Abstract   Kind = "ABSTRACT"
	Final      Kind = "FINAL"
	Readonly   Kind = "READONLY"
	Public     Kind = "PUBLIC"
	Protected  Kind = "PROTECTED"
	Private    Kind = "PRIVATE"
	Static     Kind = "STATIC"
	Namespace  Kind = "NAMESPACE"
	Use        Kind = "USE"
	Return     Kind = "RETURN"
	New        Kind = "NEW"
	Const      Kind = "CONST"

	LBrace    Kind = "{"
	RBrace    Kind = "}"
	LParen    Kind = "("
	RParen    Kind = ")"
	Comma     Kind = ","
	Semicolon Kind = ";"
)

// Keywords maps lower-cased keyword text to its kind.
var Keywords = map[string]Kind{
	"class":      Class,
	"interface":  Interface,
	"trait":      Trait,
	"extends":    Extends,
	"implements": Implements,
	"function":   Function,
	"abstract":   Abstract,
	"final":      Final,
	"readonly":   Readonly,
	"public":     Public,
	"protected":  Protected,
	"private":    Private,
	"static":     Static,
	"namespace":  Namespace,
	"use":        Use,
	"return":     Return,
	"new":        New,
	"const":      Const,
}

// Token is a single lexical unit. Tokens are values and never mutated in place.
type Token struct {
	Kind Kind
	Text string
}

// Bare returns a token whose kind equals its text, e.g. "{" or ",".
func Bare(text string) Token {
	return Token{Kind: Kind(text), Text: text}
}

// RawText returns an unclassified piece of source text. It is only meaningful as
// mutation content; the next re-lex replaces it with real tokens.
func RawText(text string) Token {
	return Token{Kind: Raw, Text: text}
}

// IsBare reports whether the token kind equals its text.
func (t Token) IsBare() bool {
	return string(t.Kind) == t.Text
}

// Matches reports whether the token kind or literal text equals any target.
func (t Token) Matches(targets ...Kind) bool {
	for _, target := range targets {
		if t.Kind == target || t.Text == string(target) {
			return true
		}
	}
	return false
}

func (t Token) String() string {
	if t.IsBare() {
		return t.Text
	}
	return string(t.Kind) + "(" + t.Text + ")"
}

// Render concatenates the literal text of tokens in order.
func Render(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteString(tok.Text)
	}
	return sb.String()
}

// Texts returns the literal text of each token.
func Texts(tokens []Token) []string {
	texts := make([]string, len(tokens))
	for i, tok := range tokens {
		texts[i] = tok.Text
	}
	return texts
}

// Clone returns an independent copy of tokens.
func Clone(tokens []Token) []Token {
	if tokens == nil {
		return nil
	}
	out := make([]Token, len(tokens))
	copy(out, tokens)
	return out
}
