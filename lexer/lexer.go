// Package lexer tokenizes PHP-style class source into a flat token sequence.
//
// The rule table is compiled once into a lexmachine DFA and shared by every
// caller. Every byte of the input ends up in exactly one token, so
// token.Render(Tokenize(src)) == src for any input.
package lexer

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/gnolang/surgeon/token"
)

// ErrCompile reports a broken rule table.
var ErrCompile = errors.New("lexer: failed to compile rules")

// labelPattern matches a PHP label. Bytes 0x80-0xff count as name
// characters, so UTF-8 names lex as one token. lexmachine has no \x escapes;
// the range is written as raw bytes.
const labelPattern = "[a-zA-Z_\x80-\xff][a-zA-Z0-9_\x80-\xff]*"

// Rules are tried longest-match first; on equal length the earlier rule wins.
var rules = []struct {
	kind    token.Kind
	pattern string
}{
	{token.OpenTag, `<\?php`},
	{token.CloseTag, `\?>`},
	{token.DocComment, `/\*\*([^*]|\r|\n|(\*+([^*/]|\r|\n)))*\*+/`},
	{token.Comment, `/\*([^*]|\r|\n|(\*+([^*/]|\r|\n)))*\*+/`},
	{token.Comment, `//[^\n]*`},
	{token.Comment, `#[^\n]*`},
	{token.Whitespace, `( |\t|\r|\n)+`},
	{token.Variable, `\$` + labelPattern},
	{token.QualifiedName, `\\?` + labelPattern + `(\\` + labelPattern + `)+`},
	{token.QualifiedName, `\\` + labelPattern},
	{token.Ident, labelPattern},
	{token.Number, `[0-9]+(\.[0-9]+)?`},
	{token.String, `'([^'\\]|\r|\n|\\(.|\r|\n))*'`},
	{token.String, `"([^"\\]|\r|\n|\\(.|\r|\n))*"`},
}

// operators are lexed as bare tokens so that kind == text.
var operators = []string{
	`->`, `::`, `=>`, `\?\?`, `===`, `!==`, `==`, `!=`, `<=`, `>=`,
	`&&`, `\|\|`, `\+\+`, `--`, `\.=`, `\+=`, `-=`,
}

var compiled = sync.OnceValues(func() (*lexmachine.Lexer, error) {
	lx := lexmachine.NewLexer()
	for _, rule := range rules {
		kind := rule.kind
		lx.Add([]byte(rule.pattern), func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
			text := string(m.Bytes)
			if kind == token.Ident {
				if kw, ok := token.Keywords[strings.ToLower(text)]; ok {
					return token.Token{Kind: kw, Text: text}, nil
				}
			}
			return token.Token{Kind: kind, Text: text}, nil
		})
	}
	for _, op := range operators {
		lx.Add([]byte(op), bare)
	}
	// anything else is a single bare character
	lx.Add([]byte(`.`), bare)

	if err := lx.Compile(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompile, err)
	}
	return lx, nil
})

func bare(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	return token.Bare(string(m.Bytes)), nil
}

// PHP is the tokenizer adapter for PHP-style class source. The zero value is
// ready to use and safe for concurrent use.
type PHP struct{}

// New returns a PHP tokenizer.
func New() PHP {
	return PHP{}
}

// Tokenize splits text into tokens. Input the rules cannot classify is kept
// as bare tokens rather than dropped.
func (PHP) Tokenize(text string) ([]token.Token, error) {
	lx, err := compiled()
	if err != nil {
		return nil, err
	}

	src := []byte(text)
	scanner, err := lx.Scanner(src)
	if err != nil {
		return nil, fmt.Errorf("lexer: %w", err)
	}

	var (
		tokens []token.Token
		prev   token.Token
	)
	for tok, err, eos := scanner.Next(); !eos; tok, err, eos = scanner.Next() {
		if ui, ok := err.(*machines.UnconsumedInput); ok {
			end := ui.FailTC
			if end <= ui.StartTC {
				end = ui.StartTC + 1
			}
			if end > len(src) {
				end = len(src)
			}
			prev = token.Bare(string(src[ui.StartTC:end]))
			tokens = append(tokens, prev)
			scanner.TC = end
			continue
		} else if err != nil {
			return nil, fmt.Errorf("lexer: %w", err)
		}
		t := tok.(token.Token)
		// Foo::class is a constant fetch, not a declaration
		if t.Kind == token.Class && prev.Kind == "::" {
			t.Kind = token.Ident
		}
		tokens = append(tokens, t)
		if !t.Matches(token.Whitespace, token.Comment, token.DocComment) {
			prev = t
		}
	}
	return tokens, nil
}
