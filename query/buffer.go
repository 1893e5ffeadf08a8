package query

import (
	"github.com/gnolang/surgeon/token"
)

// Lexer converts raw text into tokens. Rendering the result with
// token.Render must reproduce the input exactly.
type Lexer interface {
	Tokenize(text string) ([]token.Token, error)
}

// buffer owns the token sequence and its parallel nesting index.
// levels is always rebuilt together with tokens, never patched.
type buffer struct {
	tokens []token.Token
	levels []int
}

func newBuffer(tokens []token.Token) *buffer {
	b := &buffer{}
	b.rebuild(tokens)
	return b
}

// rebuild replaces the buffer wholesale and recomputes the nesting index.
func (b *buffer) rebuild(tokens []token.Token) {
	b.tokens = tokens
	b.levels = nestingLevels(tokens)
}

// relex renders tokens, tokenizes the text again and rebuilds from the result.
func (b *buffer) relex(lx Lexer, tokens []token.Token) error {
	fresh, err := lx.Tokenize(token.Render(tokens))
	if err != nil {
		return err
	}
	b.rebuild(fresh)
	return nil
}

func (b *buffer) len() int { return len(b.tokens) }

func (b *buffer) at(i int) token.Token { return b.tokens[i] }

func (b *buffer) levelAt(i int) int { return b.levels[i] }

func (b *buffer) inRange(i int) bool { return i >= 0 && i < len(b.tokens) }

func (b *buffer) clone() *buffer {
	levels := make([]int, len(b.levels))
	copy(levels, b.levels)
	return &buffer{
		tokens: token.Clone(b.tokens),
		levels: levels,
	}
}

// nestingLevels counts unmatched open braces before each position.
// A closing brace is counted at its own position, an opening brace only
// from the position after it, so both braces of a pair share one level.
func nestingLevels(tokens []token.Token) []int {
	levels := make([]int, len(tokens))
	level := 0
	opened := false
	for i, tok := range tokens {
		if tok.Kind == token.RBrace {
			level--
		}
		if opened {
			level++
		}
		opened = tok.Kind == token.LBrace
		levels[i] = level
	}
	return levels
}
