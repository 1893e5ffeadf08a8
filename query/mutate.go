package query

import (
	"fmt"

	"github.com/gnolang/surgeon/token"
)

// span resolves an inclusive region. to is resolved before from, so two
// Saved bounds pop the later remembered position into to. from == to+1
// denotes an empty region.
func (s *state) span(from, to Bound) (int, int, error) {
	end, err := s.resolve(to)
	if err != nil {
		return 0, 0, err
	}
	start, err := s.resolve(from)
	if err != nil {
		return 0, 0, err
	}

	n := s.buf.len()
	if start > end+1 {
		return 0, 0, fmt.Errorf("%w: [%d, %d]", ErrRangeInvalid, start, end)
	}
	if start < 0 || end >= n {
		return 0, 0, fmt.Errorf("%w: [%d, %d] in %d tokens", ErrOutOfRange, start, end, n)
	}
	return start, end, nil
}

// filter keeps only the positions that pass groups.
func (s *state) filter(groups []group) error {
	kept := make([]token.Token, 0, s.buf.len())
	for i := range s.buf.tokens {
		if passes(s.buf, i, groups) {
			kept = append(kept, s.buf.at(i))
		}
	}
	s.pos = 0
	return s.commit(kept)
}

// crop keeps only the inclusive region [from, to].
func (s *state) crop(from, to Bound) error {
	start, end, err := s.span(from, to)
	if err != nil {
		return err
	}
	kept := token.Clone(s.buf.tokens[start : end+1])
	s.pos = 0
	return s.commit(kept)
}

// cut removes [from, to] and keeps the removed tokens as the result.
func (s *state) cut(from, to Bound) error {
	start, end, err := s.span(from, to)
	if err != nil {
		return err
	}
	s.removed = token.Clone(s.buf.tokens[start : end+1])
	return s.commit(joinTokens(s.buf.tokens[:start], nil, s.buf.tokens[end+1:]))
}

// splice replaces [from, to] with content.
func (s *state) splice(from, to Bound, content []token.Token) error {
	start, end, err := s.span(from, to)
	if err != nil {
		return err
	}
	return s.commit(joinTokens(s.buf.tokens[:start], content, s.buf.tokens[end+1:]))
}

// insert places content before the token at at. Inserting at the buffer
// length appends.
func (s *state) insert(at Bound, content []token.Token) error {
	pos, err := s.resolve(at)
	if err != nil {
		return err
	}
	if pos < 0 || pos > s.buf.len() {
		return fmt.Errorf("%w: insert at %d in %d tokens", ErrOutOfRange, pos, s.buf.len())
	}
	return s.commit(joinTokens(s.buf.tokens[:pos], content, s.buf.tokens[pos:]))
}

// replaceAll substitutes every token matching target with replacement text.
func (s *state) replaceAll(target token.Kind, replacement string) error {
	out := token.Clone(s.buf.tokens)
	count := 0
	for i, tok := range out {
		if tok.Matches(target) {
			out[i] = token.RawText(replacement)
			count++
		}
	}
	s.replaced = count
	return s.commit(out)
}

// commit re-lexes the rendered tokens and rebuilds the buffer and index.
// Saved positions are dropped and the cursor is clamped into the new buffer.
func (s *state) commit(tokens []token.Token) error {
	if err := s.buf.relex(s.lexer, tokens); err != nil {
		return fmt.Errorf("%w: %v", ErrLex, err)
	}
	s.forgetPositions()
	if last := s.buf.len() - 1; s.pos > last {
		s.pos = max(last, 0)
	}
	return nil
}

func joinTokens(parts ...[]token.Token) []token.Token {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]token.Token, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
