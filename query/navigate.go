package query

import (
	"fmt"

	"github.com/gnolang/surgeon/token"
)

// step moves the cursor by dir if the candidate position passes groups.
// It reports false, leaving the cursor untouched, otherwise.
func (s *state) step(dir int, groups []group) bool {
	next := s.pos + dir
	if !passes(s.buf, next, groups) {
		return false
	}
	s.pos = next
	return true
}

// advance steps while the constraints allow it. It never produces a result.
func (s *state) advance(dir int, groups []group) {
	for s.step(dir, groups) {
	}
	s.result = match{}
}

// seek steps until the token under the cursor matches one of targets.
// On a miss the cursor stays on the last position it reached.
func (s *state) seek(dir int, targets []token.Kind, groups []group) bool {
	for s.step(dir, groups) {
		if tok := s.buf.at(s.pos); tok.Matches(targets...) {
			s.result = match{tok: tok, ok: true}
			return true
		}
	}
	s.result = match{}
	return false
}

// jump repositions the cursor without consulting any constraint.
func (s *state) jump(b Bound) error {
	pos, err := s.resolve(b)
	if err != nil {
		return err
	}
	if !s.buf.inRange(pos) && !(pos == 0 && s.buf.len() == 0) {
		return fmt.Errorf("%w: jump to %d in %d tokens", ErrOutOfRange, pos, s.buf.len())
	}
	s.pos = pos
	return nil
}

// resolve turns a bound into an absolute index. Only one source applies per
// bound: an explicit index, else an alias, else the anonymous stack, else
// the cursor.
func (s *state) resolve(b Bound) (int, error) {
	switch b.kind {
	case boundIndex:
		return b.index, nil
	case boundAlias:
		return s.lookup(b.alias)
	case boundSaved:
		return s.pop()
	default:
		return s.pos, nil
	}
}
