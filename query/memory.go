package query

import "fmt"

// remember stores the cursor under alias, or pushes it when alias is empty.
func (s *state) remember(alias string) {
	if alias == "" {
		s.stack = append(s.stack, s.pos)
		return
	}
	s.positions[alias] = s.pos
}

// restore moves the cursor to a remembered position.
func (s *state) restore(alias string) error {
	var (
		pos int
		err error
	)
	if alias == "" {
		pos, err = s.pop()
	} else {
		pos, err = s.lookup(alias)
	}
	if err != nil {
		return err
	}
	s.pos = pos
	return nil
}

func (s *state) lookup(alias string) (int, error) {
	pos, ok := s.positions[alias]
	if !ok {
		return 0, fmt.Errorf("%w: position %q", ErrUnknownAlias, alias)
	}
	return pos, nil
}

func (s *state) pop() (int, error) {
	n := len(s.stack)
	if n == 0 {
		return 0, fmt.Errorf("%w: positions", ErrEmptyStack)
	}
	pos := s.stack[n-1]
	s.stack = s.stack[:n-1]
	return pos, nil
}

// rememberResult stores the current result, including a miss.
func (s *state) rememberResult(alias string) {
	if alias == "" {
		s.resultStack = append(s.resultStack, s.result)
		return
	}
	s.results[alias] = s.result
}

// restoreResult makes a remembered result current again.
func (s *state) restoreResult(alias string) error {
	if alias == "" {
		n := len(s.resultStack)
		if n == 0 {
			return fmt.Errorf("%w: results", ErrEmptyStack)
		}
		s.result = s.resultStack[n-1]
		s.resultStack = s.resultStack[:n-1]
		return nil
	}
	m, ok := s.results[alias]
	if !ok {
		return fmt.Errorf("%w: result %q", ErrUnknownAlias, alias)
	}
	s.result = m
	return nil
}

// forgetPositions drops every saved position; indices are stale after a mutation.
func (s *state) forgetPositions() {
	clear(s.positions)
	s.stack = nil
}
