package query

import (
	"github.com/gnolang/surgeon/token"
)

// match is a remembered seek result; ok is false after a miss.
type match struct {
	tok token.Token
	ok  bool
}

// state is the mutable execution context the queued instructions run
// against. It is owned by exactly one Walker.
type state struct {
	buf   *buffer
	lexer Lexer
	pos   int

	result   match
	removed  []token.Token
	replaced int

	positions   map[string]int
	stack       []int
	results     map[string]match
	resultStack []match
}

func newState(lx Lexer, tokens []token.Token) *state {
	return &state{
		buf:       newBuffer(tokens),
		lexer:     lx,
		positions: make(map[string]int),
		results:   make(map[string]match),
	}
}

// clone deep-copies the buffer and every memory table.
func (s *state) clone() *state {
	positions := make(map[string]int, len(s.positions))
	for k, v := range s.positions {
		positions[k] = v
	}
	results := make(map[string]match, len(s.results))
	for k, v := range s.results {
		results[k] = v
	}
	return &state{
		buf:         s.buf.clone(),
		lexer:       s.lexer,
		pos:         s.pos,
		result:      s.result,
		removed:     token.Clone(s.removed),
		replaced:    s.replaced,
		positions:   positions,
		stack:       append([]int(nil), s.stack...),
		results:     results,
		resultStack: append([]match(nil), s.resultStack...),
	}
}

// run executes a single instruction.
func (s *state) run(ins instruction) error {
	switch ins.op {
	case opJump:
		return s.jump(ins.from)
	case opForward, opBackward:
		s.advance(ins.op.direction(), ins.groups)
		return nil
	case opSeekForward, opSeekBackward:
		s.seek(ins.op.direction(), ins.targets, ins.groups)
		return nil
	case opRemember:
		s.remember(ins.alias)
		return nil
	case opRestore:
		return s.restore(ins.alias)
	case opRememberResult:
		s.rememberResult(ins.alias)
		return nil
	case opRestoreResult:
		return s.restoreResult(ins.alias)
	case opFilter:
		return s.filter(ins.groups)
	case opCrop:
		return s.crop(ins.from, ins.to)
	case opCut:
		return s.cut(ins.from, ins.to)
	case opSplice:
		return s.splice(ins.from, ins.to, ins.content)
	case opInsert:
		return s.insert(ins.from, ins.content)
	case opReplace:
		return s.replaceAll(ins.match, ins.replace)
	default:
		panic("query: unhandled instruction " + ins.op.String())
	}
}
