package query

import (
	"cmp"
	"strconv"

	"github.com/gnolang/surgeon/token"
)

// Field selects what a constraint group inspects at a candidate position.
type Field int

const (
	FieldToken Field = iota // token kind
	FieldLevel              // nesting level
)

func (f Field) String() string {
	switch f {
	case FieldToken:
		return "token"
	case FieldLevel:
		return "level"
	default:
		return "unknown"
	}
}

type operator int

const (
	opEqual operator = iota
	opLess
	opLessOrEqual
	opGreaterOrEqual
	opGreater
	opIn
	opBetween
)

// Operand is a comparison value: either a token kind or a nesting level.
// Operands of different types never compare equal or ordered.
type Operand struct {
	kind    token.Kind
	level   int
	isLevel bool
}

// Kind wraps a token kind (or bare token text) as an operand.
func Kind(k token.Kind) Operand {
	return Operand{kind: k}
}

// Level wraps a nesting level as an operand.
func Level(n int) Operand {
	return Operand{level: n, isLevel: true}
}

func (o Operand) String() string {
	if o.isLevel {
		return "level " + strconv.Itoa(o.level)
	}
	return string(o.kind)
}

// compare orders two operands of the same type.
func (o Operand) compare(other Operand) (int, bool) {
	if o.isLevel != other.isLevel {
		return 0, false
	}
	if o.isLevel {
		return cmp.Compare(o.level, other.level), true
	}
	return cmp.Compare(o.kind, other.kind), true
}

type rule struct {
	op   operator
	args []Operand
}

func (r rule) eval(v Operand) bool {
	switch r.op {
	case opEqual:
		c, ok := v.compare(r.args[0])
		return ok && c == 0
	case opLess:
		c, ok := v.compare(r.args[0])
		return ok && c < 0
	case opLessOrEqual:
		c, ok := v.compare(r.args[0])
		return ok && c <= 0
	case opGreaterOrEqual:
		c, ok := v.compare(r.args[0])
		return ok && c >= 0
	case opGreater:
		c, ok := v.compare(r.args[0])
		return ok && c > 0
	case opIn:
		for _, arg := range r.args {
			if c, ok := v.compare(arg); ok && c == 0 {
				return true
			}
		}
		return false
	case opBetween:
		lo, okLo := v.compare(r.args[0])
		hi, okHi := v.compare(r.args[1])
		return okLo && okHi && lo >= 0 && hi <= 0
	default:
		return false
	}
}

// group is one constraint group: every allow rule must hold and every deny
// rule must fail for a position to pass.
type group struct {
	field Field
	allow []rule
	deny  []rule
}

func (g group) value(b *buffer, pos int) Operand {
	if g.field == FieldLevel {
		return Level(b.levelAt(pos))
	}
	return Kind(b.at(pos).Kind)
}

func (g group) passes(b *buffer, pos int) bool {
	v := g.value(b, pos)
	for _, r := range g.allow {
		if !r.eval(v) {
			return false
		}
	}
	for _, r := range g.deny {
		if r.eval(v) {
			return false
		}
	}
	return true
}

func (g group) clone() group {
	return group{
		field: g.field,
		allow: append([]rule(nil), g.allow...),
		deny:  append([]rule(nil), g.deny...),
	}
}

// passes reports whether pos lies inside the buffer and satisfies all groups.
func passes(b *buffer, pos int, groups []group) bool {
	if !b.inRange(pos) {
		return false
	}
	for _, g := range groups {
		if !g.passes(b, pos) {
			return false
		}
	}
	return true
}
