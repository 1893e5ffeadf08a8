package query

import "fmt"

type boundKind int

const (
	boundCurrent boundKind = iota
	boundIndex
	boundAlias
	boundSaved
)

// Bound names a buffer position for jumps and region operations.
// The zero value means the current cursor position.
type Bound struct {
	kind  boundKind
	index int
	alias string
}

// At is an explicit absolute index.
func At(i int) Bound {
	return Bound{kind: boundIndex, index: i}
}

// Alias is a position stored earlier with Remember(name).
func Alias(name string) Bound {
	return Bound{kind: boundAlias, alias: name}
}

// Saved pops the anonymous position stack.
func Saved() Bound {
	return Bound{kind: boundSaved}
}

// Here is the current cursor position.
func Here() Bound {
	return Bound{}
}

func (b Bound) String() string {
	switch b.kind {
	case boundIndex:
		return fmt.Sprintf("@%d", b.index)
	case boundAlias:
		return fmt.Sprintf("@%q", b.alias)
	case boundSaved:
		return "@saved"
	default:
		return "@here"
	}
}
