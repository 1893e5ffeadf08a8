package query

import "errors"

// Errors surfaced through Walker.Err. They indicate misuse of the walker
// rather than a lookup miss; a seek that finds nothing is not an error.
var (
	// ErrUnknownAlias indicates a position or result alias that was never remembered.
	ErrUnknownAlias = errors.New("unknown alias")

	// ErrEmptyStack indicates a restore from an empty anonymous stack.
	ErrEmptyStack = errors.New("anonymous stack is empty")

	// ErrOutOfRange indicates a position outside the token buffer.
	ErrOutOfRange = errors.New("position out of range")

	// ErrRangeInvalid indicates a region whose start lies past its end.
	ErrRangeInvalid = errors.New("invalid range")

	// ErrLex indicates the lexer rejected the text produced by a mutation.
	ErrLex = errors.New("re-lex failed")

	// ErrDanglingConstraint indicates a constraint added with no instruction
	// or constraint group to attach to.
	ErrDanglingConstraint = errors.New("constraint without instruction or group")
)
