/*
Package query implements a lazy, cursor-based query and mutation engine over
a flat token sequence.

# Overview

A Walker owns a token buffer, a parallel nesting-level index and a cursor.
Callers chain fluent calls that describe navigation, memory and edits; those
calls only queue instructions. The queue is drained, in order, the moment any
state is read (Position, Current, Result, Text, Tokens, Err, ...).

	w, err := query.New(lexer.New(), "class Foo extends Base { }")
	if err != nil {
		return err
	}

	base, ok := w.GoFor(token.Class).
		Then().GoFor(token.Extends).StopBefore(query.FieldToken).Equal(query.Kind(token.LBrace)).
		Then().GoFor(token.Ident).
		Result()

# Navigation

GoFor and GoBackFor seek one position at a time until the token under the
cursor matches one of the targets by kind or literal text. GoForward and
GoBackward keep stepping for as long as the attached constraints allow. A step
that would leave the buffer or violate a constraint is refused; the seek then
ends with a miss and the cursor stays where it was. JumpTo ignores constraints.

# Constraints

Constraint groups attach to the instruction under construction:

  - Keeping(field) opens a group whose rules must all hold.
  - StopBefore(field) opens a group whose rules must all fail.

The field is either FieldToken (token kind) or FieldLevel (nesting level).
Rules are Equal, LessThan, LessOrEqual, GreaterOrEqual, GreaterThan, In and
Between. Multiple groups on one instruction must all pass.

	// advance to the last token of the class header
	w.GoFor(token.Class).Then().GoForward().StopBefore(query.FieldToken).In(
		query.Kind(token.Implements), query.Kind(token.LBrace))

# Memory

Remember / Restore save and restore cursor positions, RememberResult /
RestoreResult do the same for seek results. An empty alias uses an anonymous
stack. Saved positions are forgotten after every mutation because absolute
indices no longer mean anything once the buffer changes.

# Mutation

Filter, Crop, Cut, Splice, Insert and ReplaceAll rewrite the buffer. Region
bounds are Bound values: At(i), Alias(name), Saved() or Here() (the zero
value). After every mutation the buffer is rendered to text and re-lexed in
full, and the nesting index is rebuilt, so the buffer never drifts from the
text it represents.

# Nesting levels

The level of a position is the number of unmatched "{" tokens before it. Both
braces of a pair sit on the outer level; everything between them is one level
deeper.

In "class Foo { function bar(){ return 1; } }" the class braces are on level 0,
the method braces on level 1 and "return 1;" on level 2.
*/
package query
