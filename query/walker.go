package query

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gnolang/surgeon/token"
)

// Walker is the fluent facade over a token buffer. Builder calls only queue
// instructions; every read drains the queue first.
//
// A Walker is not safe for concurrent use. Clone it to explore alternatives.
type Walker struct {
	st *state

	queue   []instruction
	pending *instruction
	group   *group
	deny    bool

	err    error
	logger *zap.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger logs every executed instruction at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Walker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New tokenizes src with lx and returns a walker positioned at 0.
func New(lx Lexer, src string, opts ...Option) (*Walker, error) {
	tokens, err := lx.Tokenize(src)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	return FromTokens(lx, tokens, opts...), nil
}

// FromTokens adopts tokens as they are. lx is used to re-lex after mutations.
func FromTokens(lx Lexer, tokens []token.Token, opts ...Option) *Walker {
	w := &Walker{
		st:     newState(lx, token.Clone(tokens)),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

/***** navigation *****/

// JumpTo moves the cursor to b unconditionally.
func (w *Walker) JumpTo(b Bound) *Walker {
	return w.begin(instruction{op: opJump, from: b})
}

// GoFor seeks forward for a token whose kind or text matches any target.
func (w *Walker) GoFor(targets ...token.Kind) *Walker {
	return w.begin(instruction{op: opSeekForward, targets: targets})
}

// GoBackFor seeks backward for a token whose kind or text matches any target.
func (w *Walker) GoBackFor(targets ...token.Kind) *Walker {
	return w.begin(instruction{op: opSeekBackward, targets: targets})
}

// GoForward moves forward while the attached constraints hold.
func (w *Walker) GoForward() *Walker {
	return w.begin(instruction{op: opForward})
}

// GoBackward moves backward while the attached constraints hold.
func (w *Walker) GoBackward() *Walker {
	return w.begin(instruction{op: opBackward})
}

/***** memory *****/

// Remember saves the cursor under alias; an empty alias pushes it on the
// anonymous stack.
func (w *Walker) Remember(alias string) *Walker {
	return w.begin(instruction{op: opRemember, alias: alias})
}

// Restore moves the cursor back to a remembered position; an empty alias
// pops the anonymous stack.
func (w *Walker) Restore(alias string) *Walker {
	return w.begin(instruction{op: opRestore, alias: alias})
}

// RememberResult saves the current result under alias.
func (w *Walker) RememberResult(alias string) *Walker {
	return w.begin(instruction{op: opRememberResult, alias: alias})
}

// RestoreResult makes a remembered result current again.
func (w *Walker) RestoreResult(alias string) *Walker {
	return w.begin(instruction{op: opRestoreResult, alias: alias})
}

/***** mutation *****/

// Filter keeps only the tokens passing the constraints attached to it.
func (w *Walker) Filter() *Walker {
	return w.begin(instruction{op: opFilter})
}

// Crop keeps only the inclusive region [from, to].
func (w *Walker) Crop(from, to Bound) *Walker {
	return w.begin(instruction{op: opCrop, from: from, to: to})
}

// Cut removes the inclusive region [from, to]; see Removed.
func (w *Walker) Cut(from, to Bound) *Walker {
	return w.begin(instruction{op: opCut, from: from, to: to})
}

// Splice replaces the inclusive region [from, to] with content.
func (w *Walker) Splice(from, to Bound, content ...token.Token) *Walker {
	return w.begin(instruction{op: opSplice, from: from, to: to, content: token.Clone(content)})
}

// Insert places content before the token at at.
func (w *Walker) Insert(at Bound, content ...token.Token) *Walker {
	return w.begin(instruction{op: opInsert, from: at, content: token.Clone(content)})
}

// ReplaceAll substitutes every token matching target; see Replaced.
func (w *Walker) ReplaceAll(target token.Kind, replacement string) *Walker {
	return w.begin(instruction{op: opReplace, match: target, replace: replacement})
}

/***** constraints *****/

// Keeping opens a group of rules that must hold for field.
func (w *Walker) Keeping(field Field) *Walker {
	return w.openGroup(field, false)
}

// StopBefore opens a group of rules that must not hold for field.
func (w *Walker) StopBefore(field Field) *Walker {
	return w.openGroup(field, true)
}

func (w *Walker) Equal(v Operand) *Walker          { return w.addRule(opEqual, v) }
func (w *Walker) LessThan(v Operand) *Walker       { return w.addRule(opLess, v) }
func (w *Walker) LessOrEqual(v Operand) *Walker    { return w.addRule(opLessOrEqual, v) }
func (w *Walker) GreaterOrEqual(v Operand) *Walker { return w.addRule(opGreaterOrEqual, v) }
func (w *Walker) GreaterThan(v Operand) *Walker    { return w.addRule(opGreater, v) }
func (w *Walker) In(vs ...Operand) *Walker         { return w.addRule(opIn, vs...) }

// Between holds for values in the inclusive range [lo, hi].
func (w *Walker) Between(lo, hi Operand) *Walker { return w.addRule(opBetween, lo, hi) }

func (w *Walker) openGroup(field Field, deny bool) *Walker {
	if w.pending == nil {
		w.fail(fmt.Errorf("%w: %s group", ErrDanglingConstraint, field))
		return w
	}
	w.flushGroup()
	w.group = &group{field: field}
	w.deny = deny
	return w
}

func (w *Walker) addRule(o operator, args ...Operand) *Walker {
	if w.group == nil {
		w.fail(fmt.Errorf("%w: rule outside a group", ErrDanglingConstraint))
		return w
	}
	r := rule{op: o, args: args}
	if w.deny {
		w.group.deny = append(w.group.deny, r)
	} else {
		w.group.allow = append(w.group.allow, r)
	}
	return w
}

/***** queue *****/

// Then queues the instruction under construction. Starting a new
// instruction does the same implicitly.
func (w *Walker) Then() *Walker {
	w.flush()
	return w
}

// Execute drains the queue.
func (w *Walker) Execute() *Walker {
	w.flush()
	queue := w.queue
	w.queue = nil
	for _, ins := range queue {
		if w.err != nil {
			break
		}
		if err := w.st.run(ins); err != nil {
			w.err = fmt.Errorf("%s: %w", ins.op, err)
			w.logger.Debug("instruction failed", zap.Stringer("op", ins.op), zap.Error(err))
			break
		}
		fields := []zap.Field{
			zap.Stringer("op", ins.op),
			zap.Int("position", w.st.pos),
			zap.Int("tokens", w.st.buf.len()),
		}
		if ins.op.navigational() {
			fields = append(fields, zap.Bool("hit", w.st.result.ok))
		}
		w.logger.Debug("instruction executed", fields...)
	}
	return w
}

func (w *Walker) begin(ins instruction) *Walker {
	w.flush()
	w.pending = &ins
	return w
}

func (w *Walker) flushGroup() {
	if w.group == nil || w.pending == nil {
		return
	}
	w.pending.groups = append(w.pending.groups, w.group.clone())
	w.group = nil
}

func (w *Walker) flush() {
	if w.pending == nil {
		return
	}
	w.flushGroup()
	w.queue = append(w.queue, *w.pending)
	w.pending = nil
}

func (w *Walker) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

/***** reads *****/

// Err returns the first error met while building or executing.
func (w *Walker) Err() error {
	w.Execute()
	return w.err
}

// Position returns the cursor.
func (w *Walker) Position() int {
	w.Execute()
	return w.st.pos
}

// PositionOf returns a remembered position.
func (w *Walker) PositionOf(alias string) (int, error) {
	w.Execute()
	return w.st.lookup(alias)
}

// Current returns the token under the cursor; ok is false for an empty buffer.
func (w *Walker) Current() (token.Token, bool) {
	return w.TokenAt(w.Position())
}

// TokenAt returns the token at index i.
func (w *Walker) TokenAt(i int) (token.Token, bool) {
	w.Execute()
	if !w.st.buf.inRange(i) {
		return token.Token{}, false
	}
	return w.st.buf.at(i), true
}

// Level returns the nesting level at the cursor.
func (w *Walker) Level() int {
	w.Execute()
	if !w.st.buf.inRange(w.st.pos) {
		return 0
	}
	return w.st.buf.levelAt(w.st.pos)
}

// LevelAt returns the nesting level at index i.
func (w *Walker) LevelAt(i int) (int, bool) {
	w.Execute()
	if !w.st.buf.inRange(i) {
		return 0, false
	}
	return w.st.buf.levelAt(i), true
}

// Result returns the token found by the last seek; ok is false after a miss.
func (w *Walker) Result() (token.Token, bool) {
	w.Execute()
	return w.st.result.tok, w.st.result.ok
}

// SavedResult returns a result stored with RememberResult(alias).
func (w *Walker) SavedResult(alias string) (token.Token, bool, error) {
	w.Execute()
	m, ok := w.st.results[alias]
	if !ok {
		return token.Token{}, false, fmt.Errorf("%w: result %q", ErrUnknownAlias, alias)
	}
	return m.tok, m.ok, nil
}

// Removed returns the tokens taken out by the last Cut.
func (w *Walker) Removed() []token.Token {
	w.Execute()
	return token.Clone(w.st.removed)
}

// Replaced returns how many tokens the last ReplaceAll substituted.
func (w *Walker) Replaced() int {
	w.Execute()
	return w.st.replaced
}

// Len returns the number of tokens in the buffer.
func (w *Walker) Len() int {
	w.Execute()
	return w.st.buf.len()
}

// Tokens returns a copy of the buffer.
func (w *Walker) Tokens() []token.Token {
	w.Execute()
	return token.Clone(w.st.buf.tokens)
}

// Texts returns the literal text of every token.
func (w *Walker) Texts() []string {
	w.Execute()
	return token.Texts(w.st.buf.tokens)
}

// Text renders the buffer.
func (w *Walker) Text() string {
	w.Execute()
	return token.Render(w.st.buf.tokens)
}

// Clone executes pending work and returns an independent copy carrying the
// same buffer, cursor and memory.
func (w *Walker) Clone() *Walker {
	w.Execute()
	return &Walker{
		st:     w.st.clone(),
		err:    w.err,
		logger: w.logger,
	}
}
