// Package surgeon reads and rewrites class declarations in PHP-style source.
//
// Every operation is a short query.Walker chain over the current code. Edits
// replace the code held by the Class; nothing touches the disk until Save.
package surgeon

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/gnolang/surgeon/lexer"
	"github.com/gnolang/surgeon/query"
	"github.com/gnolang/surgeon/token"
)

// methodNames are the kinds a method name lexes as. Reserved words are valid
// method names.
var methodNames = func() []token.Kind {
	kinds := []token.Kind{token.Ident}
	for _, kind := range token.Keywords {
		kinds = append(kinds, kind)
	}
	return kinds
}()

// prelude is prepended to code that has no open tag so that every seek
// starts before the first real token.
const prelude = "<?php"

var (
	// commas survive the filter so that re-lexing cannot join two names
	interfaceList = []query.Operand{
		query.Kind(token.Ident),
		query.Kind(token.QualifiedName),
		query.Kind(token.Comma),
	}
	// everything that may appear between the class keyword and its brace
	classHeader = []query.Operand{
		query.Kind(token.Ident),
		query.Kind(token.QualifiedName),
		query.Kind(token.Comma),
		query.Kind(token.Comment),
		query.Kind(token.Whitespace),
		query.Kind(token.Extends),
		query.Kind(token.Implements),
	}
	// a class keyword reaching one of these before a name is anonymous
	anonymousClass = []query.Operand{
		query.Kind(token.LBrace),
		query.Kind(token.LParen),
		query.Kind(token.Extends),
		query.Kind(token.Implements),
	}
	leadingModifiers = []query.Operand{
		query.Kind(token.Abstract),
		query.Kind(token.Final),
		query.Kind(token.Readonly),
		query.Kind(token.Whitespace),
		query.Kind(token.Comment),
		query.Kind(token.DocComment),
	}
)

// Class holds the source of a single file and the operations that edit it.
type Class struct {
	code    string
	prelude bool
	file    string

	lexer  query.Lexer
	logger *zap.Logger
}

// Option configures a Class.
type Option func(*Class)

// WithLexer replaces the default PHP tokenizer.
func WithLexer(lx query.Lexer) Option {
	return func(c *Class) {
		if lx != nil {
			c.lexer = lx
		}
	}
}

// WithLogger passes logger down to every walker the class creates.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Class) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New wraps code. Code without an open tag is accepted as a bare fragment.
func New(code string, opts ...Option) *Class {
	c := &Class{
		lexer:  lexer.New(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.setCode(code)
	return c
}

// FromFile reads path and binds the class to it.
func FromFile(path string, opts ...Option) (*Class, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	c := New(string(content), opts...)
	c.file = path
	return c, nil
}

func (c *Class) setCode(code string) {
	c.prelude = !strings.Contains(code, prelude)
	if c.prelude {
		code = prelude + code
	}
	c.code = code
}

// Code returns the current source, without any prelude New had to add.
func (c *Class) Code() string {
	if c.prelude {
		return strings.TrimPrefix(c.code, prelude)
	}
	return c.code
}

// File returns the bound file, or "" if there is none.
func (c *Class) File() string { return c.file }

// SetFile binds the class to path for Save.
func (c *Class) SetFile(path string) { c.file = path }

// Save writes the current code back to the bound file.
func (c *Class) Save() error {
	if c.file == "" {
		return ErrNoFile
	}
	if err := os.WriteFile(c.file, []byte(c.Code()), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (c *Class) walk() (*query.Walker, error) {
	return query.New(c.lexer, c.code, query.WithLogger(c.logger))
}

func (c *Class) notFound(err error) error {
	if c.file != "" {
		return fmt.Errorf("%w while manipulating file: %s", err, c.file)
	}
	return err
}

// commit replaces the code with the walker's text.
func (c *Class) commit(w *query.Walker) error {
	if err := w.Err(); err != nil {
		return err
	}
	c.code = w.Text()
	return nil
}

// Name returns the declared class name.
func (c *Class) Name() (string, error) {
	w, err := c.walk()
	if err != nil {
		return "", err
	}
	if err := c.locateClass(w); err != nil {
		return "", err
	}
	tok, _ := w.GoFor(token.Ident).Result()
	if err := w.Err(); err != nil {
		return "", err
	}
	return tok.Text, nil
}

// Base returns the extended class. ok is false when the class extends nothing.
func (c *Class) Base() (name string, ok bool, err error) {
	w, err := c.walk()
	if err != nil {
		return "", false, err
	}
	if !c.seekExtends(w) {
		return "", false, w.Err()
	}
	tok, ok := w.GoFor(token.Ident, token.QualifiedName).
		StopBefore(query.FieldToken).Equal(query.Kind(token.LBrace)).
		Result()
	return tok.Text, ok, w.Err()
}

// Interfaces returns the implemented interfaces in declaration order.
func (c *Class) Interfaces() ([]string, error) {
	w, err := c.walk()
	if err != nil {
		return nil, err
	}
	if !c.seekImplements(w) {
		return []string{}, w.Err()
	}

	w.Remember("start").
		GoFor(token.LBrace).Remember("end").
		Crop(query.Alias("start"), query.Alias("end")).
		Filter().Keeping(query.FieldToken).In(interfaceList...)
	if err := w.Err(); err != nil {
		return nil, err
	}

	names := []string{}
	for _, tok := range w.Tokens() {
		if tok.Matches(token.Ident, token.QualifiedName) {
			names = append(names, tok.Text)
		}
	}
	return names, nil
}

// Rename replaces the class name.
func (c *Class) Rename(name string) error {
	w, err := c.walk()
	if err != nil {
		return err
	}
	if err := c.locateClass(w); err != nil {
		return err
	}
	w.GoFor(token.Ident).Splice(query.Here(), query.Here(), token.RawText(name))
	return c.commit(w)
}

// SetBase makes the class extend name, replacing any existing base class.
func (c *Class) SetBase(name string) error {
	w, err := c.walk()
	if err != nil {
		return err
	}
	if err := c.locateClass(w); err != nil {
		return err
	}
	w.Remember("class")

	if _, ok := w.GoFor(token.Extends).StopBefore(query.FieldToken).Equal(query.Kind(token.LBrace)).Result(); ok {
		if _, ok := w.GoFor(token.Ident, token.QualifiedName).
			StopBefore(query.FieldToken).Equal(query.Kind(token.LBrace)).
			Result(); ok {
			w.Splice(query.Here(), query.Here(), token.RawText(name))
			return c.commit(w)
		}
	}

	// no base yet: insert right after the class header
	pos := w.Restore("class").
		GoForward().StopBefore(query.FieldToken).In(query.Kind(token.Implements), query.Kind(token.LBrace)).
		Position()
	last, _ := w.Current()

	prefix := ""
	if last.Matches(token.Ident, token.QualifiedName) {
		prefix = " "
	}
	w.Insert(query.At(pos+1), token.RawText(prefix+"extends "+name+" "))
	return c.commit(w)
}

// AddInterfaces adds every name the class does not implement yet. Adding only
// names already present leaves the code byte-identical.
func (c *Class) AddInterfaces(names ...string) error {
	existing, err := c.Interfaces()
	if err != nil {
		return err
	}

	var add []string
	for _, name := range names {
		if name == "" || slices.Contains(existing, name) || slices.Contains(add, name) {
			continue
		}
		add = append(add, name)
	}
	if len(add) == 0 {
		return nil
	}

	w, err := c.walk()
	if err != nil {
		return err
	}
	if err := c.locateClass(w); err != nil {
		return err
	}

	pos := w.GoForward().Keeping(query.FieldToken).In(classHeader...).Position()
	if last, _ := w.Current(); last.Kind != token.Whitespace {
		pos++
	}

	prefix := " implements "
	if len(existing) > 0 {
		prefix = ", "
	}
	w.Insert(query.At(pos), token.RawText(prefix+strings.Join(add, ", ")))
	return c.commit(w)
}

// Declaration returns the class header up to, but not including, the opening
// brace. With withLeading it starts right after the open tag and so carries
// namespace and use statements; otherwise it starts at the modifiers and
// comments directly preceding the class keyword.
func (c *Class) Declaration(withLeading bool) (string, error) {
	w, err := c.walk()
	if err != nil {
		return "", err
	}
	if err := c.locateClass(w); err != nil {
		return "", err
	}
	w.Remember("class")

	var start int
	if withLeading {
		if _, ok := w.GoBackFor(token.OpenTag).Result(); ok {
			start = w.Position() + 1
		}
	} else {
		start = w.GoBackward().
			Keeping(query.FieldToken).In(leadingModifiers...).
			StopBefore(query.FieldToken).Equal(query.Kind(token.OpenTag)).
			Position()
	}

	end := w.Restore("class").
		GoForward().StopBefore(query.FieldToken).Equal(query.Kind(token.LBrace)).
		Position()

	text := w.Crop(query.At(start), query.At(end)).Text()
	if err := w.Err(); err != nil {
		return "", err
	}
	return text, nil
}

// Body returns everything inside the outermost braces.
func (c *Class) Body() (string, error) {
	w, err := c.walk()
	if err != nil {
		return "", err
	}
	text := w.Filter().Keeping(query.FieldLevel).GreaterThan(query.Level(0)).Text()
	if err := w.Err(); err != nil {
		return "", err
	}
	return text, nil
}

// MethodBody returns the text between the braces of method name.
func (c *Class) MethodBody(name string) (string, error) {
	w, err := c.walk()
	if err != nil {
		return "", err
	}
	open, level, err := c.seekMethod(w, name)
	if err != nil {
		return "", err
	}

	end := w.GoForward().Keeping(query.FieldLevel).GreaterThan(query.Level(level)).Position()
	text := w.Crop(query.At(open+1), query.At(end)).Text()
	if err := w.Err(); err != nil {
		return "", err
	}
	return text, nil
}

// WrapMethod inserts top right after the opening brace of method name and
// bottom right before its closing brace.
func (c *Class) WrapMethod(name, top, bottom string) error {
	w, err := c.walk()
	if err != nil {
		return err
	}
	open, level, err := c.seekMethod(w, name)
	if err != nil {
		return err
	}

	if top != "" {
		// tokens up to the brace are unchanged by the insert, so open stays valid
		w.Insert(query.At(open+1), token.RawText(top)).JumpTo(query.At(open))
	}
	end := w.GoForward().Keeping(query.FieldLevel).GreaterThan(query.Level(level)).Position()
	if bottom != "" {
		w.Insert(query.At(end+1), token.RawText(bottom))
	}
	return c.commit(w)
}

// seekMethod leaves w on the opening brace of method name and returns its
// position and nesting level.
func (c *Class) seekMethod(w *query.Walker, name string) (open, level int, err error) {
	if err := c.locateClass(w); err != nil {
		return 0, 0, err
	}

	for {
		if _, ok := w.GoFor(token.Function).Result(); !ok {
			break
		}
		// closures have no name before their parameter list
		tok, ok := w.GoFor(methodNames...).StopBefore(query.FieldToken).Equal(query.Kind(token.LParen)).Result()
		if !ok || tok.Text != name {
			continue
		}
		// abstract and interface methods end at ';' and have no body
		if _, ok := w.GoFor(token.LBrace).
			StopBefore(query.FieldToken).Equal(query.Kind(token.Semicolon)).
			Result(); ok {
			return w.Position(), w.Level(), w.Err()
		}
	}
	if err := w.Err(); err != nil {
		return 0, 0, err
	}
	return 0, 0, c.notFound(fmt.Errorf("%w: %s", ErrMethodNotFound, name))
}

// locateClass leaves w on the class keyword of the first named declaration,
// skipping anonymous classes.
func (c *Class) locateClass(w *query.Walker) error {
	for {
		if _, ok := w.GoFor(token.Class).Result(); !ok {
			break
		}
		if _, ok := w.Clone().GoFor(token.Ident).
			StopBefore(query.FieldToken).In(anonymousClass...).
			Result(); ok {
			return nil
		}
	}
	if err := w.Err(); err != nil {
		return err
	}
	return c.notFound(ErrClassNotFound)
}

// seekExtends leaves w on the extends keyword of the class header.
func (c *Class) seekExtends(w *query.Walker) bool {
	if c.locateClass(w) != nil {
		return false
	}
	_, ok := w.GoFor(token.Extends).StopBefore(query.FieldToken).Equal(query.Kind(token.LBrace)).Result()
	return ok
}

// seekImplements leaves w on the implements keyword of the class header.
func (c *Class) seekImplements(w *query.Walker) bool {
	if c.locateClass(w) != nil {
		return false
	}
	_, ok := w.GoFor(token.Implements).StopBefore(query.FieldToken).Equal(query.Kind(token.LBrace)).Result()
	return ok
}
