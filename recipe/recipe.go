// Package recipe applies declarative class edits to files and directories.
package recipe

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/gnolang/surgeon/surgeon"
)

// Engine edits a single file or source. Implementations never write to disk;
// Result carries the code before and after.
type Engine interface {
	Run(path string) (Result, error)
	RunSource(source []byte) (Result, error)
	Accept(path string) bool
}

// Result is the outcome of running a recipe over one class.
type Result struct {
	File    string
	Class   string   // name before any edit
	Changes []string // one line per applied edit
	Before  string
	After   string
	Err     error
}

// Changed reports whether the code differs from what was read.
func (r Result) Changed() bool {
	return r.Before != r.After
}

// Applier runs a Config over classes.
type Applier struct {
	config Config
	logger *zap.Logger
	opts   []surgeon.Option
}

// New returns an Applier for config. logger may be nil.
func New(config Config, logger *zap.Logger, opts ...surgeon.Option) *Applier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Applier{
		config: config,
		logger: logger,
		opts:   opts,
	}
}

// Config returns the recipe the applier runs.
func (a *Applier) Config() Config {
	return a.config
}

// Accept reports whether path has one of the recipe's extensions.
func (a *Applier) Accept(path string) bool {
	return slices.ContainsFunc(a.config.Extensions, func(ext string) bool {
		return strings.EqualFold(filepath.Ext(path), ext)
	})
}

// Run applies the recipe to the file at path without saving it.
func (a *Applier) Run(path string) (Result, error) {
	c, err := surgeon.FromFile(path, a.opts...)
	if err != nil {
		return Result{File: path, Err: err}, err
	}
	return a.Apply(c)
}

// RunSource applies the recipe to source.
func (a *Applier) RunSource(source []byte) (Result, error) {
	return a.Apply(surgeon.New(string(source), a.opts...))
}

// Apply runs every matching edit against c. A source without a class
// declaration is left alone and is not an error.
func (a *Applier) Apply(c *surgeon.Class) (Result, error) {
	res := Result{
		File:   c.File(),
		Before: c.Code(),
		After:  c.Code(),
	}

	name, err := c.Name()
	if errors.Is(err, surgeon.ErrClassNotFound) {
		a.logger.Debug("no class declaration", zap.String("file", res.File))
		return res, nil
	}
	if err != nil {
		res.Err = err
		return res, err
	}
	res.Class = name

	for _, edit := range a.config.Edits {
		if edit.Class != "" && edit.Class != res.Class {
			continue
		}
		if err := a.applyEdit(c, edit, &res); err != nil {
			res.Err = fmt.Errorf("class %s: %w", res.Class, err)
			res.After = res.Before
			return res, res.Err
		}
	}

	res.After = c.Code()
	a.logger.Debug("recipe applied",
		zap.String("file", res.File),
		zap.String("class", res.Class),
		zap.Int("changes", len(res.Changes)),
	)
	return res, nil
}

func (a *Applier) applyEdit(c *surgeon.Class, edit Edit, res *Result) error {
	// step records desc only when fn actually changed the code
	step := func(desc string, fn func() error) error {
		before := c.Code()
		if err := fn(); err != nil {
			return err
		}
		if c.Code() != before {
			res.Changes = append(res.Changes, desc)
		}
		return nil
	}

	if edit.Rename != "" {
		current, err := c.Name()
		if err != nil {
			return err
		}
		desc := fmt.Sprintf("rename %s -> %s", current, edit.Rename)
		if err := step(desc, func() error { return c.Rename(edit.Rename) }); err != nil {
			return err
		}
	}
	if edit.Extends != "" {
		if err := step("extends "+edit.Extends, func() error { return c.SetBase(edit.Extends) }); err != nil {
			return err
		}
	}
	if len(edit.Implements) > 0 {
		desc := "implements " + strings.Join(edit.Implements, ", ")
		if err := step(desc, func() error { return c.AddInterfaces(edit.Implements...) }); err != nil {
			return err
		}
	}
	for _, w := range edit.Wrap {
		if err := step("wrap "+w.Method, func() error { return c.WrapMethod(w.Method, w.Top, w.Bottom) }); err != nil {
			return err
		}
	}
	return nil
}
