package fixer

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/pmezard/go-difflib/difflib"
)

// Fixer writes edited code back to disk, or only shows what would change.
type Fixer struct {
	DryRun bool
	Out    io.Writer // receives dry-run diffs
}

func New(dryRun bool, out io.Writer) *Fixer {
	if out == nil {
		out = os.Stdout
	}
	return &Fixer{
		DryRun: dryRun,
		Out:    out,
	}
}

// Fix replaces the content of filename with after. In dry-run mode it prints
// a unified diff instead. It reports whether anything differed.
func (f *Fixer) Fix(filename, before, after string) (bool, error) {
	if before == after {
		return false, nil
	}

	if f.DryRun {
		diff, err := Diff(filename, before, after)
		if err != nil {
			return true, err
		}
		if _, err := io.WriteString(f.Out, diff); err != nil {
			return true, fmt.Errorf("failed to write diff: %w", err)
		}
		return true, nil
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(filename); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(filename, []byte(after), mode); err != nil {
		return true, fmt.Errorf("failed to write file: %w", err)
	}
	return true, nil
}

// Diff renders a unified diff between two versions of filename.
func Diff(filename, before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + filename,
		ToFile:   "b/" + filename,
		Context:  3,
	})
}
