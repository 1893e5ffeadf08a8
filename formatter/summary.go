package formatter

import (
	"strings"

	"github.com/gnolang/surgeon/surgeon"
)

// Summary is what inspect reports about one class.
type Summary struct {
	File       string   `json:"file"`
	Class      string   `json:"class"`
	Base       string   `json:"base,omitempty"`
	Interfaces []string `json:"interfaces"`
}

// Summarize reads the class name, base class and interfaces of c.
func Summarize(c *surgeon.Class) (Summary, error) {
	s := Summary{File: c.File()}

	var err error
	if s.Class, err = c.Name(); err != nil {
		return s, err
	}
	if s.Base, _, err = c.Base(); err != nil {
		return s, err
	}
	if s.Interfaces, err = c.Interfaces(); err != nil {
		return s, err
	}
	return s, nil
}

// FormatSummary renders s as a short block:
//
//	class: Foo
//	 --> src/Foo.php
//	  | extends    Base
//	  | implements A, B
func FormatSummary(s Summary) string {
	filename := s.File
	if filename == "" {
		filename = "<source>"
	}

	var b strings.Builder
	b.WriteString(label("class: ") + classStyle.Sprintf("%s\n", s.Class))
	b.WriteString(lineStyle.Sprint(" --> ") + fileStyle.Sprintf("%s\n", filename))
	if s.Base != "" {
		b.WriteString(lineStyle.Sprint("  | ") + noStyle.Sprintf("extends    %s\n", s.Base))
	}
	if len(s.Interfaces) > 0 {
		b.WriteString(lineStyle.Sprint("  | ") + noStyle.Sprintf("implements %s\n", strings.Join(s.Interfaces, ", ")))
	}
	b.WriteString("\n")
	return b.String()
}

func label(s string) string {
	return editStyle.Sprint(s)
}
