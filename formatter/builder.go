package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/gnolang/surgeon/recipe"
)

// result kinds
const (
	Edited    = "edited"
	Unchanged = "unchanged"
	Skipped   = "skipped"
	Failed    = "error"
)

var (
	errorStyle   = color.New(color.FgRed, color.Bold)
	editStyle    = color.New(color.FgGreen, color.Bold)
	warningStyle = color.New(color.FgHiYellow, color.Bold)
	classStyle   = color.New(color.FgYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	noStyle      = color.New(color.FgWhite)
)

// resultFormatter supplies the template for one kind of result.
type resultFormatter interface {
	ResultTemplate() string
}

// getResultFormatter returns the formatter for kind; anything unknown is
// rendered like an edit.
func getResultFormatter(kind string) resultFormatter {
	switch kind {
	case Failed:
		return &FailureFormatter{}
	case Skipped, Unchanged:
		return &QuietFormatter{}
	default:
		return &EditFormatter{}
	}
}

// Kind classifies a result.
func Kind(res recipe.Result) string {
	switch {
	case res.Err != nil:
		return Failed
	case res.Class == "":
		return Skipped
	case res.Changed():
		return Edited
	default:
		return Unchanged
	}
}

// GenerateFormattedResults renders results in order, one block each.
func GenerateFormattedResults(results []recipe.Result) string {
	var builder strings.Builder
	for _, res := range results {
		kind := Kind(res)
		builder.WriteString(buildResult(res, kind, getResultFormatter(kind)))
	}
	return builder.String()
}

/***** Result Formatter Builder *****/

type ResultData struct {
	Kind     string
	Class    string
	Filename string
	Changes  []string
	Error    string
}

func buildResult(res recipe.Result, kind string, formatter resultFormatter) string {
	data := ResultData{
		Kind:     kind,
		Class:    res.Class,
		Filename: res.File,
		Changes:  res.Changes,
	}
	if res.Err != nil {
		data.Error = res.Err.Error()
	}
	if data.Filename == "" {
		data.Filename = "<source>"
	}

	funcMap := template.FuncMap{
		"header":  header,
		"change":  change,
		"message": message,
	}

	tmpl := template.Must(template.New("result").Funcs(funcMap).Parse(formatter.ResultTemplate()))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting result: %v", err)
	}
	return buf.String()
}

// utils functions used in the text templates

func header(kind, class, filename string) string {
	var endString string
	switch kind {
	case Failed:
		endString = errorStyle.Sprintf("%s: ", kind)
	case Edited:
		endString = editStyle.Sprintf("%s: ", kind)
	default:
		endString = warningStyle.Sprintf("%s: ", kind)
	}

	if class == "" {
		endString += noStyle.Sprint("no class declaration\n")
	} else {
		endString += classStyle.Sprintf("%s\n", class)
	}

	endString += lineStyle.Sprint(" --> ")
	endString += fileStyle.Sprintf("%s\n", filename)
	return endString
}

func change(desc string) string {
	return lineStyle.Sprint("  = ") + noStyle.Sprintf("%s\n", desc)
}

func message(msg string) string {
	return lineStyle.Sprint("  = ") + messageStyle.Sprintf("%s\n", msg)
}

/***** Totals *****/

// FormatTotals summarizes results in one line, e.g. "3 files: 1 edited, 2 unchanged".
func FormatTotals(results []recipe.Result) string {
	counts := make(map[string]int)
	for _, res := range results {
		counts[Kind(res)]++
	}

	noun := "files"
	if len(results) == 1 {
		noun = "file"
	}

	var parts []string
	for _, kind := range []string{Edited, Unchanged, Skipped, Failed} {
		if counts[kind] == 0 {
			continue
		}
		part := fmt.Sprintf("%d %s", counts[kind], kind)
		switch kind {
		case Failed:
			part = errorStyle.Sprint(part)
		case Edited:
			part = editStyle.Sprint(part)
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%d %s\n", len(results), noun)
	}
	return fmt.Sprintf("%d %s: %s\n", len(results), noun, strings.Join(parts, ", "))
}
