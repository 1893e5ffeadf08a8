package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/surgeon/formatter"
	"github.com/gnolang/surgeon/surgeon"
)

var inspectJsonOutput bool

var inspectCmd = &cobra.Command{
	Use:   "inspect [files...]",
	Short: "Show the name, base class and interfaces of each class",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd.OutOrStdout(), args, inspectJsonOutput)
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJsonOutput, "json", false, "Output summaries in JSON format")
}

func runInspect(out io.Writer, paths []string, isJson bool) error {
	summaries := make([]formatter.Summary, 0, len(paths))
	for _, path := range paths {
		c, err := surgeon.FromFile(path, surgeon.WithLogger(logger))
		if err != nil {
			return err
		}
		s, err := formatter.Summarize(c)
		if err != nil {
			logger.Error("Error inspecting file", zap.String("path", path), zap.Error(err))
			return err
		}
		summaries = append(summaries, s)
	}

	if isJson {
		d, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshalling summaries to JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(d))
		return err
	}

	for _, s := range summaries {
		fmt.Fprint(out, formatter.FormatSummary(s))
	}
	return nil
}
