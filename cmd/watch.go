package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/gnolang/surgeon/formatter"
	"github.com/gnolang/surgeon/internal/fixer"
	"github.com/gnolang/surgeon/recipe"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-apply the recipe whenever a file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		engine, err := newEngine()
		if err != nil {
			return err
		}

		w, err := recipe.NewWatcher(engine, logger, writeResult(cmd.OutOrStdout(), dryRun), args...)
		if err != nil {
			return err
		}
		defer w.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "Watching %v\n", args)
		if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print diffs instead of writing files")
}

// writeResult returns a sink that writes edited files and reports every
// edit or failure.
func writeResult(out io.Writer, dryRun bool) recipe.Sink {
	fix := fixer.New(dryRun, out)
	return func(res recipe.Result) error {
		if res.Err == nil && res.Changed() {
			if _, err := fix.Fix(res.File, res.Before, res.After); err != nil {
				res.Err = err
			}
		}
		if kind := formatter.Kind(res); kind == formatter.Edited || kind == formatter.Failed {
			fmt.Fprint(out, formatter.GenerateFormattedResults([]recipe.Result{res}))
		}
		return res.Err
	}
}
