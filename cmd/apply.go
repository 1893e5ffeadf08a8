package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/surgeon/formatter"
	"github.com/gnolang/surgeon/internal/fixer"
	"github.com/gnolang/surgeon/recipe"
	"github.com/gnolang/surgeon/surgeon"
)

var errFailedFiles = errors.New("some files could not be edited")

var applyCmd = &cobra.Command{
	Use:   "apply [paths...]",
	Short: "Apply the recipe to files and directories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		engine, err := newEngine()
		if err != nil {
			return err
		}
		return runApply(ctx, cmd.OutOrStdout(), engine, args, dryRun)
	},
}

func init() {
	applyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print diffs instead of writing files")
}

// loadRecipe reads --config, falling back to the default recipe file when it
// exists.
func loadRecipe() (recipe.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat(recipe.DefaultPath); err == nil {
			path = recipe.DefaultPath
		}
	}
	config, err := recipe.Load(path)
	if err != nil {
		return config, fmt.Errorf("failed to load recipe: %w", err)
	}
	logger.Debug("recipe loaded", zap.String("path", path), zap.Int("edits", len(config.Edits)))
	return config, nil
}

func newEngine() (*recipe.Applier, error) {
	config, err := loadRecipe()
	if err != nil {
		return nil, err
	}
	return recipe.New(config, logger, surgeon.WithLogger(logger)), nil
}

func runApply(ctx context.Context, out io.Writer, engine recipe.Engine, paths []string, dryRun bool) error {
	results, err := recipe.ProcessFiles(ctx, logger, engine, paths, recipe.ProcessFile)

	fix := fixer.New(dryRun, out)
	for i, res := range results {
		if res.Err != nil || !res.Changed() {
			continue
		}
		if _, ferr := fix.Fix(res.File, res.Before, res.After); ferr != nil {
			logger.Error("Error writing file", zap.String("path", res.File), zap.Error(ferr))
			results[i].Err = ferr
		}
	}

	fmt.Fprint(out, formatter.GenerateFormattedResults(reportable(results)))
	fmt.Fprint(out, formatter.FormatTotals(results))

	if err != nil {
		return err
	}
	for _, res := range results {
		if res.Err != nil {
			return errFailedFiles
		}
	}
	return nil
}

// reportable keeps the results worth a block in the report; the rest only
// count towards the totals unless --verbose is set.
func reportable(results []recipe.Result) []recipe.Result {
	if verbose {
		return results
	}
	var kept []recipe.Result
	for _, res := range results {
		switch formatter.Kind(res) {
		case formatter.Edited, formatter.Failed:
			kept = append(kept, res)
		}
	}
	return kept
}
