package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/surgeon/internal/fixer"
	"github.com/gnolang/surgeon/surgeon"
)

// variable for flags
var (
	dryRun     bool
	newName    string
	baseName   string
	interfaces []string
	methodName string
	topCode    string
	bottomCode string
)

var renameCmd = &cobra.Command{
	Use:   "rename --to NAME [files...]",
	Short: "Rename the class declared in each file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editFiles(cmd.OutOrStdout(), args, dryRun, func(c *surgeon.Class) error {
			return c.Rename(newName)
		})
	},
}

var extendCmd = &cobra.Command{
	Use:   "extend --base NAME [files...]",
	Short: "Set or replace the base class",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editFiles(cmd.OutOrStdout(), args, dryRun, func(c *surgeon.Class) error {
			return c.SetBase(baseName)
		})
	},
}

var implementCmd = &cobra.Command{
	Use:   "implement --iface A,B [files...]",
	Short: "Add interfaces the class does not implement yet",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editFiles(cmd.OutOrStdout(), args, dryRun, func(c *surgeon.Class) error {
			return c.AddInterfaces(interfaces...)
		})
	},
}

var wrapCmd = &cobra.Command{
	Use:   "wrap --name METHOD [--top CODE] [--bottom CODE] [files...]",
	Short: "Insert code at the start and end of a method body",
	Long: `Inserts --top right after the opening brace of the method and --bottom right
before its closing brace. Example) surgeon wrap --name handle --top ' $this->begin();' Job.php`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editFiles(cmd.OutOrStdout(), args, dryRun, func(c *surgeon.Class) error {
			return c.WrapMethod(methodName, topCode, bottomCode)
		})
	},
}

var methodCmd = &cobra.Command{
	Use:   "method --name METHOD file",
	Short: "Print the body of a method",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := surgeon.FromFile(args[0], surgeon.WithLogger(logger))
		if err != nil {
			return err
		}
		body, err := c.MethodBody(methodName)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), body)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{renameCmd, extendCmd, implementCmd, wrapCmd} {
		c.Flags().BoolVar(&dryRun, "dry-run", false, "Print a diff instead of writing files")
	}

	renameCmd.Flags().StringVar(&newName, "to", "", "New class name")
	_ = renameCmd.MarkFlagRequired("to")

	extendCmd.Flags().StringVar(&baseName, "base", "", "Base class name")
	_ = extendCmd.MarkFlagRequired("base")

	implementCmd.Flags().StringSliceVar(&interfaces, "iface", nil, "Comma-separated interfaces to add")
	_ = implementCmd.MarkFlagRequired("iface")

	for _, c := range []*cobra.Command{wrapCmd, methodCmd} {
		c.Flags().StringVar(&methodName, "name", "", "Method name")
		_ = c.MarkFlagRequired("name")
	}
	wrapCmd.Flags().StringVar(&topCode, "top", "", "Code inserted after the opening brace")
	wrapCmd.Flags().StringVar(&bottomCode, "bottom", "", "Code inserted before the closing brace")
}

// editFiles applies edit to every file and writes the result back, or only
// prints diffs in dry-run mode. It stops at the first failure.
func editFiles(out io.Writer, paths []string, dryRun bool, edit func(*surgeon.Class) error) error {
	fix := fixer.New(dryRun, out)
	for _, path := range paths {
		c, err := surgeon.FromFile(path, surgeon.WithLogger(logger))
		if err != nil {
			return err
		}

		before := c.Code()
		if err := edit(c); err != nil {
			logger.Error("Error editing file", zap.String("path", path), zap.Error(err))
			return err
		}

		changed, err := fix.Fix(path, before, c.Code())
		if err != nil {
			return err
		}
		if changed && !dryRun {
			fmt.Fprintf(out, "Updated %s\n", path)
		}
	}
	return nil
}
