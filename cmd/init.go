package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnolang/surgeon/recipe"
)

// initCmd: surgeon init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter recipe file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := initConfigurationFile(cfgFile)
		if err != nil {
			return fmt.Errorf("error initializing recipe: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Recipe file created: %s\n", path)
		return nil
	},
}

func initConfigurationFile(configurationPath string) (string, error) {
	if configurationPath == "" {
		configurationPath = recipe.DefaultPath
	}
	if _, err := os.Stat(configurationPath); err == nil {
		return "", fmt.Errorf("%s already exists", configurationPath)
	}

	config := recipe.DefaultConfig()
	config.Edits = []recipe.Edit{
		{
			Class:      "Example",
			Implements: []string{"Stringable"},
		},
	}
	return configurationPath, recipe.Write(configurationPath, config)
}
