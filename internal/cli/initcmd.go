package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/expunge-go/expunge/internal/config"
)

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default expungegen.yaml configuration file",
		Long: `Create an expungegen.yaml in the current working directory populated
with the current defaults so it can be edited manually.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.FilePath()

			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}

			data, err := config.Load().Marshal()
			if err != nil {
				return fmt.Errorf("rendering config: %w", err)
			}

			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			cmd.Println("wrote " + path)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}
