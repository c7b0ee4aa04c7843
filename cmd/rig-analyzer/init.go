package main

import (
	"fmt"
	"os"
	"path/filepath"

	"mastication-analyzer/internal/config"

	"github.com/spf13/cobra"
)

func newInitCmd(opts *globalOptions) *cobra.Command {
	var output string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to a file",
		Long: `Write the configuration in effect (built-in defaults merged with any loaded
file) as YAML, ready to be edited.

Examples:
  # Create config.yaml in the current directory
  rig-analyzer init

  # Create the per-user configuration
  rig-analyzer init -o ~/.config/mastication-analyzer/config.yaml

  # Overwrite an existing file
  rig-analyzer init -f`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				if _, err := os.Stat(output); err == nil {
					return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", output)
				}
			}

			data, err := config.Marshal(opts.cfg)
			if err != nil {
				return fmt.Errorf("encode configuration: %w", err)
			}

			if dir := filepath.Dir(output); dir != "" && dir != "." {
				if err := os.MkdirAll(dir, 0o750); err != nil {
					return fmt.Errorf("create directory: %w", err)
				}
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return fmt.Errorf("write configuration: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", config.DefaultConfigFile, "Output file path")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}
