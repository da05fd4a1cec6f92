package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .scssbuild.yaml config file",
	Long:  `Create a .scssbuild.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".scssbuild.yaml"); err == nil && !force {
			return fmt.Errorf(".scssbuild.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".scssbuild.yaml", []byte(defaultConfig), 0o644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Created .scssbuild.yaml")
		return nil
	},
}

const defaultConfig = `# scssbuild configuration
# Precedence: flags > SCSSBUILD_* environment > this file > defaults

verbose: false
color: false

build:
  asset-dir: assets
  output-dir: public
  site-config: ""          # config.toml | config.yaml | config.json | config.hcl
  style: compressed        # compressed | expanded
  output-format: text      # text | json
  load-paths: []
  ignore: []               # gitignore-style patterns, e.g. "drafts/"

watch:
  debounce: 100ms
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
