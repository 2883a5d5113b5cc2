// Package main implements the renderview CLI: inspection and preview
// tooling for contract-rendered UI content (action links, inline tags,
// JSON UI documents).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"renderview/internal/config"
	"renderview/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string

	cfg config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "renderview",
	Short: "renderview - parsing and dispatch tooling for contract-rendered UIs",
	Long: `renderview inspects the content that render contracts produce: it
parses action links (render:, tx:, form:), extracts the inline tag
mini-languages (meta, style, errors, continue/chunk, include),
validates declarative JSON UI documents, and previews markdown
content in the terminal.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(verbose); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "renderview.yaml", "Path to the config file")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(promptCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
