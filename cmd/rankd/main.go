package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/rankd/cmd/rankd/commands"
	"github.com/teranos/rankd/logger"
)

var rootCmd = &cobra.Command{
	Use:   "rankd",
	Short: "rankd - completion ranking and response engine",
	Long: `rankd - completion ranking and response engine.

rankd filters, ranks, truncates and compresses completion candidates into
protocol-ready completion lists. It runs as a language server over stdio or
WebSocket and can rank candidate fixtures offline.

Available commands:
  serve   - Run the language server
  rank    - Rank a candidate fixture and print the completion list
  am      - Show and validate configuration
  version - Show version information

Examples:
  rankd serve --stdio              # Serve one editor over stdin/stdout
  rankd serve                      # Serve WebSocket clients on server.address
  rankd rank fixture.yaml          # Print the ranked list as a table
  rankd am where                   # Show where each setting comes from`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.RankCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
