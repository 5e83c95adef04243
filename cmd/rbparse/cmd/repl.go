package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alexisbouchez/rbparse/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Parse Ruby interactively",
	Long: `Starts an interactive session that prints the tree of each input.
Unfinished constructs continue on the next line; exit or quit leaves.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	return repl.Start(cmd.InOrStdin(), out, repl.Options{
		File:        "(repl)",
		MaxDepth:    cfg.MaxDepth,
		Color:       useColor(out),
		HistoryFile: cfg.HistoryPath(),
		Logger:      logger,
	})
}
