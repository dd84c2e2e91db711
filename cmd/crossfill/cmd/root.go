package cmd

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var verbosity int

var rootCmd = &cobra.Command{
	Use:   "crossfill",
	Short: "Crossword grid fill engine CLI",
	Long: `crossfill fills crossword grid templates with words from a scored word
database, minimizing total cost with a branch-and-bound search.

It also compiles the raw binary clue dataset into the text wordlist
format, exports words and clues to SQLite, and serves the fill engine
over HTTP.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", 0, "verbosity level (0=errors only, 1=info, 2=debug)")
}
