package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crosshare-org/crosshare/pkg/cluedata"
)

var (
	compileInput  string
	compileOutput string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile the binary clue dataset into a text wordlist",
	Long: `Compile the raw binary clue dataset into the WORD;SCORE text wordlist.

Word scores are derived from the clue-usage records: every non-themed
usage adds its appearance count, weighted five-fold for NYT usages.
Words that end with no positive score are dropped.

Examples:
  # Compile the dataset to a wordlist
  crossfill compile --input cluedata --output cluedata.txt`,
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&compileInput, "input", "i", "", "binary clue dataset (required)")
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "", "output wordlist path (required)")

	compileCmd.MarkFlagRequired("input")
	compileCmd.MarkFlagRequired("output")
}

func runCompile(cmd *cobra.Command, args []string) error {
	if verbosity > 0 {
		fmt.Printf("Parsing dataset: %s\n", compileInput)
	}

	data, err := cluedata.ParseFile(compileInput)
	if err != nil {
		return err
	}
	if verbosity > 0 {
		fmt.Printf("Parsed %d words, %d clues, %d usages\n", len(data.Words), len(data.Clues), len(data.Usages))
	}

	out, err := os.Create(compileOutput)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	if err := data.WriteWordlist(out); err != nil {
		return fmt.Errorf("failed to write wordlist: %w", err)
	}

	if verbosity > 0 {
		fmt.Printf("Wrote %d scored words to %s\n", len(data.ScoredWords()), compileOutput)
	}
	return nil
}
