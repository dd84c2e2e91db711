package cmd

import (
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/crosshare-org/crosshare/internal/store"
	"github.com/crosshare-org/crosshare/pkg/cluedata"
)

var (
	exportInput  string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the clue dataset to a SQLite database",
	Long: `Export the binary clue dataset to a SQLite database: scored words,
clue texts, and the usage records linking them. The fill engine never
reads clue text, so this is where it is preserved for other tools.

Examples:
  # Export to words.db
  crossfill export --input cluedata --output words.db`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "", "binary clue dataset (required)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output SQLite path (required)")

	exportCmd.MarkFlagRequired("input")
	exportCmd.MarkFlagRequired("output")
}

func runExport(cmd *cobra.Command, args []string) error {
	data, err := cluedata.ParseFile(exportInput)
	if err != nil {
		return err
	}
	if verbosity > 0 {
		fmt.Printf("Parsed %d words, %d clues, %d usages\n", len(data.Words), len(data.Clues), len(data.Usages))
	}

	st, err := store.Open(exportOutput)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.InitSchema(); err != nil {
		return err
	}
	if err := st.SaveDataset(data); err != nil {
		return fmt.Errorf("failed to export dataset: %w", err)
	}

	if verbosity > 0 {
		fmt.Printf("Exported %d scored words to %s\n", len(data.ScoredWords()), exportOutput)
	}
	return nil
}
