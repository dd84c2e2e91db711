package cmd

import (
	"fmt"
	"os"
	"sort"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/crosshare-org/crosshare/internal/store"
	"github.com/crosshare-org/crosshare/pkg/worddb"
)

var (
	statsDB       string
	statsWordlist string
	statsSQLite   string
	statsTop      int
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Display word database statistics",
	Long: `Display statistics about a word database: total words, words per
length, and the top-scoring words.

Reads either a binary clue dataset, a text wordlist, or a previously
exported SQLite database.

Examples:
  # Stats from a compiled dataset
  crossfill stats --db cluedata

  # Stats from an exported SQLite database
  crossfill stats --sqlite words.db --top 20`,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVarP(&statsDB, "db", "d", "", "binary clue dataset path")
	statsCmd.Flags().StringVarP(&statsWordlist, "wordlist", "w", "", "text wordlist path")
	statsCmd.Flags().StringVarP(&statsSQLite, "sqlite", "s", "", "exported SQLite database path")
	statsCmd.Flags().IntVarP(&statsTop, "top", "n", 10, "number of top-scoring words to show")
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsSQLite != "" {
		return sqliteStats(statsSQLite)
	}

	db, err := loadDatabase(statsDB, statsWordlist)
	if err != nil {
		return err
	}

	fmt.Printf("Total words: %d\n\n", db.Size())
	fmt.Println("Words by length:")
	for _, length := range db.Lengths() {
		fmt.Printf("  %3d: %d\n", length, len(db.WordsOfLength(length)))
	}

	fmt.Printf("\nTop %d words:\n", statsTop)
	for _, w := range topWords(db, statsTop) {
		fmt.Printf("  %-24s %d\n", w.Text, w.Score)
	}
	return nil
}

// topWords merges the tails of every length bucket (each bucket is
// ascending by score) and returns the n best words overall.
func topWords(db *worddb.DB, n int) []worddb.Word {
	var words []worddb.Word
	for _, length := range db.Lengths() {
		bucket := db.WordsOfLength(length)
		start := len(bucket) - n
		if start < 0 {
			start = 0
		}
		words = append(words, bucket[start:]...)
	}
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].Score > words[j].Score
	})
	if len(words) > n {
		words = words[:n]
	}
	return words
}

func sqliteStats(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("database not found at %s", path)
	}

	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.ReadStats()
	if err != nil {
		return err
	}

	fmt.Printf("Total words:  %d\n", stats.TotalWords)
	fmt.Printf("Total clues:  %d\n", stats.TotalClues)
	fmt.Printf("Total usages: %d\n\n", stats.TotalUsages)

	fmt.Println("Words by length:")
	lengths := make([]int, 0, len(stats.ByLength))
	for length := range stats.ByLength {
		lengths = append(lengths, length)
	}
	sort.Ints(lengths)
	for _, length := range lengths {
		fmt.Printf("  %3d: %d\n", length, stats.ByLength[length])
	}

	top, err := st.TopWords(statsTop)
	if err != nil {
		return err
	}
	fmt.Printf("\nTop %d words:\n", statsTop)
	for _, w := range top {
		fmt.Printf("  %-24s %d\n", w.Text, w.Score)
	}
	return nil
}
