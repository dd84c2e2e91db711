package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crosshare-org/crosshare/pkg/fill"
	"github.com/crosshare-org/crosshare/pkg/grid"
	"github.com/crosshare-org/crosshare/pkg/output"
	"github.com/crosshare-org/crosshare/pkg/worddb"
)

var (
	solveDB          string
	solveWordlist    string
	solveTemplate    string
	solveDiscrepancy int
	solveFormat      string
)

var solveCmd = &cobra.Command{
	Use:   "solve [template-file]",
	Short: "Fill a crossword grid template",
	Long: `Fill a crossword grid template with words from the database, minimizing
total cost. The template uses one line per row: letters are pre-filled
cells, spaces are blanks to fill, '.' and '#' are blocks.

The filled grid is printed to standard output, followed by its cost on a
separate line.

Exit codes: 0 on success, 1 if no solution exists, 2 for malformed input.

Examples:
  # Solve a template file against a compiled clue dataset
  crossfill solve --db cluedata puzzle.txt

  # Solve from stdin against a text wordlist, JSON output
  crossfill solve --wordlist cluedata.txt --format json < puzzle.txt

  # Allow deeper backtracking
  crossfill solve --db cluedata --discrepancy 4 puzzle.txt`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveCmd.Flags().StringVarP(&solveDB, "db", "d", "", "path to the binary clue dataset")
	solveCmd.Flags().StringVarP(&solveWordlist, "wordlist", "w", "", "path to a text wordlist (WORD;SCORE)")
	solveCmd.Flags().StringVarP(&solveTemplate, "template", "t", "", "template string (overrides file/stdin)")
	solveCmd.Flags().IntVar(&solveDiscrepancy, "discrepancy", fill.DefaultDiscrepancy, "backtracking discrepancy budget (0 disables backtracking)")
	solveCmd.Flags().StringVarP(&solveFormat, "format", "f", "text", "output format (text, json)")
}

// Exit codes for the solve command.
const (
	exitNoSolution = 1
	exitBadInput   = 2
)

func runSolve(cmd *cobra.Command, args []string) {
	db, err := loadDatabase(solveDB, solveWordlist)
	if err != nil {
		fail(err)
	}
	if verbosity > 0 {
		fmt.Fprintf(os.Stderr, "Loaded %d words\n", db.Size())
	}

	template, err := readTemplate(args)
	if err != nil {
		fail(err)
	}

	g, err := grid.Parse(db, template)
	if err != nil {
		fail(err)
	}

	discrepancy := solveDiscrepancy
	if discrepancy <= 0 {
		discrepancy = -1
	}
	solved, err := fill.NewSolver(db, fill.Config{Discrepancy: discrepancy}).Solve(g)
	if err != nil {
		fail(err)
	}

	switch strings.ToLower(solveFormat) {
	case "json":
		data, err := output.ToJSON(solved, scorer{db})
		if err != nil {
			fail(err)
		}
		fmt.Println(string(data))
	case "text":
		fmt.Print(solved.String())
		fmt.Println(solved.MinCost())
	default:
		fail(fmt.Errorf("unsupported format %q: must be text or json", solveFormat))
	}
}

// scorer adapts the word database to the output package.
type scorer struct {
	db *worddb.DB
}

func (s scorer) Lookup(word string) (int, bool) {
	w, _, ok := s.db.Lookup(word)
	return w.Score, ok
}

// loadDatabase loads from the binary dataset or the text wordlist,
// whichever was given.
func loadDatabase(dbPath, wordlistPath string) (*worddb.DB, error) {
	switch {
	case dbPath != "" && wordlistPath != "":
		return nil, fmt.Errorf("--db and --wordlist are mutually exclusive")
	case dbPath != "":
		return worddb.Open(dbPath)
	case wordlistPath != "":
		return worddb.LoadWordlist(wordlistPath)
	default:
		return nil, fmt.Errorf("one of --db or --wordlist is required")
	}
}

// readTemplate resolves the template from the --template flag, a file
// argument, or stdin.
func readTemplate(args []string) (string, error) {
	if solveTemplate != "" {
		return solveTemplate, nil
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read template file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read template from stdin: %w", err)
	}
	return string(data), nil
}

// fail prints the error and exits with the code its kind demands: 1 for
// the expected no-fill outcomes, 2 for malformed input.
func fail(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	if errors.Is(err, fill.ErrNoSolution) || errors.Is(err, grid.ErrInfeasibleTemplate) {
		os.Exit(exitNoSolution)
	}
	os.Exit(exitBadInput)
}
