package fill

import (
	"errors"
	"math"
	"testing"

	"github.com/crosshare-org/crosshare/pkg/grid"
	"github.com/crosshare-org/crosshare/pkg/worddb"
)

func mustDB(t *testing.T, words map[string]int) *worddb.DB {
	t.Helper()
	list := make([]worddb.Word, 0, len(words))
	for text, score := range words {
		list = append(list, worddb.Word{Text: text, Score: score})
	}
	db, err := worddb.New(list)
	if err != nil {
		t.Fatalf("worddb.New() error = %v", err)
	}
	return db
}

func solveOrFail(t *testing.T, db *worddb.DB, template string) (string, float64) {
	t.Helper()
	solved, cost, err := SolveGrid(db, template)
	if err != nil {
		t.Fatalf("SolveGrid(%q) error = %v", template, err)
	}
	return solved, cost
}

func TestSolveGrid_FullyPrefilled(t *testing.T) {
	db := mustDB(t, map[string]int{"CA": 2, "AT": 3, "CT": 1})

	solved, cost := solveOrFail(t, db, "CA\nAT")
	if solved != "CA\nAT\n" {
		t.Errorf("solved = %q, want CA\\nAT\\n", solved)
	}
	// Four complete entries: across CA and AT, down CA and AT.
	want := 1.0/2 + 1.0/3 + 1.0/2 + 1.0/3
	if math.Abs(cost-want) > 1e-12 {
		t.Errorf("cost = %v, want %v", cost, want)
	}
}

func TestSolveGrid_NoEntries(t *testing.T) {
	db := mustDB(t, map[string]int{"AT": 3})

	solved, cost := solveOrFail(t, db, "A.\n.B")
	if solved != "A.\n.B\n" {
		t.Errorf("solved = %q, want the template back", solved)
	}
	if cost != 0 {
		t.Errorf("cost = %v, want 0 for a grid with no entries", cost)
	}
}

func TestSolveGrid_SingleBlank(t *testing.T) {
	db := mustDB(t, map[string]int{"HELLO": 10})

	solved, cost := solveOrFail(t, db, "H LLO")
	if solved != "HELLO\n" {
		t.Errorf("solved = %q, want HELLO\\n", solved)
	}
	if math.Abs(cost-0.1) > 1e-12 {
		t.Errorf("cost = %v, want 0.1", cost)
	}
}

func TestSolveGrid_InfeasibleCross(t *testing.T) {
	// Every entry has initial candidates, but committing CT to the
	// bottom row forces the right column to BT, which no word matches.
	db := mustDB(t, map[string]int{"AB": 5, "AC": 3, "BA": 4, "CT": 2})

	_, _, err := SolveGrid(db, "AB\nC ")
	if !errors.Is(err, ErrNoSolution) {
		t.Errorf("SolveGrid() error = %v, want ErrNoSolution", err)
	}
}

func TestSolveGrid_DuplicatePressure(t *testing.T) {
	// Both rows prefer TO, but a word is never used twice: the second
	// row settles for TA at a higher cost.
	db := mustDB(t, map[string]int{"TO": 10, "TA": 1})

	solved, cost := solveOrFail(t, db, "T \n..\nT ")
	if solved != "TO\n..\nTA\n" {
		t.Errorf("solved = %q, want TO\\n..\\nTA\\n", solved)
	}
	if math.Abs(cost-(1.0/10+1.0)) > 1e-12 {
		t.Errorf("cost = %v, want 1.1", cost)
	}
}

func TestSolve_WordsAreUnique(t *testing.T) {
	db := mustDB(t, map[string]int{"TO": 10, "TA": 1})
	g, err := grid.Parse(db, "T \n..\nT ")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	solved, err := NewSolver(db, Config{}).Solve(g)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	seen := make(map[string]bool)
	for _, w := range solved.Words() {
		if seen[w] {
			t.Errorf("word %s used twice", w)
		}
		seen[w] = true
	}
}

func TestSolve_DiscrepancyRescuesGreedyDeadEnd(t *testing.T) {
	// The across and down entries share only their first cell. The
	// greedy choice AB leaves the down entry with AB as its only
	// candidate, which is already used: a dead end two levels down.
	// Pitching AB lets CD/CE fill the grid.
	db := mustDB(t, map[string]int{"AB": 10, "CD": 5, "CE": 1})
	template := "  \n ."

	g, err := grid.Parse(db, template)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, err := NewSolver(db, Config{Discrepancy: -1}).Solve(g); !errors.Is(err, ErrNoSolution) {
		t.Errorf("Solve() without backtracking error = %v, want ErrNoSolution", err)
	}

	solved, cost, err := SolveGrid(db, template)
	if err != nil {
		t.Fatalf("SolveGrid() with default discrepancy error = %v", err)
	}
	if solved != "CD\nE.\n" {
		t.Errorf("solved = %q, want CD\\nE.\\n", solved)
	}
	if math.Abs(cost-(1.0/5+1.0)) > 1e-12 {
		t.Errorf("cost = %v, want 1.2", cost)
	}
}

func TestSolveGrid_Deterministic(t *testing.T) {
	db := mustDB(t, map[string]int{
		"AB": 5, "CD": 4, "AC": 3, "BD": 2, "TO": 10, "TA": 1,
	})
	template := "  \n  "

	first, firstCost := solveOrFail(t, db, template)
	for i := 0; i < 3; i++ {
		again, againCost := solveOrFail(t, db, template)
		if again != first || againCost != firstCost {
			t.Fatalf("run %d: solved = %q cost %v, want %q cost %v", i, again, againCost, first, firstCost)
		}
	}
}

func TestSolveGrid_DecompositionMatchesIndependentSolves(t *testing.T) {
	db := mustDB(t, map[string]int{"AB": 2, "CD": 4})

	_, combined := solveOrFail(t, db, "A \n..\nC ")
	_, top := solveOrFail(t, db, "A ")
	_, bottom := solveOrFail(t, db, "C ")

	if math.Abs(combined-(top+bottom)) > 1e-12 {
		t.Errorf("combined cost = %v, want sum of components %v", combined, top+bottom)
	}
}

func TestSolveGrid_PicksCheaperFill(t *testing.T) {
	// Row 0 and column 0 both start with A, so one takes AB and the
	// other AC; row 1 and column 1 are then forced to BA and CA. Both
	// complete fills use the same four words at the same cost, so any
	// complete fill is the cheapest: check that the result is complete
	// and that its cost is the sum of 1/score over its words.
	db := mustDB(t, map[string]int{"AB": 5, "AC": 1, "BA": 7, "CA": 6})

	solved, cost := solveOrFail(t, db, "A \n  ")
	g, err := grid.Parse(db, solved)
	if err != nil {
		t.Fatalf("re-parsing solution: %v", err)
	}
	if !g.IsComplete() {
		t.Error("solution leaves blanks")
	}
	recomputed := 0.0
	for _, w := range g.Words() {
		word, _, ok := db.Lookup(w)
		if !ok {
			t.Fatalf("solution uses %q, not in database", w)
		}
		recomputed += 1 / float64(word.Score)
	}
	if math.Abs(cost-recomputed) > 1e-12 {
		t.Errorf("cost = %v, want recomputed %v", cost, recomputed)
	}
}
