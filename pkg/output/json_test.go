package output

import (
	"encoding/json"
	"testing"

	"github.com/crosshare-org/crosshare/pkg/grid"
	"github.com/crosshare-org/crosshare/pkg/worddb"
)

type dbScorer struct {
	db *worddb.DB
}

func (s dbScorer) Lookup(word string) (int, bool) {
	w, _, ok := s.db.Lookup(word)
	return w.Score, ok
}

func solvedGrid(t *testing.T) (*grid.Grid, *worddb.DB) {
	t.Helper()
	db, err := worddb.New([]worddb.Word{
		{Text: "CA", Score: 2},
		{Text: "AT", Score: 3},
	})
	if err != nil {
		t.Fatalf("worddb.New() error = %v", err)
	}
	g, err := grid.Parse(db, "CA\nAT")
	if err != nil {
		t.Fatalf("grid.Parse() error = %v", err)
	}
	return g, db
}

func TestFormatJSON(t *testing.T) {
	g, db := solvedGrid(t)

	doc := FormatJSON(g, dbScorer{db})
	if doc.Width != 2 || doc.Height != 2 {
		t.Errorf("dimensions = %dx%d, want 2x2", doc.Width, doc.Height)
	}
	if doc.Grid[0][0] != "C" || doc.Grid[1][1] != "T" {
		t.Errorf("grid cells = %v", doc.Grid)
	}

	if len(doc.Across) != 2 || len(doc.Down) != 2 {
		t.Fatalf("entries = %d across, %d down, want 2 and 2", len(doc.Across), len(doc.Down))
	}
	first := doc.Across[0]
	if first.Word != "CA" || first.Score != 2 || first.Row != 0 || first.Col != 0 || first.Length != 2 {
		t.Errorf("Across[0] = %+v", first)
	}
	down := doc.Down[1]
	if down.Word != "AT" || down.Col != 1 || down.Direction != "down" {
		t.Errorf("Down[1] = %+v", down)
	}
}

func TestFormatJSON_NilScorer(t *testing.T) {
	g, _ := solvedGrid(t)

	doc := FormatJSON(g, nil)
	if doc.Across[0].Score != 0 {
		t.Errorf("Score with nil scorer = %d, want 0", doc.Across[0].Score)
	}
}

func TestToJSON_RoundTrips(t *testing.T) {
	g, db := solvedGrid(t)

	data, err := ToJSON(g, dbScorer{db})
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var doc SolutionJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Cost != g.MinCost() {
		t.Errorf("cost = %v, want %v", doc.Cost, g.MinCost())
	}
}
