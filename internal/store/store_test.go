package store

import (
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/crosshare-org/crosshare/pkg/cluedata"
)

func testData() *cluedata.Data {
	return &cluedata.Data{
		Words: []string{"HELLO", "WORLD", "THEME"},
		Clues: []cluedata.Clue{
			{Text: "A greeting"},
			{Text: "The earth"},
		},
		Usages: []cluedata.Usage{
			{WordIndex: 0, Count: 3, Difficulty: 2, Year: 2019, Publication: 8, ClueIndex: 0},
			{WordIndex: 1, Count: 4, Difficulty: 1, Year: 2020, Publication: 3, ClueIndex: 1},
			{WordIndex: 2, Count: 9, Difficulty: 3, Year: 2021, Themed: true, Publication: 8, ClueIndex: 0},
		},
	}
}

func openStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "words.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.InitSchema(); err != nil {
		t.Fatalf("InitSchema() error = %v", err)
	}
	return st
}

func TestSaveDataset(t *testing.T) {
	st := openStore(t)

	if err := st.SaveDataset(testData()); err != nil {
		t.Fatalf("SaveDataset() error = %v", err)
	}

	stats, err := st.ReadStats()
	if err != nil {
		t.Fatalf("ReadStats() error = %v", err)
	}
	// THEME scores zero and drops, along with its usages.
	if stats.TotalWords != 2 {
		t.Errorf("TotalWords = %d, want 2", stats.TotalWords)
	}
	if stats.TotalClues != 2 {
		t.Errorf("TotalClues = %d, want 2", stats.TotalClues)
	}
	if stats.TotalUsages != 2 {
		t.Errorf("TotalUsages = %d, want 2", stats.TotalUsages)
	}
	if stats.ByLength[5] != 2 {
		t.Errorf("ByLength[5] = %d, want 2", stats.ByLength[5])
	}
}

func TestTopWords(t *testing.T) {
	st := openStore(t)
	if err := st.SaveDataset(testData()); err != nil {
		t.Fatalf("SaveDataset() error = %v", err)
	}

	top, err := st.TopWords(1)
	if err != nil {
		t.Fatalf("TopWords() error = %v", err)
	}
	if len(top) != 1 || top[0].Text != "HELLO" || top[0].Score != 15 {
		t.Errorf("TopWords(1) = %v, want [HELLO 15]", top)
	}
}

func TestSaveDataset_Idempotent(t *testing.T) {
	st := openStore(t)

	for i := 0; i < 2; i++ {
		if err := st.SaveDataset(testData()); err != nil {
			t.Fatalf("SaveDataset() round %d error = %v", i, err)
		}
	}

	stats, err := st.ReadStats()
	if err != nil {
		t.Fatalf("ReadStats() error = %v", err)
	}
	if stats.TotalWords != 2 {
		t.Errorf("TotalWords after re-export = %d, want 2", stats.TotalWords)
	}
}
