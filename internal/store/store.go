// Package store persists a compiled word database — words with their
// scores plus the clue records the fill core ignores — into a SQLite
// file for offline tooling.
package store

import (
	"database/sql"
	"fmt"

	"github.com/crosshare-org/crosshare/pkg/cluedata"
)

// Store wraps the SQLite database holding exported words and clues.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a store at the given path. The sqlite3 driver
// must be registered by the importing binary.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// InitSchema creates all store tables.
func (s *Store) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS words (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		word TEXT NOT NULL UNIQUE,
		length INTEGER NOT NULL,
		score INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS clues (
		id INTEGER PRIMARY KEY,
		text TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS clue_usages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		word_id INTEGER NOT NULL REFERENCES words(id) ON DELETE CASCADE,
		clue_id INTEGER NOT NULL REFERENCES clues(id) ON DELETE CASCADE,
		count INTEGER NOT NULL,
		difficulty INTEGER NOT NULL,
		year INTEGER NOT NULL,
		themed INTEGER NOT NULL,
		publication INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_words_length ON words(length);
	CREATE INDEX IF NOT EXISTS idx_usages_word ON clue_usages(word_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// SaveDataset writes a parsed clue dataset into the store: the words
// that survive scoring, every clue text, and the usage records of the
// surviving words. Runs in a single transaction.
func (s *Store) SaveDataset(data *cluedata.Data) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertWord, err := tx.Prepare(`INSERT OR REPLACE INTO words (word, length, score) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertWord.Close()

	wordIDs := make(map[string]int64)
	for _, sw := range data.ScoredWords() {
		res, err := insertWord.Exec(sw.Text, len(sw.Text), sw.Score)
		if err != nil {
			return fmt.Errorf("failed to insert word %q: %w", sw.Text, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		wordIDs[sw.Text] = id
	}

	insertClue, err := tx.Prepare(`INSERT OR REPLACE INTO clues (id, text) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer insertClue.Close()

	for i, clue := range data.Clues {
		if _, err := insertClue.Exec(i, clue.Text); err != nil {
			return fmt.Errorf("failed to insert clue %d: %w", i, err)
		}
	}

	insertUsage, err := tx.Prepare(`
		INSERT INTO clue_usages (word_id, clue_id, count, difficulty, year, themed, publication)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertUsage.Close()

	for _, u := range data.Usages {
		wordID, ok := wordIDs[data.Words[u.WordIndex]]
		if !ok {
			// Word dropped by scoring; its usages go with it.
			continue
		}
		themed := 0
		if u.Themed {
			themed = 1
		}
		if _, err := insertUsage.Exec(wordID, u.ClueIndex, u.Count, u.Difficulty, u.Year, themed, u.Publication); err != nil {
			return fmt.Errorf("failed to insert usage: %w", err)
		}
	}

	return tx.Commit()
}

// Stats summarizes the store contents.
type Stats struct {
	TotalWords  int
	TotalClues  int
	TotalUsages int
	ByLength    map[int]int
}

// ReadStats gathers summary statistics from the store.
func (s *Store) ReadStats() (*Stats, error) {
	stats := &Stats{ByLength: make(map[int]int)}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM words`).Scan(&stats.TotalWords); err != nil {
		return nil, fmt.Errorf("failed to count words: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM clues`).Scan(&stats.TotalClues); err != nil {
		return nil, fmt.Errorf("failed to count clues: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM clue_usages`).Scan(&stats.TotalUsages); err != nil {
		return nil, fmt.Errorf("failed to count usages: %w", err)
	}

	rows, err := s.db.Query(`SELECT length, COUNT(*) FROM words GROUP BY length ORDER BY length`)
	if err != nil {
		return nil, fmt.Errorf("failed to query length histogram: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var length, count int
		if err := rows.Scan(&length, &count); err != nil {
			return nil, err
		}
		stats.ByLength[length] = count
	}
	return stats, rows.Err()
}

// TopWords returns the n best-scoring words in the store, descending.
func (s *Store) TopWords(n int) ([]cluedata.ScoredWord, error) {
	rows, err := s.db.Query(`SELECT word, score FROM words ORDER BY score DESC, word ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query top words: %w", err)
	}
	defer rows.Close()

	var words []cluedata.ScoredWord
	for rows.Next() {
		var sw cluedata.ScoredWord
		if err := rows.Scan(&sw.Text, &sw.Score); err != nil {
			return nil, err
		}
		words = append(words, sw)
	}
	return words, rows.Err()
}
