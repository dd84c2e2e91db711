package worddb

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/crosshare-org/crosshare/pkg/cluedata"
)

// Open loads a database from the raw binary clue dataset, scoring words
// from their usage records and building the length buckets and bitmaps.
func Open(path string) (*DB, error) {
	data, err := cluedata.ParseFile(path)
	if err != nil {
		if errors.Is(err, cluedata.ErrMalformed) {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDatabase, err)
		}
		return nil, err
	}
	return FromClueData(data)
}

// FromClueData builds a database from an already parsed dataset.
func FromClueData(data *cluedata.Data) (*DB, error) {
	scored := data.ScoredWords()
	words := make([]Word, len(scored))
	for i, sw := range scored {
		words[i] = Word{Text: sw.Text, Score: sw.Score}
	}
	return New(words)
}

// LoadWordlist loads a database from a text wordlist in WORD;SCORE
// format, one entry per line. Words are uppercased. Blank lines are
// skipped. Returns an error if the file is missing or malformed.
func LoadWordlist(path string) (*DB, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open wordlist file: %w", err)
	}
	defer file.Close()

	var words []Word
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, ";")
		if len(parts) != 2 {
			return nil, fmt.Errorf("%w: line %d: expected 'WORD;SCORE', got %q", ErrMalformedDatabase, lineNum, line)
		}

		text := strings.ToUpper(strings.TrimSpace(parts[0]))
		if text == "" {
			return nil, fmt.Errorf("%w: line %d: empty word", ErrMalformedDatabase, lineNum)
		}

		score, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid score %q", ErrMalformedDatabase, lineNum, parts[1])
		}

		words = append(words, Word{Text: text, Score: score})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading wordlist file: %w", err)
	}

	return New(words)
}
