// Package cluedata parses the raw binary scored-clue dataset and derives
// word quality scores from it. The fill engine itself never reads clue
// text; this package exists so the word database can be compiled from the
// raw dataset and so the clue records can be exported for other tools.
package cluedata

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMalformed is returned when the dataset is truncated or fails a
// structural invariant (for example a usage record referencing a word
// that does not exist).
var ErrMalformed = errors.New("malformed clue dataset")

// pubNYT is the publication code whose usages weigh five times more in
// scoring.
const (
	pubNYT       = 8
	nytScoreMult = 5
)

// Usage is one clue-usage record: an appearance of a word with a clue in
// some published puzzle.
type Usage struct {
	WordIndex   int  // Index into Data.Words
	Count       int  // Number of appearances
	Difficulty  int  // Weekday-style difficulty code
	Year        int  // Publication year
	Themed      bool // Theme entries do not contribute to scoring
	Publication int  // Publication code
	ClueIndex   int  // Index into Data.Clues
}

// Clue is a clue text with its trap references (packed word indexes of
// lookalike answers).
type Clue struct {
	Text  string
	Traps []uint32
}

// ScoredWord is a word with the quality score computed from its usages.
type ScoredWord struct {
	Text  string
	Score int
}

// Data is the fully parsed dataset.
type Data struct {
	Words  []string
	Clues  []Clue
	Usages []Usage
}

// ParseFile opens and parses a dataset file.
func ParseFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open clue dataset: %w", err)
	}
	defer f.Close()
	return Parse(bufio.NewReader(f))
}

// Parse reads the little-endian dataset layout: a word block, a clue
// block, then clue-usage records until EOF.
func Parse(r io.Reader) (*Data, error) {
	data := &Data{}

	numWords, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("%w: word count: %v", ErrMalformed, err)
	}
	data.Words = make([]string, 0, numWords)
	for i := uint32(0); i < numWords; i++ {
		word, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("%w: word %d: %v", ErrMalformed, i, err)
		}
		data.Words = append(data.Words, strings.ToUpper(word))
	}

	numClues, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("%w: clue count: %v", ErrMalformed, err)
	}
	data.Clues = make([]Clue, 0, numClues)
	for i := uint32(0); i < numClues; i++ {
		text, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("%w: clue %d: %v", ErrMalformed, i, err)
		}
		numTraps, err := readU32(r)
		if err != nil {
			return nil, fmt.Errorf("%w: clue %d trap count: %v", ErrMalformed, i, err)
		}
		clue := Clue{Text: text}
		for t := uint32(0); t < numTraps; t++ {
			trap, err := readU32(r)
			if err != nil {
				return nil, fmt.Errorf("%w: clue %d trap %d: %v", ErrMalformed, i, t, err)
			}
			clue.Traps = append(clue.Traps, trap)
		}
		data.Clues = append(data.Clues, clue)
	}

	for {
		usage, err := readUsage(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: usage %d: %v", ErrMalformed, len(data.Usages), err)
		}
		if usage.WordIndex >= len(data.Words) {
			return nil, fmt.Errorf("%w: usage %d references word %d of %d", ErrMalformed, len(data.Usages), usage.WordIndex, len(data.Words))
		}
		if usage.ClueIndex >= len(data.Clues) {
			return nil, fmt.Errorf("%w: usage %d references clue %d of %d", ErrMalformed, len(data.Usages), usage.ClueIndex, len(data.Clues))
		}
		data.Usages = append(data.Usages, usage)
	}

	return data, nil
}

// ScoredWords computes the quality score of every word from its usage
// records and returns the words that survive scoring.
//
// Each non-themed usage contributes its appearance count, weighted by
// five for the NYT publication code. Words with no positive score are
// dropped.
func (d *Data) ScoredWords() []ScoredWord {
	scores := make([]int, len(d.Words))
	for _, u := range d.Usages {
		if u.Themed {
			continue
		}
		if u.Publication == pubNYT {
			scores[u.WordIndex] += u.Count * nytScoreMult
		} else {
			scores[u.WordIndex] += u.Count
		}
	}

	var words []ScoredWord
	for i, text := range d.Words {
		if scores[i] > 0 {
			words = append(words, ScoredWord{Text: text, Score: scores[i]})
		}
	}
	return words
}

// UsagesByWord groups the usage records by word text.
func (d *Data) UsagesByWord() map[string][]Usage {
	byWord := make(map[string][]Usage)
	for _, u := range d.Usages {
		word := d.Words[u.WordIndex]
		byWord[word] = append(byWord[word], u)
	}
	return byWord
}

// WriteWordlist writes the surviving words as WORD;SCORE lines, the text
// wordlist format the solve command also accepts.
func (d *Data) WriteWordlist(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, sw := range d.ScoredWords() {
		if _, err := fmt.Fprintf(bw, "%s;%d\n", sw.Text, sw.Score); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func readU32(r io.Reader) (uint32, error) {
	var v uint32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// readString reads a u8 length followed by that many ASCII bytes.
func readString(r io.Reader) (string, error) {
	var length uint8
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// readUsage reads one fixed-size usage record. A clean EOF before the
// first byte signals the end of the dataset; EOF inside the record is a
// truncation.
func readUsage(r io.Reader) (Usage, error) {
	var rec struct {
		WordIndex   uint32
		Count       int16
		Difficulty  int16
		Year        int16
		Themed      int8
		Publication int8
		ClueIndex   uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &rec.WordIndex); err != nil {
		if err == io.EOF {
			return Usage{}, io.EOF
		}
		return Usage{}, err
	}
	rest := []interface{}{&rec.Count, &rec.Difficulty, &rec.Year, &rec.Themed, &rec.Publication, &rec.ClueIndex}
	for _, field := range rest {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return Usage{}, err
		}
	}
	return Usage{
		WordIndex:   int(rec.WordIndex),
		Count:       int(rec.Count),
		Difficulty:  int(rec.Difficulty),
		Year:        int(rec.Year),
		Themed:      rec.Themed != 0,
		Publication: int(rec.Publication),
		ClueIndex:   int(rec.ClueIndex),
	}, nil
}
