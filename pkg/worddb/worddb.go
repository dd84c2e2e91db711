// Package worddb provides the in-memory scored word database used by the
// fill engine. Words are partitioned by length and indexed by precomputed
// per-(length, letter, position) membership bitmaps so that candidate
// enumeration under partial-letter constraints is a bitmap intersection.
package worddb

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

var (
	// ErrMalformedDatabase is returned when a word database file is
	// truncated or violates its structural invariants.
	ErrMalformedDatabase = errors.New("malformed word database")
)

// missingLengthPenalty is the fixed cost charged for an entry whose length
// has no words at all in the database. It keeps grid costs comparable when
// a template demands a word length the database cannot supply.
const missingLengthPenalty = 5.0

// Word is a fill candidate with its quality score.
type Word struct {
	Text  string // Uppercase ASCII word
	Score int    // Quality score, always positive
}

// DB is a read-only index of scored words.
//
// Within each length bucket words are sorted by ascending score; a word's
// position in that order is its word index. Indexes are stable for the
// lifetime of the DB and a higher index always means a higher (or tied)
// score. The bitmap for (length, letter, position) has bit k set iff the
// k-th word of that length has that letter at that position.
type DB struct {
	wordsByLength map[int][]Word
	bitmaps       map[int][26][]*bitset.BitSet
	indexByWord   map[string]int
	empty         *bitset.BitSet // canonical zero bitmap for unknown lengths
}

// New builds a database from a list of scored words.
//
// Words are uppercased, words shorter than two letters or with a
// non-positive score are dropped, and any word containing a character
// outside A-Z is an error. Ties in score keep input order.
func New(words []Word) (*DB, error) {
	db := &DB{
		wordsByLength: make(map[int][]Word),
		bitmaps:       make(map[int][26][]*bitset.BitSet),
		indexByWord:   make(map[string]int),
		empty:         bitset.New(0),
	}

	for _, w := range words {
		text := strings.ToUpper(w.Text)
		if len(text) < 2 || w.Score <= 0 {
			continue
		}
		for i := 0; i < len(text); i++ {
			if text[i] < 'A' || text[i] > 'Z' {
				return nil, fmt.Errorf("%w: word %q contains invalid character", ErrMalformedDatabase, w.Text)
			}
		}
		db.wordsByLength[len(text)] = append(db.wordsByLength[len(text)], Word{Text: text, Score: w.Score})
	}

	for length, bucket := range db.wordsByLength {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Score < bucket[j].Score
		})
		for idx, w := range bucket {
			db.indexByWord[w.Text] = idx
		}
		db.bitmaps[length] = buildBitmaps(length, bucket)
	}

	return db, nil
}

// buildBitmaps computes the per-(letter, position) membership bitmaps for
// one length bucket. Bitmap width equals the bucket size.
func buildBitmaps(length int, bucket []Word) [26][]*bitset.BitSet {
	var maps [26][]*bitset.BitSet
	for letter := 0; letter < 26; letter++ {
		maps[letter] = make([]*bitset.BitSet, length)
		for pos := 0; pos < length; pos++ {
			maps[letter][pos] = bitset.New(uint(len(bucket)))
		}
	}
	for idx, w := range bucket {
		for pos := 0; pos < length; pos++ {
			letter := w.Text[pos] - 'A'
			maps[letter][pos].Set(uint(idx))
		}
	}
	return maps
}

// Size returns the total number of words in the database.
func (db *DB) Size() int {
	count := 0
	for _, bucket := range db.wordsByLength {
		count += len(bucket)
	}
	return count
}

// Lengths returns the word lengths present in the database, ascending.
func (db *DB) Lengths() []int {
	lengths := make([]int, 0, len(db.wordsByLength))
	for length := range db.wordsByLength {
		lengths = append(lengths, length)
	}
	sort.Ints(lengths)
	return lengths
}

// WordsOfLength returns the bucket for a length in word-index order
// (ascending score). The returned slice is shared and must not be
// modified. Returns nil if no words of that length exist.
func (db *DB) WordsOfLength(length int) []Word {
	return db.wordsByLength[length]
}

// Lookup returns the word entry and word index for an exact word, or
// false if the word is not in the database.
func (db *DB) Lookup(word string) (Word, int, bool) {
	idx, ok := db.indexByWord[strings.ToUpper(word)]
	if !ok {
		return Word{}, 0, false
	}
	return db.wordsByLength[len(word)][idx], idx, true
}

// NumMatches returns the number of candidate words in a bitmap. A nil
// bitmap is the unconstrained sentinel and counts the whole bucket.
func (db *DB) NumMatches(length int, bm *bitset.BitSet) int {
	if bm == nil {
		return len(db.wordsByLength[length])
	}
	return int(bm.Count())
}

// LetterBitmap returns the precomputed bitmap of words of the given
// length with the given letter at the given position. The returned
// bitmap is shared and must never be mutated. Lengths absent from the
// database yield the canonical empty bitmap.
func (db *DB) LetterBitmap(length int, letter byte, pos int) *bitset.BitSet {
	maps, ok := db.bitmaps[length]
	if !ok || pos < 0 || pos >= length || letter < 'A' || letter > 'Z' {
		return db.empty
	}
	return maps[letter-'A'][pos]
}

// UpdateBitmap narrows a candidate bitmap by fixing one letter at one
// position. A nil bitmap (unconstrained) yields the letter bitmap itself;
// otherwise the result is a freshly allocated intersection. Neither input
// is modified.
func (db *DB) UpdateBitmap(length int, bm *bitset.BitSet, pos int, letter byte) *bitset.BitSet {
	lbm := db.LetterBitmap(length, letter, pos)
	if bm == nil {
		return lbm
	}
	return bm.Intersection(lbm)
}

// MatchingBitmap computes the candidate bitmap for a pattern. Space and
// '?' are wildcards; every other character must be a letter. Returns nil
// (the unconstrained sentinel) when the pattern fixes no letters.
func (db *DB) MatchingBitmap(pattern string) *bitset.BitSet {
	pattern = strings.ToUpper(pattern)
	var bm *bitset.BitSet
	for pos := 0; pos < len(pattern); pos++ {
		c := pattern[pos]
		if c == ' ' || c == '?' {
			continue
		}
		bm = db.UpdateBitmap(len(pattern), bm, pos, c)
	}
	return bm
}

// ForEachMatching visits the words whose indexes are set in the bitmap,
// highest word index (highest score) first. Iteration stops early when
// the callback returns false. A nil bitmap visits the entire bucket in
// score-descending order.
func (db *DB) ForEachMatching(length int, bm *bitset.BitSet, fn func(w Word, index int) bool) {
	bucket := db.wordsByLength[length]
	if bm == nil {
		for idx := len(bucket) - 1; idx >= 0; idx-- {
			if !fn(bucket[idx], idx) {
				return
			}
		}
		return
	}
	forEachSetDesc(bm, func(i uint) bool {
		if int(i) >= len(bucket) {
			return true
		}
		return fn(bucket[i], int(i))
	})
}

// MatchingWords returns the candidate words for a bitmap in
// score-descending order. Callers rely on this order to explore good
// candidates first.
func (db *DB) MatchingWords(length int, bm *bitset.BitSet) []Word {
	words := make([]Word, 0, db.NumMatches(length, bm))
	db.ForEachMatching(length, bm, func(w Word, _ int) bool {
		words = append(words, w)
		return true
	})
	return words
}

// HighestScore returns the best-scoring candidate in the bitmap, the
// word at the highest set bit. Returns false if the bitmap is empty, or
// if it is unconstrained over an empty bucket.
func (db *DB) HighestScore(length int, bm *bitset.BitSet) (Word, bool) {
	bucket := db.wordsByLength[length]
	if bm == nil {
		if len(bucket) == 0 {
			return Word{}, false
		}
		return bucket[len(bucket)-1], true
	}
	top, ok := highestSet(bm)
	if !ok || int(top) >= len(bucket) {
		return Word{}, false
	}
	return bucket[top], true
}

// MinCost returns the cost lower bound for an entry holding this bitmap:
// the reciprocal of the best candidate's score. An unconstrained bitmap
// over a length with no words at all costs the fixed penalty. ok is
// false when the bitmap is empty, which makes the holding state
// infeasible.
func (db *DB) MinCost(length int, bm *bitset.BitSet) (cost float64, ok bool) {
	if bm == nil && len(db.wordsByLength[length]) == 0 {
		return missingLengthPenalty, true
	}
	best, ok := db.HighestScore(length, bm)
	if !ok {
		return 0, false
	}
	return 1 / float64(best.Score), true
}
