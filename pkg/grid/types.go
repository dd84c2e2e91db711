// Package grid models a crossword grid being filled: the static geometry
// (cells, entries, cell-to-entry map) and the incremental state of a
// partial fill (cell letters, per-entry candidate bitmaps, completion
// flags and cost lower bounds).
package grid

import (
	"errors"

	"github.com/bits-and-blooms/bitset"
	"github.com/crosshare-org/crosshare/pkg/worddb"
)

// Direction represents the direction of a crossword entry
type Direction int

const (
	// ACROSS represents a horizontal word entry
	ACROSS Direction = iota
	// DOWN represents a vertical word entry
	DOWN
)

// String returns the string representation of the direction
func (d Direction) String() string {
	switch d {
	case ACROSS:
		return "across"
	case DOWN:
		return "down"
	default:
		return "unknown"
	}
}

// Cell markers. Any other cell value is an uppercase letter.
const (
	Block byte = '.' // Black square, never part of an entry
	Blank byte = ' ' // Not yet filled
)

var (
	// ErrMalformedTemplate is returned for a non-rectangular template or
	// one containing characters outside the permitted set.
	ErrMalformedTemplate = errors.New("malformed grid template")

	// ErrInfeasibleTemplate is returned when some entry of the template
	// has no candidate words at all.
	ErrInfeasibleTemplate = errors.New("infeasible grid template")

	// ErrInternalConsistency indicates a violated internal invariant,
	// such as committing a word over a conflicting letter. It is a bug
	// indicator, never the result of malformed user input. Grid methods
	// panic with an error wrapping this sentinel; the fill engine
	// recovers it at its API boundary.
	ErrInternalConsistency = errors.New("internal consistency error")
)

// CellRef locates an entry passing through a cell: the entry index and
// the cell's 0-based position within that entry. Entry is -1 when the
// cell has no entry in that direction.
type CellRef struct {
	Entry int
	Pos   int
}

// noEntry is the CellRef for a direction with no entry through the cell.
var noEntry = CellRef{Entry: -1}

// Entry is a word slot: a maximal run of at least two non-block cells in
// one direction.
//
// Bitmap is the set of word indexes (within the entry's length bucket)
// compatible with the currently fixed letters; nil is the unconstrained
// sentinel, distinct from an empty bitmap. MinCost is a lower bound on
// the entry's cost under the current bitmap.
type Entry struct {
	Index     int
	Direction Direction
	Cells     []int // Linear cell indexes, in reading order
	Bitmap    *bitset.BitSet
	Complete  bool
	MinCost   float64
}

// Len returns the entry length in cells.
func (e *Entry) Len() int {
	return len(e.Cells)
}

// Grid is one configuration of a fill in progress. Geometry (Width,
// Height, entry cell lists, the cell-to-entry map) is immutable after
// parsing; Cells, the dynamic entry fields and the used-word set change
// only by deriving a child state through WithEntryDecided.
//
// Treat all exposed fields as read-only.
type Grid struct {
	Width   int
	Height  int
	Cells   []byte // Row-major; Block, Blank, or an uppercase letter
	Entries []Entry

	db     *worddb.DB
	byCell [][2]CellRef // Per cell: across ref, down ref
	used   map[string]bool
}

// CellIndex returns the linear index of (x, y).
func (g *Grid) CellIndex(x, y int) int {
	return y*g.Width + x
}

// Cross returns the entry crossing the pos-th cell of e, in the
// perpendicular direction. ok is false when the cell has no crossing
// entry (an orphan run of length one is never an entry).
func (g *Grid) Cross(e *Entry, pos int) (CellRef, bool) {
	ref := g.byCell[e.Cells[pos]][1-e.Direction]
	return ref, ref.Entry >= 0
}

// EntryThrough returns the entry reference through a cell in the given
// direction.
func (g *Grid) EntryThrough(cell int, dir Direction) (CellRef, bool) {
	ref := g.byCell[cell][dir]
	return ref, ref.Entry >= 0
}

// Used reports whether a word has already been committed to some
// complete entry of this state.
func (g *Grid) Used(word string) bool {
	return g.used[word]
}
