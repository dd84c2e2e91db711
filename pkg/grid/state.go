package grid

import (
	"fmt"
	"strings"
)

// Pattern returns the entry's current letters with Blank for unfilled
// cells.
func (g *Grid) Pattern(e *Entry) string {
	var sb strings.Builder
	sb.Grow(len(e.Cells))
	for _, cell := range e.Cells {
		sb.WriteByte(g.Cells[cell])
	}
	return sb.String()
}

// MinCost returns the cost lower bound of this state: the sum of every
// entry's cost lower bound. Any completed descendant costs at least this
// much, and a fully completed state costs exactly this much.
func (g *Grid) MinCost() float64 {
	total := 0.0
	for i := range g.Entries {
		total += g.Entries[i].MinCost
	}
	return total
}

// IsComplete reports whether every entry has been filled.
func (g *Grid) IsComplete() bool {
	for i := range g.Entries {
		if !g.Entries[i].Complete {
			return false
		}
	}
	return true
}

// Words returns the words of all complete entries, in entry order.
func (g *Grid) Words() []string {
	var words []string
	for i := range g.Entries {
		if g.Entries[i].Complete {
			words = append(words, g.Pattern(&g.Entries[i]))
		}
	}
	return words
}

// String renders the grid, one row per line, each line '\n'-terminated.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow((g.Width + 1) * g.Height)
	for y := 0; y < g.Height; y++ {
		sb.Write(g.Cells[y*g.Width : (y+1)*g.Width])
		sb.WriteByte('\n')
	}
	return sb.String()
}

// clone copies the dynamic state (cells, entry bitmaps/flags/costs, used
// words) and shares the immutable geometry and database.
func (g *Grid) clone() *Grid {
	child := &Grid{
		Width:   g.Width,
		Height:  g.Height,
		Cells:   append([]byte(nil), g.Cells...),
		Entries: append([]Entry(nil), g.Entries...),
		db:      g.db,
		byCell:  g.byCell,
		used:    make(map[string]bool, len(g.used)+2),
	}
	for w := range g.used {
		child.used[w] = true
	}
	return child
}

// WithEntryDecided derives the child state in which word is committed to
// the given entry. The parent is left intact.
//
// Every crossing entry's bitmap is narrowed by the letter now fixed at
// its crossing position and its cost bound recomputed; a crossing entry
// whose cells are all filled afterwards is complete and its word joins
// the used set. Returns nil when any crossing bitmap becomes empty or a
// completed word is already used: the child would be infeasible.
//
// Committing a word of the wrong length, or over a cell that already
// holds a different letter, is a programming error and panics with
// ErrInternalConsistency.
func (g *Grid) WithEntryDecided(entryIndex int, word string) *Grid {
	word = strings.ToUpper(word)
	e := &g.Entries[entryIndex]
	if len(word) != e.Len() {
		panic(fmt.Errorf("%w: word %q has length %d, entry %d wants %d",
			ErrInternalConsistency, word, len(word), entryIndex, e.Len()))
	}

	child := g.clone()
	decided := &child.Entries[entryIndex]

	for pos, cell := range decided.Cells {
		cur := child.Cells[cell]
		if cur == word[pos] {
			continue
		}
		if cur != Blank {
			panic(fmt.Errorf("%w: cell %d holds %q, cannot commit %q of %q",
				ErrInternalConsistency, cell, cur, word[pos], word))
		}
		child.Cells[cell] = word[pos]

		ref, ok := child.Cross(decided, pos)
		if !ok {
			continue
		}
		cross := &child.Entries[ref.Entry]
		cross.Bitmap = child.db.UpdateBitmap(cross.Len(), cross.Bitmap, ref.Pos, word[pos])
		cost, feasible := child.db.MinCost(cross.Len(), cross.Bitmap)
		if !feasible {
			return nil
		}
		cross.MinCost = cost

		if !cross.Complete && child.entryFilled(cross) {
			crossWord := child.Pattern(cross)
			if child.used[crossWord] {
				return nil
			}
			child.used[crossWord] = true
			cross.Complete = true
		}
	}

	decided.Bitmap = child.db.MatchingBitmap(word)
	cost, feasible := child.db.MinCost(len(word), decided.Bitmap)
	if !feasible {
		return nil
	}
	decided.MinCost = cost
	if !decided.Complete {
		if child.used[word] {
			return nil
		}
		child.used[word] = true
		decided.Complete = true
	}

	return child
}

// entryFilled reports whether none of the entry's cells are blank.
func (g *Grid) entryFilled(e *Entry) bool {
	for _, cell := range e.Cells {
		if g.Cells[cell] == Blank {
			return false
		}
	}
	return true
}
