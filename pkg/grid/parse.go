package grid

import (
	"fmt"
	"strings"

	"github.com/crosshare-org/crosshare/pkg/worddb"
)

// Parse builds the initial grid state from a text template.
//
// Each line is one row and every row must have the same width. Letters
// (either case) are pre-filled cells, space is a blank to fill, and both
// '.' and '#' are blocks. Leading and trailing blank lines are trimmed.
//
// Entries are extracted across-first in row-major order of their start
// cell, then down in the same order; runs shorter than two cells are not
// recorded. Every entry gets its initial candidate bitmap from the
// pre-filled letters; entries that are already complete contribute their
// word to the used set. Returns ErrInfeasibleTemplate if any entry has
// no candidates.
func Parse(db *worddb.DB, template string) (*Grid, error) {
	rows := strings.Split(strings.Trim(template, "\n"), "\n")
	if len(rows) == 0 || rows[0] == "" {
		return nil, fmt.Errorf("%w: empty template", ErrMalformedTemplate)
	}

	g := &Grid{
		Width:  len(rows[0]),
		Height: len(rows),
		db:     db,
		used:   make(map[string]bool),
	}
	g.Cells = make([]byte, g.Width*g.Height)
	g.byCell = make([][2]CellRef, g.Width*g.Height)
	for i := range g.byCell {
		g.byCell[i] = [2]CellRef{noEntry, noEntry}
	}

	for y, row := range rows {
		if len(row) != g.Width {
			return nil, fmt.Errorf("%w: row %d has width %d, want %d", ErrMalformedTemplate, y, len(row), g.Width)
		}
		for x := 0; x < g.Width; x++ {
			c := row[x]
			switch {
			case c == '.' || c == '#':
				c = Block
			case c == ' ':
				c = Blank
			case c >= 'a' && c <= 'z':
				c -= 'a' - 'A'
			case c >= 'A' && c <= 'Z':
			default:
				return nil, fmt.Errorf("%w: invalid character %q at row %d col %d", ErrMalformedTemplate, row[x], y, x)
			}
			g.Cells[g.CellIndex(x, y)] = c
		}
	}

	g.computeEntries()

	for i := range g.Entries {
		e := &g.Entries[i]
		pattern := g.Pattern(e)
		e.Bitmap = db.MatchingBitmap(pattern)
		cost, ok := db.MinCost(e.Len(), e.Bitmap)
		if !ok {
			return nil, fmt.Errorf("%w: no candidates for %d-%s %q", ErrInfeasibleTemplate, e.Index, e.Direction, pattern)
		}
		e.MinCost = cost
		if !strings.ContainsRune(pattern, rune(Blank)) {
			e.Complete = true
			g.used[pattern] = true
		}
	}

	return g, nil
}

// computeEntries identifies all word slots in the grid, across entries
// first (row-major order of their start cell), then down entries, and
// fills the cell-to-entry map. Runs of a single cell are skipped: such a
// cell simply has no entry in that direction.
func (g *Grid) computeEntries() {
	for _, dir := range []Direction{ACROSS, DOWN} {
		xincr, yincr := 1, 0
		if dir == DOWN {
			xincr, yincr = 0, 1
		}

		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				if g.isBlock(x, y) {
					continue
				}
				startOfRun := (dir == ACROSS && x == 0) || (dir == DOWN && y == 0) ||
					g.isBlock(x-xincr, y-yincr)
				if !startOfRun {
					continue
				}

				var cells []int
				for xt, yt := x, y; xt < g.Width && yt < g.Height && !g.isBlock(xt, yt); xt, yt = xt+xincr, yt+yincr {
					cells = append(cells, g.CellIndex(xt, yt))
				}
				if len(cells) < 2 {
					continue
				}

				index := len(g.Entries)
				g.Entries = append(g.Entries, Entry{
					Index:     index,
					Direction: dir,
					Cells:     cells,
				})
				for pos, cell := range cells {
					g.byCell[cell][dir] = CellRef{Entry: index, Pos: pos}
				}
			}
		}
	}
}

func (g *Grid) isBlock(x, y int) bool {
	return g.Cells[g.CellIndex(x, y)] == Block
}
