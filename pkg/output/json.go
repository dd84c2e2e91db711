// Package output renders solved grids for export.
package output

import (
	"encoding/json"

	"github.com/crosshare-org/crosshare/pkg/grid"
)

// EntryJSON represents one filled entry in the JSON format
type EntryJSON struct {
	Index     int    `json:"index"`
	Direction string `json:"direction"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Length    int    `json:"length"`
	Word      string `json:"word"`
	Score     int    `json:"score,omitempty"`
}

// SolutionJSON represents a solved grid in the JSON format for export
type SolutionJSON struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Grid   [][]string `json:"grid"` // 2D array with letters or '.' for black cells
	Cost   float64    `json:"cost"`
	Across []EntryJSON `json:"across"`
	Down   []EntryJSON `json:"down"`
}

// Scorer resolves a word to its database score; worddb.DB satisfies it
// through a small adapter in the callers.
type Scorer interface {
	Lookup(word string) (score int, ok bool)
}

// FormatJSON converts a solved grid to a SolutionJSON struct. scorer may
// be nil, in which case per-entry scores are omitted.
func FormatJSON(g *grid.Grid, scorer Scorer) *SolutionJSON {
	cells := make([][]string, g.Height)
	for y := 0; y < g.Height; y++ {
		cells[y] = make([]string, g.Width)
		for x := 0; x < g.Width; x++ {
			cells[y][x] = string(g.Cells[g.CellIndex(x, y)])
		}
	}

	doc := &SolutionJSON{
		Width:  g.Width,
		Height: g.Height,
		Grid:   cells,
		Cost:   g.MinCost(),
	}

	for i := range g.Entries {
		e := &g.Entries[i]
		start := e.Cells[0]
		entry := EntryJSON{
			Index:     e.Index,
			Direction: e.Direction.String(),
			Row:       start / g.Width,
			Col:       start % g.Width,
			Length:    e.Len(),
			Word:      g.Pattern(e),
		}
		if scorer != nil {
			if score, ok := scorer.Lookup(entry.Word); ok {
				entry.Score = score
			}
		}
		if e.Direction == grid.ACROSS {
			doc.Across = append(doc.Across, entry)
		} else {
			doc.Down = append(doc.Down, entry)
		}
	}

	return doc
}

// ToJSON converts a solved grid to indented JSON bytes.
func ToJSON(g *grid.Grid, scorer Scorer) ([]byte, error) {
	return json.MarshalIndent(FormatJSON(g, scorer), "", "  ")
}
