// Package fill implements the branch-and-bound search that completes a
// crossword grid at minimum cost: most-constrained-entry ordering,
// cost-based pruning, limited-discrepancy backtracking and independent
// subregion decomposition.
package fill

import (
	"errors"
	"fmt"

	"github.com/crosshare-org/crosshare/pkg/grid"
	"github.com/crosshare-org/crosshare/pkg/worddb"
)

var (
	// ErrNoSolution is returned when the search exhausts the space
	// without finding a complete fill.
	ErrNoSolution = errors.New("no valid fill found")
)

// DefaultDiscrepancy is the default limit on pitched decisions along a
// single root-to-leaf path.
const DefaultDiscrepancy = 2

// Config holds configuration parameters for the fill search.
type Config struct {
	// Discrepancy is the maximum number of times the search may reject
	// the locally preferred successor along one path. Zero means the
	// default; negative means no backtracking at all.
	Discrepancy int
}

// Solver runs fill searches over one word database. A Solver is not safe
// for concurrent use; the database it wraps is.
type Solver struct {
	db          *worddb.DB
	discrepancy int

	best     *grid.Grid
	bestCost float64
}

// NewSolver creates a solver with the given configuration.
func NewSolver(db *worddb.DB, config Config) *Solver {
	discrepancy := config.Discrepancy
	if discrepancy == 0 {
		discrepancy = DefaultDiscrepancy
	} else if discrepancy < 0 {
		discrepancy = 0
	}
	return &Solver{db: db, discrepancy: discrepancy}
}

// Solve searches for the cheapest complete fill of g. The first full
// solution found tightens the bound and prunes the rest of the space.
//
// Returns ErrNoSolution when no fill exists. An internal invariant
// violation surfaces as an error wrapping grid.ErrInternalConsistency;
// it aborts this call only.
func (s *Solver) Solve(g *grid.Grid) (solved *grid.Grid, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.Is(e, grid.ErrInternalConsistency) {
				solved, err = nil, e
				return
			}
			panic(r)
		}
	}()

	s.best, s.bestCost = nil, 0
	s.solve(g, nil, nil)
	if s.best == nil {
		return nil, ErrNoSolution
	}
	return s.best, nil
}

// SolveGrid parses a template and fills it against the database with the
// default configuration. On success it returns the completed grid text
// and its cost, the sum over entries of 1/score of the chosen words.
func SolveGrid(db *worddb.DB, template string) (string, float64, error) {
	g, err := grid.Parse(db, template)
	if err != nil {
		return "", 0, err
	}
	solved, err := NewSolver(db, Config{}).Solve(g)
	if err != nil {
		return "", 0, fmt.Errorf("fill %dx%d grid: %w", g.Width, g.Height, err)
	}
	return solved.String(), solved.MinCost(), nil
}
