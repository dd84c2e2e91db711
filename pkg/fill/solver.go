package fill

import (
	"sort"

	"github.com/crosshare-org/crosshare/pkg/grid"
	"github.com/crosshare-org/crosshare/pkg/worddb"
)

// pitch is a rejected (entry, word) decision that must not be reselected
// along the current search branch. The list stays short (at most the
// discrepancy budget), so a slice beats a set.
type pitch struct {
	entry int
	word  string
}

func pitchedContains(pitched []pitch, entry int, word string) bool {
	for _, p := range pitched {
		if p.entry == entry && p.word == word {
			return true
		}
	}
	return false
}

// solve is the main branch-and-bound recursion.
//
// It prunes against the best known solution, splits independent
// subregions, selects a single successor (most-constrained entry with a
// cost-gap tiebreak), and branches: descend into the successor, and —
// while the discrepancy budget allows — also re-solve the current state
// with the chosen decision pitched.
//
// restrict, when non-nil, limits the search to a subregion's entries.
// The return value is the best completed grid found under this node, or
// nil if the subtree is infeasible or pruned away.
func (s *Solver) solve(g *grid.Grid, pitched []pitch, restrict map[int]bool) *grid.Grid {
	base := g.MinCost()
	if s.best != nil && base >= s.bestCost {
		return nil
	}

	open := s.openEntries(g, restrict)
	if len(open) == 0 {
		if restrict == nil {
			// Fully solved.
			if s.best == nil || base < s.bestCost {
				s.best, s.bestCost = g, base
			}
			return g
		}
		// Subregion done; the caller continues on the rest.
		return g
	}

	// Independent subregions: solve the smallest first, then the rest on
	// the grid it produces. If the smallest has no fill, neither has the
	// whole.
	if subsets := g.StableSubsets(restrict); len(subsets) > 1 {
		sort.SliceStable(subsets, func(i, j int) bool {
			return len(subsets[i]) < len(subsets[j])
		})
		solved := s.solve(g, pitched, toSet(subsets[0]))
		if solved == nil {
			return nil
		}
		return s.solve(solved, pitched, restrict)
	}

	successor := s.selectSuccessor(g, base, open, pitched)
	if successor.child == nil {
		return nil
	}

	childRestrict := without(restrict, successor.entry)
	if len(pitched) >= s.discrepancy {
		return s.solve(successor.child, pitched, childRestrict)
	}

	r1 := s.solve(successor.child, pitched, childRestrict)

	withPitch := make([]pitch, len(pitched), len(pitched)+1)
	copy(withPitch, pitched)
	withPitch = append(withPitch, pitch{entry: successor.entry, word: successor.word})
	r2 := s.solve(g, withPitch, restrict)

	if r2 != nil && (r1 == nil || r2.MinCost() < r1.MinCost()) {
		return r2
	}
	return r1
}

// successorChoice is the decision solve descends into: the child grid
// plus the (entry, word) that produced it.
type successorChoice struct {
	child *grid.Grid
	entry int
	word  string
}

// selectSuccessor picks the next decision among the open entries.
//
// Entries are visited most-constrained first (fewest bitmap candidates).
// For each entry the candidates are tried in score-descending order,
// keeping a running top-2 of child costs; the gap between best and
// second-best child is the entry's leverage, and the entry with the
// widest gap wins. An entry with exactly one viable word is forced and
// selected immediately; an entry with none makes the whole state
// infeasible (zero-valued choice). Candidate-level prunes compare an
// optimistic new cost against the entry's second-best child when one is
// known, falling back to the best known solution cost once one exists.
func (s *Solver) selectSuccessor(g *grid.Grid, base float64, open []int, pitched []pitch) successorChoice {
	var (
		chosen     successorChoice
		chosenDiff float64
		have       bool
		skip       bool
	)

	for _, entryIdx := range open {
		e := &g.Entries[entryIdx]
		var (
			bestChild  *grid.Grid
			bestWord   string
			bestCost   float64
			secondCost float64
			haveSecond bool
		)

		s.db.ForEachMatching(e.Len(), e.Bitmap, func(w worddb.Word, _ int) bool {
			if pitchedContains(pitched, entryIdx, w.Text) {
				return true
			}
			if g.Used(w.Text) {
				return true
			}

			costToBeat, bounded := s.costToBeat(secondCost, haveSecond)

			// Entry-local prune: even keeping every other entry at its
			// current bound, this word already costs too much.
			if bounded && base-e.MinCost+1/float64(w.Score) > costToBeat {
				return true
			}
			// Cross-local prune: some crossing entry's bound would grow
			// past the target on its own.
			if bounded && s.crossPruned(g, e, w.Text, base, costToBeat) {
				return true
			}

			child := g.WithEntryDecided(entryIdx, w.Text)
			if child == nil {
				return true
			}
			newCost := child.MinCost()
			if bounded && newCost > costToBeat {
				return true
			}

			if bestChild == nil || newCost < bestCost {
				if bestChild != nil {
					secondCost, haveSecond = bestCost, true
				}
				bestChild, bestWord, bestCost = child, w.Text, newCost
			} else if !haveSecond || newCost < secondCost {
				secondCost, haveSecond = newCost, true
			}

			// A previously selected entry already separates its top two
			// children more than this entry possibly can: no useful gain
			// remains here, or in the even-less-constrained entries
			// behind it.
			if haveSecond && have && chosenDiff > secondCost-base {
				skip = true
				return false
			}
			return true
		})

		if skip {
			break
		}
		if bestChild == nil {
			// No viable word for this entry: the grid is infeasible.
			return successorChoice{}
		}
		if !haveSecond {
			// Forced entry: exactly one viable word.
			return successorChoice{child: bestChild, entry: entryIdx, word: bestWord}
		}
		if diff := secondCost - bestCost; !have || diff > chosenDiff {
			chosen = successorChoice{child: bestChild, entry: entryIdx, word: bestWord}
			chosenDiff = diff
			have = true
		}
	}

	return chosen
}

// costToBeat is the pruning target for a candidate: the current entry's
// second-best child cost when established, else the best known solution
// cost. Unbounded until a first solution exists.
func (s *Solver) costToBeat(secondCost float64, haveSecond bool) (float64, bool) {
	if haveSecond {
		return secondCost, true
	}
	if s.best != nil {
		return s.bestCost, true
	}
	return 0, false
}

// crossPruned reports whether committing word to e would, for some
// crossing entry alone, push the grid bound past costToBeat. The
// would-be crossing bitmaps are computed without materializing a child
// state. An emptied crossing bitmap prunes too: the child could only be
// nil.
func (s *Solver) crossPruned(g *grid.Grid, e *grid.Entry, word string, base, costToBeat float64) bool {
	for pos, cell := range e.Cells {
		if g.Cells[cell] != grid.Blank {
			continue
		}
		ref, ok := g.Cross(e, pos)
		if !ok {
			continue
		}
		cross := &g.Entries[ref.Entry]
		bm := s.db.UpdateBitmap(cross.Len(), cross.Bitmap, ref.Pos, word[pos])
		newMin, feasible := s.db.MinCost(cross.Len(), bm)
		if !feasible {
			return true
		}
		if base-cross.MinCost+newMin > costToBeat {
			return true
		}
	}
	return false
}

// openEntries returns the incomplete entries in scope, most constrained
// (fewest candidates) first. Ties keep entry order, so the scan is
// deterministic.
func (s *Solver) openEntries(g *grid.Grid, restrict map[int]bool) []int {
	var open []int
	for i := range g.Entries {
		if g.Entries[i].Complete {
			continue
		}
		if restrict != nil && !restrict[i] {
			continue
		}
		open = append(open, i)
	}
	sort.SliceStable(open, func(i, j int) bool {
		a, b := &g.Entries[open[i]], &g.Entries[open[j]]
		return s.db.NumMatches(a.Len(), a.Bitmap) < s.db.NumMatches(b.Len(), b.Bitmap)
	})
	return open
}

func toSet(entries []int) map[int]bool {
	set := make(map[int]bool, len(entries))
	for _, e := range entries {
		set[e] = true
	}
	return set
}

// without returns restrict with one entry removed, or nil if restrict is
// nil. The input is never modified; sibling branches still need it.
func without(restrict map[int]bool, entry int) map[int]bool {
	if restrict == nil {
		return nil
	}
	out := make(map[int]bool, len(restrict))
	for e := range restrict {
		if e != entry {
			out[e] = true
		}
	}
	return out
}
