package targeting

import (
	"math/rand/v2"
	"slices"

	mb "github.com/saeidalz13/battleship-cpu/models/battleship"
)

var placementOrientations = [2]mb.Orientation{mb.OrientationHorizontal, mb.OrientationVertical}

// DensityMap counts, per cell, how many still-possible ship placements
// cover it. It is valid for the turn it was computed in only.
type DensityMap [][]int

func newDensityMap(size int) DensityMap {
	density := make(DensityMap, size)
	for i := range density {
		density[i] = make([]int, size)
	}
	return density
}

// At returns 0 for out of bound coordinates.
func (d DensityMap) At(c mb.Coordinates) int {
	if !c.InBounds(len(d)) {
		return 0
	}
	return d[c.Row][c.Col]
}

// HasSupport reports whether any selectable cell has a positive count.
func (d DensityMap) HasSupport(view mb.AttackGrid, exclude func(mb.Coordinates) bool) bool {
	for _, c := range selectableCells(view, exclude) {
		if d.At(c) > 0 {
			return true
		}
	}
	return false
}

// runMemo caches, per origin and orientation, how many consecutive
// in-bound non-miss cells start there. A placement of length L fits
// iff the run is at least L, so one scan answers every length.
type runMemo struct {
	view mb.AttackGrid
	size int
	runs []int
}

func newRunMemo(view mb.AttackGrid) *runMemo {
	size := view.Size()
	runs := make([]int, size*size*len(placementOrientations))
	for i := range runs {
		runs[i] = -1
	}
	return &runMemo{view: view, size: size, runs: runs}
}

func (m *runMemo) index(c mb.Coordinates, o mb.Orientation) int {
	idx := (c.Row*m.size + c.Col) * len(placementOrientations)
	if o == mb.OrientationVertical {
		idx++
	}
	return idx
}

func (m *runMemo) clearRun(c mb.Coordinates, o mb.Orientation) int {
	if !c.InBounds(m.size) || m.view.State(c) == mb.CellMiss {
		return 0
	}

	idx := m.index(c, o)
	if m.runs[idx] >= 0 {
		return m.runs[idx]
	}

	step := o.Step()
	run := 1 + m.clearRun(mb.Coordinates{Row: c.Row + step.Row, Col: c.Col + step.Col}, o)
	m.runs[idx] = run
	return run
}

// ComputeDensity lays every distinct length at every origin in both
// orientations. A placement is valid when all its cells are in bounds
// and none is a miss; hits are allowed since they may belong to a ship
// that is still afloat. Every valid placement adds one to each cell it
// covers.
func ComputeDensity(view mb.AttackGrid, lengths []int) DensityMap {
	size := view.Size()
	density := newDensityMap(size)
	memo := newRunMemo(view)

	distinct := slices.Clone(lengths)
	slices.Sort(distinct)
	distinct = slices.Compact(distinct)
	for _, length := range distinct {
		if length <= 0 || length > size {
			continue
		}

		for r := 0; r < size; r++ {
			for c := 0; c < size; c++ {
				origin := mb.Coordinates{Row: r, Col: c}

				for _, o := range placementOrientations {
					if memo.clearRun(origin, o) < length {
						continue
					}
					for _, cell := range mb.ShipCells(origin, o, length) {
						density[cell.Row][cell.Col]++
					}
				}
			}
		}
	}

	return density
}

// ChooseTarget picks the highest density cell among unknown cells that
// exclude does not reject. Ties are broken uniformly at random. When no
// candidate has any support a uniformly random candidate is returned.
// ok is false only when there is no candidate at all.
func ChooseTarget(density DensityMap, view mb.AttackGrid, exclude func(mb.Coordinates) bool, rng *rand.Rand) (target mb.Coordinates, ok bool) {
	candidates := selectableCells(view, exclude)
	if len(candidates) == 0 {
		return mb.Coordinates{}, false
	}

	best := 0
	bucket := make([]mb.Coordinates, 0, len(candidates))
	for _, c := range candidates {
		score := density.At(c)
		if score <= 0 {
			continue
		}
		if score > best {
			best = score
			bucket = bucket[:0]
		}
		if score == best {
			bucket = append(bucket, c)
		}
	}

	if len(bucket) == 0 {
		return candidates[rng.IntN(len(candidates))], true
	}
	return bucket[rng.IntN(len(bucket))], true
}

func selectableCells(view mb.AttackGrid, exclude func(mb.Coordinates) bool) []mb.Coordinates {
	cells := view.UnknownCells()
	if exclude == nil {
		return cells
	}
	return slices.DeleteFunc(cells, exclude)
}
