package targeting

import (
	"slices"

	mb "github.com/saeidalz13/battleship-cpu/models/battleship"
)

// placement is one way a ship of length could lie on the grid.
type placement struct {
	length      int
	orientation mb.Orientation
	cells       []mb.Coordinates
}

// placementsThrough lists every horizontal and vertical placement of a
// ship of the given length that covers c and lies on cells accepted by
// fits.
func placementsThrough(c mb.Coordinates, length, gridSize int, fits func(mb.Coordinates) bool) []placement {
	var found []placement
	for _, orientation := range [2]mb.Orientation{mb.OrientationHorizontal, mb.OrientationVertical} {
		for offset := 0; offset < length; offset++ {
			cells := make([]mb.Coordinates, 0, length)
			for i := 0; i < length; i++ {
				cell := mb.Coordinates{Row: c.Row, Col: c.Col - offset + i}
				if orientation == mb.OrientationVertical {
					cell = mb.Coordinates{Row: c.Row - offset + i, Col: c.Col}
				}
				if !cell.InBounds(gridSize) || !fits(cell) {
					break
				}
				cells = append(cells, cell)
			}
			if len(cells) == length {
				found = append(found, placement{length: length, orientation: orientation, cells: cells})
			}
		}
	}
	return found
}

// bestPlacement ranks candidates: the engagement's locked axis first,
// then the longer ship, then the one sharing most cells with the
// engagement.
func bestPlacement(candidates []placement, locked mb.Orientation, component []mb.Coordinates) (placement, bool) {
	if len(candidates) == 0 {
		return placement{}, false
	}

	overlap := func(p placement) int {
		n := 0
		for _, c := range p.cells {
			if slices.Contains(component, c) {
				n++
			}
		}
		return n
	}
	onAxis := func(p placement) int {
		if locked != mb.OrientationUnknown && p.orientation == locked {
			return 1
		}
		return 0
	}

	best := candidates[0]
	for _, p := range candidates[1:] {
		switch {
		case onAxis(p) != onAxis(best):
			if onAxis(p) > onAxis(best) {
				best = p
			}
		case p.length != best.length:
			if p.length > best.length {
				best = p
			}
		case overlap(p) > overlap(best):
			best = p
		}
	}
	return best, true
}

// longestHitRun is the longest straight run of hits in view that passes
// through c.
func longestHitRun(view mb.AttackGrid, c mb.Coordinates) int {
	size := view.Size()
	isHit := func(cell mb.Coordinates) bool {
		return cell.InBounds(size) && view.State(cell) == mb.CellHit
	}

	longest := 0
	for _, dir := range [2]mb.Coordinates{{Row: 0, Col: 1}, {Row: 1, Col: 0}} {
		run := 1
		for cell := (mb.Coordinates{Row: c.Row + dir.Row, Col: c.Col + dir.Col}); isHit(cell); cell = (mb.Coordinates{Row: cell.Row + dir.Row, Col: cell.Col + dir.Col}) {
			run++
		}
		for cell := (mb.Coordinates{Row: c.Row - dir.Row, Col: c.Col - dir.Col}); isHit(cell); cell = (mb.Coordinates{Row: cell.Row - dir.Row, Col: cell.Col - dir.Col}) {
			run++
		}
		longest = max(longest, run)
	}
	return longest
}

// nearestLength returns the ledger length closest to n, the longer one
// on a tie.
func nearestLength(ledger []int, n int) int {
	nearest := 0
	for _, l := range ledger {
		if nearest == 0 || abs(l-n) < abs(nearest-n) || (abs(l-n) == abs(nearest-n) && l > nearest) {
			nearest = l
		}
	}
	return nearest
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
