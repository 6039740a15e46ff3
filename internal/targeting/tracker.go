package targeting

import (
	"slices"

	cerr "github.com/saeidalz13/battleship-cpu/internal/error"
	mb "github.com/saeidalz13/battleship-cpu/models/battleship"
)

// Tracker follows the single ship currently being finished off. The
// component is the set of hits recorded during the engagement, kept in
// the order they arrived.
type Tracker struct {
	gridSize    int
	cells       []mb.Coordinates
	orientation mb.Orientation
}

func NewTracker(gridSize int) *Tracker {
	return &Tracker{gridSize: gridSize}
}

func (t *Tracker) Active() bool {
	return len(t.cells) > 0
}

func (t *Tracker) Component() []mb.Coordinates {
	return slices.Clone(t.cells)
}

func (t *Tracker) Contains(c mb.Coordinates) bool {
	return slices.Contains(t.cells, c)
}

func (t *Tracker) Orientation() mb.Orientation {
	return t.orientation
}

// RecordHit adds c to the live component, starting one if needed.
func (t *Tracker) RecordHit(c mb.Coordinates) {
	if t.Contains(c) {
		return
	}
	t.cells = append(t.cells, c)
	t.inferOrientation()
}

// Orientation is decided once from the first collinear pair and kept
// until the engagement ends, so hits landing on both ends in any order
// cannot flip it.
func (t *Tracker) inferOrientation() {
	if t.orientation != mb.OrientationUnknown || len(t.cells) < 2 {
		return
	}

	sameRow, sameCol := true, true
	for _, c := range t.cells[1:] {
		sameRow = sameRow && c.Row == t.cells[0].Row
		sameCol = sameCol && c.Col == t.cells[0].Col
	}

	switch {
	case sameRow:
		t.orientation = mb.OrientationHorizontal
	case sameCol:
		t.orientation = mb.OrientationVertical
	}
}

// NextCandidate proposes the next cell to fire at for the live
// component. ok is false when the component is boxed in, which is only
// a geometric hint: it is not proof that the ship sank.
func (t *Tracker) NextCandidate(view mb.AttackGrid, exclude func(mb.Coordinates) bool) (candidate mb.Coordinates, ok bool) {
	if !t.Active() {
		return mb.Coordinates{}, false
	}

	isOpen := func(c mb.Coordinates) bool {
		return c.InBounds(t.gridSize) && view.State(c) == mb.CellUnknown && (exclude == nil || !exclude(c))
	}

	if t.orientation == mb.OrientationUnknown {
		return t.discoveryCandidate(isOpen)
	}
	return t.extensionCandidate(isOpen)
}

func (t *Tracker) discoveryCandidate(isOpen func(mb.Coordinates) bool) (mb.Coordinates, bool) {
	for _, cell := range t.cells {
		for _, n := range cell.Neighbors(t.gridSize) {
			if isOpen(n) {
				return n, true
			}
		}
	}
	return mb.Coordinates{}, false
}

// Low end first, then high end.
func (t *Tracker) extensionCandidate(isOpen func(mb.Coordinates) bool) (mb.Coordinates, bool) {
	line := t.cells[0]

	var low, high mb.Coordinates
	if t.orientation == mb.OrientationHorizontal {
		minCol, maxCol := line.Col, line.Col
		for _, c := range t.cells {
			if c.Row != line.Row {
				continue
			}
			minCol = min(minCol, c.Col)
			maxCol = max(maxCol, c.Col)
		}
		low = mb.Coordinates{Row: line.Row, Col: minCol - 1}
		high = mb.Coordinates{Row: line.Row, Col: maxCol + 1}
	} else {
		minRow, maxRow := line.Row, line.Row
		for _, c := range t.cells {
			if c.Col != line.Col {
				continue
			}
			minRow = min(minRow, c.Row)
			maxRow = max(maxRow, c.Row)
		}
		low = mb.Coordinates{Row: minRow - 1, Col: line.Col}
		high = mb.Coordinates{Row: maxRow + 1, Col: line.Col}
	}

	for _, c := range [2]mb.Coordinates{low, high} {
		if isOpen(c) {
			return c, true
		}
	}
	return mb.Coordinates{}, false
}

// Release abandons the engagement without touching any fleet ledger
// and returns the cells that were being pursued.
func (t *Tracker) Release() []mb.Coordinates {
	released := t.cells
	t.cells = nil
	t.orientation = mb.OrientationUnknown
	return released
}

// RecordSink ends the engagement on a confirmed sink and removes one
// ship of length from ledger. The component is cleared even when the
// ledger cannot be updated.
func (t *Tracker) RecordSink(length int, ledger *mb.Fleet) (int, error) {
	componentSize := len(t.cells)
	t.Release()

	if length <= 0 {
		return 0, cerr.ErrSunkLengthUnresolved(componentSize)
	}
	if err := ledger.Remove(length); err != nil {
		return 0, err
	}
	return length, nil
}
