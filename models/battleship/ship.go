package battleship

import cerr "github.com/saeidalz13/battleship-cpu/internal/error"

type Orientation uint8

const (
	OrientationUnknown Orientation = iota
	OrientationHorizontal
	OrientationVertical
)

func (o Orientation) String() string {
	switch o {
	case OrientationHorizontal:
		return "horizontal"
	case OrientationVertical:
		return "vertical"
	default:
		return "unknown"
	}
}

func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "horizontal":
		return OrientationHorizontal, nil
	case "vertical":
		return OrientationVertical, nil
	default:
		return OrientationUnknown, cerr.ErrInvalidOrientation(s)
	}
}

// Step is the coordinate delta between two consecutive cells of a
// ship laid in this orientation.
func (o Orientation) Step() Coordinates {
	if o == OrientationVertical {
		return Coordinates{Row: 1}
	}
	return Coordinates{Col: 1}
}

type Ship struct {
	Code   uint8
	length int
	hits   int
	cells  []Coordinates
}

func NewShip(code uint8, length int) *Ship {
	return &Ship{
		Code:   code,
		length: length,
		cells:  make([]Coordinates, 0, length),
	}
}

func (sh *Ship) Length() int {
	return sh.length
}

func (sh *Ship) GotHit() {
	sh.hits++
}

func (sh *Ship) IsSunk() bool {
	return sh.hits == sh.length
}

func (sh *Ship) Cells() []Coordinates {
	return sh.cells
}

// ShipCells lays length cells from origin along orientation. The result
// may run off the grid; bound checks belong to the caller.
func ShipCells(origin Coordinates, orientation Orientation, length int) []Coordinates {
	step := orientation.Step()
	cells := make([]Coordinates, length)
	for i := 0; i < length; i++ {
		cells[i] = Coordinates{Row: origin.Row + step.Row*i, Col: origin.Col + step.Col*i}
	}
	return cells
}
