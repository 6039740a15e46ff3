package battleship

import (
	"math/rand/v2"
	"slices"

	cerr "github.com/saeidalz13/battleship-cpu/internal/error"
)

// Random placement gives up after this many tries per fleet
const maxPlacementAttempts = 1000

// DefenceGrid holds a player's own ships and every shot received.
type DefenceGrid struct {
	size  int
	cells [][]uint8
	ships []*Ship
}

func NewDefenceGrid(gridSize int) *DefenceGrid {
	cells := make([][]uint8, gridSize)
	for i := 0; i < gridSize; i++ {
		cells[i] = make([]uint8, gridSize)
	}
	return &DefenceGrid{size: gridSize, cells: cells}
}

func (d *DefenceGrid) Size() int {
	return d.size
}

func (d *DefenceGrid) Ships() []*Ship {
	return d.ships
}

func (d *DefenceGrid) CanPlace(origin Coordinates, orientation Orientation, length int) bool {
	for _, c := range ShipCells(origin, orientation, length) {
		if !c.InBounds(d.size) || d.cells[c.Row][c.Col] != PositionStateDefenceGridEmpty {
			return false
		}
	}
	return true
}

func (d *DefenceGrid) PlaceShip(origin Coordinates, orientation Orientation, length int) (*Ship, error) {
	if length <= 0 || !d.CanPlace(origin, orientation, length) {
		return nil, cerr.ErrShipOverlapOrOutOfBound(length, origin.Row, origin.Col)
	}

	ship := NewShip(PositionStateDefenceShip+uint8(len(d.ships)), length)
	for _, c := range ShipCells(origin, orientation, length) {
		d.cells[c.Row][c.Col] = ship.Code
		ship.cells = append(ship.cells, c)
	}
	d.ships = append(d.ships, ship)
	return ship, nil
}

// ShipPlacement is a player-chosen position for one ship.
type ShipPlacement struct {
	Origin      Coordinates
	Orientation Orientation
	Length      int
}

// PlaceShips lays out fleet at the given positions. Every fleet length
// must be placed exactly once. The grid is left empty on error.
func (d *DefenceGrid) PlaceShips(placements []ShipPlacement, fleet []int) error {
	placed := make([]int, 0, len(placements))
	for _, p := range placements {
		placed = append(placed, p.Length)
	}
	slices.Sort(placed)
	want := slices.Clone(fleet)
	slices.Sort(want)
	if !slices.Equal(placed, want) {
		return cerr.ErrPlacementFleetMismatch(placed, want)
	}

	for _, p := range placements {
		if p.Orientation != OrientationHorizontal && p.Orientation != OrientationVertical {
			d.reset()
			return cerr.ErrInvalidOrientation(p.Orientation.String())
		}
		if _, err := d.PlaceShip(p.Origin, p.Orientation, p.Length); err != nil {
			d.reset()
			return err
		}
	}
	return nil
}

// PlaceFleet lays every length at a random free origin and orientation.
// The grid is left empty if the fleet does not fit.
func (d *DefenceGrid) PlaceFleet(lengths []int, rng *rand.Rand) error {
	for attempts := 0; attempts < maxPlacementAttempts; attempts++ {
		if d.tryPlaceFleet(lengths, rng) {
			return nil
		}
		d.reset()
	}
	return cerr.ErrFleetPlacementFailed(maxPlacementAttempts)
}

func (d *DefenceGrid) tryPlaceFleet(lengths []int, rng *rand.Rand) bool {
	for _, length := range lengths {
		placed := false
		for try := 0; try < d.size*d.size*2 && !placed; try++ {
			origin := Coordinates{Row: rng.IntN(d.size), Col: rng.IntN(d.size)}
			orientation := OrientationHorizontal
			if rng.IntN(2) == 1 {
				orientation = OrientationVertical
			}
			if _, err := d.PlaceShip(origin, orientation, length); err == nil {
				placed = true
			}
		}
		if !placed {
			return false
		}
	}
	return true
}

func (d *DefenceGrid) reset() {
	for r := range d.cells {
		clear(d.cells[r])
	}
	d.ships = nil
}

// ApplyShot classifies and records a shot at c.
func (d *DefenceGrid) ApplyShot(c Coordinates) ShotResult {
	if !c.InBounds(d.size) {
		return NewShotResult(OutcomeOut)
	}

	code := d.cells[c.Row][c.Col]
	switch {
	case code == PositionStateDefenceGridHit || code == PositionStateDefenceGridMiss:
		return NewShotResult(OutcomeRepeat)

	case code == PositionStateDefenceGridEmpty:
		d.cells[c.Row][c.Col] = PositionStateDefenceGridMiss
		return NewShotResult(OutcomeMiss)
	}

	// Passed this line means that code is a ship code
	ship := d.ships[code-PositionStateDefenceShip]
	d.cells[c.Row][c.Col] = PositionStateDefenceGridHit
	ship.GotHit()

	if ship.IsSunk() {
		return ShotResult{
			Outcome:    OutcomeSunk,
			SunkLength: ship.Length(),
			SunkCells:  append([]Coordinates(nil), ship.cells...),
		}
	}
	return NewShotResult(OutcomeHit)
}

func (d *DefenceGrid) AllSunk() bool {
	for _, ship := range d.ships {
		if !ship.IsSunk() {
			return false
		}
	}
	return true
}

// PositionCodes returns a copy of the raw grid, ship codes included.
// Only the grid owner may see it.
func (d *DefenceGrid) PositionCodes() [][]uint8 {
	codes := make([][]uint8, d.size)
	for i := range d.cells {
		codes[i] = append([]uint8(nil), d.cells[i]...)
	}
	return codes
}
