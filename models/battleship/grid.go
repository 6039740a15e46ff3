package battleship

const GridSize int = 10

// CellState is what an attacker knows about a position on the
// opponent's grid. Ship positions are never part of it.
type CellState uint8

const (
	CellUnknown CellState = iota
	CellMiss
	CellHit
)

func (s CellState) String() string {
	switch s {
	case CellMiss:
		return "miss"
	case CellHit:
		return "hit"
	default:
		return "unknown"
	}
}

// Defence grid position codes. Anything at or above
// PositionStateDefenceShip is a ship that has not been hit there.
const (
	PositionStateDefenceGridEmpty uint8 = iota
	PositionStateDefenceGridMiss
	PositionStateDefenceGridHit
	PositionStateDefenceShip
)

type Coordinates struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func NewCoordinates(row, col int) Coordinates {
	return Coordinates{Row: row, Col: col}
}

func (c Coordinates) InBounds(size int) bool {
	return c.Row >= 0 && c.Row < size && c.Col >= 0 && c.Col < size
}

// Up, down, left, right. The order is relied upon for
// reproducible target selection.
var neighborOffsets = [4]Coordinates{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Neighbors returns the in-bound 4-adjacent cells in the order
// up, down, left, right.
func (c Coordinates) Neighbors(size int) []Coordinates {
	neighbors := make([]Coordinates, 0, len(neighborOffsets))
	for _, off := range neighborOffsets {
		n := Coordinates{Row: c.Row + off.Row, Col: c.Col + off.Col}
		if n.InBounds(size) {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

func (c Coordinates) IsAdjacent(other Coordinates) bool {
	dr, dc := c.Row-other.Row, c.Col-other.Col
	return (dr == 0 && (dc == 1 || dc == -1)) || (dc == 0 && (dr == 1 || dr == -1))
}

// AttackGrid is the attacker's view of the opponent grid.
type AttackGrid [][]CellState

// Creates a new default grid
// All indexes are CellUnknown
func NewAttackGrid(gridSize int) AttackGrid {
	grid := make(AttackGrid, gridSize)
	for i := 0; i < gridSize; i++ {
		grid[i] = make([]CellState, gridSize)
	}
	return grid
}

func (g AttackGrid) Size() int {
	return len(g)
}

// State returns CellUnknown for out of bound coordinates; callers that
// care check InBounds first.
func (g AttackGrid) State(c Coordinates) CellState {
	if !c.InBounds(len(g)) {
		return CellUnknown
	}
	return g[c.Row][c.Col]
}

func (g AttackGrid) Set(c Coordinates, state CellState) {
	if c.InBounds(len(g)) {
		g[c.Row][c.Col] = state
	}
}

// Record applies the outcome of a shot at c. Repeat and Out
// leave the grid untouched.
func (g AttackGrid) Record(c Coordinates, outcome ShotOutcome) {
	switch outcome {
	case OutcomeMiss:
		g.Set(c, CellMiss)
	case OutcomeHit, OutcomeSunk:
		g.Set(c, CellHit)
	}
}

func (g AttackGrid) UnknownCells() []Coordinates {
	cells := make([]Coordinates, 0, len(g)*len(g))
	for r := range g {
		for c := range g[r] {
			if g[r][c] == CellUnknown {
				cells = append(cells, Coordinates{Row: r, Col: c})
			}
		}
	}
	return cells
}

func (g AttackGrid) Clone() AttackGrid {
	clone := make(AttackGrid, len(g))
	for i := range g {
		clone[i] = append([]CellState(nil), g[i]...)
	}
	return clone
}
