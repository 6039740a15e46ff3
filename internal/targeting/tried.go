package targeting

import (
	"github.com/dolthub/swiss"
	mb "github.com/saeidalz13/battleship-cpu/models/battleship"
)

// triedSet holds every coordinate the engine has fired at. It only grows.
type triedSet struct {
	cells *swiss.Map[mb.Coordinates, struct{}]
}

func newTriedSet(gridSize int) triedSet {
	return triedSet{cells: swiss.NewMap[mb.Coordinates, struct{}](uint32(gridSize * gridSize))}
}

func (t triedSet) Add(c mb.Coordinates) {
	t.cells.Put(c, struct{}{})
}

func (t triedSet) Has(c mb.Coordinates) bool {
	return t.cells.Has(c)
}

func (t triedSet) Len() int {
	return t.cells.Count()
}
