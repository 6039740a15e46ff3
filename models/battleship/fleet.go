package battleship

import (
	"slices"

	cerr "github.com/saeidalz13/battleship-cpu/internal/error"
)

// Ship lengths of the standard 10x10 fleet.
var StandardFleet = []int{5, 4, 3, 3, 2}

// Fleet is the multiset of ship lengths still afloat, kept in
// descending order.
type Fleet struct {
	lengths []int
}

func NewFleet(lengths []int) *Fleet {
	f := &Fleet{lengths: slices.Clone(lengths)}
	slices.SortFunc(f.lengths, func(a, b int) int { return b - a })
	return f
}

func (f *Fleet) Remaining() []int {
	return slices.Clone(f.lengths)
}

// Distinct returns each remaining length once, largest first.
func (f *Fleet) Distinct() []int {
	return slices.Compact(slices.Clone(f.lengths))
}

func (f *Fleet) Contains(length int) bool {
	return slices.Contains(f.lengths, length)
}

// Remove takes exactly one ship of the given length off the fleet.
func (f *Fleet) Remove(length int) error {
	idx := slices.Index(f.lengths, length)
	if idx < 0 {
		return cerr.ErrShipLengthNotInFleetFor(length)
	}
	f.lengths = slices.Delete(f.lengths, idx, idx+1)
	return nil
}

func (f *Fleet) TotalLength() int {
	total := 0
	for _, l := range f.lengths {
		total += l
	}
	return total
}

func (f *Fleet) Largest() int {
	if len(f.lengths) == 0 {
		return 0
	}
	return f.lengths[0]
}

func (f *Fleet) Smallest() int {
	if len(f.lengths) == 0 {
		return 0
	}
	return f.lengths[len(f.lengths)-1]
}

func (f *Fleet) IsEmpty() bool {
	return len(f.lengths) == 0
}
