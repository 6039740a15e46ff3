package targeting

import (
	cerr "github.com/saeidalz13/battleship-cpu/internal/error"
)

type Mode uint8

const (
	ModeHunt Mode = iota
	ModeTarget
)

func (m Mode) String() string {
	if m == ModeTarget {
		return "target"
	}
	return "hunt"
}

// Strategy selects which ship lengths feed the hunt density.
type Strategy uint8

const (
	// Every distinct remaining length contributes to the density.
	StrategyAllLengths Strategy = iota

	// Only a single working length is scored, starting at the largest
	// remaining ship and shrinking once it no longer fits anywhere.
	StrategyLargestFirst
)

const (
	StrategyNameAllLengths   = "all-lengths"
	StrategyNameLargestFirst = "largest-first"
)

func (s Strategy) String() string {
	if s == StrategyLargestFirst {
		return StrategyNameLargestFirst
	}
	return StrategyNameAllLengths
}

// ParseStrategy maps a configured name to a Strategy. Empty means the default.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", StrategyNameAllLengths:
		return StrategyAllLengths, nil
	case StrategyNameLargestFirst:
		return StrategyLargestFirst, nil
	default:
		return StrategyAllLengths, cerr.ErrInvalidStrategy(name)
	}
}
