package battleship

type ShotOutcome uint8

const (
	OutcomeMiss ShotOutcome = iota
	OutcomeHit
	OutcomeSunk
	OutcomeRepeat
	OutcomeOut
)

func (o ShotOutcome) String() string {
	switch o {
	case OutcomeMiss:
		return "MISS"
	case OutcomeHit:
		return "HIT"
	case OutcomeSunk:
		return "SUNK"
	case OutcomeRepeat:
		return "REPEAT"
	case OutcomeOut:
		return "OUT"
	default:
		return "INVALID"
	}
}

// IsHit reports whether the shot landed on a ship. Sunk implies hit.
func (o ShotOutcome) IsHit() bool {
	return o == OutcomeHit || o == OutcomeSunk
}

// ShotResult is the authoritative classification of a shot. SunkLength
// and SunkCells are only set when Outcome is OutcomeSunk.
type ShotResult struct {
	Outcome    ShotOutcome
	SunkLength int
	SunkCells  []Coordinates
}

func NewShotResult(outcome ShotOutcome) ShotResult {
	return ShotResult{Outcome: outcome}
}

// Shooter picks shots against an opponent grid it cannot see and
// learns from their outcomes.
type Shooter interface {
	ChooseShot() (Coordinates, error)
	NotifyResult(c Coordinates, result ShotResult) error
}
