package targeting

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/sirupsen/logrus"

	cerr "github.com/saeidalz13/battleship-cpu/internal/error"
	mb "github.com/saeidalz13/battleship-cpu/models/battleship"
)

type shotSource uint8

const (
	sourceHunt shotSource = iota
	sourceTarget
	sourceRandom
)

// Stats counts where the engine's shots came from over one game.
type Stats struct {
	Shots       int `json:"shots"`
	HuntShots   int `json:"hunt_shots"`
	TargetShots int `json:"target_shots"`
	RandomShots int `json:"random_shots"`
	Releases    int `json:"releases"`
	Sinks       int `json:"sinks"`
}

// Engine is the computer opponent. It sees only the outcomes of its own
// shots and keeps every piece of targeting state for one game.
type Engine struct {
	gridSize int
	strategy Strategy
	mode     Mode

	view    mb.AttackGrid
	fleet   *mb.Fleet
	tracker *Tracker
	tried   triedSet

	// Hits not yet known to belong to a sunk ship
	unresolvedHits []mb.Coordinates

	// Used by StrategyLargestFirst only; never grows
	workingLength int

	rng    *rand.Rand
	logger logrus.FieldLogger
	stats  Stats
}

var _ mb.Shooter = (*Engine)(nil)

type Option func(*Engine) error

func NewEngine(optFuncs ...Option) (*Engine, error) {
	engine := Engine{
		gridSize: mb.GridSize,
		strategy: StrategyAllLengths,
		mode:     ModeHunt,
		fleet:    mb.NewFleet(mb.StandardFleet),
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range optFuncs {
		if err := opt(&engine); err != nil {
			return nil, err
		}
	}

	for _, length := range engine.fleet.Remaining() {
		if length <= 0 || length > engine.gridSize {
			return nil, fmt.Errorf("ship length %d does not fit a grid of size %d", length, engine.gridSize)
		}
	}
	if engine.rng == nil {
		engine.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	engine.view = mb.NewAttackGrid(engine.gridSize)
	engine.tracker = NewTracker(engine.gridSize)
	engine.tried = newTriedSet(engine.gridSize)
	engine.workingLength = engine.fleet.Largest()

	return &engine, nil
}

func WithGridSize(size int) Option {
	return func(e *Engine) error {
		if size <= 0 {
			return fmt.Errorf("invalid grid size: %d", size)
		}
		e.gridSize = size
		return nil
	}
}

func WithFleet(lengths []int) Option {
	return func(e *Engine) error {
		if len(lengths) == 0 {
			return fmt.Errorf("fleet must contain at least one ship")
		}
		e.fleet = mb.NewFleet(lengths)
		return nil
	}
}

func WithStrategy(strategy Strategy) Option {
	return func(e *Engine) error {
		if strategy != StrategyAllLengths && strategy != StrategyLargestFirst {
			return cerr.ErrInvalidStrategy(fmt.Sprint(uint8(strategy)))
		}
		e.strategy = strategy
		return nil
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) error {
		e.rng = rng
		return nil
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

func (e *Engine) Mode() Mode {
	return e.mode
}

func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Fleet returns the lengths of the ships the engine believes are afloat.
func (e *Engine) Fleet() []int {
	return e.fleet.Remaining()
}

func (e *Engine) View() mb.AttackGrid {
	return e.view.Clone()
}

func (e *Engine) ActiveComponent() []mb.Coordinates {
	return e.tracker.Component()
}

func (e *Engine) Orientation() mb.Orientation {
	return e.tracker.Orientation()
}

func (e *Engine) Tried(c mb.Coordinates) bool {
	return e.tried.Has(c)
}

func (e *Engine) TriedCount() int {
	return e.tried.Len()
}

func (e *Engine) Stats() Stats {
	return e.stats
}

// ChooseShot returns the next coordinate to fire at. It is never out of
// bounds and never one returned before; it is marked as tried before
// returning. The only error is cerr.ErrNoUnknownCells.
func (e *Engine) ChooseShot() (mb.Coordinates, error) {
	shot, source, err := e.pickShot()
	if err != nil {
		return mb.Coordinates{}, err
	}

	e.tried.Add(shot)
	e.stats.Shots++
	switch source {
	case sourceHunt:
		e.stats.HuntShots++
	case sourceTarget:
		e.stats.TargetShots++
	case sourceRandom:
		e.stats.RandomShots++
	}

	e.logger.WithFields(logrus.Fields{
		"row":  shot.Row,
		"col":  shot.Col,
		"mode": e.mode.String(),
	}).Debug("shot chosen")
	return shot, nil
}

func (e *Engine) pickShot() (mb.Coordinates, shotSource, error) {
	if e.mode == ModeTarget {
		if c, ok := e.tracker.NextCandidate(e.view, e.tried.Has); ok {
			return c, sourceTarget, nil
		}
		e.release()
	}

	if c, ok := e.reengage(); ok {
		return c, sourceTarget, nil
	}

	if c, ok := e.hunt(); ok {
		return c, sourceHunt, nil
	}

	if c, ok := e.randomUntried(); ok {
		return c, sourceRandom, nil
	}

	return mb.Coordinates{}, sourceRandom, cerr.ErrNoUnknownCells
}

// A boxed-in component is given up on. Nothing is removed from the
// fleet: only a sunk outcome can do that.
func (e *Engine) release() {
	released := e.tracker.Release()
	e.mode = ModeHunt
	e.stats.Releases++
	e.logger.WithField("component", released).Debug("engagement released, both ends blocked")
}

// reengage picks up a hit that no sunk ship accounts for, which happens
// when two ships touch. It restarts discovery from the first such hit
// that still has an open neighbour.
func (e *Engine) reengage() (mb.Coordinates, bool) {
	for _, hit := range e.unresolvedHits {
		for _, n := range hit.Neighbors(e.gridSize) {
			if e.view.State(n) != mb.CellUnknown || e.tried.Has(n) {
				continue
			}

			e.tracker.RecordHit(hit)
			e.mode = ModeTarget
			e.logger.WithFields(logrus.Fields{"row": hit.Row, "col": hit.Col}).Debug("re-engaging unresolved hit")
			return e.tracker.NextCandidate(e.view, e.tried.Has)
		}
	}
	return mb.Coordinates{}, false
}

func (e *Engine) hunt() (mb.Coordinates, bool) {
	if e.strategy == StrategyLargestFirst {
		for e.workingLength = min(e.workingLength, e.fleet.Largest()); e.workingLength >= e.fleet.Smallest() && e.workingLength > 0; e.workingLength-- {
			density := ComputeDensity(e.view, []int{e.workingLength})
			if density.HasSupport(e.view, e.tried.Has) {
				return ChooseTarget(density, e.view, e.tried.Has, e.rng)
			}
		}
		return mb.Coordinates{}, false
	}

	density := ComputeDensity(e.view, e.fleet.Remaining())
	if !density.HasSupport(e.view, e.tried.Has) {
		return mb.Coordinates{}, false
	}
	return ChooseTarget(density, e.view, e.tried.Has, e.rng)
}

func (e *Engine) randomUntried() (mb.Coordinates, bool) {
	untried := make([]mb.Coordinates, 0, e.gridSize*e.gridSize-e.tried.Len())
	for r := 0; r < e.gridSize; r++ {
		for c := 0; c < e.gridSize; c++ {
			cell := mb.Coordinates{Row: r, Col: c}
			if !e.tried.Has(cell) {
				untried = append(untried, cell)
			}
		}
	}
	if len(untried) == 0 {
		return mb.Coordinates{}, false
	}
	return untried[e.rng.IntN(len(untried))], true
}

// NotifyResult feeds back the outcome of a shot at c. It must be called
// exactly once per shot. Repeat and Out change nothing and return
// cerr.ErrUnexpectedOutcome; the caller should ask for another shot.
func (e *Engine) NotifyResult(c mb.Coordinates, result mb.ShotResult) error {
	log := e.logger.WithFields(logrus.Fields{
		"row":     c.Row,
		"col":     c.Col,
		"outcome": result.Outcome.String(),
	})

	if !c.InBounds(e.gridSize) || result.Outcome == mb.OutcomeRepeat || result.Outcome == mb.OutcomeOut {
		log.Warn("unexpected shot outcome; a new shot will be requested")
		return cerr.ErrUnexpectedOutcomeAt(result.Outcome.String(), c.Row, c.Col)
	}

	e.tried.Add(c)

	switch result.Outcome {
	case mb.OutcomeMiss:
		e.view.Set(c, mb.CellMiss)

	case mb.OutcomeHit:
		e.recordHit(c)
		e.mode = ModeTarget

	case mb.OutcomeSunk:
		e.recordHit(c)
		e.confirmSink(c, result, log)
		e.mode = ModeHunt

	default:
		log.Warn("unknown shot outcome")
		return cerr.ErrUnexpectedOutcomeAt(result.Outcome.String(), c.Row, c.Col)
	}

	log.WithField("mode", e.mode.String()).Debug("shot result recorded")
	return nil
}

func (e *Engine) recordHit(c mb.Coordinates) {
	e.view.Set(c, mb.CellHit)
	if !slices.Contains(e.unresolvedHits, c) {
		e.unresolvedHits = append(e.unresolvedHits, c)
	}
	e.tracker.RecordHit(c)
}

func (e *Engine) confirmSink(c mb.Coordinates, result mb.ShotResult, log logrus.FieldLogger) {
	e.stats.Sinks++

	length, sunkCells := result.SunkLength, result.SunkCells
	switch {
	case len(sunkCells) == 0:
		length, sunkCells = e.resolveSink(c, length, log)
	case length == 0:
		length = len(sunkCells)
	}

	removed, err := e.tracker.RecordSink(length, e.fleet)
	if err != nil {
		log.WithError(err).Error("fleet ledger not updated for sunk ship")
	} else {
		log.WithField("length", removed).Debug("ship sunk")
	}

	e.unresolvedHits = slices.DeleteFunc(e.unresolvedHits, func(h mb.Coordinates) bool {
		return slices.Contains(sunkCells, h)
	})
}

// resolveSink works out which ship went down at c when the grid did not
// report its cells, and its length too when reported is 0. Only afloat
// lengths are considered. Hits not yet attributed to a sunk ship are
// tried first, then every hit in the view.
func (e *Engine) resolveSink(c mb.Coordinates, reported int, log logrus.FieldLogger) (int, []mb.Coordinates) {
	component := e.tracker.Component()
	locked := e.tracker.Orientation()

	lengths := e.fleet.Distinct()
	if reported > 0 {
		lengths = []int{reported}
	}

	unresolved := func(cell mb.Coordinates) bool { return slices.Contains(e.unresolvedHits, cell) }
	hit := func(cell mb.Coordinates) bool { return e.view.State(cell) == mb.CellHit }

	for _, fits := range [2]func(mb.Coordinates) bool{unresolved, hit} {
		var candidates []placement
		for _, length := range lengths {
			candidates = append(candidates, placementsThrough(c, length, e.gridSize, fits)...)
		}
		if p, ok := bestPlacement(candidates, locked, component); ok {
			return p.length, p.cells
		}
	}

	run := longestHitRun(e.view, c)
	log.WithError(cerr.ErrSunkLengthUnresolved(run)).Warn("no afloat ship fits the sunk hits, taking the nearest length")
	if reported > 0 {
		return reported, component
	}
	return nearestLength(e.fleet.Remaining(), run), component
}
