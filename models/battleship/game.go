package battleship

import (
	"errors"
	"math/rand/v2"

	"github.com/google/uuid"

	cerr "github.com/saeidalz13/battleship-cpu/internal/error"
)

// A shooter that keeps answering Repeat or Out is broken; give up
// instead of looping forever.
const maxCpuShotAttempts = 5

// Game is a human playing against a Shooter. The human always fires first.
type Game struct {
	uuid       string
	isFinished bool
	gridSize   int
	fleet      []int
	human      *Player
	cpu        *Player
	shooter    Shooter
}

// NewGame places the human's ships at humanShips, or at random when
// none are given. The computer's fleet is always placed at random.
func NewGame(shooter Shooter, gridSize int, fleet []int, humanShips []ShipPlacement, rng *rand.Rand) (*Game, error) {
	game := &Game{
		uuid:     uuid.NewString(),
		gridSize: gridSize,
		fleet:    append([]int(nil), fleet...),
		human:    NewPlayer(true, gridSize),
		cpu:      NewPlayer(false, gridSize),
		shooter:  shooter,
	}

	if len(humanShips) > 0 {
		if err := game.human.defenceGrid.PlaceShips(humanShips, fleet); err != nil {
			return nil, err
		}
	} else if err := game.human.defenceGrid.PlaceFleet(fleet, rng); err != nil {
		return nil, err
	}
	if err := game.cpu.defenceGrid.PlaceFleet(fleet, rng); err != nil {
		return nil, err
	}
	return game, nil
}

func (g *Game) Uuid() string {
	return g.uuid
}

func (g *Game) IsFinished() bool {
	return g.isFinished
}

func (g *Game) GridSize() int {
	return g.gridSize
}

func (g *Game) Fleet() []int {
	return append([]int(nil), g.fleet...)
}

func (g *Game) Human() *Player {
	return g.human
}

func (g *Game) Cpu() *Player {
	return g.cpu
}

func (g *Game) Shooter() Shooter {
	return g.shooter
}

// HumanAttack fires the human's shot at the computer's grid.
func (g *Game) HumanAttack(c Coordinates) (ShotResult, error) {
	if g.isFinished {
		return ShotResult{}, cerr.ErrGameFinished
	}
	if !g.human.IsTurn() {
		return ShotResult{}, cerr.ErrNotPlayerTurn
	}
	if !c.InBounds(g.gridSize) {
		return ShotResult{}, cerr.ErrXorYOutOfGridBound(c.Row, c.Col)
	}
	if g.human.attackGrid.State(c) != CellUnknown {
		return ShotResult{}, cerr.ErrAttackPositionAlreadyFilled(c.Row, c.Col)
	}

	result := g.cpu.defenceGrid.ApplyShot(c)
	g.human.attackGrid.Record(c, result.Outcome)
	g.afterAttack(g.human, g.cpu, result)
	return result, nil
}

// CpuAttack asks the shooter for a shot and fires it at the human's grid.
// Repeat or Out outcomes are reported back and a new shot is requested.
func (g *Game) CpuAttack() (Coordinates, ShotResult, error) {
	if g.isFinished {
		return Coordinates{}, ShotResult{}, cerr.ErrGameFinished
	}
	if !g.cpu.IsTurn() {
		return Coordinates{}, ShotResult{}, cerr.ErrNotPlayerTurn
	}

	for attempt := 0; attempt < maxCpuShotAttempts; attempt++ {
		c, err := g.shooter.ChooseShot()
		if err != nil {
			return Coordinates{}, ShotResult{}, err
		}

		result := g.human.defenceGrid.ApplyShot(c)
		if err := g.shooter.NotifyResult(c, result); err != nil {
			if errors.Is(err, cerr.ErrUnexpectedOutcome) {
				continue
			}
			return Coordinates{}, ShotResult{}, err
		}

		g.cpu.attackGrid.Record(c, result.Outcome)
		g.afterAttack(g.cpu, g.human, result)
		return c, result, nil
	}

	return Coordinates{}, ShotResult{}, cerr.ErrCpuShotAttemptsExhausted(maxCpuShotAttempts)
}

func (g *Game) afterAttack(attacker, defender *Player, result ShotResult) {
	if result.Outcome == OutcomeSunk {
		attacker.IncrementSunkenShips()
	}

	if defender.defenceGrid.AllSunk() {
		attacker.SetMatchStatusToWon()
		defender.SetMatchStatusToLost()
		g.FinishGame()
		return
	}

	attacker.SetTurnFalse()
	defender.SetTurnTrue()
}

func (g *Game) FinishGame() {
	g.isFinished = true
	g.human.SetTurnFalse()
	g.cpu.SetTurnFalse()
}
