package battleship

const (
	PlayerMatchStatusLost      = -1
	PlayerMatchStatusUndefined = 0
	PlayerMatchStatusWon       = 1
)

type Player struct {
	isTurn      bool
	matchStatus int
	sunkenShips int
	attackGrid  AttackGrid
	defenceGrid *DefenceGrid
}

func NewPlayer(isTurn bool, gridSize int) *Player {
	return &Player{
		isTurn:      isTurn,
		matchStatus: PlayerMatchStatusUndefined,
		attackGrid:  NewAttackGrid(gridSize),
		defenceGrid: NewDefenceGrid(gridSize),
	}
}

func (p *Player) IsTurn() bool {
	return p.isTurn
}

func (p *Player) SetTurnTrue() {
	p.isTurn = true
}

func (p *Player) SetTurnFalse() {
	p.isTurn = false
}

func (p *Player) MatchStatus() int {
	return p.matchStatus
}

func (p *Player) SetMatchStatusToWon() {
	p.matchStatus = PlayerMatchStatusWon
}

func (p *Player) SetMatchStatusToLost() {
	p.matchStatus = PlayerMatchStatusLost
}

func (p *Player) IsMatchOver() bool {
	return p.matchStatus != PlayerMatchStatusUndefined
}

// SunkenShips counts the opponent ships this player has sunk.
func (p *Player) SunkenShips() int {
	return p.sunkenShips
}

func (p *Player) IncrementSunkenShips() {
	p.sunkenShips++
}

func (p *Player) AttackGrid() AttackGrid {
	return p.attackGrid
}

func (p *Player) DefenceGrid() *DefenceGrid {
	return p.defenceGrid
}
