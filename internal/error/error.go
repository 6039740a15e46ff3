package error

import (
	"errors"
	"fmt"
)

const (
	ConstErrAttackFailed = "attack operation failed"
	ConstErrCpuTurn      = "computer turn failed"
	ConstErrCreateGame   = "create game failed"
)

var (
	// The engine was asked for a shot but every in-bound cell was already fired at
	ErrNoUnknownCells = errors.New("no unresolved cell left to fire at")

	// Repeat or Out fed back to the engine despite its own filtering
	ErrUnexpectedOutcome = errors.New("unexpected shot outcome")

	ErrShipLengthNotInFleet = errors.New("ship length is not in the fleet")
	ErrNotPlayerTurn        = errors.New("it is not this player's turn")
	ErrGameFinished         = errors.New("game is already finished")
	ErrInvalidShipPlacement = errors.New("invalid ship placement")
)

func ErrGameNotExists(gameUuid string) error {
	return fmt.Errorf("game with this uuid does not exist, uuid: %s", gameUuid)
}

func ErrGameIsNil(gameUuid string) error {
	return fmt.Errorf("game with this uuid is nil, uuid: %s", gameUuid)
}

func ErrSessionNotFound(sessionId string) error {
	return fmt.Errorf("session with this id does not exist, id: %s", sessionId)
}

func ErrSessionIsNil(sessionId string) error {
	return fmt.Errorf("session with this id is nil, id: %s", sessionId)
}

func ErrGameNotInSession(gameUuid string) error {
	return fmt.Errorf("game is not the active game of this session, uuid: %s", gameUuid)
}

func ErrNoActiveGame() error {
	return fmt.Errorf("no active game in this session; create a game first")
}

func ErrInvalidStrategy(strategy string) error {
	return fmt.Errorf("invalid targeting strategy: %s", strategy)
}

func ErrXorYOutOfGridBound(row, col int) error {
	return fmt.Errorf("incoming row or col is out of game grid bound\trow: %d\tcol: %d", row, col)
}

func ErrAttackPositionAlreadyFilled(row, col int) error {
	return fmt.Errorf("current position in grid already taken\trow: %d\tcol: %d", row, col)
}

func ErrShipOverlapOrOutOfBound(length, row, col int) error {
	return fmt.Errorf("%w: ship of length %d cannot be placed at\trow: %d\tcol: %d", ErrInvalidShipPlacement, length, row, col)
}

func ErrPlacementFleetMismatch(placed, fleet []int) error {
	return fmt.Errorf("%w: placed lengths %v do not match fleet %v", ErrInvalidShipPlacement, placed, fleet)
}

func ErrInvalidOrientation(orientation string) error {
	return fmt.Errorf("%w: unknown orientation %q", ErrInvalidShipPlacement, orientation)
}

func ErrFleetPlacementFailed(attempts int) error {
	return fmt.Errorf("failed to place fleet after %d attempts", attempts)
}

func ErrShipLengthNotInFleetFor(length int) error {
	return fmt.Errorf("%w: %d", ErrShipLengthNotInFleet, length)
}

func ErrUnexpectedOutcomeAt(outcome string, row, col int) error {
	return fmt.Errorf("%w: %s\trow: %d\tcol: %d", ErrUnexpectedOutcome, outcome, row, col)
}

func ErrSunkLengthUnresolved(componentSize int) error {
	return fmt.Errorf("%w: no fleet length fits a sunk component of size %d", ErrShipLengthNotInFleet, componentSize)
}

func ErrCpuShotAttemptsExhausted(attempts int) error {
	return fmt.Errorf("computer could not produce a legal shot after %d attempts", attempts)
}
