package api

import (
	"encoding/json"
	"math/rand/v2"

	"github.com/sirupsen/logrus"

	cerr "github.com/saeidalz13/battleship-cpu/internal/error"
	"github.com/saeidalz13/battleship-cpu/internal/targeting"
	mb "github.com/saeidalz13/battleship-cpu/models/battleship"
	mc "github.com/saeidalz13/battleship-cpu/models/connection"
)

type RequestHandler interface {
	HandleCreateGame(gm mb.GameManager, defaultStrategy targeting.Strategy) (*mb.Game, *targeting.Engine, mc.Message[mc.RespCreateGame])
	HandleAttack(gm mb.GameManager, sessionGameUuid string) mc.Message[mc.RespAttack]
	HandleCpuAttack(game *mb.Game, engine *targeting.Engine) mc.Message[mc.RespCpuAttack]
}

// Request is one incoming frame of a session.
type Request struct {
	payload []byte
	logger  logrus.FieldLogger
}

var _ RequestHandler = (*Request)(nil)

func NewRequest(payload []byte, logger logrus.FieldLogger) Request {
	return Request{payload: payload, logger: logger}
}

// HandleCreateGame starts a game against a fresh engine. The human's
// ships go where the request puts them, or at random when it names
// none; the computer's fleet is always random. The human's layout is
// sent back, the computer's stays on the server.
func (r Request) HandleCreateGame(gm mb.GameManager, defaultStrategy targeting.Strategy) (*mb.Game, *targeting.Engine, mc.Message[mc.RespCreateGame]) {
	resp := mc.NewMessage[mc.RespCreateGame](mc.CodeCreateGame)

	var req mc.Message[mc.ReqCreateGame]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), cerr.ConstErrCreateGame)
		return nil, nil, resp
	}

	strategy := defaultStrategy
	if req.Payload.Strategy != "" {
		parsed, err := targeting.ParseStrategy(req.Payload.Strategy)
		if err != nil {
			resp.AddError(err.Error(), cerr.ConstErrCreateGame)
			return nil, nil, resp
		}
		strategy = parsed
	}

	placements, err := shipPlacements(req.Payload.Ships)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrCreateGame)
		return nil, nil, resp
	}

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	engine, err := targeting.NewEngine(
		targeting.WithStrategy(strategy),
		targeting.WithRand(rng),
		targeting.WithLogger(r.logger),
	)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrCreateGame)
		return nil, nil, resp
	}

	game, err := mb.NewGame(engine, mb.GridSize, mb.StandardFleet, placements, rng)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrCreateGame)
		return nil, nil, resp
	}
	gm.AddGame(game)

	resp.AddPayload(mc.RespCreateGame{
		GameUuid:    game.Uuid(),
		Strategy:    strategy.String(),
		Fleet:       game.Fleet(),
		DefenceGrid: game.Human().DefenceGrid().PositionCodes(),
	})
	return game, engine, resp
}

func shipPlacements(ships []mc.ReqShipPlacement) ([]mb.ShipPlacement, error) {
	placements := make([]mb.ShipPlacement, 0, len(ships))
	for _, ship := range ships {
		orientation, err := mb.ParseOrientation(ship.Orientation)
		if err != nil {
			return nil, err
		}
		placements = append(placements, mb.ShipPlacement{
			Origin:      mb.NewCoordinates(ship.Row, ship.Col),
			Orientation: orientation,
			Length:      ship.Length,
		})
	}
	return placements, nil
}

// HandleAttack fires the human's shot in the game named by the request,
// which must be the game this session is playing.
func (r Request) HandleAttack(gm mb.GameManager, sessionGameUuid string) mc.Message[mc.RespAttack] {
	resp := mc.NewMessage[mc.RespAttack](mc.CodeAttack)
	if sessionGameUuid == "" {
		resp.AddError(cerr.ErrNoActiveGame().Error(), cerr.ConstErrAttackFailed)
		return resp
	}

	var req mc.Message[mc.ReqAttack]
	if err := json.Unmarshal(r.payload, &req); err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return resp
	}

	if req.Payload.GameUuid != sessionGameUuid {
		resp.AddError(cerr.ErrGameNotInSession(req.Payload.GameUuid).Error(), cerr.ConstErrAttackFailed)
		return resp
	}

	game, err := gm.FetchGame(req.Payload.GameUuid)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return resp
	}

	c := mb.NewCoordinates(req.Payload.Row, req.Payload.Col)
	result, err := game.HumanAttack(c)
	if err != nil {
		resp.AddError(err.Error(), cerr.ConstErrAttackFailed)
		return resp
	}

	resp.AddPayload(mc.RespAttack{
		Row:        c.Row,
		Col:        c.Col,
		Outcome:    result.Outcome.String(),
		SunkLength: result.SunkLength,
		SunkCells:  result.SunkCells,
		IsTurn:     game.Human().IsTurn(),
	})
	return resp
}

// HandleCpuAttack plays the computer's turn.
func (r Request) HandleCpuAttack(game *mb.Game, engine *targeting.Engine) mc.Message[mc.RespCpuAttack] {
	resp := mc.NewMessage[mc.RespCpuAttack](mc.CodeCpuAttack)

	c, result, err := game.CpuAttack()
	if err != nil {
		r.logger.WithError(err).Error("computer turn failed")
		resp.AddError(err.Error(), cerr.ConstErrCpuTurn)
		return resp
	}

	resp.AddPayload(mc.RespCpuAttack{
		Row:        c.Row,
		Col:        c.Col,
		Outcome:    result.Outcome.String(),
		SunkLength: result.SunkLength,
		Mode:       engine.Mode().String(),
	})
	return resp
}
