package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/saeidalz13/battleship-cpu/db/sqlc"
	"github.com/saeidalz13/battleship-cpu/internal/targeting"
	mb "github.com/saeidalz13/battleship-cpu/models/battleship"
	mc "github.com/saeidalz13/battleship-cpu/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"
)

const (
	winnerHuman = "human"
	winnerCpu   = "cpu"
)

var (
	upgrader = websocket.Upgrader{

		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		// probably more that enough but this is a good average size
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

// Analytics is what the session loop records and reports. A nil
// Analytics turns both off.
type Analytics interface {
	IncrementGamesCreatedCount(ctx context.Context) error
	GetGamesCreatedCount(ctx context.Context) (int64, error)
	InsertEngineGameResult(ctx context.Context, arg sqlc.InsertEngineGameResultParams) error
	GetEngineAverageShots(ctx context.Context, strategy string) (float64, error)
}

var _ Analytics = (*sqlc.AnalyticsManager)(nil)

type RequestProcessor struct {
	sessionManager  mc.SessionManager
	gameManager     mb.GameManager
	analytics       Analytics
	defaultStrategy targeting.Strategy
	logger          logrus.FieldLogger
}

func NewRequestProcessor(
	sessionManager mc.SessionManager,
	gameManager mb.GameManager,
	analytics Analytics,
	defaultStrategy targeting.Strategy,
	logger logrus.FieldLogger,
) *RequestProcessor {
	return &RequestProcessor{
		sessionManager:  sessionManager,
		gameManager:     gameManager,
		analytics:       analytics,
		defaultStrategy: defaultStrategy,
		logger:          logger,
	}
}

// ServerIpNet returns the first IPv4 address of an up, non-loopback
// interface, or 127.0.0.1/32 when there is none.
func ServerIpNet(logger logrus.FieldLogger) net.IPNet {
	loopback := net.IPNet{IP: net.IPv4(127, 0, 0, 1), Mask: net.CIDRMask(32, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		logger.WithError(err).Warn("failed to list network interfaces")
		return loopback
	}

	for _, iface := range ifaces {
		// If the flag is down
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			logger.WithError(err).WithField("iface", iface.Name).Warn("failed to read interface addresses")
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}

			if ip4 := ipnet.IP.To4(); ip4 != nil && !ip4.IsLoopback() {
				return net.IPNet{IP: ip4, Mask: net.CIDRMask(32, 32)}
			}
		}
	}

	logger.Warn("no non-loopback interface found; using loopback address")
	return loopback
}

func (rp *RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		rp.logger.WithError(err).Warn("could not open websocket connection")
		return
	}

	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		rp.logger.WithField("remote_addr", conn.RemoteAddr().String()).Info("a new connection established")
		rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))

	default:
		if err := rp.sessionManager.ReconnectSession(sessionIdQuery, conn); err != nil {
			// This either means an expired session or invalid session ID
			rp.logger.WithError(err).WithField("session_id", sessionIdQuery).Info("reconnection refused")
			_ = conn.WriteJSON(mc.NewMessage[mc.NoPayload](mc.CodeReceivedInvalidSessionID))
			_ = conn.Close()
		}
	}
}

func (rp *RequestProcessor) processSessionRequests(session *mc.Session) {
	var (
		sessionGame   *mb.Game
		sessionEngine *targeting.Engine

		sessionId = session.Id()
		logger    = session.Logger()
	)

	defer func() {
		if sessionGame != nil {
			rp.gameManager.TerminateGame(sessionGame.Uuid())
		}
		if conn := session.Conn(); conn != nil {
			_ = conn.Close()
		}
		rp.sessionManager.TerminateSession(sessionId)
		logger.Info("session closed")
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sessionId})
	if err := rp.sessionManager.WriteToSessionConn(session, resp, mc.MessageTypeJSON); err != nil {
		return
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// Retries are already spent; the connection cannot be saved
			break sessionLoop
		}

		code, err := mc.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError(err.Error(), "")
			if err = rp.sessionManager.WriteToSessionConn(session, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		req := NewRequest(payload, logger)

		switch code {

		// A new game replaces the running one
		case mc.CodeCreateGame:
			game, engine, respMsg := req.HandleCreateGame(rp.gameManager, rp.defaultStrategy)
			if respMsg.Error == nil {
				if sessionGame != nil {
					rp.gameManager.TerminateGame(sessionGame.Uuid())
				}
				sessionGame, sessionEngine = game, engine
				logger = session.Logger().WithField("game_uuid", game.Uuid())
				rp.recordGameCreated(logger)
				logger.WithFields(logrus.Fields{
					"strategy":     engine.Strategy().String(),
					"active_games": rp.gameManager.ActiveGames(),
				}).Info("game created")
			}

			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

		// The human fires; unless that ends the game the computer
		// answers right away with its own shot
		case mc.CodeAttack:
			sessionGameUuid := ""
			if sessionGame != nil {
				sessionGameUuid = sessionGame.Uuid()
			}
			respMsg := req.HandleAttack(rp.gameManager, sessionGameUuid)
			if err := rp.sessionManager.WriteToSessionConn(session, respMsg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}

			// This means attack operation did not complete
			if respMsg.Error != nil {
				continue sessionLoop
			}

			if !sessionGame.IsFinished() {
				respCpu := req.HandleCpuAttack(sessionGame, sessionEngine)
				if err := rp.sessionManager.WriteToSessionConn(session, respCpu, mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}
				if respCpu.Error != nil {
					break sessionLoop
				}
			}

			if sessionGame.IsFinished() {
				averageShots := rp.recordEngineResult(logger, sessionGame, sessionEngine)

				respEnd := mc.NewMessage[mc.RespEndGame](mc.CodeEndGame)
				respEnd.AddPayload(mc.RespEndGame{
					PlayerMatchStatus:  sessionGame.Human().MatchStatus(),
					EngineAverageShots: averageShots,
				})
				if err := rp.sessionManager.WriteToSessionConn(session, respEnd, mc.MessageTypeJSON); err != nil {
					break sessionLoop
				}
			}

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			if err := rp.sessionManager.WriteToSessionConn(session, respInvalidSignal, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
		}
	}
}

// Analytics failures never interrupt a game
func (rp *RequestProcessor) recordGameCreated(logger logrus.FieldLogger) {
	if rp.analytics == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()
	if err := rp.analytics.IncrementGamesCreatedCount(ctx); err != nil {
		logger.WithError(err).Warn("failed to count created game")
		return
	}

	count, err := rp.analytics.GetGamesCreatedCount(ctx)
	if err != nil {
		logger.WithError(err).Warn("failed to read created games count")
		return
	}
	logger.WithField("games_created", count).Debug("created games on this server")
}

// recordEngineResult logs and stores the computer's side of a finished
// game and returns the engine's average shots per game for the
// strategy, or 0 when that is not available.
func (rp *RequestProcessor) recordEngineResult(logger logrus.FieldLogger, game *mb.Game, engine *targeting.Engine) float64 {
	stats := engine.Stats()
	winner := winnerHuman
	if game.Cpu().MatchStatus() == mb.PlayerMatchStatusWon {
		winner = winnerCpu
	}

	logger.WithFields(logrus.Fields{
		"winner":       winner,
		"engine_shots": stats.Shots,
		"hunt_shots":   stats.HuntShots,
		"target_shots": stats.TargetShots,
	}).Info("game finished")

	if rp.analytics == nil {
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()
	err := rp.analytics.InsertEngineGameResult(ctx, sqlc.InsertEngineGameResultParams{
		GameUuid:    game.Uuid(),
		Strategy:    engine.Strategy().String(),
		Winner:      winner,
		EngineShots: int32(stats.Shots),
		HuntShots:   int32(stats.HuntShots),
		TargetShots: int32(stats.TargetShots),
	})
	if err != nil {
		logger.WithError(err).Warn("failed to store engine result")
		return 0
	}

	averageShots, err := rp.analytics.GetEngineAverageShots(ctx, engine.Strategy().String())
	if err != nil {
		logger.WithError(err).Warn("failed to read engine average shots")
		return 0
	}
	return averageShots
}
