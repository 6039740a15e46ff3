package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/saeidalz13/battleship-cpu/db/sqlc"
	"github.com/saeidalz13/battleship-cpu/internal/config"
	"github.com/saeidalz13/battleship-cpu/internal/targeting"
	mb "github.com/saeidalz13/battleship-cpu/models/battleship"
	mc "github.com/saeidalz13/battleship-cpu/models/connection"
)

const (
	defaultPort     = 8000
	shutdownTimeout = time.Second * 10
)

type Server struct {
	port     int
	stage    string
	db       *sql.DB
	strategy targeting.Strategy
	logger   logrus.FieldLogger

	sessionManager *mc.BattleshipSessionManager
	gameManager    *mb.BattleshipGameManager
	processor      *RequestProcessor
}

type Option func(*Server) error

func NewServer(optFuncs ...Option) (*Server, error) {
	server := Server{
		port:     defaultPort,
		stage:    config.StageDev,
		strategy: targeting.StrategyAllLengths,
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range optFuncs {
		if err := opt(&server); err != nil {
			return nil, err
		}
	}

	server.sessionManager = mc.NewBattleshipSessionManager(mc.WithLogger(server.logger))
	server.gameManager = mb.NewBattleshipGameManager()

	// Without a database the games still run, only unrecorded
	var analytics Analytics
	if server.db != nil {
		dbm := sqlc.NewDbManager(sqlc.New(server.db), ServerIpNet(server.logger))
		analytics = dbm.Analytics
	}

	server.processor = NewRequestProcessor(server.sessionManager, server.gameManager, analytics, server.strategy, server.logger)
	return &server, nil
}

func WithPort(port int) Option {
	return func(s *Server) error {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("invalid port: %d", port)
		}
		s.port = port
		return nil
	}
}

func WithStage(stage string) Option {
	return func(s *Server) error {
		if stage != config.StageProd && stage != config.StageDev {
			return fmt.Errorf("invalid type of development stage: %s", stage)
		}
		s.stage = stage
		return nil
	}
}

func WithDb(db *sql.DB) Option {
	return func(s *Server) error {
		s.db = db
		return nil
	}
}

func WithStrategy(strategy targeting.Strategy) Option {
	return func(s *Server) error {
		if strategy != targeting.StrategyAllLengths && strategy != targeting.StrategyLargestFirst {
			return fmt.Errorf("invalid engine strategy: %d", strategy)
		}
		s.strategy = strategy
		return nil
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /battleship", s.processor)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: time.Second * 5,
	}

	go s.sessionManager.CleanupPeriodically(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithFields(logrus.Fields{"port": s.port, "stage": s.stage}).Info("listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
