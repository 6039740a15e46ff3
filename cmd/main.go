package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/saeidalz13/battleship-cpu/api"
	"github.com/saeidalz13/battleship-cpu/db"
	"github.com/saeidalz13/battleship-cpu/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger := cfg.NewLogger()

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func run(cfg config.Config, logger *logrus.Logger) error {
	opts := []api.Option{
		api.WithPort(cfg.Port),
		api.WithStage(cfg.Stage),
		api.WithStrategy(cfg.Strategy),
		api.WithLogger(logger),
	}

	if cfg.DatabaseUrl != "" {
		psql := db.MustConnectToDb(cfg.DatabaseUrl, logger)
		defer psql.Close()

		db.MustMigrate(psql, cfg.MigrationDir, logger)
		opts = append(opts, api.WithDb(psql))
	} else {
		logger.Warn("DATABASE_URL not set; analytics disabled")
	}

	server, err := api.NewServer(opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}
