package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/saeidalz13/battleship-cpu/internal/targeting"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

const (
	defaultPort         = 8000
	defaultMigrationDir = "file://db/migration"
)

type Config struct {
	Stage        string
	Port         int
	DatabaseUrl  string
	MigrationDir string
	LogLevel     logrus.Level
	Strategy     targeting.Strategy
}

// Load reads the environment, pulling in envFiles first outside of prod.
// Missing env files are not an error.
func Load(envFiles ...string) (Config, error) {
	if os.Getenv("STAGE") != StageProd {
		if len(envFiles) == 0 {
			envFiles = []string{".env"}
		}
		for _, f := range envFiles {
			if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("loading %s: %w", f, err)
			}
		}
	}

	cfg := Config{
		Stage:        os.Getenv("STAGE"),
		Port:         defaultPort,
		DatabaseUrl:  os.Getenv("DATABASE_URL"),
		MigrationDir: defaultMigrationDir,
		LogLevel:     logrus.InfoLevel,
	}

	if cfg.Stage != StageDev && cfg.Stage != StageProd {
		return Config{}, fmt.Errorf("stage must be either %s or %s, got: %q", StageDev, StageProd, cfg.Stage)
	}

	if portEnv := os.Getenv("PORT"); portEnv != "" {
		port, err := strconv.Atoi(portEnv)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid port: %q", portEnv)
		}
		cfg.Port = port
	}

	if dir := os.Getenv("MIGRATION_DIR"); dir != "" {
		cfg.MigrationDir = dir
	}

	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			return Config{}, err
		}
		cfg.LogLevel = level
	}

	strategy, err := targeting.ParseStrategy(os.Getenv("ENGINE_STRATEGY"))
	if err != nil {
		return Config{}, err
	}
	cfg.Strategy = strategy

	return cfg, nil
}

// NewLogger builds the process logger: JSON in prod, text otherwise.
func (c Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)
	if c.Stage == StageProd {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
