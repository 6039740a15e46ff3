package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const (
	maxOpenConns = 50
	maxIdleConns = 10
	connMaxLife  = time.Minute * 15
)

// MustMigrate brings the schema up to the latest migration found in
// migrationDir, e.g. file://db/migration.
func MustMigrate(db *sql.DB, migrationDir string, logger logrus.FieldLogger) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		logger.WithError(err).Fatal("failed to create migration driver")
	}

	m, err := migrate.NewWithDatabaseInstance(migrationDir, "postgres", driver)
	if err != nil {
		logger.WithError(err).Fatal("failed to read migrations")
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Info("fresh database; no migration applied yet")
	case err != nil:
		logger.WithError(err).Fatal("failed to read migration version")
	case dirty:
		logger.WithField("version", version).Fatal("database is dirty")
	default:
		logger.WithField("version", version).Info("current migration version")
	}

	if err = m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return
		}
		logger.WithError(err).Fatal("migration failed")
	}
	logger.Info("migration successful")
}

// MustConnectToDb opens a pooled postgres handle and verifies it with a ping.
func MustConnectToDb(psqlUrl string, logger logrus.FieldLogger) *sql.DB {
	// Open may just validate its arguments without creating a connection to the database
	db, err := sql.Open("postgres", psqlUrl)
	if err != nil {
		logger.WithError(err).Fatal("failed to open database")
	}

	if err := db.Ping(); err != nil {
		logger.WithError(err).Fatal("failed to ping database")
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLife)

	return db
}
