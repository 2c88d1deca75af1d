package infra

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SamuelMauli/AvaliacaoDesignPatterns/infra/repository"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/internal/migrations"
	"github.com/SamuelMauli/AvaliacaoDesignPatterns/pkg/config"
	"github.com/golang-migrate/migrate/v4"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

// NewDBConnection opens the configured database and brings its schema up to
// date. Postgres runs the versioned migrations; sqlite uses AutoMigrate.
func NewDBConnection(
	cnf *config.DB,
	appEnv string,
) (*gorm.DB, error) {
	databaseUrl := cnf.Url
	if databaseUrl == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	var logMode logger.LogLevel
	if appEnv == "development" {
		logMode = logger.Info
	} else {
		logMode = logger.Silent
	}
	gormCfg := &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		SkipDefaultTransaction: true,
	}

	switch strings.ToLower(cnf.Driver) {
	case "postgres":
		return openDB(postgres.Open(databaseUrl), gormCfg, preparePostgres)
	case "sqlite":
		return openDB(sqlite.Open(databaseUrl), gormCfg, func(db *gorm.DB) error {
			if err := db.AutoMigrate(repository.Models()...); err != nil {
				return fmt.Errorf("auto migrate: %w", err)
			}
			return nil
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cnf.Driver)
	}
}

// openDB opens the connection and runs prepare on it. The pool is closed if
// prepare fails.
func openDB(dialector gorm.Dialector, cfg *gorm.Config, prepare func(*gorm.DB) error) (*gorm.DB, error) {
	connection, err := gorm.Open(dialector, cfg)
	if err != nil {
		return nil, err
	}
	if err := prepare(connection); err != nil {
		if sqlDB, dbErr := connection.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return connection, nil
}

func preparePostgres(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)
	return RunMigrations(db)
}

// RunMigrations applies the embedded postgres migrations.
func RunMigrations(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	driver, err := migratepostgres.WithInstance(sqlDB, &migratepostgres.Config{})
	if err != nil {
		return err
	}
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
