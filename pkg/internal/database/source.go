package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

type Config struct {
	Driver string
	Dsn    string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	// Debug logs every statement, Silent disables the statement logger entirely.
	Debug  bool
	Silent bool
}

func NewDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverPostgres, "":
		return postgres.Open(dsn), nil
	case DriverSqlite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func NewGorm(config Config) (*gorm.DB, error) {
	dialector, err := NewDialector(config.Driver, config.Dsn)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if config.Debug {
		level = logger.Info
	} else if config.Silent {
		level = logger.Silent
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(&log.Logger, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			Colorful:                  true,
			IgnoreRecordNotFoundError: true,
			LogLevel:                  level,
		}),
	})
	if err != nil {
		return nil, err
	}

	source, err := db.DB()
	if err != nil {
		return nil, err
	}
	if config.MaxOpenConns > 0 {
		source.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		source.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		source.SetConnMaxLifetime(config.ConnMaxLifetime)
	}

	return db, nil
}

// ReportPoolStats returns a job that logs the connection pool usage of db.
func ReportPoolStats(db *gorm.DB) func() {
	return func() {
		source, err := db.DB()
		if err != nil {
			log.Warn().Err(err).Msg("Unable to access database pool, skipped reporting stats...")
			return
		}
		stats := source.Stats()
		log.Info().
			Int("open", stats.OpenConnections).
			Int("in_use", stats.InUse).
			Int("idle", stats.Idle).
			Int64("wait_count", stats.WaitCount).
			Dur("wait_duration", stats.WaitDuration).
			Msg("Database connection pool stats.")
	}
}
