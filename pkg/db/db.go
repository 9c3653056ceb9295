package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNoURL is returned when neither Config.URL nor DATABASE_URL is set.
var ErrNoURL = errors.New("database URL is required: set database_url or DATABASE_URL")

const (
	defaultMaxOpenConns    = 10
	defaultConnMaxLifetime = 30 * time.Minute
	pingTimeout            = 5 * time.Second
)

// Config holds database connection configuration
type Config struct {
	// URL is the database connection URL (defaults to DATABASE_URL env var)
	URL string
	// Debug enables SQL query logging
	Debug bool
	// MaxOpenConns caps the pool; 0 uses 10
	MaxOpenConns int
}

func (c Config) url() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}
	if u := URL(); u != "" {
		return u, nil
	}
	return "", ErrNoURL
}

// Connect opens the signatories database and checks it is reachable.
func Connect(ctx context.Context, cfg Config) (*gorm.DB, error) {
	dbURL, err := cfg.url()
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if cfg.Debug {
		logMode = logger.Info
	}

	gdb, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  dbURL,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}),
		&gorm.Config{Logger: logger.Default.LogMode(logMode)},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = defaultMaxOpenConns
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen / 2)
	sqlDB.SetConnMaxLifetime(defaultConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database is unreachable: %w", err)
	}
	return gdb, nil
}

// URL returns DATABASE_URL, or "" when unset.
func URL() string {
	return os.Getenv("DATABASE_URL")
}
