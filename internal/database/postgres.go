// Package database provides the read-only PostgreSQL repositories the metrics
// engine aggregates over: the nightly rollup table, the raw mention and
// citation tables, sentiment evaluations, and the competitor list.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/config"
	"github.com/Andr3sV/mvp-geo-saas-sub004/internal/logger"
)

// pingTimeout is the context timeout for the connection check.
const pingTimeout = 5 * time.Second

// Connection pool settings.
const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
)

// Connect opens and verifies a PostgreSQL connection.
func Connect(cfg *config.DatabaseConfig, log logger.Logger) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	log.Info("Database connected",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("database", cfg.Database),
	)

	return db, nil
}
