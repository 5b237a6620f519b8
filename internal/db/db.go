package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"learnpath/internal/config"
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS roadmaps (
	id            UUID PRIMARY KEY,
	goal          TEXT NOT NULL,
	topic         TEXT NOT NULL,
	duration_week INTEGER NOT NULL,
	profile       JSONB NOT NULL,
	roadmap       JSONB NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS roadmaps_created_at_idx ON roadmaps (created_at DESC)`,
}

// NewPool construye el pool de conexiones a partir de DATABASE_URL.
func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	poolCfg.MaxConns = int32(cfg.DatabaseMaxConns)
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// Ping verifica conectividad con la base de datos.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}

// EnsureSchema crea la tabla de roadmaps si no existe.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
