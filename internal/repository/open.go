// Package repository opens the configured metadata store.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"orgdrive/internal/config"
	"orgdrive/internal/domain/repositories"
	"orgdrive/internal/repository/memory"
	"orgdrive/internal/repository/postgres"
	"orgdrive/internal/repository/postgres/migrations"
)

// MetadataStore is an opened metadata backend
type MetadataStore struct {
	*repositories.Registry

	// Pool is nil for the in-memory store
	Pool *pgxpool.Pool
}

// Close releases the connection pool, if any
func (m *MetadataStore) Close() {
	if m.Pool != nil {
		m.Pool.Close()
	}
}

// Open connects to the backend selected by cfg.MetadataStore. With migrate
// set, pending postgres migrations are applied before returning.
func Open(ctx context.Context, cfg *config.Config, migrate bool, logger *slog.Logger) (*MetadataStore, error) {
	switch cfg.MetadataStore {
	case "memory":
		logger.Warn("using in-memory metadata store; data is lost on restart")
		return &MetadataStore{Registry: memory.NewStore(logger).Registry()}, nil
	case "postgres":
	default:
		return nil, fmt.Errorf("unknown metadata store: %q", cfg.MetadataStore)
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected",
		"max_conns", pool.Config().MaxConns,
		"min_conns", pool.Config().MinConns,
	)

	if migrate {
		if err := migrations.MigrateUp(pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied")
	}

	registry := postgres.NewRepositories(&postgres.RepositoryConfig{Pool: pool, Logger: logger})
	return &MetadataStore{Registry: registry, Pool: pool}, nil
}
