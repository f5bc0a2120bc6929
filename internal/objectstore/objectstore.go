// Package objectstore builds the configured object store gateway.
package objectstore

import (
	"context"
	"fmt"
	"log/slog"

	"orgdrive/internal/config"
	"orgdrive/internal/domain/storage"
	"orgdrive/internal/objectstore/memory"
	"orgdrive/internal/objectstore/s3"
)

// New creates the gateway selected by cfg.Type
func New(ctx context.Context, cfg config.ObjectStoreConfig, logger *slog.Logger) (storage.ObjectStore, error) {
	switch cfg.Type {
	case "s3":
		return s3.NewFromConfig(ctx, cfg, logger)
	case "memory":
		logger.Warn("using in-memory object store; presigned URLs are not real")
		return memory.NewStore(cfg.PresignWriteTTL, cfg.PresignReadTTL), nil
	default:
		return nil, fmt.Errorf("unknown object store type: %q", cfg.Type)
	}
}
