// Package storage selects the key-value backend named in configuration.
package storage

import (
	"context"
	"fmt"
	"log"

	"midad/internal/config"
	"midad/internal/domain"
	"midad/internal/port"
	"midad/internal/storage/file"
	"midad/internal/storage/memory"
	"midad/internal/storage/redis"
	"midad/internal/storage/s3"
	"midad/internal/storage/sqlstore"
)

// Backend names accepted in storage.backend.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendS3       = "s3"
)

// New opens the configured backend.
func New(ctx context.Context, cfg *config.StorageConfig) (port.KeyValueStore, error) {
	log.Printf("storage.New: opening %q backend", cfg.Backend)

	switch cfg.Backend {
	case BackendMemory:
		return memory.New(), nil
	case BackendFile, "":
		return file.New(cfg.Dir)
	case BackendPostgres:
		db, err := sqlstore.NewPostgresDB(&cfg.DB)
		if err != nil {
			return nil, err
		}
		return sqlstore.New(db), nil
	case BackendSQLite:
		db, err := sqlstore.NewSQLiteDB(cfg.DB.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlstore.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return sqlstore.New(db), nil
	case BackendRedis:
		return redis.New(ctx, &cfg.Redis)
	case BackendS3:
		return s3.New(ctx, &cfg.S3)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownBackend, cfg.Backend)
	}
}
