package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"midad/internal/domain"
	"midad/internal/port"
)

const schema = `CREATE TABLE IF NOT EXISTS kv_slots (
    slot_key   VARCHAR(128) PRIMARY KEY,
    value      TEXT         NOT NULL,
    updated_at BIGINT       NOT NULL
)`

type store struct {
	db *sqlx.DB
}

// New wraps db as a KeyValueStore. The kv_slots table must exist; see EnsureSchema.
func New(db *sqlx.DB) port.KeyValueStore {
	return &store{db: db}
}

// EnsureSchema creates kv_slots when missing. The embedded SQLite backend calls
// it on start; PostgreSQL deployments run cmd/migrate instead.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating kv_slots: %w", err)
	}
	return nil
}

func (s *store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value,
		s.db.Rebind(`SELECT value FROM kv_slots WHERE slot_key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrSlotNotFound
	}
	if err != nil {
		return "", fmt.Errorf("sqlstore.Get %s: %w", key, err)
	}
	return value, nil
}

func (s *store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO kv_slots (slot_key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (slot_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("sqlstore.Set %s: %w", key, err)
	}
	return nil
}

func (s *store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM kv_slots WHERE slot_key = ?`), key)
	if err != nil {
		return fmt.Errorf("sqlstore.Delete %s: %w", key, err)
	}
	return nil
}

func (s *store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *store) Close() error {
	return s.db.Close()
}
