// Package sqlstore keeps slots in a kv_slots table on PostgreSQL or SQLite.
package sqlstore

import (
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"midad/internal/config"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// NewPostgresDB creates a new PostgreSQL connection pool.
func NewPostgresDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect(DriverPostgres, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	return db, nil
}

// NewSQLiteDB opens the SQLite database file at path, creating its directory.
// SQLite serialises writers, so the pool is held to one connection.
func NewSQLiteDB(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating sqlite directory: %w", err)
		}
	}
	db, err := sqlx.Connect(DriverSQLite, path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
