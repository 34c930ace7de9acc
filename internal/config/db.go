package config

import (
	"context"
	"fmt"

	"github.com/go-pkgz/lgr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectManaged opens a pool to the managed PostgreSQL backend. The URL is
// a connection string and the access key is used as its password.
func ConnectManaged(ctx context.Context, url, key string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid managed backend url: %w", err)
	}
	if key != "" {
		poolCfg.ConnConfig.Password = key
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create managed backend pool: %w", err)
	}
	lgr.Printf("[DEBUG] managed backend pool created for %s:%d", poolCfg.ConnConfig.Host, poolCfg.ConnConfig.Port)
	return pool, nil
}

// Execer is satisfied by *pgxpool.Pool and the repository DB interface.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Schema creates the tables the managed store expects.
const Schema = `
	CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		data TEXT NOT NULL,
		"timestamp" TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		phone TEXT UNIQUE NOT NULL,
		parent_name TEXT NOT NULL,
		child_name TEXT NOT NULL,
		wishlist TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS menu_items (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		display_order INT NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_messages_timestamp ON messages("timestamp");
	`

// EnsureSchema applies Schema. It is idempotent.
func EnsureSchema(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("unable to apply schema: %w", err)
	}
	lgr.Printf("[INFO] managed backend schema applied")
	return nil
}
