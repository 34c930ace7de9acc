package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Backend names the store chosen at startup.
type Backend string

const (
	BackendManaged Backend = "managed"
	BackendFile    Backend = "file"
)

// DisplayName is the human readable backend name used by /health.
func (b Backend) DisplayName() string {
	if b == BackendManaged {
		return "PostgreSQL"
	}
	return "JSON Files"
}

// undefined_table
const undefinedTableCode = "42P01"

const defaultProbeTimeout = 5 * time.Second

// Connector opens the managed backend connection.
type Connector func(ctx context.Context) (DB, error)

// SelectorOptions configures SelectBackend.
type SelectorOptions struct {
	ManagedURL   string
	ManagedKey   string
	ProbeTimeout time.Duration

	Connect Connector
	// Migrate, when set, runs before the probe.
	Migrate func(ctx context.Context, db DB) error

	// Managed builds the store over an accepted connection. Defaults to
	// NewManagedStore with the wall clock.
	Managed  func(db DB) Store
	Fallback *FileStore
}

// Selection is the outcome of backend selection. It never changes after
// startup; an outage later surfaces as per-request errors.
type Selection struct {
	Store     Store
	Backend   Backend
	URLSet    bool
	KeySet    bool
	InitError string

	db DB
}

// ManagedConfigured reports whether the managed backend is in use.
func (s *Selection) ManagedConfigured() bool { return s.Backend == BackendManaged }

// Close releases the managed connection, if any.
func (s *Selection) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// SelectBackend tries the managed backend and falls back to the file store
// on missing credentials, connection errors or a failed probe. It never
// fails: the reason for a fallback is kept in Selection.InitError.
func SelectBackend(ctx context.Context, opts SelectorOptions) *Selection {
	sel := &Selection{
		URLSet: opts.ManagedURL != "",
		KeySet: opts.ManagedKey != "",
	}

	if !sel.URLSet || !sel.KeySet {
		lgr.Printf("[WARN] managed backend not configured (url set: %t, key set: %t), using JSON files", sel.URLSet, sel.KeySet)
		return fallback(sel, opts, "managed backend credentials not configured")
	}

	db, err := opts.Connect(ctx)
	if err != nil {
		lgr.Printf("[ERROR] could not initialize managed backend: %v", err)
		return fallback(sel, opts, err.Error())
	}

	if opts.Migrate != nil {
		if err := opts.Migrate(ctx, db); err != nil {
			db.Close()
			lgr.Printf("[ERROR] managed backend schema setup failed: %v", err)
			return fallback(sel, opts, err.Error())
		}
	}

	if err := probe(ctx, db, opts.ProbeTimeout); err != nil {
		db.Close()
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode {
			lgr.Printf("[WARN] managed backend reachable but tables don't exist: %v", err)
			return fallback(sel, opts, fmt.Sprintf("tables don't exist, run the schema setup: %v", err))
		}
		lgr.Printf("[WARN] managed backend probe failed: %v", err)
		return fallback(sel, opts, err.Error())
	}

	lgr.Printf("[INFO] managed backend initialized")
	sel.Backend = BackendManaged
	if opts.Managed != nil {
		sel.Store = opts.Managed(db)
	} else {
		sel.Store = NewManagedStore(db, nil)
	}
	sel.db = db
	return sel
}

func probe(ctx context.Context, db DB, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var id int64
	err := db.QueryRow(ctx, `SELECT id FROM users LIMIT 1`).Scan(&id)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return nil
}

func fallback(sel *Selection, opts SelectorOptions, reason string) *Selection {
	sel.Backend = BackendFile
	sel.Store = opts.Fallback
	sel.InitError = reason
	if err := opts.Fallback.EnsureFiles(); err != nil {
		lgr.Printf("[WARN] could not create JSON documents: %v", err)
	}
	return sel
}
