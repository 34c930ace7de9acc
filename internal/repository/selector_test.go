package repository

import (
	"context"
	"errors"
	"os"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const probeSQL = `SELECT id FROM users LIMIT 1`

func selectorOptions(t *testing.T, mock pgxmock.PgxPoolIface) (SelectorOptions, FilePaths) {
	t.Helper()
	fileStore, paths, _ := prepareFileStore(t)
	return SelectorOptions{
		ManagedURL: "postgres://webhook@db.example.com:5432/postgres",
		ManagedKey: "secret",
		Connect: func(ctx context.Context) (DB, error) {
			if mock == nil {
				return nil, errors.New("connect should not be called")
			}
			return mock, nil
		},
		Fallback: fileStore,
	}, paths
}

func TestSelectBackend_NoCredentialsUsesFiles(t *testing.T) {
	opts, paths := selectorOptions(t, nil)
	opts.ManagedKey = ""

	sel := SelectBackend(context.Background(), opts)

	assert.Equal(t, BackendFile, sel.Backend)
	assert.Equal(t, "file", sel.Store.Name())
	assert.True(t, sel.URLSet)
	assert.False(t, sel.KeySet)
	assert.False(t, sel.ManagedConfigured())
	assert.Contains(t, sel.InitError, "not configured")

	_, err := os.Stat(paths.Messages)
	assert.NoError(t, err, "fallback creates the message document")
	_, err = os.Stat(paths.Users)
	assert.NoError(t, err, "fallback creates the user document")
}

func TestSelectBackend_ConnectErrorUsesFiles(t *testing.T) {
	opts, _ := selectorOptions(t, nil)
	opts.Connect = func(ctx context.Context) (DB, error) {
		return nil, errors.New("dial tcp: connection refused")
	}

	sel := SelectBackend(context.Background(), opts)

	assert.Equal(t, BackendFile, sel.Backend)
	assert.Equal(t, "dial tcp: connection refused", sel.InitError)
}

func TestSelectBackend_MissingTablesUsesFiles(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	opts, _ := selectorOptions(t, mock)

	mock.ExpectQuery(regexp.QuoteMeta(probeSQL)).
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "users" does not exist`})
	mock.ExpectClose()

	sel := SelectBackend(context.Background(), opts)

	assert.Equal(t, BackendFile, sel.Backend)
	assert.Contains(t, sel.InitError, "tables don't exist")
	assert.Contains(t, sel.InitError, `relation "users" does not exist`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectBackend_ProbeErrorUsesFiles(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	opts, _ := selectorOptions(t, mock)

	mock.ExpectQuery(regexp.QuoteMeta(probeSQL)).
		WillReturnError(&pgconn.PgError{Code: "28P01", Message: "password authentication failed"})
	mock.ExpectClose()

	sel := SelectBackend(context.Background(), opts)

	assert.Equal(t, BackendFile, sel.Backend)
	assert.NotContains(t, sel.InitError, "tables don't exist")
	assert.Contains(t, sel.InitError, "password authentication failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectBackend_MigrateErrorUsesFiles(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	opts, _ := selectorOptions(t, mock)
	opts.Migrate = func(ctx context.Context, db DB) error {
		return errors.New("permission denied for schema public")
	}
	mock.ExpectClose()

	sel := SelectBackend(context.Background(), opts)

	assert.Equal(t, BackendFile, sel.Backend)
	assert.Equal(t, "permission denied for schema public", sel.InitError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectBackend_ProbeSucceedsUsesManaged(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	opts, paths := selectorOptions(t, mock)

	migrated := false
	opts.Migrate = func(ctx context.Context, db DB) error {
		migrated = true
		return nil
	}
	mock.ExpectQuery(regexp.QuoteMeta(probeSQL)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectClose()

	sel := SelectBackend(context.Background(), opts)

	assert.True(t, migrated)
	assert.Equal(t, BackendManaged, sel.Backend)
	assert.Equal(t, "managed", sel.Store.Name())
	assert.True(t, sel.ManagedConfigured())
	assert.Empty(t, sel.InitError)

	_, err = os.Stat(paths.Messages)
	assert.True(t, os.IsNotExist(err), "managed selection leaves the file documents alone")

	sel.Close()
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBackend_DisplayName(t *testing.T) {
	assert.Equal(t, "PostgreSQL", BackendManaged.DisplayName())
	assert.Equal(t, "JSON Files", BackendFile.DisplayName())
}
