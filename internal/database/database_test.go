package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TanDoan1234/Hethongquanlynghiphep/internal/config"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := config.DatabaseConfig{Driver: "sqlite3", DSN: filepath.Join(t.TempDir(), "test.db")}
	db, dialect, err := NewConnection(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	assert.Equal(t, SQLite, dialect)
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, db, SQLite))
	require.NoError(t, Migrate(ctx, db, SQLite))

	for _, table := range []string{"identities", "profiles", "leave_requests", "advance_requests"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
}

func TestMigrate_UnknownDialect(t *testing.T) {
	db := openTestDB(t)
	assert.Error(t, Migrate(context.Background(), db, Dialect("oracle")))
}

func TestInTx_RollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, err := db.Exec(`CREATE TABLE t (v INTEGER)`)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = InTx(ctx, db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO t (v) VALUES (1)`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
	assert.Equal(t, 0, n)

	require.NoError(t, InTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO t (v) VALUES (2)`)
		return err
	}))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM t`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestPrepareDSN(t *testing.T) {
	dsn, err := prepareDSN(MySQL, "root:pw@tcp(localhost:3306)/hr")
	require.NoError(t, err)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "clientFoundRows=true")

	dsn, err = prepareDSN(SQLite, "hr.db")
	require.NoError(t, err)
	assert.Equal(t, "hr.db?_foreign_keys=on&_busy_timeout=5000", dsn)

	dsn, err = prepareDSN(SQLite, "file:hr.db?mode=memory")
	require.NoError(t, err)
	assert.Equal(t, "file:hr.db?mode=memory", dsn)

	_, err = prepareDSN(Dialect("oracle"), "x")
	assert.Error(t, err)
}

func TestLockClause(t *testing.T) {
	assert.Equal(t, " FOR UPDATE", MySQL.LockClause())
	assert.Equal(t, "", SQLite.LockClause())
}
