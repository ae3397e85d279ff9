package mssql

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/tabula"
	"github.com/syssam/tabula/dialect"
	sqlx "github.com/syssam/tabula/dialect/sql"
)

// sqliteDriver connects a driver to a fresh SQLite database. SQLite shares
// enough of the SQL Server syntax (bracket quoting, BEGIN TRANSACTION) to
// exercise the driver against a real database/sql backend.
func sqliteDriver(t *testing.T) (*Driver, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "tabula.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	drv, err := NewDriver()
	require.NoError(t, err)
	require.NoError(t, drv.Connect(context.Background(), &dialect.Config{Resource: db}))
	t.Cleanup(func() { drv.Disconnect() })

	_, err = drv.Execute(context.Background(), "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE, active INTEGER NOT NULL DEFAULT 0)")
	require.NoError(t, err)
	return drv, db
}

func TestSQLiteLifecycle(t *testing.T) {
	ctx := context.Background()
	drv, db := sqliteDriver(t)

	res, err := drv.Execute(ctx, "INSERT INTO users (name) VALUES ('Alice'), ('Bob'), ('Carol')")
	require.NoError(t, err)
	assert.Nil(t, res)
	n, err := drv.AffectedRows(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	res, err = drv.Execute(ctx, "SELECT id, name FROM users ORDER BY id")
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, 3, res.RowCount())
	meta := res.ColumnsMeta()
	require.Len(t, meta, 2)
	assert.Equal(t, "id", meta[0].Name)
	assert.Equal(t, "name", meta[1].FullName)

	var names []any
	for row, ok := res.FetchAssoc(); ok; row, ok = res.FetchAssoc() {
		names = append(names, row["name"])
	}
	assert.Equal(t, []any{"Alice", "Bob", "Carol"}, names)
	require.NoError(t, res.Seek(1))
	row, ok := res.FetchRow()
	require.True(t, ok)
	assert.Equal(t, []any{int64(2), "Bob"}, row)
	res.Free()

	// SQLite has no @@IDENTITY.
	_, err = drv.InsertID(ctx, "")
	assert.ErrorIs(t, err, tabula.ErrNoInsertID)

	require.NoError(t, drv.Disconnect())
	assert.False(t, drv.Connected())
	// The database handed in as resource stays open.
	require.NoError(t, db.PingContext(ctx))
}

func TestSQLiteQueryError(t *testing.T) {
	ctx := context.Background()
	drv, _ := sqliteDriver(t)

	_, err := drv.Execute(ctx, "SELEC 1")
	require.Error(t, err)
	var qe *tabula.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, "SELEC 1", qe.SQL)
	assert.Contains(t, err.Error(), "SELEC 1")

	_, err = drv.Execute(ctx, "INSERT INTO users (name) VALUES ('Alice')")
	require.NoError(t, err)
	_, err = drv.Execute(ctx, "INSERT INTO users (name) VALUES ('Alice')")
	require.Error(t, err)
	assert.True(t, tabula.IsQueryError(err))
	assert.True(t, sqlx.IsUniqueConstraintError(err))

	// The connection survives rejected statements.
	res, err := drv.Execute(ctx, "SELECT COUNT(*) FROM users")
	require.NoError(t, err)
	row, ok := res.FetchRow()
	require.True(t, ok)
	assert.Equal(t, int64(1), row[0])
}

func TestSQLiteTransaction(t *testing.T) {
	ctx := context.Background()
	drv, _ := sqliteDriver(t)

	require.NoError(t, drv.Begin(ctx, ""))
	_, err := drv.Execute(ctx, "INSERT INTO users (name) VALUES ('Eve')")
	require.NoError(t, err)
	require.NoError(t, drv.Rollback(ctx, ""))

	require.NoError(t, drv.Begin(ctx, ""))
	_, err = drv.Execute(ctx, "INSERT INTO users (name) VALUES ('Frank')")
	require.NoError(t, err)
	require.NoError(t, drv.Commit(ctx, ""))

	res, err := drv.Execute(ctx, "SELECT name FROM users")
	require.NoError(t, err)
	require.Equal(t, 1, res.RowCount())
	row, _ := res.FetchRow()
	assert.Equal(t, []any{"Frank"}, row)
}

func TestSQLiteSelectDatabase(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "tabula.db"))
	require.NoError(t, err)
	defer db.Close()

	drv, err := NewDriver()
	require.NoError(t, err)
	// SQLite has no USE statement, so selecting a database fails.
	err = drv.Connect(context.Background(), &dialect.Config{Resource: db, Database: "shop"})
	require.Error(t, err)
	assert.True(t, tabula.IsConnectionError(err))
	assert.False(t, drv.Connected())
}

func TestSQLiteOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tabula.db")

	drv, err := dialect.Connect(ctx, &dialect.Config{SQLDriver: "sqlite", DSN: path})
	require.NoError(t, err)
	_, err = drv.Execute(ctx, "CREATE TABLE t (id INTEGER, name TEXT)")
	require.NoError(t, err)
	require.NoError(t, drv.Disconnect())

	// Default charsets are not applied on top of a driver that returns UTF-8.
	cfg := dialect.DefaultConfig()
	cfg.SQLDriver, cfg.DSN = "sqlite", path
	drv, err = dialect.Connect(ctx, cfg)
	require.NoError(t, err)
	_, err = drv.Execute(ctx, "INSERT INTO t (id, name) VALUES (1, 'Příliš žluťoučký 日本')")
	require.NoError(t, err)
	res, err := drv.Execute(ctx, "SELECT name FROM t WHERE name = 'Příliš žluťoučký 日本'")
	require.NoError(t, err)
	row, ok := res.FetchRow()
	require.True(t, ok)
	assert.Equal(t, []any{"Příliš žluťoučký 日本"}, row)
	require.NoError(t, drv.Disconnect())

	_, err = dialect.Connect(ctx, &dialect.Config{SQLDriver: "no-such-driver", DSN: path})
	assert.True(t, tabula.IsConnectionError(err))
}

func TestSQLiteDataSource(t *testing.T) {
	ctx := context.Background()
	drv, _ := sqliteDriver(t)
	_, err := drv.Execute(ctx, "INSERT INTO users (name, active) VALUES ('Alice', 1), ('Bob', 0), ('Carol', 1), ('Dave', 1)")
	require.NoError(t, err)

	ds := NewDataSource(drv, "users").
		Select("id", "name").
		Where("active = 1").
		OrderBy(dialect.Desc("name")).
		SetDefaultSorting(dialect.Asc("id"))

	count, err := ds.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	res, err := ds.Fetch(ctx)
	require.NoError(t, err)
	var names []any
	for row, ok := res.FetchRow(); ok; row, ok = res.FetchRow() {
		names = append(names, row[1])
	}
	assert.Equal(t, []any{"Dave", "Carol", "Alice"}, names)
}
