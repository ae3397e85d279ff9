package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ExecQuerier wraps the standard Exec and Query methods.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Conn is a single backend connection pinned from a *sql.DB. Statements run
// on a Conn share one session, so session state such as @@IDENTITY,
// @@ROWCOUNT, USE and open transactions carries over between them.
type Conn struct {
	*sql.Conn
	db    *sql.DB // closed with the Conn when the Conn opened it
	owned bool    // whether Close releases the *sql.Conn
}

var _ ExecQuerier = (*Conn)(nil)

// Open opens a database with the given database/sql driver and pins one of
// its connections. Unless persistent is set, idle connections are not
// kept, so closing the Conn closes the underlying network connection.
func Open(ctx context.Context, driverName, dsn string, persistent bool) (*Conn, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	if !persistent {
		db.SetMaxIdleConns(0)
	}
	c, err := Pin(ctx, db)
	if err != nil {
		return nil, errors.Join(err, db.Close())
	}
	c.db = db
	return c, nil
}

// Pin pins a connection of db and checks that it is alive. Closing the
// returned Conn releases the connection but leaves db open.
func Pin(ctx context.Context, db *sql.DB) (*Conn, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	if err := conn.PingContext(ctx); err != nil {
		return nil, errors.Join(err, conn.Close())
	}
	return &Conn{Conn: conn, owned: true}, nil
}

// Wrap uses an existing connection. Closing the returned Conn leaves conn
// open; its owner stays responsible for it.
func Wrap(conn *sql.Conn) *Conn {
	return &Conn{Conn: conn}
}

// DB returns the database opened by Open, or nil.
func (c *Conn) DB() *sql.DB {
	return c.db
}

// Close releases the pinned connection and the database opened by Open.
func (c *Conn) Close() error {
	var errs []error
	if c.owned {
		errs = append(errs, c.Conn.Close())
	}
	if c.db != nil {
		errs = append(errs, c.db.Close())
	}
	return errors.Join(errs...)
}

// ColumnScanner is the interface that wraps the standard
// sql.Rows methods used for scanning database rows.
type ColumnScanner interface {
	Close() error
	ColumnTypes() ([]*sql.ColumnType, error)
	Columns() ([]string, error)
	Err() error
	Next() bool
	NextResultSet() bool
	Scan(dest ...any) error
}

var _ ColumnScanner = (*sql.Rows)(nil)

// Column describes a column of a drained result set.
type Column struct {
	Name string
	// Type is the database type name reported by the driver.
	Type string
	// Table is the source table, empty when the driver does not report it.
	Table string
}

// Buffer holds the rows of a drained result set.
type Buffer struct {
	Columns []Column
	Rows    [][]any
}

// Drain reads every row of the current result set into memory and closes
// rows. A statement without a result set yields a Buffer with no columns.
func Drain(rows ColumnScanner) (_ *Buffer, rerr error) {
	defer func() { rerr = errors.Join(rerr, rows.Close()) }()
	columns, err := columnsOf(rows)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: columns: %w", err)
	}
	buf := &Buffer{Columns: columns}
	if len(columns) == 0 {
		return buf, rows.Err()
	}
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("dialect/sql: scan: %w", err)
		}
		buf.Rows = append(buf.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return buf, nil
}

func columnsOf(rows ColumnScanner) ([]Column, error) {
	types, err := rows.ColumnTypes()
	if err == nil {
		columns := make([]Column, len(types))
		for i, ct := range types {
			columns[i] = Column{Name: ct.Name(), Type: ct.DatabaseTypeName()}
		}
		return columns, nil
	}
	names, nerr := rows.Columns()
	if nerr != nil {
		return nil, errors.Join(err, nerr)
	}
	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{Name: name}
	}
	return columns, nil
}
