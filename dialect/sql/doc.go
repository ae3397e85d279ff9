// Package sql provides the database/sql plumbing shared by tabula dialects.
//
// # Connections
//
// A dialect driver owns exactly one backend session. Open and Pin pin a
// single *sql.Conn out of a *sql.DB so that session state (USE, @@IDENTITY,
// @@ROWCOUNT, open transactions) survives between statements:
//
//	conn, err := sql.Open(ctx, "sqlserver", dsn, false)
//	if err != nil {
//	    return err
//	}
//	defer conn.Close()
//
// Wrap adopts a connection owned by the caller without taking over its
// release.
//
// # Buffered Results
//
// Drain reads a result set into memory so that dialects can report row
// counts and seek to arbitrary rows:
//
//	rows, err := conn.QueryContext(ctx, query)
//	if err != nil {
//	    return err
//	}
//	buf, err := sql.Drain(rows)
//
// # Error Classification
//
// IsUniqueConstraintError, IsForeignKeyConstraintError and
// IsCheckConstraintError inspect backend errors by SQL Server error number
// with message fallbacks for other engines.
//
// # Wrappers
//
// NewStatsDriver and NewDebugDriver wrap any dialect.Driver to collect
// statement statistics or to log statements:
//
//	drv := sql.NewStatsDriver(base,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(),
//	)
package sql
