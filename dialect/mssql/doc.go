// Package mssql implements the SQL Server dialect.
//
// Importing the package registers the dialect under dialect.MSSQL. The
// database/sql driver is not imported; programs import one themselves,
// usually github.com/microsoft/go-mssqldb:
//
//	import (
//	    _ "github.com/microsoft/go-mssqldb"
//	    _ "github.com/syssam/tabula/dialect/mssql"
//	)
//
//	drv, err := dialect.Connect(ctx, &dialect.Config{
//	    Host:     `db01\SQLEXPRESS`,
//	    Username: "app",
//	    Password: "secret",
//	    Database: "shop",
//	})
//
// # Paging
//
// SQL Server before 2012 has no OFFSET. Rewrite and Driver.ApplyLimit
// express a window with nested TOP selections, which requires an ordering:
//
//	q, err := mssql.Rewrite("SELECT * FROM users", dialect.OrderSpec{dialect.Asc("id")}, 10, 20)
//	// SELECT TOP 10 * FROM (SELECT TOP 10 * FROM (SELECT TOP 30 * FROM (SELECT * FROM users) t
//	// ORDER BY [id] ASC) t ORDER BY [id] DESC) t ORDER BY [id] ASC
//
// # Encodings
//
// Statements are converted from Config.Charset to Config.DBCharset before
// they are sent, and fetched strings the other way round. Characters
// missing from the target encoding are dropped. go-mssqldb already decodes
// VARCHAR columns to UTF-8, so the default charsets of DefaultConfig and
// LoadConfig are not applied when it opens the connection (see
// dialect.Config.Charsets). Explicit charsets are always honored.
package mssql
