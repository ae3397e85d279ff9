// Package tabula adapts a database-agnostic query layer to SQL Server style
// engines that lack LIMIT/OFFSET.
//
// The module root only holds the error taxonomy shared by every dialect.
// The working parts live in sub-packages:
//
//   - dialect: the Driver and Result contract, escape type tags, ordering
//     specifications, connection configuration and the dialect registry
//   - dialect/charset: text transcoding between database and client encodings
//   - dialect/sql: database/sql plumbing (pinned connections, buffered rows,
//     error classification, statistics and debug wrappers)
//   - dialect/mssql: the T-SQL dialect with TOP-N based paging
//
// # Usage
//
//	import (
//	    "github.com/syssam/tabula/dialect"
//	    _ "github.com/syssam/tabula/dialect/mssql"
//	    _ "github.com/microsoft/go-mssqldb"
//	)
//
//	cfg, err := dialect.LoadConfig("db.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	drv, err := dialect.Connect(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Disconnect()
//
//	query, err := drv.ApplyLimit("SELECT * FROM users", dialect.OrderSpec{dialect.Desc("id")}, 10, 20)
//	res, err := drv.Execute(ctx, query)
package tabula
