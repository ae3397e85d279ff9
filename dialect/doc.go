// Package dialect defines the contract shared by tabula's database dialects.
//
// A dialect is a Driver implementation registered under a name. The Driver
// owns a single backend connection, escapes values and identifiers, rewrites
// paged queries into the dialect's own syntax and hands out Result cursors.
//
// # Dialects
//
// The following dialects are available:
//
//   - MSSQL: SQL Server / Sybase style engines with TOP-N paging
//
// Each dialect registers itself on import:
//
//	import _ "github.com/syssam/tabula/dialect/mssql"
//
// # Driver Interface
//
//	type Driver interface {
//	    Escaper
//	    Reflector
//	    Dialect() string
//	    Connect(ctx context.Context, cfg *Config) error
//	    Disconnect() error
//	    Execute(ctx context.Context, query string) (Result, error)
//	    AffectedRows(ctx context.Context) (int64, error)
//	    InsertID(ctx context.Context, sequence string) (int64, error)
//	    Begin(ctx context.Context, savepoint string) error
//	    Commit(ctx context.Context, savepoint string) error
//	    Rollback(ctx context.Context, savepoint string) error
//	    ApplyLimit(query string, order OrderSpec, limit, offset int) (string, error)
//	}
//
// # Ordering
//
// Paging without native OFFSET needs a stable order. Callers pass it
// explicitly with every ApplyLimit call:
//
//	order := dialect.OrderSpec{dialect.Desc("created_at"), dialect.Asc("id")}
//	query, err := drv.ApplyLimit("SELECT * FROM posts", order, 10, 30)
//
// # Configuration
//
// Connection options come from a struct, a key/value map or a YAML file:
//
//	driver: mssql
//	host: db.example.com:1433
//	username: app
//	password: ${DB_PASSWORD}
//	database: shop
//	dbcharset: windows-1250
//	charset: UTF-8
//
// # Sub-packages
//
//   - dialect/charset: database/client text transcoding
//   - dialect/sql: database/sql plumbing shared by dialects
//   - dialect/mssql: the SQL Server dialect
package dialect
