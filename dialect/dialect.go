package dialect

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"ariga.io/atlas/sql/schema"
)

// Dialect names.
const (
	MSSQL = "mssql"
)

// NoLimit is the limit value meaning "no limit". Any negative limit is
// treated the same way.
const NoLimit = -1

// Type is an escape type tag. The set is closed: dialects reject any value
// that is not one of the constants below.
type Type string

// Escape type tags.
const (
	TypeText       Type = "text"
	TypeBinary     Type = "binary"
	TypeIdentifier Type = "identifier"
	TypeBool       Type = "bool"
	TypeDate       Type = "date"
	TypeDateTime   Type = "datetime"
)

// String implements fmt.Stringer.
func (t Type) String() string { return string(t) }

// Escaper converts values and identifiers into dialect-correct SQL text.
type Escaper interface {
	// Escape encodes v as an SQL literal of type t.
	Escape(v any, t Type) (string, error)
	// EscapeIdentifier quotes a possibly dot-qualified identifier.
	EscapeIdentifier(name string) string
	// Unescape decodes a value read from a result set.
	Unescape(v any, t Type) (any, error)
}

// Reflector describes the schema reflection calls of a driver.
type Reflector interface {
	Tables(ctx context.Context) ([]*schema.Table, error)
	Columns(ctx context.Context, table string) ([]*schema.Column, error)
	Indexes(ctx context.Context, table string) ([]*schema.Index, error)
	ForeignKeys(ctx context.Context, table string) ([]*schema.ForeignKey, error)
}

// Driver is the contract every dialect implements. A Driver owns exactly one
// backend connection and at most one live Result. It is not safe for
// concurrent use; callers serialize access or use one Driver per logical
// connection.
type Driver interface {
	Escaper
	Reflector

	// Dialect returns the dialect name the driver was registered under.
	Dialect() string
	// Connect establishes the backend connection.
	Connect(ctx context.Context, cfg *Config) error
	// Disconnect releases the backend connection. The driver is
	// disconnected afterwards even when an error is returned.
	Disconnect() error
	// Execute runs a statement. It returns a nil Result for statements
	// that produce no rows. The previous Result is freed.
	Execute(ctx context.Context, query string) (Result, error)
	// AffectedRows returns the row count of the last modifying statement.
	AffectedRows(ctx context.Context) (int64, error)
	// InsertID returns the identity value generated by the last insert.
	InsertID(ctx context.Context, sequence string) (int64, error)
	// Begin, Commit and Rollback demarcate a transaction.
	Begin(ctx context.Context, savepoint string) error
	Commit(ctx context.Context, savepoint string) error
	Rollback(ctx context.Context, savepoint string) error
	// ApplyLimit rewrites query so that it returns the window
	// [offset, offset+limit) under the given ordering.
	ApplyLimit(query string, order OrderSpec, limit, offset int) (string, error)
}

// Result is a cursor over the rows of one result set.
type Result interface {
	// RowCount returns the number of rows in the result set.
	RowCount() int
	// FetchRow returns the next row keyed by position, or false at the end.
	FetchRow() ([]any, bool)
	// FetchAssoc returns the next row keyed by column name, or false at the end.
	FetchAssoc() (map[string]any, bool)
	// Seek moves the cursor to an absolute, zero-based row index.
	Seek(row int) error
	// ColumnsMeta describes the columns of the result set.
	ColumnsMeta() []ColumnMeta
	// Free releases the result set. It is safe to call more than once.
	Free()
}

// ColumnMeta describes one column of a result set.
type ColumnMeta struct {
	Name       string `json:"name" msgpack:"name"`
	FullName   string `json:"fullname" msgpack:"fullname"`
	Table      string `json:"table,omitempty" msgpack:"table,omitempty"` // empty when the backend reports no source table
	NativeType string `json:"nativetype" msgpack:"nativetype"`
}

// NewColumnMeta returns the metadata of a column. The full name is qualified
// with the table when one is reported.
func NewColumnMeta(name, table, nativeType string) ColumnMeta {
	full := name
	if table != "" {
		full = table + "." + name
	}
	return ColumnMeta{Name: name, FullName: full, Table: table, NativeType: nativeType}
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]func() Driver)
)

// Register makes a dialect available under the given name. It panics if
// Register is called twice with the same name or if factory is nil.
func Register(name string, factory func() Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if factory == nil {
		panic("dialect: Register factory is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("dialect: Register called twice for driver " + name)
	}
	drivers[name] = factory
}

// Drivers returns a sorted list of the registered dialect names.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Open returns a new, unconnected driver of the named dialect.
func Open(name string) (Driver, error) {
	driversMu.RLock()
	factory, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("dialect: unknown driver %q (forgotten import?)", name)
	}
	return factory(), nil
}

// Connect opens the dialect named by cfg.Driver and connects it.
func Connect(ctx context.Context, cfg *Config) (Driver, error) {
	if cfg == nil {
		return nil, NewConfigError("config", nil, "config is nil")
	}
	name := cfg.Driver
	if name == "" {
		name = DefaultDriver
	}
	drv, err := Open(name)
	if err != nil {
		return nil, err
	}
	if err := drv.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	return drv, nil
}
