package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/syssam/tabula"
	"github.com/syssam/tabula/dialect"
	"github.com/syssam/tabula/dialect/charset"
	sqlx "github.com/syssam/tabula/dialect/sql"
)

func init() {
	dialect.Register(dialect.MSSQL, func() dialect.Driver { return newDriver() })
}

// Driver is the SQL Server dialect driver. It holds one pinned backend
// connection and the result of the last row-producing statement.
//
// A Driver is not safe for concurrent use.
type Driver struct {
	conn     *sqlx.Conn
	result   *Result
	tr       *charset.Transcoder
	id       uuid.UUID
	affected int64 // -1 when the last statement reported no count
	log      *slog.Logger
	location *time.Location
}

var _ dialect.Driver = (*Driver)(nil)

// Option configures a Driver.
type Option func(*Driver) error

// WithLogger sets the logger used for connection and statement events.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) error {
		if l == nil {
			return dialect.NewConfigError("logger", nil, "logger cannot be nil")
		}
		d.log = l
		return nil
	}
}

// WithLocation sets the location of escaped dates and timestamps.
// Default is time.Local.
func WithLocation(loc *time.Location) Option {
	return func(d *Driver) error {
		if loc == nil {
			return dialect.NewConfigError("location", nil, "location cannot be nil")
		}
		d.location = loc
		return nil
	}
}

// NewDriver returns a disconnected driver.
func NewDriver(opts ...Option) (*Driver, error) {
	d := newDriver()
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func newDriver() *Driver {
	return &Driver{
		affected: -1,
		log:      slog.Default(),
		location: time.Local,
	}
}

// Dialect implements the dialect.Driver interface.
func (d *Driver) Dialect() string {
	return dialect.MSSQL
}

// Connected reports whether the driver holds a backend connection.
func (d *Driver) Connected() bool {
	return d.conn != nil
}

// Resource returns the pinned backend connection, or nil when disconnected.
func (d *Driver) Resource() *sql.Conn {
	if d.conn == nil {
		return nil
	}
	return d.conn.Conn
}

// Connect establishes the backend connection described by cfg.
//
// cfg.Resource may hold a *sql.DB, from which a connection is pinned, or a
// *sql.Conn, which is used as is and never closed by the driver. Otherwise
// cfg.SQLDriver is opened with cfg.DSN, or with a DSN built from the host and
// credentials. When cfg.Database is set, it is selected with USE. On failure
// everything acquired is released and a *tabula.ConnectionError is returned.
func (d *Driver) Connect(ctx context.Context, cfg *dialect.Config) error {
	if cfg == nil {
		return dialect.NewConfigError("config", nil, "config is nil")
	}
	tr, err := charset.New(cfg.Charsets())
	if err != nil {
		return tabula.NewConnectionError("charset", err)
	}
	if d.conn != nil {
		// Reconnecting replaces the previous session.
		if err := d.Disconnect(); err != nil {
			return tabula.NewConnectionError("disconnect", err)
		}
	}
	conn, err := open(ctx, cfg)
	if err != nil {
		return tabula.NewConnectionError("connect", err)
	}
	if cfg.Database != "" {
		if _, err := conn.ExecContext(ctx, "USE "+EscapeIdentifier(cfg.Database)); err != nil {
			return tabula.NewConnectionError(fmt.Sprintf("select database %q", cfg.Database), errors.Join(err, conn.Close()))
		}
	}
	d.conn, d.tr, d.id, d.affected = conn, tr, uuid.New(), -1
	d.log.InfoContext(ctx, "mssql: connected",
		"conn", d.id.String(),
		"database", cfg.Database,
		"dbcharset", tr.DBCharset(),
		"charset", tr.Charset(),
	)
	return nil
}

func open(ctx context.Context, cfg *dialect.Config) (*sqlx.Conn, error) {
	switch r := cfg.Resource.(type) {
	case nil:
	case *sql.DB:
		return sqlx.Pin(ctx, r)
	case *sql.Conn:
		if err := r.PingContext(ctx); err != nil {
			return nil, err
		}
		return sqlx.Wrap(r), nil
	default:
		return nil, fmt.Errorf("unsupported resource of type %T", r)
	}
	driverName := cfg.SQLDriver
	if driverName == "" {
		driverName = dialect.DefaultSQLDriver
	}
	dsn := cfg.DSN
	if dsn == "" {
		dsn = BuildDSN(cfg.Host, cfg.Username, cfg.Password)
	}
	return sqlx.Open(ctx, driverName, dsn, cfg.Persistent)
}

// BuildDSN returns a sqlserver:// connection string. A host of the form
// "server\instance" selects a named instance.
func BuildDSN(host, username, password string) string {
	u := &url.URL{Scheme: "sqlserver", Host: host}
	if server, instance, ok := strings.Cut(host, `\`); ok {
		u.Host, u.Path = server, "/"+instance
	}
	switch {
	case username != "" && password != "":
		u.User = url.UserPassword(username, password)
	case username != "":
		u.User = url.User(username)
	}
	return u.String()
}

// Disconnect frees the current result and releases the backend connection.
// The driver is disconnected afterwards even if closing fails.
func (d *Driver) Disconnect() error {
	d.freeResult()
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	if err != nil {
		d.log.Warn("mssql: disconnect", "conn", d.id.String(), "error", err)
	} else {
		d.log.Info("mssql: disconnected", "conn", d.id.String())
	}
	d.conn, d.tr, d.affected = nil, nil, -1
	return err
}

// Execute runs a statement after converting it to the database encoding.
// Row-producing statements return a *Result; others return nil. The
// previous result is freed.
func (d *Driver) Execute(ctx context.Context, query string) (dialect.Result, error) {
	if d.conn == nil {
		return nil, notConnected("execute")
	}
	d.freeResult()
	d.affected = -1
	stmt := d.tr.ToDB(query)
	d.log.DebugContext(ctx, "mssql: execute", "conn", d.id.String(), "query", query)
	if isExec(stmt) {
		res, err := d.conn.ExecContext(ctx, stmt)
		if err != nil {
			return nil, tabula.NewQueryError(query, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			d.affected = n
		}
		return nil, nil
	}
	rows, err := d.conn.QueryContext(ctx, stmt)
	if err != nil {
		return nil, tabula.NewQueryError(query, err)
	}
	buf, err := sqlx.Drain(rows)
	if err != nil {
		return nil, tabula.NewQueryError(query, err)
	}
	if len(buf.Columns) == 0 {
		return nil, nil
	}
	d.result = newResult(buf, d.tr)
	return d.result, nil
}

// AffectedRows returns the number of rows changed by the last statement.
// When the statement did not report a count, @@ROWCOUNT is read.
func (d *Driver) AffectedRows(ctx context.Context) (int64, error) {
	if d.conn == nil {
		return 0, notConnected("affected rows")
	}
	if d.affected >= 0 {
		return d.affected, nil
	}
	n, err := d.scalar(ctx, "SELECT @@ROWCOUNT")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", tabula.ErrNoAffectedRows, err)
	}
	if !n.Valid {
		return 0, tabula.ErrNoAffectedRows
	}
	return n.Int64, nil
}

// InsertID returns the last identity value generated in the session. SQL
// Server has no sequences, so the sequence name is ignored.
func (d *Driver) InsertID(ctx context.Context, _ string) (int64, error) {
	if d.conn == nil {
		return 0, notConnected("insert id")
	}
	n, err := d.scalar(ctx, "SELECT @@IDENTITY")
	if err != nil {
		return 0, fmt.Errorf("%w: %w", tabula.ErrNoInsertID, err)
	}
	if !n.Valid {
		return 0, tabula.ErrNoInsertID
	}
	return n.Int64, nil
}

// Begin starts a transaction. Savepoints are not supported and the
// argument is ignored.
func (d *Driver) Begin(ctx context.Context, _ string) error {
	_, err := d.Execute(ctx, "BEGIN TRANSACTION")
	return err
}

// Commit commits the current transaction.
func (d *Driver) Commit(ctx context.Context, _ string) error {
	_, err := d.Execute(ctx, "COMMIT")
	return err
}

// Rollback rolls back the current transaction.
func (d *Driver) Rollback(ctx context.Context, _ string) error {
	_, err := d.Execute(ctx, "ROLLBACK")
	return err
}

// scalar reads a single integer without touching the current result.
func (d *Driver) scalar(ctx context.Context, query string) (sql.NullInt64, error) {
	var n sql.NullInt64
	err := d.conn.QueryRowContext(ctx, query).Scan(&n)
	return n, err
}

func (d *Driver) freeResult() {
	if d.result != nil {
		d.result.Free()
		d.result = nil
	}
}

func notConnected(op string) error {
	return tabula.NewConnectionError(op, tabula.ErrNotConnected)
}

// execKeywords are the leading keywords of statements that return no rows.
var execKeywords = map[string]struct{}{
	"INSERT": {}, "UPDATE": {}, "DELETE": {}, "MERGE": {},
	"BEGIN": {}, "COMMIT": {}, "ROLLBACK": {}, "SAVE": {},
	"CREATE": {}, "DROP": {}, "ALTER": {}, "TRUNCATE": {},
	"SET": {}, "USE": {}, "GRANT": {}, "REVOKE": {}, "DENY": {},
}

// isExec reports whether stmt runs without a result set: it starts with one
// of execKeywords and has no OUTPUT clause.
func isExec(stmt string) bool {
	words := strings.FieldsFunc(stmt, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '@' && r != '#'
	})
	if len(words) == 0 {
		return false
	}
	if _, ok := execKeywords[strings.ToUpper(words[0])]; !ok {
		return false
	}
	for _, w := range words[1:] {
		if strings.EqualFold(w, "OUTPUT") {
			return false
		}
	}
	return true
}
