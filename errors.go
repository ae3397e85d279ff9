package tabula

import (
	"errors"
	"fmt"
)

// Sentinel errors for the adapter's failure classes.
var (
	// ErrConnection is matched by every ConnectionError.
	ErrConnection = errors.New("tabula: connection failed")

	// ErrQuery is matched by every QueryError.
	ErrQuery = errors.New("tabula: query failed")

	// ErrUnsupportedPaging is matched by every UnsupportedPagingError.
	ErrUnsupportedPaging = errors.New("tabula: unsupported paging")

	// ErrUnsupportedType is matched by every UnsupportedTypeError.
	ErrUnsupportedType = errors.New("tabula: unsupported type")

	// ErrNotImplemented is matched by every NotImplementedError.
	ErrNotImplemented = errors.New("tabula: not implemented")

	// ErrNotConnected is returned (wrapped in a ConnectionError) when an
	// operation needs the backend but the driver holds no connection.
	ErrNotConnected = errors.New("tabula: not connected")

	// ErrNoInsertID is returned when the identity value of the last insert
	// cannot be read.
	ErrNoInsertID = errors.New("tabula: insert id unavailable")

	// ErrNoAffectedRows is returned when the affected row count of the last
	// statement cannot be read.
	ErrNoAffectedRows = errors.New("tabula: affected rows unavailable")

	// ErrSeekOutOfRange is returned when seeking outside of a result set.
	ErrSeekOutOfRange = errors.New("tabula: seek out of range")

	// ErrResultFreed is returned when a freed result is used.
	ErrResultFreed = errors.New("tabula: result already freed")

	// ErrNoDefaultSorting is returned when a data source is rendered without
	// a default sorting.
	ErrNoDefaultSorting = errors.New("tabula: default sorting must be set")
)

// ConnectionError reports a failure to connect to the backend or to select
// the database. It is fatal to the driver instance.
type ConnectionError struct {
	Op  string // Operation (e.g., "open", "ping", "select database")
	Err error  // Underlying error
}

// Error returns the error string.
func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("tabula: connection: %s", e.Op)
	}
	return fmt.Sprintf("tabula: connection: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches ErrConnection.
func (e *ConnectionError) Is(err error) bool {
	return err == ErrConnection
}

// NewConnectionError returns a new ConnectionError.
func NewConnectionError(op string, err error) *ConnectionError {
	return &ConnectionError{Op: op, Err: err}
}

// IsConnectionError returns true if the error is a ConnectionError.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConnectionError
	return errors.As(err, &e) || errors.Is(err, ErrConnection)
}

// QueryError reports a statement rejected by the backend. It carries the
// statement text as it was sent.
type QueryError struct {
	SQL string // Statement text
	Err error  // Underlying backend error
}

// Error returns the error string.
func (e *QueryError) Error() string {
	return fmt.Sprintf("tabula: query error: %v\n%s", e.Err, e.SQL)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is reports whether the target error matches ErrQuery.
func (e *QueryError) Is(err error) bool {
	return err == ErrQuery
}

// NewQueryError returns a new QueryError.
func NewQueryError(sql string, err error) *QueryError {
	return &QueryError{SQL: sql, Err: err}
}

// IsQueryError returns true if the error is a QueryError.
func IsQueryError(err error) bool {
	if err == nil {
		return false
	}
	var e *QueryError
	return errors.As(err, &e) || errors.Is(err, ErrQuery)
}

// UnsupportedPagingError reports a paging request the dialect cannot express,
// such as an offset without a limit or without an ordering.
type UnsupportedPagingError struct {
	Limit  int
	Offset int
	Reason string
}

// Error returns the error string.
func (e *UnsupportedPagingError) Error() string {
	return fmt.Sprintf("tabula: unsupported paging (limit=%d, offset=%d): %s", e.Limit, e.Offset, e.Reason)
}

// Is reports whether the target error matches ErrUnsupportedPaging.
func (e *UnsupportedPagingError) Is(err error) bool {
	return err == ErrUnsupportedPaging
}

// NewUnsupportedPagingError returns a new UnsupportedPagingError.
func NewUnsupportedPagingError(limit, offset int, reason string) *UnsupportedPagingError {
	return &UnsupportedPagingError{Limit: limit, Offset: offset, Reason: reason}
}

// IsUnsupportedPaging returns true if the error is an UnsupportedPagingError.
func IsUnsupportedPaging(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedPagingError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedPaging)
}

// UnsupportedTypeError reports an escape or unescape call with a type tag
// the dialect does not handle. It signals a programming error.
type UnsupportedTypeError struct {
	Op   string // "escape" or "unescape"
	Type string // Type tag name
}

// Error returns the error string.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("tabula: %s: unsupported type %q", e.Op, e.Type)
}

// Is reports whether the target error matches ErrUnsupportedType.
func (e *UnsupportedTypeError) Is(err error) bool {
	return err == ErrUnsupportedType
}

// NewUnsupportedTypeError returns a new UnsupportedTypeError.
func NewUnsupportedTypeError(op, typ string) *UnsupportedTypeError {
	return &UnsupportedTypeError{Op: op, Type: typ}
}

// IsUnsupportedType returns true if the error is an UnsupportedTypeError.
func IsUnsupportedType(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedTypeError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedType)
}

// NotImplementedError reports a capability the dialect does not provide.
type NotImplementedError struct {
	Op string
}

// Error returns the error string.
func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("tabula: %s is not implemented", e.Op)
}

// Is reports whether the target error matches ErrNotImplemented.
func (e *NotImplementedError) Is(err error) bool {
	return err == ErrNotImplemented
}

// NewNotImplementedError returns a new NotImplementedError.
func NewNotImplementedError(op string) *NotImplementedError {
	return &NotImplementedError{Op: op}
}

// IsNotImplemented returns true if the error is a NotImplementedError.
func IsNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var e *NotImplementedError
	return errors.As(err, &e) || errors.Is(err, ErrNotImplemented)
}
