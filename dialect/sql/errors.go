package sql

import (
	"errors"
	"strings"
)

// IsConstraintError returns true if the error resulted from a database constraint violation.
func IsConstraintError(err error) bool {
	return IsUniqueConstraintError(err) ||
		IsForeignKeyConstraintError(err) ||
		IsCheckConstraintError(err)
}

// sqlErrorNumberer is implemented by SQL Server driver errors
// (github.com/microsoft/go-mssqldb Error).
type sqlErrorNumberer interface {
	SQLErrorNumber() int32
}

// SQL Server error numbers for constraint violations.
const (
	mssqlUniqueKeyViolation   = 2627 // Violation of PRIMARY KEY or UNIQUE KEY constraint
	mssqlDuplicateKeyRow      = 2601 // Cannot insert duplicate key row (unique index)
	mssqlConstraintConflicted = 547  // Statement conflicted with a FOREIGN KEY, REFERENCE or CHECK constraint
)

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
// e.g. duplicate value in unique index.
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}

	// Check for SQL Server error number
	if e, ok := asError[sqlErrorNumberer](err); ok {
		if n := e.SQLErrorNumber(); n == mssqlUniqueKeyViolation || n == mssqlDuplicateKeyRow {
			return true
		}
	}

	// Fallback to string matching for drivers that don't implement interfaces
	return containsAny(err.Error(),
		"Violation of PRIMARY KEY constraint", // SQL Server
		"Violation of UNIQUE KEY constraint",  // SQL Server
		"Cannot insert duplicate key row",     // SQL Server
		"UNIQUE constraint failed",            // SQLite
	)
}

// IsForeignKeyConstraintError reports if the error resulted from a database foreign-key constraint violation.
// e.g. parent row does not exist.
func IsForeignKeyConstraintError(err error) bool {
	if err == nil {
		return false
	}

	// 547 covers foreign keys and checks alike; the message tells them apart.
	if e, ok := asError[sqlErrorNumberer](err); ok && e.SQLErrorNumber() == mssqlConstraintConflicted {
		return containsAny(err.Error(), "FOREIGN KEY", "REFERENCE")
	}

	return containsAny(err.Error(),
		"conflicted with the FOREIGN KEY constraint", // SQL Server
		"conflicted with the REFERENCE constraint",   // SQL Server (parent row delete)
		"FOREIGN KEY constraint failed",              // SQLite
	)
}

// IsCheckConstraintError reports if the error resulted from a database check constraint violation.
// e.g. a value does not satisfy a check condition.
func IsCheckConstraintError(err error) bool {
	if err == nil {
		return false
	}

	if e, ok := asError[sqlErrorNumberer](err); ok && e.SQLErrorNumber() == mssqlConstraintConflicted {
		return strings.Contains(err.Error(), "CHECK")
	}

	return containsAny(err.Error(),
		"conflicted with the CHECK constraint", // SQL Server
		"CHECK constraint failed",              // SQLite
	)
}

// asError attempts to extract an error implementing interface T from the
// error tree, joined errors included.
func asError[T any](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
