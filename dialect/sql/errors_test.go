package sql

import (
	"errors"
	"fmt"
	"testing"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/stretchr/testify/assert"
)

func TestConstraintErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		unique     bool
		foreignKey bool
		check      bool
	}{
		{
			name:   "mssql_primary_key",
			err:    mssql.Error{Number: 2627, Message: "Violation of PRIMARY KEY constraint 'PK_users'."},
			unique: true,
		},
		{
			name:   "mssql_unique_index",
			err:    mssql.Error{Number: 2601, Message: "Cannot insert duplicate key row in object 'dbo.users' with unique index 'IX_email'."},
			unique: true,
		},
		{
			name:       "mssql_foreign_key",
			err:        mssql.Error{Number: 547, Message: `The INSERT statement conflicted with the FOREIGN KEY constraint "FK_orders_users".`},
			foreignKey: true,
		},
		{
			name:       "mssql_reference",
			err:        mssql.Error{Number: 547, Message: `The DELETE statement conflicted with the REFERENCE constraint "FK_orders_users".`},
			foreignKey: true,
		},
		{
			name:  "mssql_check",
			err:   mssql.Error{Number: 547, Message: `The UPDATE statement conflicted with the CHECK constraint "CK_price".`},
			check: true,
		},
		{
			name:   "wrapped",
			err:    fmt.Errorf("execute: %w", mssql.Error{Number: 2627, Message: "Violation of UNIQUE KEY constraint 'UQ_email'."}),
			unique: true,
		},
		{
			name:   "joined",
			err:    errors.Join(mssql.Error{Number: 2601, Message: "duplicate row"}, errors.New("close: connection reset")),
			unique: true,
		},
		{
			name:       "joined_wrapped",
			err:        fmt.Errorf("drain: %w", errors.Join(errors.New("scan"), mssql.Error{Number: 547, Message: "FOREIGN KEY"})),
			foreignKey: true,
		},
		{
			name:   "sqlite_unique",
			err:    errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"),
			unique: true,
		},
		{
			name:       "sqlite_foreign_key",
			err:        errors.New("constraint failed: FOREIGN KEY constraint failed (787)"),
			foreignKey: true,
		},
		{
			name:  "sqlite_check",
			err:   errors.New("constraint failed: CHECK constraint failed: price > 0 (275)"),
			check: true,
		},
		{
			name: "other_mssql",
			err:  mssql.Error{Number: 208, Message: "Invalid object name 'nope'."},
		},
		{
			name: "nil",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.unique, IsUniqueConstraintError(tt.err))
			assert.Equal(t, tt.foreignKey, IsForeignKeyConstraintError(tt.err))
			assert.Equal(t, tt.check, IsCheckConstraintError(tt.err))
			assert.Equal(t, tt.unique || tt.foreignKey || tt.check, IsConstraintError(tt.err))
		})
	}
}
