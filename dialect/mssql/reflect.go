package mssql

import (
	"context"

	"ariga.io/atlas/sql/schema"

	"github.com/syssam/tabula"
)

// Tables is not implemented by this dialect.
func (d *Driver) Tables(context.Context) ([]*schema.Table, error) {
	return nil, tabula.NewNotImplementedError("tables")
}

// Columns is not implemented by this dialect.
func (d *Driver) Columns(context.Context, string) ([]*schema.Column, error) {
	return nil, tabula.NewNotImplementedError("columns")
}

// Indexes is not implemented by this dialect.
func (d *Driver) Indexes(context.Context, string) ([]*schema.Index, error) {
	return nil, tabula.NewNotImplementedError("indexes")
}

// ForeignKeys is not implemented by this dialect.
func (d *Driver) ForeignKeys(context.Context, string) ([]*schema.ForeignKey, error) {
	return nil, tabula.NewNotImplementedError("foreign keys")
}
