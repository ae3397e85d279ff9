package mssql

import (
	"github.com/syssam/tabula"
	"github.com/syssam/tabula/dialect"
	"github.com/syssam/tabula/dialect/charset"
	sqlx "github.com/syssam/tabula/dialect/sql"
)

// Result is a buffered result set. Fetched string fields are converted from
// the database encoding to the client encoding.
type Result struct {
	columns []sqlx.Column
	rows    [][]any
	pos     int
	tr      *charset.Transcoder
	freed   bool
}

var _ dialect.Result = (*Result)(nil)

func newResult(buf *sqlx.Buffer, tr *charset.Transcoder) *Result {
	return &Result{columns: buf.Columns, rows: buf.Rows, tr: tr}
}

// RowCount returns the number of rows in the result set, or 0 once freed.
func (r *Result) RowCount() int {
	return len(r.rows)
}

// FetchRow returns the next row keyed by position.
func (r *Result) FetchRow() ([]any, bool) {
	row, ok := r.next()
	if !ok {
		return nil, false
	}
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = r.decode(v)
	}
	return out, true
}

// FetchAssoc returns the next row keyed by column name. When names repeat,
// the last column wins.
func (r *Result) FetchAssoc() (map[string]any, bool) {
	row, ok := r.next()
	if !ok {
		return nil, false
	}
	out := make(map[string]any, len(row))
	for i, v := range row {
		out[r.columns[i].Name] = r.decode(v)
	}
	return out, true
}

// Seek moves the cursor to the given zero-based row.
func (r *Result) Seek(row int) error {
	switch {
	case r.freed:
		return tabula.ErrResultFreed
	case row < 0 || row >= len(r.rows):
		return tabula.ErrSeekOutOfRange
	}
	r.pos = row
	return nil
}

// ColumnsMeta describes the columns of the result set.
func (r *Result) ColumnsMeta() []dialect.ColumnMeta {
	meta := make([]dialect.ColumnMeta, len(r.columns))
	for i, c := range r.columns {
		meta[i] = dialect.NewColumnMeta(c.Name, c.Table, c.Type)
	}
	return meta
}

// Free releases the buffered rows.
func (r *Result) Free() {
	r.rows = nil
	r.pos = 0
	r.freed = true
}

func (r *Result) next() ([]any, bool) {
	if r.freed || r.pos >= len(r.rows) {
		return nil, false
	}
	row := r.rows[r.pos]
	r.pos++
	return row, true
}

func (r *Result) decode(v any) any {
	if s, ok := v.(string); ok {
		return r.tr.ToClient(s)
	}
	return v
}
