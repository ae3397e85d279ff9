package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/tabula/dialect"
)

// Output formats.
const (
	formatText    = "text"
	formatJSON    = "json"
	formatMsgpack = "msgpack"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// resultSet is the encoded form of a result set.
type resultSet struct {
	Columns []dialect.ColumnMeta `json:"columns" msgpack:"columns"`
	Rows    [][]any              `json:"rows" msgpack:"rows"`
}

// summary is the encoded form of a statement without rows.
type summary struct {
	AffectedRows int64 `json:"affected_rows" msgpack:"affected_rows"`
}

type writer struct {
	format string
	out    io.Writer
}

func newWriter(format string, out io.Writer) (*writer, error) {
	switch format {
	case formatText, formatJSON, formatMsgpack:
		return &writer{format: format, out: out}, nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

func (w *writer) affected(n int64) error {
	if w.format == formatText {
		_, err := fmt.Fprintf(w.out, "%d row(s) affected\n", n)
		return err
	}
	return w.encode(summary{AffectedRows: n})
}

func (w *writer) result(res dialect.Result) error {
	t := resultSet{Columns: res.ColumnsMeta(), Rows: make([][]any, 0, res.RowCount())}
	for row, ok := res.FetchRow(); ok; row, ok = res.FetchRow() {
		t.Rows = append(t.Rows, row)
	}
	if w.format != formatText {
		return w.encode(t)
	}
	headers := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		headers[i] = c.Name
	}
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cell(v)
		}
		tbl.Row(cells...)
	}
	_, err := fmt.Fprintf(w.out, "%s\n(%d rows)\n", tbl.Render(), len(t.Rows))
	return err
}

func (w *writer) encode(v any) error {
	if w.format == formatJSON {
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	b, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.out.Write(b)
	return err
}

func cell(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return fmt.Sprintf("0x%X", v)
	}
	return fmt.Sprint(v)
}
