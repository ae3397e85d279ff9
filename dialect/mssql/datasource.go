package mssql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/syssam/tabula"
	"github.com/syssam/tabula/dialect"
)

// DataSource is a pageable view over a table or a query. Paging on SQL
// Server needs a stable ordering, so a DataSource requires a default
// sorting that user sorting is merged into.
//
//	ds := mssql.NewDataSource(drv, "dbo.users").
//		Where("active = 1").
//		OrderBy(dialect.Desc("created")).
//		SetDefaultSorting(dialect.Asc("id")).
//		ApplyLimit(20, 40)
//	res, err := ds.Fetch(ctx)
type DataSource struct {
	drv            dialect.Driver
	source         string
	cols           []string
	conds          []string
	sorting        dialect.OrderSpec
	defaultSorting dialect.OrderSpec
	limit          int
	offset         int
}

// NewDataSource returns an unpaged data source over source, which is a
// table name or, when it contains whitespace, a query.
func NewDataSource(drv dialect.Driver, source string) *DataSource {
	return &DataSource{drv: drv, source: source, limit: dialect.NoLimit}
}

// Select restricts the selected columns. No columns selects all.
func (s *DataSource) Select(cols ...string) *DataSource {
	s.cols = append(s.cols, cols...)
	return s
}

// Where adds conditions joined with AND.
func (s *DataSource) Where(conds ...string) *DataSource {
	s.conds = append(s.conds, conds...)
	return s
}

// OrderBy adds user sorting terms.
func (s *DataSource) OrderBy(terms ...dialect.OrderTerm) *DataSource {
	s.sorting = append(s.sorting, terms...)
	return s
}

// SetDefaultSorting sets the sorting appended after the user sorting.
func (s *DataSource) SetDefaultSorting(terms ...dialect.OrderTerm) *DataSource {
	s.defaultSorting = terms
	return s
}

// DefaultSorting returns the default sorting.
func (s *DataSource) DefaultSorting() dialect.OrderSpec {
	return s.defaultSorting
}

// ApplyLimit sets the window of rows to return.
func (s *DataSource) ApplyLimit(limit, offset int) *DataSource {
	s.limit, s.offset = limit, offset
	return s
}

// SQL returns the statement selecting the data source rows.
func (s *DataSource) SQL() (string, error) {
	if len(s.defaultSorting) == 0 {
		return "", tabula.ErrNoDefaultSorting
	}
	cols := "*"
	if len(s.cols) > 0 {
		quoted := make([]string, len(s.cols))
		for i, c := range s.cols {
			quoted[i] = s.drv.EscapeIdentifier(c)
		}
		cols = strings.Join(quoted, ", ")
	}
	query := "SELECT " + cols + " FROM " + s.from()
	order := s.sorting.Merge(s.defaultSorting)
	if s.limit < 0 && s.offset <= 0 {
		return query + " ORDER BY " + orderBy(order, false), nil
	}
	return s.drv.ApplyLimit(query, order, s.limit, s.offset)
}

// Fetch executes the statement returned by SQL.
func (s *DataSource) Fetch(ctx context.Context) (dialect.Result, error) {
	query, err := s.SQL()
	if err != nil {
		return nil, err
	}
	return s.drv.Execute(ctx, query)
}

// Count returns the number of rows of the data source, ignoring paging.
// It supersedes the current result of the driver.
func (s *DataSource) Count(ctx context.Context) (int, error) {
	query := "SELECT COUNT(*) FROM " + s.from()
	res, err := s.drv.Execute(ctx, query)
	if err != nil {
		return 0, err
	}
	if res == nil {
		return 0, fmt.Errorf("mssql: count: no result set")
	}
	defer res.Free()
	row, ok := res.FetchRow()
	if !ok || len(row) == 0 {
		return 0, fmt.Errorf("mssql: count: empty result set")
	}
	return countOf(row[0])
}

// from renders the FROM and WHERE clauses.
func (s *DataSource) from() string {
	src := s.drv.EscapeIdentifier(s.source)
	if strings.ContainsAny(s.source, " \t\r\n") {
		src = "(" + s.source + ") t"
	}
	if len(s.conds) > 0 {
		src += " WHERE (" + strings.Join(s.conds, ") AND (") + ")"
	}
	return src
}

func countOf(v any) (int, error) {
	switch v := v.(type) {
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case int:
		return v, nil
	case []byte:
		return strconv.Atoi(string(v))
	case string:
		return strconv.Atoi(v)
	}
	return 0, fmt.Errorf("mssql: count: unexpected value of type %T", v)
}
