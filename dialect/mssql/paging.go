package mssql

import (
	"math"
	"strconv"
	"strings"

	"github.com/syssam/tabula"
	"github.com/syssam/tabula/dialect"
)

// Rewrite returns base restricted to the rows [offset, offset+limit) under
// order. SQL Server before 2012 has no OFFSET, so a window past the first row is
// built from three TOP selections: the first limit+offset rows in forward
// order, the last limit of those in reversed order, and those again in
// forward order.
//
// A negative limit means no limit. An offset requires both a limit and a
// non-empty order, otherwise an UnsupportedPagingError is returned.
func Rewrite(base string, order dialect.OrderSpec, limit, offset int) (string, error) {
	offset = max(offset, 0)
	switch {
	case limit < 0 && offset == 0:
		return base, nil
	case limit < 0:
		return "", tabula.NewUnsupportedPagingError(limit, offset, "offset without limit")
	case offset == 0:
		q := "SELECT TOP " + strconv.Itoa(limit) + " * FROM (" + base + ") t"
		if len(order) > 0 {
			q += " ORDER BY " + orderBy(order, false)
		}
		return q, nil
	case len(order) == 0:
		return "", tabula.NewUnsupportedPagingError(limit, offset, "offset without ordering")
	case limit > math.MaxInt-offset:
		return "", tabula.NewUnsupportedPagingError(limit, offset, "limit plus offset overflows")
	}
	var (
		top     = strconv.Itoa(limit)
		forward = orderBy(order, false)
		b       strings.Builder
	)
	b.WriteString("SELECT TOP " + top + " * FROM (")
	b.WriteString("SELECT TOP " + top + " * FROM (")
	b.WriteString("SELECT TOP " + strconv.Itoa(limit+offset) + " * FROM (" + base + ") t")
	b.WriteString(" ORDER BY " + forward + ") t")
	b.WriteString(" ORDER BY " + orderBy(order, true) + ") t")
	b.WriteString(" ORDER BY " + forward)
	return b.String(), nil
}

// ApplyLimit rewrites query to return the window [offset, offset+limit)
// under order. See Rewrite.
func (d *Driver) ApplyLimit(query string, order dialect.OrderSpec, limit, offset int) (string, error) {
	return Rewrite(query, order, limit, offset)
}

// orderBy renders the terms of an ORDER BY clause. Keyed terms carry an
// explicit direction. Bare expressions carry none going forward and DESC
// when reversed.
func orderBy(order dialect.OrderSpec, reversed bool) string {
	terms := make([]string, len(order))
	for i, t := range order {
		col := EscapeIdentifier(t.Column)
		switch {
		case t.Keyed && reversed:
			terms[i] = col + " " + string(t.Direction().Reverse())
		case t.Keyed:
			terms[i] = col + " " + string(t.Direction())
		case reversed:
			terms[i] = col + " " + string(dialect.OrderDesc)
		default:
			terms[i] = col
		}
	}
	return strings.Join(terms, ", ")
}
