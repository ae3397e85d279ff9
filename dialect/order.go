package dialect

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	OrderAsc  Direction = "ASC"
	OrderDesc Direction = "DESC"
)

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == OrderDesc {
		return OrderAsc
	}
	return OrderDesc
}

// OrderTerm is one entry of an OrderSpec. A keyed term names a column and
// carries a direction value; an unkeyed term is a bare expression sorted
// ascending.
type OrderTerm struct {
	Column string
	Value  any
	Keyed  bool
}

// Asc returns a term sorting column ascending.
func Asc(column string) OrderTerm {
	return OrderTerm{Column: column, Value: string(OrderAsc), Keyed: true}
}

// Desc returns a term sorting column descending.
func Desc(column string) OrderTerm {
	return OrderTerm{Column: column, Value: string(OrderDesc), Keyed: true}
}

// By returns a keyed term whose direction is inferred from v.
// See OrderTerm.Direction for the rules.
func By(column string, v any) OrderTerm {
	return OrderTerm{Column: column, Value: v, Keyed: true}
}

// Expr returns an unkeyed term.
func Expr(expr string) OrderTerm {
	return OrderTerm{Column: expr}
}

// Direction returns the sort direction of the term.
//
// Unkeyed terms sort ascending. For keyed terms the value decides: a
// non-numeric string starting with "d" or "D" (e.g. "desc", "DESCENDING"), a
// number (or numeric string) less than or equal to zero, or false means
// descending; anything else, nil included, means ascending. The mix of
// string and numeric encodings is inherited from callers that build order
// specifications from request parameters.
//
// Numeric strings are read as numbers, so "0" and "-1" sort descending even
// though they do not start with "d". Drivers that only look at the first
// letter of string values would sort them ascending; callers porting order
// values from such code should pass Asc or Desc terms instead.
func (t OrderTerm) Direction() Direction {
	if !t.Keyed {
		return OrderAsc
	}
	switch v := t.Value.(type) {
	case nil:
		return OrderAsc
	case Direction:
		return directionOfString(string(v))
	case string:
		return directionOfString(v)
	case bool:
		if v {
			return OrderAsc
		}
		return OrderDesc
	case fmt.Stringer:
		return directionOfString(v.String())
	}
	rv := reflect.ValueOf(t.Value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return directionOfNumber(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return directionOfNumber(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return directionOfNumber(rv.Float())
	}
	return OrderAsc
}

func directionOfString(s string) Direction {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return directionOfNumber(f)
	}
	if s != "" && (s[0] == 'd' || s[0] == 'D') {
		return OrderDesc
	}
	return OrderAsc
}

func directionOfNumber(f float64) Direction {
	if f > 0 {
		return OrderAsc
	}
	return OrderDesc
}

// OrderSpec is an ordered list of sort terms.
type OrderSpec []OrderTerm

// Merge returns o followed by the terms of defaults whose column is not
// already named in o.
func (o OrderSpec) Merge(defaults OrderSpec) OrderSpec {
	seen := make(map[string]struct{}, len(o))
	merged := make(OrderSpec, 0, len(o)+len(defaults))
	for _, t := range o {
		seen[t.Column] = struct{}{}
		merged = append(merged, t)
	}
	for _, t := range defaults {
		if _, ok := seen[t.Column]; ok {
			continue
		}
		seen[t.Column] = struct{}{}
		merged = append(merged, t)
	}
	return merged
}

// ParseOrderSpec parses a comma-separated list of "column[:direction]"
// entries. Entries with a direction become keyed terms, others bare
// expressions.
func ParseOrderSpec(s string) (OrderSpec, error) {
	var spec OrderSpec
	if strings.TrimSpace(s) == "" {
		return spec, nil
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("dialect: empty order term in %q", s)
		}
		col, dir, ok := strings.Cut(part, ":")
		col = strings.TrimSpace(col)
		if col == "" {
			return nil, fmt.Errorf("dialect: missing column in order term %q", part)
		}
		if !ok {
			spec = append(spec, Expr(col))
			continue
		}
		spec = append(spec, By(col, strings.TrimSpace(dir)))
	}
	return spec, nil
}
