package mssql

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/syssam/tabula"
	"github.com/syssam/tabula/dialect"
)

// Date layouts of DATE and DATETIME literals.
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// identifierEscaper doubles brackets inside identifiers.
var identifierEscaper = strings.NewReplacer("[", "[[", "]", "]]")

// EscapeIdentifier quotes a possibly dot-qualified identifier, bracketing
// each segment separately:
//
//	EscapeIdentifier("dbo.users")  // [dbo].[users]
//	EscapeIdentifier("a]b")        // [a]]b]
func EscapeIdentifier(name string) string {
	segments := strings.Split(identifierEscaper.Replace(name), ".")
	for i, s := range segments {
		segments[i] = "[" + s + "]"
	}
	return strings.Join(segments, ".")
}

// QuoteString returns s as a single-quoted literal with every quote doubled.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Escape encodes v as an SQL literal of type t. Dates and Unix timestamps
// are formatted in the driver location.
func (d *Driver) Escape(v any, t dialect.Type) (string, error) {
	return Escape(v, t, d.location)
}

// EscapeIdentifier quotes a possibly dot-qualified identifier.
func (d *Driver) EscapeIdentifier(name string) string {
	return EscapeIdentifier(name)
}

// Unescape decodes a value read from a result set. Only binary values need
// decoding, and they come back unchanged.
func (d *Driver) Unescape(v any, t dialect.Type) (any, error) {
	if t != dialect.TypeBinary {
		return nil, tabula.NewUnsupportedTypeError("unescape", t.String())
	}
	return v, nil
}

// Escape encodes v as an SQL literal of type t. A nil loc means time.Local.
func Escape(v any, t dialect.Type, loc *time.Location) (string, error) {
	switch t {
	case dialect.TypeText, dialect.TypeBinary:
		s, ok := textOf(v)
		if !ok {
			return "", fmt.Errorf("mssql: escape %s: unexpected value of type %T", t, v)
		}
		return QuoteString(s), nil
	case dialect.TypeIdentifier:
		s, ok := textOf(v)
		if !ok {
			return "", fmt.Errorf("mssql: escape %s: unexpected value of type %T", t, v)
		}
		return EscapeIdentifier(s), nil
	case dialect.TypeBool:
		if truthy(v) {
			return "1", nil
		}
		return "0", nil
	case dialect.TypeDate, dialect.TypeDateTime:
		tm, err := timeOf(v, loc)
		if err != nil {
			return "", fmt.Errorf("mssql: escape %s: %w", t, err)
		}
		layout := dateLayout
		if t == dialect.TypeDateTime {
			layout = dateTimeLayout
		}
		return "'" + tm.Format(layout) + "'", nil
	default:
		return "", tabula.NewUnsupportedTypeError("escape", t.String())
	}
}

func textOf(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case fmt.Stringer:
		return v.String(), true
	}
	return "", false
}

// truthy reports whether v is a true value: a true bool, a non-zero number,
// or a string other than "" and "0".
func truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "" && v != "0"
	case []byte:
		return len(v) > 0 && string(v) != "0"
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// timeOf converts v to a time in loc. Numbers and numeric strings are Unix
// timestamps in seconds.
func timeOf(v any, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	switch v := v.(type) {
	case time.Time:
		return v.In(loc), nil
	case *time.Time:
		if v == nil {
			return time.Time{}, fmt.Errorf("nil time")
		}
		return v.In(loc), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q", v)
		}
		return unixTime(f, loc), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return time.Unix(rv.Int(), 0).In(loc), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return time.Unix(int64(rv.Uint()), 0).In(loc), nil
	case reflect.Float32, reflect.Float64:
		return unixTime(rv.Float(), loc), nil
	}
	return time.Time{}, fmt.Errorf("unexpected value of type %T", v)
}

// unixTime truncates fractional seconds.
func unixTime(f float64, loc *time.Location) time.Time {
	return time.Unix(int64(math.Trunc(f)), 0).In(loc)
}
