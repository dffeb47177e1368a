// File: internal/jsonshape/table.go

// Package jsonshape converts the loosely-typed JSON payloads returned by the
// risk API into tabular rows with fixed, named fields. All shape guessing
// lives here; downstream code consumes only Table and Row values.
package jsonshape

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is a single record of string keys to scalar (or nested) values.
type Row = map[string]any

// Table is an ordered set of rows. Columns preserves first-seen key order so
// rendered output stays stable across runs.
type Table struct {
	Columns []string
	Rows    []Row
}

// Empty reports whether the table holds no rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// addColumn records a column name the first time it is seen.
func (t *Table) addColumn(seen map[string]bool, name string) {
	if !seen[name] {
		seen[name] = true
		t.Columns = append(t.Columns, name)
	}
}

// append adds a row, folding its keys into the column order.
func (t *Table) append(seen map[string]bool, r Row) {
	for _, k := range sortedKeys(r) {
		t.addColumn(seen, k)
	}
	t.Rows = append(t.Rows, r)
}

// ToTable converts an arbitrary decoded JSON value into a Table. It accepts
// nil (empty table), a list of objects (rows), a list of scalars (single
// "Value" column), a single object (flattened one level, falling back to
// Key/Value pairs when flattening yields nothing), or a bare scalar (single
// cell). It never fails, whatever the input shape.
func ToTable(v any) Table {
	var t Table
	seen := make(map[string]bool)

	switch val := v.(type) {
	case nil:
		return t
	case []any:
		if len(val) == 0 {
			return t
		}
		if _, ok := val[0].(map[string]any); ok {
			for _, item := range val {
				if r, ok := item.(map[string]any); ok {
					t.append(seen, r)
				}
			}
			return t
		}
		for _, item := range val {
			t.append(seen, Row{"Value": item})
		}
		return t
	case map[string]any:
		flat := flattenOne(val)
		if len(flat) > 0 {
			t.append(seen, flat)
			return t
		}
		for _, k := range sortedKeys(val) {
			t.append(seen, Row{"Key": k, "Value": val[k]})
		}
		return t
	default:
		t.append(seen, Row{"Value": val})
		return t
	}
}

// TableOf builds a Table directly from already-decoded rows.
func TableOf(rows []Row) Table {
	var t Table
	seen := make(map[string]bool)
	for _, r := range rows {
		t.append(seen, r)
	}
	return t
}

// flattenOne expands nested objects one level deep, joining keys with a dot
// ("risk_grade" holding {"grade": "A"} becomes column "risk_grade.grade").
// Lists and deeper nesting are kept as-is.
func flattenOne(m map[string]any) Row {
	out := make(Row, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			for nk, nv := range nested {
				out[k+"."+nk] = nv
			}
			continue
		}
		out[k] = v
	}
	return out
}

// AsRow coerces a decoded JSON value to a Row. Lists yield their first object
// element, mirroring the upstream habit of wrapping single records in arrays.
func AsRow(v any) (Row, bool) {
	switch val := v.(type) {
	case map[string]any:
		return val, true
	case []any:
		for _, item := range val {
			if r, ok := item.(map[string]any); ok {
				return r, true
			}
		}
	}
	return nil, false
}

// AsString renders a scalar identifier as a string. Whole-valued floats (the
// usual fate of JSON integers after decoding) drop their fractional part, so
// company id 7 and "7" compare equal.
func AsString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// StripTransport returns a copy of the value with HATEOAS navigation keys
// (href, links, link, rel; case-insensitive) removed recursively. The bundle
// cache must never persist transport metadata.
func StripTransport(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			switch strings.ToLower(k) {
			case "href", "links", "link", "rel":
				continue
			}
			out[k] = StripTransport(inner)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = StripTransport(item)
		}
		return out
	default:
		return v
	}
}

// StripTransportRows applies StripTransport to a slice of rows.
func StripTransportRows(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if stripped, ok := StripTransport(r).(map[string]any); ok {
			out = append(out, stripped)
		}
	}
	return out
}
