package backend

import (
	"database/sql"
	"fmt"
	"time"
)

// Row is one fetched row. Column order matches the SELECT list; lookup
// by name is case-sensitive.
type Row struct {
	columns []string
	values  []any
}

// Columns returns the column names in result order.
func (r Row) Columns() []string { return r.columns }

// Get returns the raw value for a column name.
func (r Row) Get(name string) (any, bool) {
	for i, col := range r.columns {
		if col == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// Index returns the raw value at a positional index.
func (r Row) Index(i int) any { return r.values[i] }

// Len returns the number of columns.
func (r Row) Len() int { return len(r.values) }

// Int64 fetches a column as int64.
func (r Row) Int64(name string) (int64, error) {
	v, ok := r.Get(name)
	if !ok {
		return 0, fmt.Errorf("backend: no column %q", name)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case []byte:
		// MySQL returns numeric text for some column types.
		var out int64
		_, err := fmt.Sscanf(string(n), "%d", &out)
		return out, err
	default:
		return 0, fmt.Errorf("backend: column %q is %T, not an integer", name, v)
	}
}

// String fetches a column as string.
func (r Row) String(name string) (string, error) {
	v, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("backend: no column %q", name)
	}
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("backend: column %q is %T, not a string", name, v)
	}
}

// Bool fetches a column as bool.
func (r Row) Bool(name string) (bool, error) {
	v, ok := r.Get(name)
	if !ok {
		return false, fmt.Errorf("backend: no column %q", name)
	}
	switch b := v.(type) {
	case bool:
		return b, nil
	case int64:
		return b != 0, nil
	default:
		return false, fmt.Errorf("backend: column %q is %T, not a bool", name, v)
	}
}

// Time fetches a column as time.Time.
func (r Row) Time(name string) (time.Time, error) {
	v, ok := r.Get(name)
	if !ok {
		return time.Time{}, fmt.Errorf("backend: no column %q", name)
	}
	if t, ok := v.(time.Time); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("backend: column %q is %T, not a timestamp", name, v)
}

// IsNull reports whether a column is SQL NULL.
func (r Row) IsNull(name string) bool {
	v, ok := r.Get(name)
	return ok && v == nil
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("backend: columns: %w", err)
	}
	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("backend: scan: %w", err)
		}
		out = append(out, Row{columns: cols, values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("backend: rows: %w", err)
	}
	return out, nil
}
