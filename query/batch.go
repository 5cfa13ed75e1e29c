package query

import "github.com/crossql/crossql/value"

// Per-statement bound-parameter ceiling. Postgres caps a single statement
// at 65535 binds; staying below that is safe on every supported backend.
const DefaultParamLimit = 65535

// BatchInsert accumulates rows for one table and chunks them into as many
// InsertStatements as the parameter limit requires. Input row order is
// preserved across chunk boundaries.
type BatchInsert struct {
	table      string
	cols       []string
	rows       []value.Values
	paramLimit int
}

// NewBatchInsert creates a batch builder for the given table and columns.
func NewBatchInsert(table string, cols ...string) *BatchInsert {
	return &BatchInsert{table: table, cols: cols, paramLimit: DefaultParamLimit}
}

// WithParamLimit overrides the per-statement parameter ceiling.
// Values below the column count are clamped to one row per statement.
func (b *BatchInsert) WithParamLimit(n int) *BatchInsert {
	b.paramLimit = n
	return b
}

// Add appends one row. The row is cloned; the caller may reuse the slice.
func (b *BatchInsert) Add(row ...value.Value) *BatchInsert {
	b.rows = append(b.rows, value.Values(row).Clone())
	return b
}

// Len returns the number of accumulated rows.
func (b *BatchInsert) Len() int { return len(b.rows) }

// Statements chunks the accumulated rows into insert statements and
// resets the builder. Each statement carries at most
// paramLimit / len(cols) rows.
func (b *BatchInsert) Statements() ([]*InsertStatement, error) {
	if len(b.cols) == 0 {
		return nil, validationError("batch insert", "column list must not be empty")
	}
	if len(b.rows) == 0 {
		return nil, validationError("batch insert", "at least one row is required")
	}
	rowsPerStmt := b.paramLimit / len(b.cols)
	if rowsPerStmt < 1 {
		rowsPerStmt = 1
	}

	var stmts []*InsertStatement
	for start := 0; start < len(b.rows); start += rowsPerStmt {
		end := start + rowsPerStmt
		if end > len(b.rows) {
			end = len(b.rows)
		}
		stmt := InsertInto(b.table).Columns(b.cols...)
		for _, row := range b.rows[start:end] {
			stmt.Rows = append(stmt.Rows, row)
		}
		if err := stmt.Validate(); err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	b.rows = nil
	return stmts, nil
}
