package query

import "github.com/crossql/crossql/value"

// InsertStatement is the builder for INSERT. Rows are emitted in the
// order they were appended; within a row, values line up positionally
// with the column list.
type InsertStatement struct {
	Table     TableRef
	Cols      []string
	Rows      []value.Values
	Returning []Col
}

func (*InsertStatement) stmtNode() {}

// Columns sets the column list. Must be called before Values.
func (s *InsertStatement) Columns(cols ...string) *InsertStatement {
	s.Cols = append(s.Cols, cols...)
	return s
}

// Values appends one row. The row is cloned so the statement owns its
// values even if the caller reuses the slice.
func (s *InsertStatement) Values(row ...value.Value) *InsertStatement {
	s.Rows = append(s.Rows, value.Values(row).Clone())
	return s
}

// ReturningCols appends a RETURNING column list (Postgres, SQLite,
// CockroachDB; rejected for MySQL at compile time).
func (s *InsertStatement) ReturningCols(cols ...Col) *InsertStatement {
	s.Returning = append(s.Returning, cols...)
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *InsertStatement) Take() *InsertStatement {
	out := *s
	*s = InsertStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *InsertStatement) Validate() error {
	if s.Table.Name == "" {
		return validationError("insert", "table name must not be empty")
	}
	if err := validateIdent("insert", s.Table.Name); err != nil {
		return err
	}
	if len(s.Cols) == 0 {
		return validationError("insert", "column list must not be empty")
	}
	for _, c := range s.Cols {
		if err := validateIdent("insert", c); err != nil {
			return err
		}
	}
	if len(s.Rows) == 0 {
		return validationError("insert", "at least one row of values is required")
	}
	for i, row := range s.Rows {
		if len(row) != len(s.Cols) {
			return validationErrorf("insert", "row %d has %d values for %d columns", i, len(row), len(s.Cols))
		}
	}
	return nil
}

// UpdateStatement is the builder for UPDATE.
type UpdateStatement struct {
	Table     TableRef
	Sets      []SetClause
	Where     Expr
	Returning []Col
}

// SetClause represents column = value in UPDATE.
type SetClause struct {
	Column string
	Value  Expr
}

func (*UpdateStatement) stmtNode() {}

// Set appends "col = <bound value>".
func (s *UpdateStatement) Set(col string, v value.Value) *UpdateStatement {
	s.Sets = append(s.Sets, SetClause{Column: col, Value: Bind(v)})
	return s
}

// SetExpr appends "col = <expr>" for computed assignments.
func (s *UpdateStatement) SetExpr(col string, e Expr) *UpdateStatement {
	s.Sets = append(s.Sets, SetClause{Column: col, Value: e})
	return s
}

// AndWhere ANDs a predicate into the WHERE tree.
func (s *UpdateStatement) AndWhere(e Expr) *UpdateStatement {
	if s.Where == nil {
		s.Where = e
	} else {
		s.Where = BinaryExpr{Left: s.Where, Op: OpAnd, Right: e}
	}
	return s
}

// ReturningCols appends a RETURNING column list.
func (s *UpdateStatement) ReturningCols(cols ...Col) *UpdateStatement {
	s.Returning = append(s.Returning, cols...)
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *UpdateStatement) Take() *UpdateStatement {
	out := *s
	*s = UpdateStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *UpdateStatement) Validate() error {
	if s.Table.Name == "" {
		return validationError("update", "table name must not be empty")
	}
	if err := validateIdent("update", s.Table.Name); err != nil {
		return err
	}
	if len(s.Sets) == 0 {
		return validationError("update", "at least one SET clause is required")
	}
	for _, set := range s.Sets {
		if err := validateIdent("update", set.Column); err != nil {
			return err
		}
	}
	return validateExpr("update", s.Where)
}

// DeleteStatement is the builder for DELETE.
type DeleteStatement struct {
	Table     TableRef
	Where     Expr
	Returning []Col
}

func (*DeleteStatement) stmtNode() {}

// AndWhere ANDs a predicate into the WHERE tree.
func (s *DeleteStatement) AndWhere(e Expr) *DeleteStatement {
	if s.Where == nil {
		s.Where = e
	} else {
		s.Where = BinaryExpr{Left: s.Where, Op: OpAnd, Right: e}
	}
	return s
}

// ReturningCols appends a RETURNING column list.
func (s *DeleteStatement) ReturningCols(cols ...Col) *DeleteStatement {
	s.Returning = append(s.Returning, cols...)
	return s
}

// Take moves all fields out of the builder, leaving it empty.
func (s *DeleteStatement) Take() *DeleteStatement {
	out := *s
	*s = DeleteStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *DeleteStatement) Validate() error {
	if s.Table.Name == "" {
		return validationError("delete", "table name must not be empty")
	}
	if err := validateIdent("delete", s.Table.Name); err != nil {
		return err
	}
	return validateExpr("delete", s.Where)
}
