package query

// JoinType represents the type of join.
type JoinType string

const (
	InnerJoin JoinType = "INNER"
	LeftJoin  JoinType = "LEFT"
	RightJoin JoinType = "RIGHT"
	FullJoin  JoinType = "FULL"
)

// JoinClause represents a JOIN.
type JoinClause struct {
	Type      JoinType
	Table     TableRef
	Condition Expr
}

// SelectExpr is a column or expression in a SELECT list.
type SelectExpr struct {
	Expr  Expr
	Alias string
}

// OrderByExpr represents ORDER BY expr [ASC|DESC].
type OrderByExpr struct {
	Expr Expr
	Desc bool
}

// SelectStatement is the builder for SELECT.
type SelectStatement struct {
	Table      TableRef
	Distinct   bool
	SelectCols []SelectExpr
	Joins      []JoinClause
	Where      Expr
	GroupBy    []Col
	Having     Expr
	OrderBy    []OrderByExpr
	Limit      *uint64
	Offset     *uint64

	// AsOfSystemTime holds the historical-read timestamp expression for
	// CockroachDB (AS OF SYSTEM TIME). Other dialects reject it.
	AsOfSystemTime string
}

func (*SelectStatement) stmtNode() {}

// From sets the table.
func (s *SelectStatement) From(table string) *SelectStatement {
	s.Table = TableRef{Name: table}
	return s
}

// FromAs sets the table with an alias.
func (s *SelectStatement) FromAs(table, alias string) *SelectStatement {
	s.Table = TableRef{Name: table, Alias: alias}
	return s
}

// Columns appends column references to the select list. Insertion order
// is preserved through compilation.
func (s *SelectStatement) Columns(cols ...Col) *SelectStatement {
	for _, c := range cols {
		s.SelectCols = append(s.SelectCols, SelectExpr{Expr: ColumnExpr{Column: c}})
	}
	return s
}

// ColumnAs appends one aliased select expression.
func (s *SelectStatement) ColumnAs(e Expr, alias string) *SelectStatement {
	s.SelectCols = append(s.SelectCols, SelectExpr{Expr: e, Alias: alias})
	return s
}

// Expr appends one bare select expression.
func (s *SelectStatement) Expr(e Expr) *SelectStatement {
	s.SelectCols = append(s.SelectCols, SelectExpr{Expr: e})
	return s
}

// SetDistinct marks the query as SELECT DISTINCT.
func (s *SelectStatement) SetDistinct() *SelectStatement {
	s.Distinct = true
	return s
}

// Join appends an INNER JOIN.
func (s *SelectStatement) Join(table string, on Expr) *SelectStatement {
	s.Joins = append(s.Joins, JoinClause{Type: InnerJoin, Table: TableRef{Name: table}, Condition: on})
	return s
}

// LeftJoinOn appends a LEFT JOIN.
func (s *SelectStatement) LeftJoinOn(table string, on Expr) *SelectStatement {
	s.Joins = append(s.Joins, JoinClause{Type: LeftJoin, Table: TableRef{Name: table}, Condition: on})
	return s
}

// AndWhere ANDs a predicate into the WHERE tree, preserving left-to-right
// composition order.
func (s *SelectStatement) AndWhere(e Expr) *SelectStatement {
	if s.Where == nil {
		s.Where = e
	} else {
		s.Where = BinaryExpr{Left: s.Where, Op: OpAnd, Right: e}
	}
	return s
}

// OrWhere ORs a predicate into the WHERE tree.
func (s *SelectStatement) OrWhere(e Expr) *SelectStatement {
	if s.Where == nil {
		s.Where = e
	} else {
		s.Where = BinaryExpr{Left: s.Where, Op: OpOr, Right: e}
	}
	return s
}

// GroupByCols appends GROUP BY columns.
func (s *SelectStatement) GroupByCols(cols ...Col) *SelectStatement {
	s.GroupBy = append(s.GroupBy, cols...)
	return s
}

// AndHaving ANDs a predicate into the HAVING tree.
func (s *SelectStatement) AndHaving(e Expr) *SelectStatement {
	if s.Having == nil {
		s.Having = e
	} else {
		s.Having = BinaryExpr{Left: s.Having, Op: OpAnd, Right: e}
	}
	return s
}

// OrderByCol appends an ORDER BY column.
func (s *SelectStatement) OrderByCol(c Col, desc bool) *SelectStatement {
	s.OrderBy = append(s.OrderBy, OrderByExpr{Expr: ColumnExpr{Column: c}, Desc: desc})
	return s
}

// WithLimit sets LIMIT.
func (s *SelectStatement) WithLimit(n uint64) *SelectStatement {
	s.Limit = &n
	return s
}

// WithOffset sets OFFSET.
func (s *SelectStatement) WithOffset(n uint64) *SelectStatement {
	s.Offset = &n
	return s
}

// AsOf sets the CockroachDB AS OF SYSTEM TIME clause, e.g. "'-10s'" or
// "follower_read_timestamp()".
func (s *SelectStatement) AsOf(ts string) *SelectStatement {
	s.AsOfSystemTime = ts
	return s
}

// Take moves all fields out of the builder and returns them as a new
// statement, leaving the receiver empty. Used to finalize a statement
// without an extra clone when the builder is discarded.
func (s *SelectStatement) Take() *SelectStatement {
	out := *s
	*s = SelectStatement{}
	return &out
}

// Validate checks structural invariants without mutating the builder.
func (s *SelectStatement) Validate() error {
	if s.Table.Name == "" {
		return validationError("select", "table name must not be empty")
	}
	if err := validateIdent("select", s.Table.Name); err != nil {
		return err
	}
	for _, j := range s.Joins {
		if j.Table.Name == "" {
			return validationError("select", "join table name must not be empty")
		}
		if j.Condition == nil {
			return validationError("select", "join requires an ON condition")
		}
	}
	if err := validateExpr("select", s.Where); err != nil {
		return err
	}
	return validateExpr("select", s.Having)
}
