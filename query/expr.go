package query

import "github.com/crossql/crossql/value"

// Expr is the interface for all expressions in a statement tree.
// Predicate trees are serialized left-to-right exactly as composed;
// the compiler never reorders them.
type Expr interface {
	exprNode() // marker method to identify expression types
}

// Col is a column reference, optionally table-qualified.
type Col struct {
	Table string
	Name  string
}

// C returns an unqualified column reference.
func C(name string) Col { return Col{Name: name} }

// TC returns a table-qualified column reference.
func TC(table, name string) Col { return Col{Table: table, Name: name} }

// ColumnExpr wraps a column reference as an expression.
type ColumnExpr struct {
	Column Col
}

func (ColumnExpr) exprNode() {}

// BindExpr binds one typed value as a parameter. The compiler assigns
// placeholders in the order BindExprs are emitted, so the bound values
// stay positionally aligned with the SQL text.
type BindExpr struct {
	Value value.Value
}

func (BindExpr) exprNode() {}

// Bind wraps a value as a bound parameter expression.
func Bind(v value.Value) BindExpr { return BindExpr{Value: v} }

// BinaryExpr represents a binary operation (left op right).
type BinaryExpr struct {
	Left  Expr
	Op    BinaryOp
	Right Expr
}

func (BinaryExpr) exprNode() {}

// BinaryOp represents binary operators.
type BinaryOp string

const (
	OpEq   BinaryOp = "="
	OpNe   BinaryOp = "<>"
	OpLt   BinaryOp = "<"
	OpLe   BinaryOp = "<="
	OpGt   BinaryOp = ">"
	OpGe   BinaryOp = ">="
	OpAnd  BinaryOp = "AND"
	OpOr   BinaryOp = "OR"
	OpLike BinaryOp = "LIKE"
	OpIn   BinaryOp = "IN"
)

// UnaryExpr represents a unary operation (op expr).
type UnaryExpr struct {
	Op   UnaryOp
	Expr Expr
}

func (UnaryExpr) exprNode() {}

// UnaryOp represents unary operators.
type UnaryOp string

const (
	OpNot     UnaryOp = "NOT"
	OpIsNull  UnaryOp = "IS NULL"
	OpNotNull UnaryOp = "IS NOT NULL"
)

// FuncExpr represents a function call.
type FuncExpr struct {
	Name string
	Args []Expr
}

func (FuncExpr) exprNode() {}

// ListExpr represents a parenthesized value list (for IN).
// An empty list is rejected by Validate; IN () is not valid SQL.
type ListExpr struct {
	Values []Expr
}

func (ListExpr) exprNode() {}

// SubqueryExpr represents a nested SELECT used as an expression.
type SubqueryExpr struct {
	Query *SelectStatement
}

func (SubqueryExpr) exprNode() {}

// ExistsExpr represents EXISTS (subquery) or NOT EXISTS (subquery).
type ExistsExpr struct {
	Subquery *SelectStatement
	Negated  bool
}

func (ExistsExpr) exprNode() {}

// =============================================================================
// Column Operators
// =============================================================================

// Eq builds "col = <bound value>".
func (c Col) Eq(v value.Value) BinaryExpr {
	return BinaryExpr{Left: ColumnExpr{Column: c}, Op: OpEq, Right: Bind(v)}
}

// Ne builds "col <> <bound value>".
func (c Col) Ne(v value.Value) BinaryExpr {
	return BinaryExpr{Left: ColumnExpr{Column: c}, Op: OpNe, Right: Bind(v)}
}

// Lt builds "col < <bound value>".
func (c Col) Lt(v value.Value) BinaryExpr {
	return BinaryExpr{Left: ColumnExpr{Column: c}, Op: OpLt, Right: Bind(v)}
}

// Le builds "col <= <bound value>".
func (c Col) Le(v value.Value) BinaryExpr {
	return BinaryExpr{Left: ColumnExpr{Column: c}, Op: OpLe, Right: Bind(v)}
}

// Gt builds "col > <bound value>".
func (c Col) Gt(v value.Value) BinaryExpr {
	return BinaryExpr{Left: ColumnExpr{Column: c}, Op: OpGt, Right: Bind(v)}
}

// Ge builds "col >= <bound value>".
func (c Col) Ge(v value.Value) BinaryExpr {
	return BinaryExpr{Left: ColumnExpr{Column: c}, Op: OpGe, Right: Bind(v)}
}

// Like builds "col LIKE <bound value>".
func (c Col) Like(pattern string) BinaryExpr {
	return BinaryExpr{Left: ColumnExpr{Column: c}, Op: OpLike, Right: Bind(value.String(pattern))}
}

// In builds "col IN (v1, v2, ...)". Every element is bound.
func (c Col) In(vs ...value.Value) BinaryExpr {
	list := ListExpr{Values: make([]Expr, len(vs))}
	for i, v := range vs {
		list.Values[i] = Bind(v)
	}
	return BinaryExpr{Left: ColumnExpr{Column: c}, Op: OpIn, Right: list}
}

// InSubquery builds "col IN (subquery)".
func (c Col) InSubquery(sub *SelectStatement) BinaryExpr {
	return BinaryExpr{Left: ColumnExpr{Column: c}, Op: OpIn, Right: SubqueryExpr{Query: sub}}
}

// EqCol builds "col = other" for join conditions.
func (c Col) EqCol(other Col) BinaryExpr {
	return BinaryExpr{Left: ColumnExpr{Column: c}, Op: OpEq, Right: ColumnExpr{Column: other}}
}

// IsNull builds "col IS NULL".
func (c Col) IsNull() UnaryExpr {
	return UnaryExpr{Op: OpIsNull, Expr: ColumnExpr{Column: c}}
}

// IsNotNull builds "col IS NOT NULL".
func (c Col) IsNotNull() UnaryExpr {
	return UnaryExpr{Op: OpNotNull, Expr: ColumnExpr{Column: c}}
}

// =============================================================================
// Combinators
// =============================================================================

// And combines expressions with AND.
// Returns nil if no expressions are provided.
// Returns the single expression if only one is provided.
func And(exprs ...Expr) Expr {
	if len(exprs) == 0 {
		return nil
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	result := exprs[0]
	for _, expr := range exprs[1:] {
		result = BinaryExpr{Left: result, Op: OpAnd, Right: expr}
	}
	return result
}

// Or combines expressions with OR.
// Returns nil if no expressions are provided.
// Returns the single expression if only one is provided.
func Or(exprs ...Expr) Expr {
	if len(exprs) == 0 {
		return nil
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	result := exprs[0]
	for _, expr := range exprs[1:] {
		result = BinaryExpr{Left: result, Op: OpOr, Right: expr}
	}
	return result
}

// Not negates an expression.
func Not(expr Expr) Expr {
	return UnaryExpr{Op: OpNot, Expr: expr}
}

// Exists builds EXISTS (subquery).
func Exists(sub *SelectStatement) ExistsExpr {
	return ExistsExpr{Subquery: sub}
}

// NotExists builds NOT EXISTS (subquery).
func NotExists(sub *SelectStatement) ExistsExpr {
	return ExistsExpr{Subquery: sub, Negated: true}
}

// Func builds a bare function call expression.
func Func(name string, args ...Expr) FuncExpr {
	return FuncExpr{Name: name, Args: args}
}

// Now is the current-timestamp function, translated per dialect.
func Now() FuncExpr { return FuncExpr{Name: "NOW"} }

// Compile-time verification that all expression types implement Expr.
var (
	_ Expr = ColumnExpr{}
	_ Expr = BindExpr{}
	_ Expr = BinaryExpr{}
	_ Expr = UnaryExpr{}
	_ Expr = FuncExpr{}
	_ Expr = ListExpr{}
	_ Expr = SubqueryExpr{}
	_ Expr = ExistsExpr{}
)
