package compile

import (
	"fmt"
	"strings"

	"github.com/crossql/crossql/query"
	"github.com/crossql/crossql/value"
)

// Build compiles a statement for the given dialect. It returns the SQL
// text and the bound values in placeholder order: the i-th placeholder in
// the text always refers to vals[i]. The statement is validated first and
// is not mutated; callers may treat it as frozen from here on.
func Build(stmt query.Statement, d Dialect) (string, value.Values, error) {
	if err := stmt.Validate(); err != nil {
		return "", nil, err
	}

	c := &compiler{dialect: d}
	var b strings.Builder

	var err error
	switch s := stmt.(type) {
	case *query.SelectStatement:
		err = c.writeSelect(&b, s)
	case *query.InsertStatement:
		err = c.writeInsert(&b, s)
	case *query.UpdateStatement:
		err = c.writeUpdate(&b, s)
	case *query.DeleteStatement:
		err = c.writeDelete(&b, s)
	case *query.CreateTableStatement:
		err = c.writeCreateTable(&b, s)
	case *query.AlterTableStatement:
		err = c.writeAlterTable(&b, s)
	case *query.DropTableStatement:
		err = c.writeDropTable(&b, s)
	case *query.CreateSchemaStatement:
		err = c.writeCreateSchema(&b, s)
	case *query.AlterSchemaStatement:
		err = c.writeAlterSchema(&b, s)
	case *query.DropSchemaStatement:
		err = c.writeDropSchema(&b, s)
	case *query.CreateSequenceStatement:
		err = c.writeCreateSequence(&b, s)
	case *query.DropSequenceStatement:
		err = c.writeDropSequence(&b, s)
	case *query.CreateTypeStatement:
		err = c.writeCreateType(&b, s)
	case *query.DropTypeStatement:
		err = c.writeDropType(&b, s)
	case *query.CreateRoleStatement:
		err = c.writeCreateRole(&b, s)
	case *query.CreateDatabaseStatement:
		err = c.writeCreateDatabase(&b, s)
	case *query.DropDatabaseStatement:
		err = c.writeDropDatabase(&b, s)
	case *query.CreateViewStatement:
		err = c.writeCreateView(&b, s)
	case *query.CreateMaterializedViewStatement:
		err = c.writeCreateMaterializedView(&b, s)
	case *query.AlterMaterializedViewStatement:
		err = c.writeAlterMaterializedView(&b, s)
	case *query.RefreshMaterializedViewStatement:
		err = c.writeRefreshMaterializedView(&b, s)
	default:
		err = fmt.Errorf("compile: unknown statement type %T", stmt)
	}
	if err != nil {
		return "", nil, err
	}
	return b.String(), c.vals, nil
}

// compiler carries the per-compilation parameter state. Subqueries share
// the parent's compiler so placeholder numbering stays globally
// consistent within one statement.
type compiler struct {
	dialect Dialect
	count   int
	vals    value.Values
}

// bind emits the next placeholder and records its value. This is the only
// place placeholders are assigned, which is what keeps sql text and
// values positionally aligned.
func (c *compiler) bind(b *strings.Builder, v value.Value) {
	c.count++
	c.vals = append(c.vals, v)
	b.WriteString(c.dialect.Placeholder(c.count))
}

func (c *compiler) writeIdent(b *strings.Builder, name string) {
	b.WriteString(c.dialect.QuoteIdent(name))
}

func (c *compiler) writeCol(b *strings.Builder, col query.Col) {
	if col.Table != "" {
		c.writeIdent(b, col.Table)
		b.WriteString(".")
	}
	c.writeIdent(b, col.Name)
}

// =============================================================================
// SELECT
// =============================================================================

func (c *compiler) writeSelect(b *strings.Builder, s *query.SelectStatement) error {
	if s.AsOfSystemTime != "" && !c.dialect.SupportsAsOfSystemTime() {
		return unsupported(c.dialect, "AS OF SYSTEM TIME")
	}

	b.WriteString("SELECT ")
	if s.Distinct {
		b.WriteString("DISTINCT ")
	}
	if len(s.SelectCols) == 0 {
		b.WriteString("*")
	} else {
		for i, col := range s.SelectCols {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := c.writeExpr(b, col.Expr); err != nil {
				return err
			}
			if col.Alias != "" {
				b.WriteString(" AS ")
				c.writeIdent(b, col.Alias)
			}
		}
	}

	b.WriteString(" FROM ")
	c.writeIdent(b, s.Table.Name)
	if s.Table.Alias != "" {
		b.WriteString(" AS ")
		c.writeIdent(b, s.Table.Alias)
	}

	if s.AsOfSystemTime != "" {
		b.WriteString(" AS OF SYSTEM TIME ")
		b.WriteString(s.AsOfSystemTime)
	}

	for _, join := range s.Joins {
		b.WriteString(" ")
		b.WriteString(string(join.Type))
		b.WriteString(" JOIN ")
		c.writeIdent(b, join.Table.Name)
		if join.Table.Alias != "" {
			b.WriteString(" AS ")
			c.writeIdent(b, join.Table.Alias)
		}
		b.WriteString(" ON ")
		if err := c.writeExpr(b, join.Condition); err != nil {
			return err
		}
	}

	if s.Where != nil {
		b.WriteString(" WHERE ")
		if err := c.writeExpr(b, s.Where); err != nil {
			return err
		}
	}

	if len(s.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		for i, col := range s.GroupBy {
			if i > 0 {
				b.WriteString(", ")
			}
			c.writeCol(b, col)
		}
	}

	if s.Having != nil {
		b.WriteString(" HAVING ")
		if err := c.writeExpr(b, s.Having); err != nil {
			return err
		}
	}

	if len(s.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, ob := range s.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := c.writeExpr(b, ob.Expr); err != nil {
				return err
			}
			if ob.Desc {
				b.WriteString(" DESC")
			}
		}
	}

	if s.Limit != nil {
		fmt.Fprintf(b, " LIMIT %d", *s.Limit)
	}
	if s.Offset != nil {
		fmt.Fprintf(b, " OFFSET %d", *s.Offset)
	}
	return nil
}

// =============================================================================
// INSERT / UPDATE / DELETE
// =============================================================================

func (c *compiler) writeInsert(b *strings.Builder, s *query.InsertStatement) error {
	if len(s.Returning) > 0 && !c.dialect.SupportsReturning() {
		return unsupported(c.dialect, "RETURNING")
	}

	b.WriteString("INSERT INTO ")
	c.writeIdent(b, s.Table.Name)
	b.WriteString(" (")
	for i, col := range s.Cols {
		if i > 0 {
			b.WriteString(", ")
		}
		c.writeIdent(b, col)
	}
	b.WriteString(") VALUES ")
	for ri, row := range s.Rows {
		if ri > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for vi, v := range row {
			if vi > 0 {
				b.WriteString(", ")
			}
			c.bind(b, v)
		}
		b.WriteString(")")
	}

	c.writeReturning(b, s.Returning)
	return nil
}

func (c *compiler) writeUpdate(b *strings.Builder, s *query.UpdateStatement) error {
	if len(s.Returning) > 0 && !c.dialect.SupportsReturning() {
		return unsupported(c.dialect, "RETURNING")
	}

	b.WriteString("UPDATE ")
	c.writeIdent(b, s.Table.Name)
	b.WriteString(" SET ")
	for i, set := range s.Sets {
		if i > 0 {
			b.WriteString(", ")
		}
		c.writeIdent(b, set.Column)
		b.WriteString(" = ")
		if err := c.writeExpr(b, set.Value); err != nil {
			return err
		}
	}
	if s.Where != nil {
		b.WriteString(" WHERE ")
		if err := c.writeExpr(b, s.Where); err != nil {
			return err
		}
	}
	c.writeReturning(b, s.Returning)
	return nil
}

func (c *compiler) writeDelete(b *strings.Builder, s *query.DeleteStatement) error {
	if len(s.Returning) > 0 && !c.dialect.SupportsReturning() {
		return unsupported(c.dialect, "RETURNING")
	}

	b.WriteString("DELETE FROM ")
	c.writeIdent(b, s.Table.Name)
	if s.Where != nil {
		b.WriteString(" WHERE ")
		if err := c.writeExpr(b, s.Where); err != nil {
			return err
		}
	}
	c.writeReturning(b, s.Returning)
	return nil
}

func (c *compiler) writeReturning(b *strings.Builder, cols []query.Col) {
	if len(cols) == 0 {
		return
	}
	b.WriteString(" RETURNING ")
	for i, col := range cols {
		if i > 0 {
			b.WriteString(", ")
		}
		c.writeCol(b, col)
	}
}

// =============================================================================
// Expressions
// =============================================================================

func (c *compiler) writeExpr(b *strings.Builder, expr query.Expr) error {
	switch e := expr.(type) {
	case query.ColumnExpr:
		c.writeCol(b, e.Column)

	case query.BindExpr:
		c.bind(b, e.Value)

	case query.BinaryExpr:
		b.WriteString("(")
		if err := c.writeExpr(b, e.Left); err != nil {
			return err
		}
		fmt.Fprintf(b, " %s ", e.Op)
		if err := c.writeExpr(b, e.Right); err != nil {
			return err
		}
		b.WriteString(")")

	case query.UnaryExpr:
		if e.Op == query.OpIsNull || e.Op == query.OpNotNull {
			if err := c.writeExpr(b, e.Expr); err != nil {
				return err
			}
			fmt.Fprintf(b, " %s", e.Op)
		} else {
			fmt.Fprintf(b, "%s ", e.Op)
			if err := c.writeExpr(b, e.Expr); err != nil {
				return err
			}
		}

	case query.FuncExpr:
		if e.Name == "NOW" && len(e.Args) == 0 {
			b.WriteString(c.dialect.NowFunc())
			return nil
		}
		b.WriteString(e.Name)
		b.WriteString("(")
		for i, arg := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := c.writeExpr(b, arg); err != nil {
				return err
			}
		}
		b.WriteString(")")

	case query.ListExpr:
		b.WriteString("(")
		for i, v := range e.Values {
			if i > 0 {
				b.WriteString(", ")
			}
			if err := c.writeExpr(b, v); err != nil {
				return err
			}
		}
		b.WriteString(")")

	case query.SubqueryExpr:
		// Subqueries share this compiler so placeholder numbering stays
		// aligned across the whole statement.
		b.WriteString("(")
		if err := c.writeSelect(b, e.Query); err != nil {
			return err
		}
		b.WriteString(")")

	case query.ExistsExpr:
		if e.Negated {
			b.WriteString("NOT ")
		}
		b.WriteString("EXISTS (")
		if err := c.writeSelect(b, e.Subquery); err != nil {
			return err
		}
		b.WriteString(")")

	default:
		return fmt.Errorf("compile: unknown expression type %T", expr)
	}
	return nil
}
