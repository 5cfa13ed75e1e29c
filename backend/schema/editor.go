// Package schema provides dialect-specific schema editors: the DDL-side
// counterpart to Conn.Execute. An editor turns table operations into the
// target dialect's DDL and applies them one statement at a time, in
// insertion order.
package schema

import (
	"context"
	"fmt"

	"github.com/crossql/crossql/backend"
	"github.com/crossql/crossql/ddl"
	"github.com/crossql/crossql/query"
	"github.com/crossql/crossql/query/compile"
)

// Editor applies schema changes on a single connection.
type Editor interface {
	// CreateTable creates a table.
	CreateTable(ctx context.Context, conn *backend.Conn, stmt *query.CreateTableStatement) error

	// AlterTable applies the operations in order, each as its own
	// statement. The first failing operation aborts the rest.
	AlterTable(ctx context.Context, conn *backend.Conn, table string, ops []ddl.TableOperation) error

	// DropTable drops a table.
	DropTable(ctx context.Context, conn *backend.Conn, stmt *query.DropTableStatement) error
}

// For returns the editor for a dialect.
func For(d compile.Dialect) Editor {
	switch d {
	case compile.Cockroach:
		return &CockroachEditor{sqlEditor: sqlEditor{dialect: d}}
	default:
		return &sqlEditor{dialect: d}
	}
}

// sqlEditor is the shared editor: every dialect difference it needs is
// already encoded in the compiler.
type sqlEditor struct {
	dialect compile.Dialect
}

func (e *sqlEditor) CreateTable(ctx context.Context, conn *backend.Conn, stmt *query.CreateTableStatement) error {
	sqlText, vals, err := compile.Build(stmt, e.dialect)
	if err != nil {
		return err
	}
	_, err = conn.Execute(ctx, sqlText, vals)
	return err
}

func (e *sqlEditor) AlterTable(ctx context.Context, conn *backend.Conn, table string, ops []ddl.TableOperation) error {
	for i := range ops {
		stmt := &query.AlterTableStatement{Name: table, Ops: ops[i : i+1]}
		sqlText, vals, err := compile.Build(stmt, e.dialect)
		if err != nil {
			return fmt.Errorf("schema: operation %d (%s): %w", i, ops[i].Type, err)
		}
		if _, err := conn.Execute(ctx, sqlText, vals); err != nil {
			return fmt.Errorf("schema: operation %d (%s): %w", i, ops[i].Type, err)
		}
	}
	return nil
}

func (e *sqlEditor) DropTable(ctx context.Context, conn *backend.Conn, stmt *query.DropTableStatement) error {
	sqlText, vals, err := compile.Build(stmt, e.dialect)
	if err != nil {
		return err
	}
	_, err = conn.Execute(ctx, sqlText, vals)
	return err
}
