package schema

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/crossql/crossql/backend"
	"github.com/crossql/crossql/ddl"
	"github.com/crossql/crossql/query"
	"github.com/crossql/crossql/query/compile"
)

func mockConn(t *testing.T, d compile.Dialect) (*backend.Conn, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	sqlConn, err := db.Conn(context.Background())
	if err != nil {
		t.Fatalf("conn: %v", err)
	}
	t.Cleanup(func() {
		sqlConn.Close()
		db.Close()
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return backend.WrapConn(sqlConn, d, logger), mock
}

func TestForReturnsCockroachEditor(t *testing.T) {
	if _, ok := For(compile.Cockroach).(*CockroachEditor); !ok {
		t.Error("expected CockroachEditor for cockroach")
	}
	if _, ok := For(compile.Postgres).(*sqlEditor); !ok {
		t.Error("expected shared editor for postgres")
	}
}

func TestCreateTableExecutesCompiledDDL(t *testing.T) {
	conn, mock := mockConn(t, compile.Postgres)
	stmt := query.CreateTable("users").
		Column(ddl.ColumnDefinition{Name: "id", Type: ddl.BigintType, PrimaryKey: true}).
		Column(ddl.ColumnDefinition{Name: "email", Type: ddl.TextType})

	wantSQL, _, err := compile.Build(stmt, compile.Postgres)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	mock.ExpectExec(wantSQL).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := For(compile.Postgres).CreateTable(context.Background(), conn, stmt); err != nil {
		t.Fatalf("create table: %v", err)
	}
}

func TestAlterTableOneStatementPerOperation(t *testing.T) {
	conn, mock := mockConn(t, compile.Postgres)
	ops := []ddl.TableOperation{
		{Type: ddl.OpAddColumn, ColumnDef: &ddl.ColumnDefinition{Name: "age", Type: ddl.IntegerType, Nullable: true}},
		{Type: ddl.OpDropColumn, Column: "legacy"},
	}

	for i := range ops {
		one := &query.AlterTableStatement{Name: "users", Ops: ops[i : i+1]}
		wantSQL, _, err := compile.Build(one, compile.Postgres)
		if err != nil {
			t.Fatalf("build op %d: %v", i, err)
		}
		mock.ExpectExec(wantSQL).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if err := For(compile.Postgres).AlterTable(context.Background(), conn, "users", ops); err != nil {
		t.Fatalf("alter table: %v", err)
	}
}

func TestAlterTableAbortsOnFirstFailure(t *testing.T) {
	conn, mock := mockConn(t, compile.Postgres)
	ops := []ddl.TableOperation{
		{Type: ddl.OpDropColumn, Column: "a"},
		{Type: ddl.OpDropColumn, Column: "b"},
	}

	first := &query.AlterTableStatement{Name: "users", Ops: ops[0:1]}
	firstSQL, _, err := compile.Build(first, compile.Postgres)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	boom := errors.New("column is referenced")
	mock.ExpectExec(firstSQL).WillReturnError(boom)

	err = For(compile.Postgres).AlterTable(context.Background(), conn, "users", ops)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped driver error, got %v", err)
	}
}

func TestDropTable(t *testing.T) {
	conn, mock := mockConn(t, compile.Postgres)
	stmt := query.DropTable("users")

	wantSQL, _, err := compile.Build(stmt, compile.Postgres)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	mock.ExpectExec(wantSQL).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := For(compile.Postgres).DropTable(context.Background(), conn, stmt); err != nil {
		t.Fatalf("drop table: %v", err)
	}
}

func TestSetLocality(t *testing.T) {
	conn, mock := mockConn(t, compile.Cockroach)
	mock.ExpectExec(`ALTER TABLE "users" SET LOCALITY REGIONAL BY ROW`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	e := For(compile.Cockroach).(*CockroachEditor)
	if err := e.SetLocality(context.Background(), conn, "users", query.LocalityRegionalByRow); err != nil {
		t.Fatalf("set locality: %v", err)
	}

	if err := e.SetLocality(context.Background(), conn, "users", query.Locality(99)); err == nil {
		t.Error("expected error for unknown locality")
	}
}

func TestAddRegion(t *testing.T) {
	conn, mock := mockConn(t, compile.Cockroach)
	mock.ExpectExec(`ALTER DATABASE "app" ADD REGION "us-east1"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	e := For(compile.Cockroach).(*CockroachEditor)
	if err := e.AddRegion(context.Background(), conn, "app", "us-east1"); err != nil {
		t.Fatalf("add region: %v", err)
	}
}
