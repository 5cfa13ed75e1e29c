package twophase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/crossql/crossql/backend"
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

func TestPostgresParticipantProtocol(t *testing.T) {
	conn, mock := mockConn(t, compile.Postgres)
	ctx := context.Background()
	p := NewPostgresParticipant("orders", conn)

	ok := sqlmock.NewResult(0, 0)
	mock.ExpectExec("BEGIN").WillReturnResult(ok)
	mock.ExpectExec("PREPARE TRANSACTION 'tx-1'").WillReturnResult(ok)
	mock.ExpectExec("COMMIT PREPARED 'tx-1'").WillReturnResult(ok)

	if err := p.Begin(ctx); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := p.Prepare(ctx, "tx-1"); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := p.CommitPrepared(ctx, "tx-1"); err != nil {
		t.Fatalf("commit prepared: %v", err)
	}
	if p.Name() != "orders" {
		t.Errorf("Name = %q", p.Name())
	}
}

func TestPostgresParticipantRollbackPaths(t *testing.T) {
	conn, mock := mockConn(t, compile.Postgres)
	ctx := context.Background()
	p := NewPostgresParticipant("orders", conn)

	ok := sqlmock.NewResult(0, 0)
	mock.ExpectExec("ROLLBACK PREPARED 'tx-1'").WillReturnResult(ok)
	mock.ExpectExec("ROLLBACK").WillReturnResult(ok)

	if err := p.RollbackPrepared(ctx, "tx-1"); err != nil {
		t.Fatalf("rollback prepared: %v", err)
	}
	if err := p.Rollback(ctx); err != nil {
		t.Fatalf("rollback: %v", err)
	}
}

func TestPostgresParticipantRecover(t *testing.T) {
	conn, mock := mockConn(t, compile.Postgres)
	p := NewPostgresParticipant("orders", conn)

	mock.ExpectQuery("SELECT gid FROM pg_prepared_xacts").
		WillReturnRows(sqlmock.NewRows([]string{"gid"}).AddRow("tx-a").AddRow("tx-b"))

	xids, err := p.Recover(context.Background())
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if len(xids) != 2 || xids[0] != "tx-a" || xids[1] != "tx-b" {
		t.Errorf("xids = %v", xids)
	}
}

func TestMySQLParticipantProtocol(t *testing.T) {
	conn, mock := mockConn(t, compile.MySQL)
	ctx := context.Background()
	p := NewMySQLParticipant("billing", conn, "tx-9")

	ok := sqlmock.NewResult(0, 0)
	mock.ExpectExec("XA START 'tx-9'").WillReturnResult(ok)
	// XA requires END before PREPARE.
	mock.ExpectExec("XA END 'tx-9'").WillReturnResult(ok)
	mock.ExpectExec("XA PREPARE 'tx-9'").WillReturnResult(ok)
	mock.ExpectExec("XA COMMIT 'tx-9'").WillReturnResult(ok)

	if err := p.Begin(ctx); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := p.Prepare(ctx, "tx-9"); err != nil {
		t.Fatalf("prepare: %v", err)
	}
	if err := p.CommitPrepared(ctx, "tx-9"); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestMySQLParticipantRollback(t *testing.T) {
	conn, mock := mockConn(t, compile.MySQL)
	p := NewMySQLParticipant("billing", conn, "tx-9")

	ok := sqlmock.NewResult(0, 0)
	mock.ExpectExec("XA END 'tx-9'").WillReturnResult(ok)
	mock.ExpectExec("XA ROLLBACK 'tx-9'").WillReturnResult(ok)

	if err := p.Rollback(context.Background()); err != nil {
		t.Fatalf("rollback: %v", err)
	}
}

func TestMySQLParticipantRecover(t *testing.T) {
	conn, mock := mockConn(t, compile.MySQL)
	p := NewMySQLParticipant("billing", conn, "tx-9")

	mock.ExpectQuery("XA RECOVER").
		WillReturnRows(sqlmock.NewRows([]string{"formatID", "gtrid_length", "bqual_length", "data"}).
			AddRow(1, 4, 0, "tx-a"))

	xids, err := p.Recover(context.Background())
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if len(xids) != 1 || xids[0] != "tx-a" {
		t.Errorf("xids = %v", xids)
	}
}

func TestQuoteXidEscapes(t *testing.T) {
	if got := quoteXid("a'b"); got != "'a''b'" {
		t.Errorf("quoteXid = %s", got)
	}
}
