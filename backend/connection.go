// Package backend provides the uniform execute/fetch/transaction surface
// over a concrete database/sql driver. A Conn wraps exactly one physical
// connection and is exclusively owned while checked out of the pool.
package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	// Drivers for the supported dialects. CockroachDB uses the pgx
	// driver; registration happens in these packages' init functions.
	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/crossql/crossql/dburl"
	"github.com/crossql/crossql/logging"
	"github.com/crossql/crossql/query/compile"
	"github.com/crossql/crossql/value"
)

// keep the pgx stdlib import explicit; its driver name is "pgx".
var _ = stdlib.GetDefaultDriver

// ErrNoRows is returned by FetchOne when the query matches nothing.
var ErrNoRows = errors.New("backend: no rows in result set")

// DialectFor maps a dburl dialect string to its compile.Dialect.
func DialectFor(name string) (compile.Dialect, error) {
	switch name {
	case dburl.DialectPostgres:
		return compile.Postgres, nil
	case dburl.DialectMySQL:
		return compile.MySQL, nil
	case dburl.DialectSQLite:
		return compile.SQLite, nil
	case dburl.DialectCockroach:
		return compile.Cockroach, nil
	default:
		return 0, fmt.Errorf("backend: unknown dialect %q", name)
	}
}

// DB owns the driver-level handle for one database and hands out
// single-connection Conns. The pool package layers checkout bookkeeping
// on top; DB itself performs no pooling policy beyond the driver's.
type DB struct {
	sqldb   *sql.DB
	dialect compile.Dialect
	logger  *slog.Logger
}

// Open connects to the database named by url. The scheme selects the
// driver and dialect.
func Open(url string, logger *slog.Logger) (*DB, error) {
	dialectName, err := dburl.InferDialect(url)
	if err != nil {
		return nil, err
	}
	dialect, err := DialectFor(dialectName)
	if err != nil {
		return nil, err
	}
	driver, err := dburl.DriverName(dialectName)
	if err != nil {
		return nil, err
	}
	dsn, err := dburl.DSN(url)
	if err != nil {
		return nil, err
	}
	sqldb, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("backend: open %s: %w", dialectName, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logging.ForDialect(logger, dialect.String())
	return &DB{sqldb: sqldb, dialect: dialect, logger: logger}, nil
}

// Dialect returns the compile dialect for this database.
func (db *DB) Dialect() compile.Dialect { return db.dialect }

// SetMaxOpenConns caps the driver-level connection count. The pool sets
// this to its own max as a backstop.
func (db *DB) SetMaxOpenConns(n int) { db.sqldb.SetMaxOpenConns(n) }

// Conn checks one physical connection out of the driver.
func (db *DB) Conn(ctx context.Context) (*Conn, error) {
	c, err := db.sqldb.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("backend: acquire connection: %w", err)
	}
	return &Conn{conn: c, dialect: db.dialect, logger: db.logger}, nil
}

// Close releases the driver handle.
func (db *DB) Close() error { return db.sqldb.Close() }

// Conn is one physical database connection. Statements issued on the
// same Conn execute in issue order; the connection is never pipelined.
type Conn struct {
	conn    *sql.Conn
	dialect compile.Dialect
	logger  *slog.Logger
}

// WrapConn adopts an existing driver connection. The counterpart to Raw;
// useful when the connection comes from outside Open, such as a test
// double.
func WrapConn(c *sql.Conn, d compile.Dialect, logger *slog.Logger) *Conn {
	if logger == nil {
		logger = slog.Default()
	}
	return &Conn{conn: c, dialect: d, logger: logging.ForDialect(logger, d.String())}
}

// Result reports the outcome of a statement that returns no rows.
type Result struct {
	RowsAffected int64
	LastInsertID int64
}

// Dialect returns the connection's dialect.
func (c *Conn) Dialect() compile.Dialect { return c.dialect }

// Execute runs a statement that returns no rows.
func (c *Conn) Execute(ctx context.Context, sqlText string, vals value.Values) (Result, error) {
	start := time.Now()
	res, err := c.conn.ExecContext(ctx, sqlText, vals.Args()...)
	c.logQuery(sqlText, len(vals), start, err)
	if err != nil {
		return Result{}, fmt.Errorf("backend: execute: %w", err)
	}
	out := Result{}
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}
	return out, nil
}

// FetchAll runs a query and materializes every row.
func (c *Conn) FetchAll(ctx context.Context, sqlText string, vals value.Values) ([]Row, error) {
	start := time.Now()
	rows, err := c.conn.QueryContext(ctx, sqlText, vals.Args()...)
	c.logQuery(sqlText, len(vals), start, err)
	if err != nil {
		return nil, fmt.Errorf("backend: fetch: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// FetchOne runs a query expected to match at most one row. ErrNoRows is
// returned when it matches none.
func (c *Conn) FetchOne(ctx context.Context, sqlText string, vals value.Values) (Row, error) {
	all, err := c.FetchAll(ctx, sqlText, vals)
	if err != nil {
		return Row{}, err
	}
	if len(all) == 0 {
		return Row{}, ErrNoRows
	}
	return all[0], nil
}

// Begin starts a transaction on this connection.
func (c *Conn) Begin(ctx context.Context) (*Tx, error) {
	tx, err := c.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("backend: begin: %w", err)
	}
	return &Tx{tx: tx, dialect: c.dialect, logger: c.logger}, nil
}

// Ping validates the physical connection. The pool calls this when
// TestBeforeAcquire is set.
func (c *Conn) Ping(ctx context.Context) error {
	return c.conn.PingContext(ctx)
}

// Raw exposes the underlying sql.Conn for driver-specific escapes.
func (c *Conn) Raw() *sql.Conn { return c.conn }

// Close returns the physical connection to the driver.
func (c *Conn) Close() error { return c.conn.Close() }

func (c *Conn) logQuery(sqlText string, nvals int, start time.Time, err error) {
	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelWarn
	}
	c.logger.Log(context.Background(), level, "query",
		"sql", sqlText,
		"params", nvals,
		"duration_ms", float64(time.Since(start).Nanoseconds())/1e6,
		"err", err,
	)
}

// Tx is a transaction scoped to one Conn.
type Tx struct {
	tx      *sql.Tx
	dialect compile.Dialect
	logger  *slog.Logger
}

// Execute runs a statement inside the transaction.
func (t *Tx) Execute(ctx context.Context, sqlText string, vals value.Values) (Result, error) {
	res, err := t.tx.ExecContext(ctx, sqlText, vals.Args()...)
	if err != nil {
		return Result{}, fmt.Errorf("backend: tx execute: %w", err)
	}
	out := Result{}
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	return out, nil
}

// FetchAll runs a query inside the transaction.
func (t *Tx) FetchAll(ctx context.Context, sqlText string, vals value.Values) ([]Row, error) {
	rows, err := t.tx.QueryContext(ctx, sqlText, vals.Args()...)
	if err != nil {
		return nil, fmt.Errorf("backend: tx fetch: %w", err)
	}
	defer rows.Close()
	return scanRows(rows)
}

// Commit commits the transaction.
func (t *Tx) Commit() error { return t.tx.Commit() }

// Rollback aborts the transaction.
func (t *Tx) Rollback() error { return t.tx.Rollback() }
