// Package twophase coordinates atomic commits across several databases
// with the two-phase commit protocol. Phase one prepares every enlisted
// participant; phase two commits the prepared transactions. Once a
// participant reports PREPARED its transaction survives crashes, so the
// coordinator must eventually resolve it one way or the other.
package twophase

import (
	"context"
	"fmt"
	"strings"

	"github.com/crossql/crossql/backend"
)

// TxState tracks where a participant's branch is in the protocol.
type TxState int

const (
	StateActive TxState = iota
	StatePrepared
	StateCommitted
	StateAborted
)

func (s TxState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePrepared:
		return "prepared"
	case StateCommitted:
		return "committed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("TxState(%d)", int(s))
	}
}

// Participant is one database taking part in a distributed commit. All
// calls for one transaction happen on the same underlying connection;
// prepared-transaction state is connection-independent on the server.
type Participant interface {
	// Name identifies the participant in logs and dangling reports.
	Name() string

	// Begin opens the local transaction. Work executed on the
	// participant's connection after Begin belongs to it.
	Begin(ctx context.Context) error

	// Prepare moves the local transaction to PREPARED under the given
	// transaction id. After Prepare returns nil the transaction can only
	// be resolved by CommitPrepared or RollbackPrepared.
	Prepare(ctx context.Context, xid string) error

	// CommitPrepared commits a previously prepared transaction.
	CommitPrepared(ctx context.Context, xid string) error

	// RollbackPrepared aborts a previously prepared transaction.
	RollbackPrepared(ctx context.Context, xid string) error

	// Rollback aborts a transaction that has not been prepared.
	Rollback(ctx context.Context) error

	// Recover lists transaction ids left prepared on the server, e.g.
	// after a coordinator crash.
	Recover(ctx context.Context) ([]string, error)

	// Conn exposes the participant's connection for executing the
	// transaction's work between Begin and Prepare.
	Conn() *backend.Conn
}

// quoteXid embeds a transaction id in single quotes. Ids are generated
// UUIDs, but escape anyway so a hostile id cannot break out.
func quoteXid(xid string) string {
	return "'" + strings.ReplaceAll(xid, "'", "''") + "'"
}

// PostgresParticipant speaks PostgreSQL's prepared-transaction DDL. The
// server must have max_prepared_transactions > 0. CockroachDB is not
// supported; it has no PREPARE TRANSACTION.
type PostgresParticipant struct {
	name string
	conn *backend.Conn
}

// NewPostgresParticipant wraps a connection as a 2PC participant.
func NewPostgresParticipant(name string, conn *backend.Conn) *PostgresParticipant {
	return &PostgresParticipant{name: name, conn: conn}
}

func (p *PostgresParticipant) Name() string        { return p.name }
func (p *PostgresParticipant) Conn() *backend.Conn { return p.conn }

func (p *PostgresParticipant) Begin(ctx context.Context) error {
	_, err := p.conn.Execute(ctx, "BEGIN", nil)
	return err
}

func (p *PostgresParticipant) Prepare(ctx context.Context, xid string) error {
	_, err := p.conn.Execute(ctx, "PREPARE TRANSACTION "+quoteXid(xid), nil)
	return err
}

func (p *PostgresParticipant) CommitPrepared(ctx context.Context, xid string) error {
	_, err := p.conn.Execute(ctx, "COMMIT PREPARED "+quoteXid(xid), nil)
	return err
}

func (p *PostgresParticipant) RollbackPrepared(ctx context.Context, xid string) error {
	_, err := p.conn.Execute(ctx, "ROLLBACK PREPARED "+quoteXid(xid), nil)
	return err
}

func (p *PostgresParticipant) Rollback(ctx context.Context) error {
	_, err := p.conn.Execute(ctx, "ROLLBACK", nil)
	return err
}

func (p *PostgresParticipant) Recover(ctx context.Context) ([]string, error) {
	rows, err := p.conn.FetchAll(ctx, "SELECT gid FROM pg_prepared_xacts", nil)
	if err != nil {
		return nil, fmt.Errorf("twophase: recover %s: %w", p.name, err)
	}
	xids := make([]string, 0, len(rows))
	for _, row := range rows {
		gid, err := row.String("gid")
		if err != nil {
			return nil, fmt.Errorf("twophase: recover %s: %w", p.name, err)
		}
		xids = append(xids, gid)
	}
	return xids, nil
}

// MySQLParticipant speaks MySQL's XA protocol. XA END must run before
// XA PREPARE; Begin and Prepare handle the pairing.
type MySQLParticipant struct {
	name string
	conn *backend.Conn
	xid  string
}

// NewMySQLParticipant wraps a connection as an XA participant. The xid
// is fixed at construction because XA START needs it before any work
// runs.
func NewMySQLParticipant(name string, conn *backend.Conn, xid string) *MySQLParticipant {
	return &MySQLParticipant{name: name, conn: conn, xid: xid}
}

func (p *MySQLParticipant) Name() string        { return p.name }
func (p *MySQLParticipant) Conn() *backend.Conn { return p.conn }

func (p *MySQLParticipant) Begin(ctx context.Context) error {
	_, err := p.conn.Execute(ctx, "XA START "+quoteXid(p.xid), nil)
	return err
}

func (p *MySQLParticipant) Prepare(ctx context.Context, xid string) error {
	if _, err := p.conn.Execute(ctx, "XA END "+quoteXid(p.xid), nil); err != nil {
		return err
	}
	_, err := p.conn.Execute(ctx, "XA PREPARE "+quoteXid(p.xid), nil)
	return err
}

func (p *MySQLParticipant) CommitPrepared(ctx context.Context, xid string) error {
	_, err := p.conn.Execute(ctx, "XA COMMIT "+quoteXid(p.xid), nil)
	return err
}

func (p *MySQLParticipant) RollbackPrepared(ctx context.Context, xid string) error {
	_, err := p.conn.Execute(ctx, "XA ROLLBACK "+quoteXid(p.xid), nil)
	return err
}

func (p *MySQLParticipant) Rollback(ctx context.Context) error {
	if _, err := p.conn.Execute(ctx, "XA END "+quoteXid(p.xid), nil); err != nil {
		return err
	}
	_, err := p.conn.Execute(ctx, "XA ROLLBACK "+quoteXid(p.xid), nil)
	return err
}

func (p *MySQLParticipant) Recover(ctx context.Context) ([]string, error) {
	rows, err := p.conn.FetchAll(ctx, "XA RECOVER", nil)
	if err != nil {
		return nil, fmt.Errorf("twophase: recover %s: %w", p.name, err)
	}
	xids := make([]string, 0, len(rows))
	for _, row := range rows {
		data, err := row.String("data")
		if err != nil {
			return nil, fmt.Errorf("twophase: recover %s: %w", p.name, err)
		}
		xids = append(xids, data)
	}
	return xids, nil
}
