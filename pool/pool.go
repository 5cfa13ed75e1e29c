// Package pool manages the lifecycle of backend connections. Acquire and
// Release are the only way connections cross task boundaries; capacity is
// tracked with a permit channel so blocked acquires stay cancellable.
package pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/crossql/crossql/backend"
	"github.com/crossql/crossql/query/compile"
)

var (
	// ErrClosed is returned by Acquire after Close; callers should not
	// retry.
	ErrClosed = errors.New("pool: closed")

	// ErrAcquireTimeout is returned when no connection became available
	// within the configured timeout; callers may retry later.
	ErrAcquireTimeout = errors.New("pool: acquire timed out")
)

// ConfigError reports invalid pool bounds. It is fatal at construction;
// a pool is never created with a bad config.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "pool: invalid config: " + e.Reason }

// Config bounds the pool.
type Config struct {
	// MinConns connections are opened eagerly at construction.
	MinConns int
	// MaxConns caps concurrently checked-out plus idle connections.
	// Must be at least 1.
	MaxConns int
	// TestBeforeAcquire pings each connection before handing it out,
	// discarding and replacing broken ones.
	TestBeforeAcquire bool
	// AcquireTimeout bounds how long Acquire blocks. Zero means block
	// until the caller's context is done.
	AcquireTimeout time.Duration
}

func (c Config) validate() error {
	if c.MaxConns < 1 {
		return &ConfigError{Reason: "max connections must be at least 1"}
	}
	if c.MinConns < 0 {
		return &ConfigError{Reason: "min connections must not be negative"}
	}
	if c.MinConns > c.MaxConns {
		return &ConfigError{Reason: fmt.Sprintf("min connections (%d) exceeds max connections (%d)", c.MinConns, c.MaxConns)}
	}
	return nil
}

// Pool hands out exclusively owned connections up to MaxConns.
type Pool struct {
	db     *backend.DB
	cfg    Config
	logger *slog.Logger

	// permits holds one token per allowed connection. Taking a token
	// grants the exclusive right to one connection; idle carries
	// connections kept open between checkouts. A connection is never
	// referenced by both a checkout and the idle list at once, which is
	// what makes duplicate handout impossible.
	permits chan struct{}
	idle    chan *backend.Conn

	closed    chan struct{}
	closeOnce sync.Once
}

// New validates the config, connects to the database named by url, and
// opens MinConns connections eagerly. Config violations fail here, never
// at first acquisition.
func New(url string, cfg Config, logger *slog.Logger) (*Pool, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	db, err := backend.Open(url, logger)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MaxConns)

	p := &Pool{
		db:      db,
		cfg:     cfg,
		logger:  logger,
		permits: make(chan struct{}, cfg.MaxConns),
		idle:    make(chan *backend.Conn, cfg.MaxConns),
		closed:  make(chan struct{}),
	}
	for i := 0; i < cfg.MaxConns; i++ {
		p.permits <- struct{}{}
	}

	for i := 0; i < cfg.MinConns; i++ {
		conn, err := db.Conn(context.Background())
		if err != nil {
			p.Close()
			return nil, err
		}
		p.idle <- conn
	}
	return p, nil
}

// Dialect returns the pool's compile dialect.
func (p *Pool) Dialect() compile.Dialect { return p.db.Dialect() }

// Acquire blocks until a connection is available or the pool is at
// capacity with none idle, then returns an exclusively owned connection.
// It fails with ErrClosed once Close has been called, including for
// acquires already blocked at that moment, and with ErrAcquireTimeout
// when AcquireTimeout elapses first. A cancelled acquire returns its
// permit, so cancellation never leaks capacity.
func (p *Pool) Acquire(ctx context.Context) (*backend.Conn, error) {
	select {
	case <-p.closed:
		return nil, ErrClosed
	default:
	}

	if p.cfg.AcquireTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.AcquireTimeout)
		defer cancel()
	}

	// Wait for a permit. The permit is the exclusive claim; only after
	// holding one may we touch the idle list or open a new connection.
	select {
	case <-p.permits:
	case <-p.closed:
		return nil, ErrClosed
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrAcquireTimeout
		}
		return nil, ctx.Err()
	}

	conn, err := p.takeIdleOrDial(ctx)
	if err != nil {
		p.permits <- struct{}{} // return the unused permit
		return nil, err
	}
	return conn, nil
}

func (p *Pool) takeIdleOrDial(ctx context.Context) (*backend.Conn, error) {
	for {
		var conn *backend.Conn
		select {
		case conn = <-p.idle:
		default:
		}
		if conn == nil {
			dialed, err := p.db.Conn(ctx)
			if err != nil {
				return nil, err
			}
			return dialed, nil
		}
		if p.cfg.TestBeforeAcquire {
			if err := conn.Ping(ctx); err != nil {
				// Broken while idle; discard and try the next one.
				p.logger.Warn("pool: discarding broken idle connection", "err", err)
				_ = conn.Close()
				continue
			}
		}
		return conn, nil
	}
}

// Release returns a connection to the pool. The caller must not use the
// connection afterwards. After Close, released connections are simply
// closed.
func (p *Pool) Release(conn *backend.Conn) {
	select {
	case <-p.closed:
		_ = conn.Close()
		return
	default:
	}
	p.idle <- conn
	p.permits <- struct{}{}
	// Close may have drained idle between the check above and the push;
	// drain again so the connection cannot outlive the pool.
	select {
	case <-p.closed:
		p.drainIdle()
	default:
	}
}

// Discard drops a connection known to be broken instead of returning it
// to the idle set. The capacity it held becomes available again.
func (p *Pool) Discard(conn *backend.Conn) {
	_ = conn.Close()
	select {
	case <-p.closed:
		return
	default:
	}
	p.permits <- struct{}{}
}

// Close shuts the pool down. All subsequent and in-flight Acquire calls
// fail with ErrClosed; idle connections are closed. Checked-out
// connections stay valid until released. Safe to call from multiple
// goroutines; every call after the first is a no-op.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.closed)
		p.drainIdle()
		_ = p.db.Close()
	})
}

func (p *Pool) drainIdle() {
	for {
		select {
		case conn := <-p.idle:
			_ = conn.Close()
		default:
			return
		}
	}
}
