package twophase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-sql-driver/mysql"
	"golang.org/x/sync/errgroup"

	"github.com/crossql/crossql/logging"
)

// DanglingError reports a transaction branch left PREPARED on a server
// because the second phase could not reach it. The branch must be
// resolved out of band, e.g. via Recover plus a manual COMMIT PREPARED.
type DanglingError struct {
	Participant string
	Xid         string
	State       TxState
	Cause       error
}

func (e *DanglingError) Error() string {
	return fmt.Sprintf("twophase: dangling transaction %q on %s (%s): %v",
		e.Xid, e.Participant, e.State, e.Cause)
}

func (e *DanglingError) Unwrap() error { return e.Cause }

const maxTransientRetries = 3

// transientErr reports whether an error is worth retrying.
// Deadlocks and lock wait timeouts resolve on their own; everything else
// is treated as permanent.
func transientErr(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1205, 1213: // lock wait timeout, deadlock
			return true
		}
	}
	return false
}

// Coordinator drives one distributed transaction across the enlisted
// participants. It is single-use: Commit or Abort finishes it.
//
// The invariant the coordinator maintains is that a participant that
// reported PREPARED is always driven to a terminal state, and when that
// fails the branch is recorded as dangling rather than forgotten.
type Coordinator struct {
	xid    string
	logger *slog.Logger

	mu           sync.Mutex
	participants []Participant
	states       []TxState
	dangling     []*DanglingError
	done         bool
}

// NewCoordinator creates a coordinator with a fresh transaction id. The
// logger carries the id as tx_id, so every line logged for this
// transaction can be correlated.
func NewCoordinator(logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	logger, xid := logging.ForTransaction(logger)
	return &Coordinator{xid: xid, logger: logger}
}

// Xid returns the transaction id shared by all branches.
func (c *Coordinator) Xid() string { return c.xid }

// Enlist adds a participant and begins its local transaction. All
// enlistment must happen before Commit or Abort.
func (c *Coordinator) Enlist(ctx context.Context, p Participant) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return errors.New("twophase: coordinator already finished")
	}
	if err := p.Begin(ctx); err != nil {
		return fmt.Errorf("twophase: begin on %s: %w", p.Name(), err)
	}
	c.participants = append(c.participants, p)
	c.states = append(c.states, StateActive)
	return nil
}

// Commit runs both phases. Phase one prepares every participant
// concurrently; if any prepare fails, every branch is rolled back and
// the prepare error is returned. Phase two commits the prepared
// branches with bounded retries on transient errors; a branch that
// still cannot commit is recorded as dangling and reported in the
// returned error, while the remaining branches are still committed.
func (c *Coordinator) Commit(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return errors.New("twophase: coordinator already finished")
	}
	c.done = true

	if err := c.prepareAll(ctx); err != nil {
		c.rollbackAll(ctx)
		return err
	}

	var errs []error
	for i, p := range c.participants {
		if err := c.phaseTwo(ctx, p, p.CommitPrepared); err != nil {
			d := &DanglingError{Participant: p.Name(), Xid: c.xid, State: StatePrepared, Cause: err}
			c.dangling = append(c.dangling, d)
			errs = append(errs, d)
			c.logger.Error("commit prepared failed, transaction dangling",
				"participant", p.Name(), "err", err)
			continue
		}
		c.states[i] = StateCommitted
		c.logger.Debug("participant committed", "participant", p.Name())
	}
	return errors.Join(errs...)
}

// Abort rolls every branch back. Safe to call instead of Commit; after
// prepare failures Commit already rolls back on its own.
func (c *Coordinator) Abort(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done {
		return errors.New("twophase: coordinator already finished")
	}
	c.done = true
	c.rollbackAll(ctx)
	return nil
}

// Dangling returns the branches left prepared on their servers after a
// failed phase two. Empty on the happy path.
func (c *Coordinator) Dangling() []*DanglingError {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*DanglingError, len(c.dangling))
	copy(out, c.dangling)
	return out
}

func (c *Coordinator) prepareAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	prepared := make([]bool, len(c.participants))
	for i, p := range c.participants {
		i, p := i, p
		g.Go(func() error {
			// Transient connection errors get a bounded retry; a logical
			// prepare refusal aborts the whole transaction immediately.
			var err error
			for attempt := 0; attempt <= maxTransientRetries; attempt++ {
				err = p.Prepare(gctx, c.xid)
				if err == nil || !transientErr(err) {
					break
				}
				c.logger.Warn("transient prepare error, retrying",
					"participant", p.Name(), "attempt", attempt+1, "err", err)
			}
			if err != nil {
				return fmt.Errorf("twophase: prepare on %s: %w", p.Name(), err)
			}
			prepared[i] = true
			return nil
		})
	}
	err := g.Wait()
	for i := range c.participants {
		if prepared[i] {
			c.states[i] = StatePrepared
		}
	}
	return err
}

// rollbackAll aborts every branch according to its state. Rollback
// failures are logged and, for prepared branches, recorded as dangling;
// an abort path never masks the original error.
func (c *Coordinator) rollbackAll(ctx context.Context) {
	for i, p := range c.participants {
		switch c.states[i] {
		case StatePrepared:
			if err := c.phaseTwo(ctx, p, p.RollbackPrepared); err != nil {
				d := &DanglingError{Participant: p.Name(), Xid: c.xid, State: StatePrepared, Cause: err}
				c.dangling = append(c.dangling, d)
				c.logger.Error("rollback prepared failed, transaction dangling",
					"participant", p.Name(), "err", err)
				continue
			}
			c.states[i] = StateAborted
		case StateActive:
			if err := p.Rollback(ctx); err != nil {
				c.logger.Warn("rollback failed", "participant", p.Name(), "err", err)
				continue
			}
			c.states[i] = StateAborted
		}
	}
}

// phaseTwo applies a commit-prepared or rollback-prepared with bounded
// retries on transient errors.
func (c *Coordinator) phaseTwo(ctx context.Context, p Participant, op func(context.Context, string) error) error {
	var err error
	for attempt := 0; attempt <= maxTransientRetries; attempt++ {
		err = op(ctx, c.xid)
		if err == nil || !transientErr(err) {
			return err
		}
		c.logger.Warn("transient phase-two error, retrying",
			"participant", p.Name(), "attempt", attempt+1, "err", err)
	}
	return err
}

// Recover asks each participant for transaction ids still prepared on
// its server and reports them. It resolves nothing itself; pairing an
// xid with an outcome needs the coordinator's log, which lives with the
// caller.
func Recover(ctx context.Context, participants ...Participant) (map[string][]string, error) {
	out := make(map[string][]string, len(participants))
	for _, p := range participants {
		xids, err := p.Recover(ctx)
		if err != nil {
			return nil, err
		}
		if len(xids) > 0 {
			out[p.Name()] = xids
		}
	}
	return out, nil
}
