package testutil

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alexanderramin/fiberpay/internal/db"
)

// ErrInjected is returned by FailOnNthExecUoW when Err is nil.
var ErrInjected = errors.New("injected exec failure")

// FailOnNthExecUoW runs the real SQLite unit of work but fails the FailOn-th
// write (1-based) inside it. Reads are not counted. Export tests use it to
// break a multi-table write partway through.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	failErr := u.Err
	if failErr == nil {
		failErr = ErrInjected
	}
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &execCounter{DBTX: tx, failOn: u.FailOn, err: failErr})
	})
}

// execCounter is used from a single goroutine within one transaction.
type execCounter struct {
	db.DBTX
	n      int
	failOn int
	err    error
}

func (c *execCounter) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c.n++
	if c.n == c.failOn {
		return nil, c.err
	}
	return c.DBTX.ExecContext(ctx, query, args...)
}
