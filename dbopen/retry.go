// CLAUDE:SUMMARY SQLITE_BUSY detection and retrying transaction/statement helpers.
package dbopen

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// The decision log is written from both the HTTP and MCP surfaces, so two
// promotes can collide on the single writer lock. Retries are few and short:
// with busy_timeout set, a lock held longer than the full backoff means a
// wedged writer, not contention worth waiting out.
const (
	maxRetries   = 3
	retryBackoff = 100 * time.Millisecond
)

// IsBusy reports whether err indicates an SQLite BUSY condition
// (SQLITE_BUSY, "database is locked", "database table is locked").
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// RunTx executes fn inside a transaction, retrying the whole transaction on
// SQLITE_BUSY with linear backoff (100 ms, then 200 ms). fn must be safe to
// run more than once.
//
//	err := dbopen.RunTx(ctx, db, func(tx *sql.Tx) error {
//		_, err := tx.ExecContext(ctx, `INSERT INTO decisions ...`)
//		return err
//	})
func RunTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	var err error
	for attempt := range maxRetries {
		if err = waitRetry(ctx, attempt); err != nil {
			return err
		}
		if err = runOnce(ctx, db, fn); err == nil || !IsBusy(err) {
			return err
		}
	}
	return fmt.Errorf("dbopen: RunTx: still busy after %d attempts: %w", maxRetries, err)
}

// Exec executes a single statement with the same busy-retry policy as RunTx.
func Exec(ctx context.Context, db *sql.DB, query string, args ...any) (sql.Result, error) {
	var err error
	for attempt := range maxRetries {
		if err = waitRetry(ctx, attempt); err != nil {
			return nil, err
		}
		var result sql.Result
		if result, err = db.ExecContext(ctx, query, args...); err == nil || !IsBusy(err) {
			return result, err
		}
	}
	return nil, fmt.Errorf("dbopen: Exec: still busy after %d attempts: %w", maxRetries, err)
}

func runOnce(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("dbopen: begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("dbopen: commit: %w", err)
	}
	return nil
}

// waitRetry sleeps attempt*retryBackoff, honoring cancellation. Attempt 0
// does not sleep.
func waitRetry(ctx context.Context, attempt int) error {
	if attempt == 0 {
		return nil
	}
	t := time.NewTimer(time.Duration(attempt) * retryBackoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("dbopen: context cancelled during retry: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
