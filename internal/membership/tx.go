package membership

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const maxTxRetries = 5

// withTx runs fn inside a write transaction. SQLITE_BUSY and SQLITE_LOCKED
// failures are retried with fibonacci backoff up to maxTxRetries so callers
// never see transient lock contention. Any other error rolls back and is
// returned as-is.
func (s *Service) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	backoff := retry.WithMaxRetries(maxTxRetries, retry.NewFibonacci(10*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			if isBusy(err) {
				return retry.RetryableError(err)
			}
			return fmt.Errorf("begin tx: %w", err)
		}

		if err := fn(tx); err != nil {
			tx.Rollback()
			if isBusy(err) {
				return retry.RetryableError(err)
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			if isBusy(err) {
				return retry.RetryableError(err)
			}
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
}

func isBusy(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		code := serr.Code()
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	return false
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		code := serr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT || code == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}
