package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrRetryExhausted is returned when a transaction kept conflicting with
// concurrent writers past the retry budget. The last underlying error is
// wrapped and can be inspected with errors.Unwrap.
var ErrRetryExhausted = errors.New("transaction retries exhausted")

// RunInTxRetry executes fn inside a transaction and re-runs it from scratch
// when the store reports a conflict with a concurrent writer. fn must
// re-read everything it depends on each attempt; decisions made on a
// previous attempt are void.
func RunInTxRetry(ctx context.Context, conn *gorm.DB, attempts int, fn func(tx *gorm.DB) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		lastErr = conn.WithContext(ctx).Transaction(fn)
		if lastErr == nil {
			return nil
		}
		if !isRetryableTxErr(lastErr) {
			return lastErr
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i+1) * 10 * time.Millisecond):
		}
	}
	return fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
}
