package database

import (
	"context"
	"database/sql"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// RetryConfig controls retry behavior for transient database failures.
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

// DefaultRetryConfig returns sensible defaults for database operations.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// RetryWithBackoff runs fn, retrying transient failures with exponential
// backoff until the attempt budget is exhausted or ctx is done.
func RetryWithBackoff(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if !isRetryableError(lastErr) || attempt == cfg.MaxAttempts {
			return lastErr
		}

		wait := delay
		if cfg.Jitter {
			wait += time.Duration(rand.Int63n(int64(delay) / 2))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return lastErr
}

// WithRetry runs fn with the default retry configuration.
func WithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	return RetryWithBackoff(ctx, DefaultRetryConfig(), fn)
}

// sqlState extracts the SQLSTATE code from a database error, supporting both
// the bun pgdriver and pgx error types.
func sqlState(err error) string {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C')
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}

	return ""
}

// isRetryableError reports whether an error is transient and worth retrying.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}

	if state := sqlState(err); state != "" {
		switch state {
		case "40001", // serialization_failure
			"40P01",  // deadlock_detected
			"53000",  // insufficient_resources
			"53100",  // disk_full
			"53200",  // out_of_memory
			"53300",  // too_many_connections
			"57P03":  // cannot_connect_now
			return true
		}
		if strings.HasPrefix(state, "08") { // connection exceptions
			return true
		}
		// Constraint violations and syntax errors never succeed on retry
		if strings.HasPrefix(state, "23") || strings.HasPrefix(state, "42") {
			return false
		}
		return false
	}

	// Driver-level failures without a SQLSTATE (broken pipes, resets)
	msg := strings.ToLower(err.Error())
	for _, fragment := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"i/o timeout",
		"unexpected eof",
	} {
		if strings.Contains(msg, fragment) {
			return true
		}
	}

	return false
}
