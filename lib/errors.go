package lib

import (
	"errors"

	"github.com/uptrace/bun/driver/pgdriver"
)

// Core error taxonomy. Callers match with errors.Is; messages are wrapped
// with %w so the human-readable detail travels with the class.
var (
	ErrAuthRequired     = errors.New("authentication required")
	ErrNotFound         = errors.New("not found")
	ErrDataUnavailable  = errors.New("remote store unavailable")
	ErrValidationFailed = errors.New("validation failed")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrConflict         = errors.New("conflict")
)

// MapPgError translates Postgres SQLSTATE errors into the taxonomy above.
func MapPgError(err error) error {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Field('C') { // SQLSTATE
		case "23505": // unique_violation
			return ErrConflict
		case "P0002": // no_data_found
			return ErrNotFound
		}
	}
	return err
}
