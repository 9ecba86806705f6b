package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sandnico/rsvp-service/internal/domain"
)

// SQLSTATE codes the pipeline cares about. Classification is a code
// match on the typed pgconn error, never a scan of the message text.
const (
	codeUniqueViolation = "23505"
	codeUndefinedTable  = "42P01"
	codeInvalidCatalog  = "3D000" // database does not exist
	codeInvalidPassword = "28P01"
	classConnection     = "08" // connection exception class
)

// mapError translates a pgx failure into the domain taxonomy: unique
// violations become conflicts, missing schema or bad credentials become
// configuration errors, connection class failures become transient.
// Anything else is passed through wrapped, and surfaces as a generic
// server error.
func mapError(op string, err error, name string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation:
			return &domain.ConflictError{Name: name}
		case pgErr.Code == codeUndefinedTable, pgErr.Code == codeInvalidCatalog:
			return &domain.ConfigurationError{Reason: "guests schema is missing", Err: err}
		case pgErr.Code == codeInvalidPassword:
			return &domain.ConfigurationError{Reason: "database credentials rejected", Err: err}
		case strings.HasPrefix(pgErr.Code, classConnection):
			return &domain.TransientError{Op: op, Err: err}
		}
	}

	if pgconn.SafeToRetry(err) {
		return &domain.TransientError{Op: op, Err: err}
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return &domain.TransientError{Op: op, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &domain.TransientError{Op: op, Err: err}
	}

	return fmt.Errorf("%s: %w", op, err)
}
