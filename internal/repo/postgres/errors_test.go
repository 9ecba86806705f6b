package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandnico/rsvp-service/internal/domain"
)

func TestMapErrorUniqueViolation(t *testing.T) {
	err := mapError("insert guest", &pgconn.PgError{Code: "23505"}, "Alice Martin")

	require.True(t, domain.IsConflict(err))
	var ce *domain.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Alice Martin", ce.Name)
}

func TestMapErrorMissingSchema(t *testing.T) {
	for _, code := range []string{"42P01", "3D000"} {
		err := mapError("insert guest", &pgconn.PgError{Code: code}, "")
		assert.True(t, domain.IsConfiguration(err), "code %s", code)
	}
}

func TestMapErrorBadCredentials(t *testing.T) {
	err := mapError("select guests", &pgconn.PgError{Code: "28P01"}, "")

	require.True(t, domain.IsConfiguration(err))
	var ce *domain.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "database credentials rejected", ce.Reason)
}

func TestMapErrorConnectionClassIsTransient(t *testing.T) {
	for _, code := range []string{"08000", "08006", "08001"} {
		err := mapError("insert guest", &pgconn.PgError{Code: code}, "")
		assert.True(t, domain.IsTransient(err), "code %s", code)
	}
}

func TestMapErrorTimeoutIsTransient(t *testing.T) {
	err := mapError("select guests", fmt.Errorf("query: %w", context.DeadlineExceeded), "")
	assert.True(t, domain.IsTransient(err))
}

func TestMapErrorUnknownPassesThrough(t *testing.T) {
	cause := errors.New("division by zero")
	err := mapError("update guest", cause, "")

	assert.False(t, domain.IsTransient(err))
	assert.False(t, domain.IsConflict(err))
	assert.False(t, domain.IsConfiguration(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "update guest")
}

func TestMapErrorOtherCheckViolationPassesThrough(t *testing.T) {
	// Only the codes the pipeline handles map to typed errors; a check
	// violation is a plain storage failure.
	err := mapError("insert guest", &pgconn.PgError{Code: "23514"}, "Alice Martin")

	assert.False(t, domain.IsConflict(err))
	assert.False(t, domain.IsConfiguration(err))
}
