package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/member-center/internal/domain"
)

func TestToDomainErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      string
		status    int
		retryable bool
	}{
		{
			name:   "missing row",
			err:    pgx.ErrNoRows,
			code:   "NOT_FOUND",
			status: http.StatusNotFound,
		},
		{
			name:   "data integrity sentinel",
			err:    fmt.Errorf("benefit X: %w", domain.ErrDataIntegrity),
			code:   "DATA_INTEGRITY",
			status: http.StatusInternalServerError,
		},
		{
			// A racing writer can hit the unique index after the service's
			// pre-check passed; that is a conflict, not a server fault.
			name:   "unique violation",
			err:    &pgconn.PgError{Code: "23505", ConstraintName: "members_email_key"},
			code:   "CONFLICT",
			status: http.StatusConflict,
		},
		{
			name:      "deadline exceeded",
			err:       context.DeadlineExceeded,
			code:      "TRANSIENT",
			status:    http.StatusServiceUnavailable,
			retryable: true,
		},
		{
			name:      "serialization failure",
			err:       &pgconn.PgError{Code: "40001"},
			code:      "TRANSIENT",
			status:    http.StatusServiceUnavailable,
			retryable: true,
		},
		{
			name:      "connection exception",
			err:       &pgconn.PgError{Code: "08006"},
			code:      "TRANSIENT",
			status:    http.StatusServiceUnavailable,
			retryable: true,
		},
		{
			name:   "anything else",
			err:    errors.New("boom"),
			code:   "INTERNAL_ERROR",
			status: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			de := ToDomainError(tc.err)
			require.NotNil(t, de)
			assert.Equal(t, tc.code, de.Code)
			assert.Equal(t, tc.status, de.HTTPStatus)
			assert.Equal(t, tc.retryable, de.Retryable())
		})
	}
}

func TestToDomainErrorPassesThroughDomainErrors(t *testing.T) {
	original := NewDuplicateEnrollment(7)
	de := ToDomainError(fmt.Errorf("enroll: %w", original))
	assert.Equal(t, "DUPLICATE_ENROLLMENT", de.Code)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)
}

func TestUniqueViolationConflictCarriesConstraint(t *testing.T) {
	de := ToDomainError(&pgconn.PgError{Code: "23505", ConstraintName: "members_email_key"})
	assert.Equal(t, "members_email_key", de.Details["constraint"])
}
