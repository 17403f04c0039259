package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/member-center/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the caller may safely retry the whole operation.
// Only transient store faults qualify; every other kind needs input correction.
func (e *DomainError) Retryable() bool {
	return e.Code == "TRANSIENT"
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

// NewIneligible reports a failed eligibility evaluation with the rule reasons.
func NewIneligible(reasons []string) error {
	return NewDomainError("INELIGIBLE", "member is not eligible for this benefit", http.StatusBadRequest,
		map[string]any{"reasons": reasons})
}

// NewDuplicateEnrollment reports an already-active enrollment for the pair.
func NewDuplicateEnrollment(benefitID int64) error {
	return NewDomainError("DUPLICATE_ENROLLMENT", "an active enrollment for this benefit already exists", http.StatusConflict,
		map[string]any{"benefit_id": benefitID})
}

// NewBenefitInactive reports an enrollment attempt against a retired plan.
func NewBenefitInactive(planCode string) error {
	return NewDomainError("BENEFIT_INACTIVE", "benefit is not open for enrollment", http.StatusBadRequest,
		map[string]any{"plan_code": planCode})
}

// NewAlreadyCancelled reports a cancel of an enrollment that is already
// inactive. Callers should treat it as non-fatal.
func NewAlreadyCancelled(enrollmentID int64) error {
	return NewDomainError("ALREADY_CANCELLED", "enrollment is already cancelled", http.StatusBadRequest,
		map[string]any{"enrollment_id": enrollmentID})
}

// NewDataIntegrity reports a corrupt catalog or ledger row.
func NewDataIntegrity(err error) error {
	return &DomainError{
		Code:       "DATA_INTEGRITY",
		Message:    "data integrity violation",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewTransient reports a store fault that is safe to retry as a whole.
func NewTransient(err error) error {
	return &DomainError{
		Code:       "TRANSIENT",
		Message:    "temporary storage failure, retry the request",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError. Store-level errors
// are classified here so services can return them unchanged: missing rows map
// to NOT_FOUND, integrity faults to DATA_INTEGRITY, and timeouts or broken
// connections to TRANSIENT.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource", nil).(*DomainError)
	}
	if errors.Is(err, domain.ErrDataIntegrity) {
		return NewDataIntegrity(err).(*DomainError)
	}
	// A unique violation that escapes the repositories means two writers
	// raced past a pre-check; the request conflicts with committed state.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return NewConflict("resource already exists",
			map[string]any{"constraint": pgErr.ConstraintName}).(*DomainError)
	}
	if isTransient(err) {
		return NewTransient(err).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 {
		// Class 08: connection exceptions; class 40: transaction rollbacks
		// such as serialization failures and deadlocks.
		class := pgErr.Code[:2]
		return class == "08" || class == "40"
	}
	return false
}

func MapError(err error) error {
	return ToDomainError(err)
}
