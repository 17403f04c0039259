package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/member-center/internal/domain"
	"github.com/spec-kit/member-center/internal/events"
	"github.com/spec-kit/member-center/internal/repository"
	apperrors "github.com/spec-kit/member-center/pkg/util"
)

// EnrollmentService coordinates the enrollment ledger: listing, enrolling and
// cancelling against the eligibility rules.
type EnrollmentService struct {
	members     repository.MemberRepository
	benefits    repository.BenefitRepository
	enrollments repository.EnrollmentRepository
	dispatcher  events.Dispatcher
	now         func() time.Time
}

// EnrollmentDependencies bundles repositories for the enrollment service.
type EnrollmentDependencies struct {
	MemberRepo     repository.MemberRepository
	BenefitRepo    repository.BenefitRepository
	EnrollmentRepo repository.EnrollmentRepository
	Dispatcher     events.Dispatcher
	// Now overrides the clock; nil means wall-clock UTC.
	Now func() time.Time
}

// BeneficiaryInput carries optional beneficiary details for an enrollment.
type BeneficiaryInput struct {
	Name         *string
	Relationship *string
}

// NewEnrollmentService constructs the service.
func NewEnrollmentService(deps EnrollmentDependencies) *EnrollmentService {
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &EnrollmentService{
		members:     deps.MemberRepo,
		benefits:    deps.BenefitRepo,
		enrollments: deps.EnrollmentRepo,
		dispatcher:  deps.Dispatcher,
		now:         now,
	}
}

// ListEnrollments returns the member's enrollments, optionally restricted to
// active ones.
func (s *EnrollmentService) ListEnrollments(ctx context.Context, memberID int64, activeOnly bool) ([]domain.Enrollment, error) {
	if _, err := s.members.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("member", map[string]any{"member_id": memberID})
		}
		return nil, apperrors.MapError(err)
	}
	enrollments, err := s.enrollments.ListByMember(ctx, memberID, activeOnly)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return enrollments, nil
}

// Enroll creates an active enrollment for the member in the benefit. The
// coverage amount and monthly premium are snapshotted from the catalog at
// this instant; the duplicate-active check and the insert run as one
// transaction in the repository.
func (s *EnrollmentService) Enroll(ctx context.Context, memberID, benefitID int64, beneficiary *BeneficiaryInput) (*domain.Enrollment, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("member", map[string]any{"member_id": memberID})
		}
		return nil, apperrors.MapError(err)
	}

	benefit, err := s.benefits.GetByID(ctx, benefitID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("benefit", map[string]any{"benefit_id": benefitID})
		}
		return nil, apperrors.MapError(err)
	}
	if !benefit.IsActive {
		return nil, apperrors.NewBenefitInactive(benefit.PlanCode)
	}

	decision, err := domain.EvaluateEligibility(member, benefit, s.now())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !decision.Eligible {
		return nil, apperrors.NewIneligible(decision.Reasons)
	}

	today := dateOf(s.now())
	enrollment := &domain.Enrollment{
		MemberID:       memberID,
		BenefitID:      benefitID,
		EnrollmentDate: today,
		EffectiveDate:  today,
		CoverageAmount: benefit.CoverageAmount,
		MonthlyPremium: benefit.MonthlyPremium,
	}
	if beneficiary != nil {
		enrollment.BeneficiaryName = beneficiary.Name
		enrollment.BeneficiaryRelationship = beneficiary.Relationship
	}

	if err := s.enrollments.CreateActive(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicateActiveEnrollment) {
			return nil, apperrors.NewDuplicateEnrollment(benefitID)
		}
		return nil, apperrors.MapError(err)
	}
	enrollment.Benefit = benefit

	s.publishEvent(ctx, events.Event{
		Type:     events.EventEnrollmentCreated,
		MemberID: memberID,
		Payload: events.EnrollmentCreatedPayload{
			EnrollmentID:   enrollment.ID,
			BenefitID:      benefitID,
			PlanCode:       benefit.PlanCode,
			CoverageAmount: enrollment.CoverageAmount.String(),
			MonthlyPremium: enrollment.MonthlyPremium.String(),
		},
	})
	return enrollment, nil
}

// Cancel soft-deletes the enrollment. Cancelling twice is an explicit
// ALREADY_CANCELLED error, not a silent no-op, and never overwrites the
// original termination date.
func (s *EnrollmentService) Cancel(ctx context.Context, memberID, enrollmentID int64) error {
	when := dateOf(s.now())
	err := s.enrollments.Cancel(ctx, memberID, enrollmentID, when)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("enrollment", map[string]any{"enrollment_id": enrollmentID})
		}
		if errors.Is(err, repository.ErrAlreadyCancelled) {
			return apperrors.NewAlreadyCancelled(enrollmentID)
		}
		return apperrors.MapError(err)
	}

	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err == nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventEnrollmentCancelled,
			MemberID: memberID,
			Payload: events.EnrollmentCancelledPayload{
				EnrollmentID:    enrollment.ID,
				BenefitID:       enrollment.BenefitID,
				TerminationDate: when,
			},
		})
	}
	return nil
}

func (s *EnrollmentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now()
	_ = s.dispatcher.Publish(ctx, event)
}

// dateOf truncates an instant to its UTC calendar date.
func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
