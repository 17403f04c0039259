package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/member-center/internal/domain"
	"github.com/spec-kit/member-center/internal/repository"
	apperrors "github.com/spec-kit/member-center/pkg/util"
)

// BenefitService provides catalog reads. The catalog is small and low-churn
// but not cached: every call reflects the latest persisted state.
type BenefitService struct {
	benefits repository.BenefitRepository
	members  repository.MemberRepository
	now      func() time.Time
}

// BenefitDependencies bundles repositories for the benefit service.
type BenefitDependencies struct {
	BenefitRepo repository.BenefitRepository
	MemberRepo  repository.MemberRepository
	Now         func() time.Time
}

// EligibleBenefit pairs a catalog entry with the member's evaluated decision
// for the enrollment UI's filtered catalog view.
type EligibleBenefit struct {
	Benefit  domain.Benefit
	Decision domain.EligibilityDecision
}

// NewBenefitService constructs the service.
func NewBenefitService(deps BenefitDependencies) *BenefitService {
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &BenefitService{benefits: deps.BenefitRepo, members: deps.MemberRepo, now: now}
}

// ListBenefits returns active catalog entries, optionally filtered by category.
func (s *BenefitService) ListBenefits(ctx context.Context, category *domain.BenefitCategory) ([]domain.Benefit, error) {
	if category != nil && !domain.ValidCategory(*category) {
		return nil, apperrors.NewValidationError("unknown benefit category", map[string]any{"category": string(*category)})
	}
	benefits, err := s.benefits.ListActive(ctx, category)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return benefits, nil
}

// GetBenefit fetches one catalog entry by id.
func (s *BenefitService) GetBenefit(ctx context.Context, id int64) (*domain.Benefit, error) {
	benefit, err := s.benefits.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("benefit", map[string]any{"benefit_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return benefit, nil
}

// ListForMember evaluates the active catalog against the member's profile so
// enrollment surfaces only offer what the member can actually take. A corrupt
// catalog row aborts the listing instead of being silently skipped.
func (s *BenefitService) ListForMember(ctx context.Context, memberID int64, category *domain.BenefitCategory) ([]EligibleBenefit, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("member", map[string]any{"member_id": memberID})
		}
		return nil, apperrors.MapError(err)
	}

	benefits, err := s.ListBenefits(ctx, category)
	if err != nil {
		return nil, err
	}

	asOf := s.now()
	result := make([]EligibleBenefit, 0, len(benefits))
	for i := range benefits {
		decision, err := domain.EvaluateEligibility(member, &benefits[i], asOf)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		result = append(result, EligibleBenefit{Benefit: benefits[i], Decision: decision})
	}
	return result, nil
}
