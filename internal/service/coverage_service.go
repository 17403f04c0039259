package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/member-center/internal/domain"
	"github.com/spec-kit/member-center/internal/repository"
	apperrors "github.com/spec-kit/member-center/pkg/util"
)

// CoverageService reduces a member's active enrollments into dashboard
// totals. It reads the same underlying set ListEnrollments(activeOnly=true)
// returns, so the two can never disagree.
type CoverageService struct {
	members     repository.MemberRepository
	enrollments repository.EnrollmentRepository
}

// CoverageDependencies bundles repositories for the coverage service.
type CoverageDependencies struct {
	MemberRepo     repository.MemberRepository
	EnrollmentRepo repository.EnrollmentRepository
}

// Dashboard aggregates everything the member dashboard renders.
type Dashboard struct {
	Member      *domain.Member
	Enrollments []domain.Enrollment
	Summary     domain.CoverageSummary
}

// NewCoverageService constructs the service.
func NewCoverageService(deps CoverageDependencies) *CoverageService {
	return &CoverageService{members: deps.MemberRepo, enrollments: deps.EnrollmentRepo}
}

// Summarize computes the member's coverage summary from the snapshot values
// of currently-active enrollments.
func (s *CoverageService) Summarize(ctx context.Context, memberID int64) (domain.CoverageSummary, error) {
	if _, err := s.members.GetByID(ctx, memberID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CoverageSummary{}, apperrors.NewNotFound("member", map[string]any{"member_id": memberID})
		}
		return domain.CoverageSummary{}, apperrors.MapError(err)
	}
	enrollments, err := s.enrollments.ListByMember(ctx, memberID, true)
	if err != nil {
		return domain.CoverageSummary{}, apperrors.MapError(err)
	}
	return domain.SummarizeCoverage(enrollments), nil
}

// MemberDashboard returns the member record, active enrollments and coverage
// summary in one shot.
func (s *CoverageService) MemberDashboard(ctx context.Context, memberID int64) (*Dashboard, error) {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("member", map[string]any{"member_id": memberID})
		}
		return nil, apperrors.MapError(err)
	}
	enrollments, err := s.enrollments.ListByMember(ctx, memberID, true)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &Dashboard{
		Member:      member,
		Enrollments: enrollments,
		Summary:     domain.SummarizeCoverage(enrollments),
	}, nil
}
