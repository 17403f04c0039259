package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/member-center/internal/domain"
	"github.com/spec-kit/member-center/internal/repository"
)

// In-memory repository fakes mirroring the Postgres implementations' error
// contracts: missing rows surface as pgx.ErrNoRows, duplicate/cancel states
// as the repository sentinels.

type fakeMemberRepo struct {
	members map[int64]*domain.Member
	nextID  int64
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[int64]*domain.Member)}
}

func (r *fakeMemberRepo) Create(_ context.Context, member *domain.Member) error {
	r.nextID++
	member.ID = r.nextID
	member.MemberNumber = fmt.Sprintf("MIL-2026-%06d", r.nextID)
	member.CreatedAt = time.Now().UTC()
	member.UpdatedAt = member.CreatedAt
	clone := *member
	r.members[member.ID] = &clone
	return nil
}

func (r *fakeMemberRepo) GetByID(_ context.Context, id int64) (*domain.Member, error) {
	member, ok := r.members[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *member
	return &clone, nil
}

func (r *fakeMemberRepo) GetByEmail(_ context.Context, email string) (*domain.Member, error) {
	for _, member := range r.members {
		if strings.EqualFold(member.Email, email) {
			clone := *member
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeMemberRepo) add(member *domain.Member) *domain.Member {
	_ = r.Create(context.Background(), member)
	return member
}

type fakeBenefitRepo struct {
	benefits map[int64]*domain.Benefit
	nextID   int64
}

func newFakeBenefitRepo() *fakeBenefitRepo {
	return &fakeBenefitRepo{benefits: make(map[int64]*domain.Benefit)}
}

func (r *fakeBenefitRepo) add(benefit *domain.Benefit) *domain.Benefit {
	r.nextID++
	benefit.ID = r.nextID
	clone := *benefit
	r.benefits[benefit.ID] = &clone
	return benefit
}

func (r *fakeBenefitRepo) ListActive(_ context.Context, category *domain.BenefitCategory) ([]domain.Benefit, error) {
	var result []domain.Benefit
	for _, benefit := range r.benefits {
		if !benefit.IsActive {
			continue
		}
		if category != nil && benefit.Category != *category {
			continue
		}
		result = append(result, *benefit)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (r *fakeBenefitRepo) GetByID(_ context.Context, id int64) (*domain.Benefit, error) {
	benefit, ok := r.benefits[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *benefit
	return &clone, nil
}

type fakeEnrollmentRepo struct {
	enrollments []*domain.Enrollment
	benefits    *fakeBenefitRepo
	nextID      int64
}

func newFakeEnrollmentRepo(benefits *fakeBenefitRepo) *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{benefits: benefits}
}

func (r *fakeEnrollmentRepo) CreateActive(_ context.Context, enrollment *domain.Enrollment) error {
	for _, existing := range r.enrollments {
		if existing.MemberID == enrollment.MemberID &&
			existing.BenefitID == enrollment.BenefitID && existing.IsActive {
			return repository.ErrDuplicateActiveEnrollment
		}
	}
	r.nextID++
	enrollment.ID = r.nextID
	enrollment.IsActive = true
	enrollment.CreatedAt = time.Now().UTC()
	enrollment.UpdatedAt = enrollment.CreatedAt
	clone := *enrollment
	clone.Benefit = nil
	r.enrollments = append(r.enrollments, &clone)
	return nil
}

func (r *fakeEnrollmentRepo) Cancel(_ context.Context, memberID, enrollmentID int64, when time.Time) error {
	for _, enrollment := range r.enrollments {
		if enrollment.ID != enrollmentID || enrollment.MemberID != memberID {
			continue
		}
		if !enrollment.IsActive {
			return repository.ErrAlreadyCancelled
		}
		enrollment.IsActive = false
		enrollment.TerminationDate = &when
		return nil
	}
	return pgx.ErrNoRows
}

func (r *fakeEnrollmentRepo) GetByID(_ context.Context, id int64) (*domain.Enrollment, error) {
	for _, enrollment := range r.enrollments {
		if enrollment.ID == id {
			return r.withBenefit(enrollment), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeEnrollmentRepo) ListByMember(_ context.Context, memberID int64, activeOnly bool) ([]domain.Enrollment, error) {
	var result []domain.Enrollment
	for _, enrollment := range r.enrollments {
		if enrollment.MemberID != memberID {
			continue
		}
		if activeOnly && !enrollment.IsActive {
			continue
		}
		result = append(result, *r.withBenefit(enrollment))
	}
	return result, nil
}

func (r *fakeEnrollmentRepo) withBenefit(enrollment *domain.Enrollment) *domain.Enrollment {
	clone := *enrollment
	if benefit, err := r.benefits.GetByID(context.Background(), enrollment.BenefitID); err == nil {
		clone.Benefit = benefit
	}
	return &clone
}
