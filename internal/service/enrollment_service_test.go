package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/member-center/internal/domain"
	apperrors "github.com/spec-kit/member-center/pkg/util"
)

var fixedNow = time.Date(2026, time.March, 15, 10, 30, 0, 0, time.UTC)

type serviceFixture struct {
	members     *fakeMemberRepo
	benefits    *fakeBenefitRepo
	enrollments *fakeEnrollmentRepo
	enrollment  *EnrollmentService
	coverage    *CoverageService
}

func newServiceFixture() *serviceFixture {
	members := newFakeMemberRepo()
	benefits := newFakeBenefitRepo()
	enrollments := newFakeEnrollmentRepo(benefits)
	return &serviceFixture{
		members:     members,
		benefits:    benefits,
		enrollments: enrollments,
		enrollment: NewEnrollmentService(EnrollmentDependencies{
			MemberRepo:     members,
			BenefitRepo:    benefits,
			EnrollmentRepo: enrollments,
			Now:            func() time.Time { return fixedNow },
		}),
		coverage: NewCoverageService(CoverageDependencies{
			MemberRepo:     members,
			EnrollmentRepo: enrollments,
		}),
	}
}

func (f *serviceFixture) addMember(t *testing.T, dob time.Time, activeDuty bool) *domain.Member {
	t.Helper()
	member := &domain.Member{
		Email:            "test@military.mil",
		FirstName:        "Test",
		LastName:         "Member",
		DateOfBirth:      &dob,
		MilitaryBranch:   domain.BranchArmy,
		IsActiveDuty:     activeDuty,
		MembershipStatus: domain.MembershipStatusActive,
	}
	return f.members.add(member)
}

func (f *serviceFixture) addBenefit(t *testing.T, mutate func(*domain.Benefit)) *domain.Benefit {
	t.Helper()
	benefit := &domain.Benefit{
		Name:           "Servicemembers Group Life 400K",
		Category:       domain.CategoryLifeInsurance,
		CoverageAmount: decimal.RequireFromString("400000"),
		MonthlyPremium: decimal.RequireFromString("25.00"),
		Deductible:     decimal.Zero,
		MinAge:         18,
		MaxAge:         65,
		PlanCode:       "SGLI-400",
		IsActive:       true,
	}
	if mutate != nil {
		mutate(benefit)
	}
	return f.benefits.add(benefit)
}

func domainErr(t *testing.T, err error) *apperrors.DomainError {
	t.Helper()
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	return de
}

func TestEnrollActiveDutyMember(t *testing.T) {
	f := newServiceFixture()
	member := f.addMember(t, time.Date(1996, time.March, 1, 0, 0, 0, 0, time.UTC), true)
	benefit := f.addBenefit(t, nil)

	beneficiary := "Jane Doe"
	relationship := "Spouse"
	enrollment, err := f.enrollment.Enroll(context.Background(), member.ID, benefit.ID, &BeneficiaryInput{
		Name:         &beneficiary,
		Relationship: &relationship,
	})
	require.NoError(t, err)

	assert.True(t, enrollment.IsActive)
	assert.Equal(t, "400000", enrollment.CoverageAmount.String())
	assert.Equal(t, "25", enrollment.MonthlyPremium.String())
	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), enrollment.EnrollmentDate)
	assert.Equal(t, enrollment.EnrollmentDate, enrollment.EffectiveDate)
	require.NotNil(t, enrollment.BeneficiaryName)
	assert.Equal(t, "Jane Doe", *enrollment.BeneficiaryName)

	summary, err := f.coverage.Summarize(context.Background(), member.ID)
	require.NoError(t, err)
	assert.True(t, summary.TotalCoverage.Equal(decimal.RequireFromString("400000")))
	assert.True(t, summary.TotalMonthlyPremium.Equal(decimal.RequireFromString("25.00")))
	assert.Equal(t, 1, summary.ByCategory[domain.CategoryLifeInsurance].Count)
}

func TestEnrollRejectsMemberAboveMaxAge(t *testing.T) {
	f := newServiceFixture()
	member := f.addMember(t, time.Date(1946, time.January, 1, 0, 0, 0, 0, time.UTC), false)
	benefit := f.addBenefit(t, nil)

	_, err := f.enrollment.Enroll(context.Background(), member.ID, benefit.ID, nil)
	de := domainErr(t, err)
	assert.Equal(t, "INELIGIBLE", de.Code)
	assert.Contains(t, de.Details["reasons"], "above maximum age 65")

	rows, err := f.enrollment.ListEnrollments(context.Background(), member.ID, false)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestEnrollRejectsDuplicateActiveEnrollment(t *testing.T) {
	f := newServiceFixture()
	member := f.addMember(t, time.Date(1996, time.March, 1, 0, 0, 0, 0, time.UTC), true)
	benefit := f.addBenefit(t, nil)

	_, err := f.enrollment.Enroll(context.Background(), member.ID, benefit.ID, nil)
	require.NoError(t, err)

	_, err = f.enrollment.Enroll(context.Background(), member.ID, benefit.ID, nil)
	de := domainErr(t, err)
	assert.Equal(t, "DUPLICATE_ENROLLMENT", de.Code)

	rows, err := f.enrollment.ListEnrollments(context.Background(), member.ID, true)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestEnrollAllowsReenrollAfterCancel(t *testing.T) {
	f := newServiceFixture()
	member := f.addMember(t, time.Date(1996, time.March, 1, 0, 0, 0, 0, time.UTC), true)
	benefit := f.addBenefit(t, nil)

	first, err := f.enrollment.Enroll(context.Background(), member.ID, benefit.ID, nil)
	require.NoError(t, err)
	require.NoError(t, f.enrollment.Cancel(context.Background(), member.ID, first.ID))

	second, err := f.enrollment.Enroll(context.Background(), member.ID, benefit.ID, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	active, err := f.enrollment.ListEnrollments(context.Background(), member.ID, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestCancelTwiceReportsAlreadyCancelled(t *testing.T) {
	f := newServiceFixture()
	member := f.addMember(t, time.Date(1996, time.March, 1, 0, 0, 0, 0, time.UTC), true)
	benefit := f.addBenefit(t, nil)

	enrollment, err := f.enrollment.Enroll(context.Background(), member.ID, benefit.ID, nil)
	require.NoError(t, err)
	require.NoError(t, f.enrollment.Cancel(context.Background(), member.ID, enrollment.ID))

	cancelled, err := f.enrollments.GetByID(context.Background(), enrollment.ID)
	require.NoError(t, err)
	require.NotNil(t, cancelled.TerminationDate)
	firstTermination := *cancelled.TerminationDate

	err = f.enrollment.Cancel(context.Background(), member.ID, enrollment.ID)
	de := domainErr(t, err)
	assert.Equal(t, "ALREADY_CANCELLED", de.Code)

	// The original termination date must survive the repeated cancel.
	cancelled, err = f.enrollments.GetByID(context.Background(), enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, firstTermination, *cancelled.TerminationDate)
	assert.False(t, cancelled.IsActive)
}

func TestEnrollmentSnapshotUnaffectedByCatalogChange(t *testing.T) {
	f := newServiceFixture()
	member := f.addMember(t, time.Date(1996, time.March, 1, 0, 0, 0, 0, time.UTC), true)
	benefit := f.addBenefit(t, nil)

	enrollment, err := f.enrollment.Enroll(context.Background(), member.ID, benefit.ID, nil)
	require.NoError(t, err)

	// Simulate a catalog reprice after enrollment.
	repriced := f.benefits.benefits[benefit.ID]
	repriced.CoverageAmount = decimal.RequireFromString("500000")
	repriced.MonthlyPremium = decimal.RequireFromString("40.00")

	stored, err := f.enrollments.GetByID(context.Background(), enrollment.ID)
	require.NoError(t, err)
	assert.True(t, stored.CoverageAmount.Equal(decimal.RequireFromString("400000")))
	assert.True(t, stored.MonthlyPremium.Equal(decimal.RequireFromString("25.00")))

	summary, err := f.coverage.Summarize(context.Background(), member.ID)
	require.NoError(t, err)
	assert.True(t, summary.TotalCoverage.Equal(decimal.RequireFromString("400000")))
}

func TestEnrollRejectsInactiveBenefit(t *testing.T) {
	f := newServiceFixture()
	member := f.addMember(t, time.Date(1996, time.March, 1, 0, 0, 0, 0, time.UTC), true)
	benefit := f.addBenefit(t, func(b *domain.Benefit) {
		b.IsActive = false
	})

	_, err := f.enrollment.Enroll(context.Background(), member.ID, benefit.ID, nil)
	de := domainErr(t, err)
	assert.Equal(t, "BENEFIT_INACTIVE", de.Code)
}

func TestEnrollRejectsCorruptBenefitWindow(t *testing.T) {
	f := newServiceFixture()
	member := f.addMember(t, time.Date(1996, time.March, 1, 0, 0, 0, 0, time.UTC), true)
	benefit := f.addBenefit(t, func(b *domain.Benefit) {
		b.MinAge = 70
		b.MaxAge = 30
	})

	_, err := f.enrollment.Enroll(context.Background(), member.ID, benefit.ID, nil)
	de := domainErr(t, err)
	assert.Equal(t, "DATA_INTEGRITY", de.Code)
	assert.False(t, de.Retryable())
}

func TestEnrollUnknownMemberAndBenefit(t *testing.T) {
	f := newServiceFixture()
	member := f.addMember(t, time.Date(1996, time.March, 1, 0, 0, 0, 0, time.UTC), true)
	benefit := f.addBenefit(t, nil)

	_, err := f.enrollment.Enroll(context.Background(), member.ID+99, benefit.ID, nil)
	assert.Equal(t, "NOT_FOUND", domainErr(t, err).Code)

	_, err = f.enrollment.Enroll(context.Background(), member.ID, benefit.ID+99, nil)
	assert.Equal(t, "NOT_FOUND", domainErr(t, err).Code)
}

func TestCancelUnknownEnrollment(t *testing.T) {
	f := newServiceFixture()
	member := f.addMember(t, time.Date(1996, time.March, 1, 0, 0, 0, 0, time.UTC), true)

	err := f.enrollment.Cancel(context.Background(), member.ID, 42)
	assert.Equal(t, "NOT_FOUND", domainErr(t, err).Code)
}

func TestCancelOtherMembersEnrollment(t *testing.T) {
	f := newServiceFixture()
	owner := f.addMember(t, time.Date(1996, time.March, 1, 0, 0, 0, 0, time.UTC), true)
	other := f.addMember(t, time.Date(1990, time.July, 4, 0, 0, 0, 0, time.UTC), true)
	benefit := f.addBenefit(t, nil)

	enrollment, err := f.enrollment.Enroll(context.Background(), owner.ID, benefit.ID, nil)
	require.NoError(t, err)

	err = f.enrollment.Cancel(context.Background(), other.ID, enrollment.ID)
	assert.Equal(t, "NOT_FOUND", domainErr(t, err).Code)

	// Enrollment stays active for the owner.
	active, err := f.enrollment.ListEnrollments(context.Background(), owner.ID, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestListEnrollmentsFiltersActive(t *testing.T) {
	f := newServiceFixture()
	member := f.addMember(t, time.Date(1996, time.March, 1, 0, 0, 0, 0, time.UTC), true)
	keep := f.addBenefit(t, nil)
	drop := f.addBenefit(t, func(b *domain.Benefit) {
		b.Name = "Accident Protection 50K"
		b.Category = domain.CategoryAccident
		b.CoverageAmount = decimal.RequireFromString("50000")
		b.MonthlyPremium = decimal.RequireFromString("12.00")
		b.PlanCode = "APP-50"
	})

	_, err := f.enrollment.Enroll(context.Background(), member.ID, keep.ID, nil)
	require.NoError(t, err)
	dropped, err := f.enrollment.Enroll(context.Background(), member.ID, drop.ID, nil)
	require.NoError(t, err)
	require.NoError(t, f.enrollment.Cancel(context.Background(), member.ID, dropped.ID))

	active, err := f.enrollment.ListEnrollments(context.Background(), member.ID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, keep.ID, active[0].BenefitID)

	all, err := f.enrollment.ListEnrollments(context.Background(), member.ID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
