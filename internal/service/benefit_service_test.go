package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/member-center/internal/domain"
)

func newBenefitService(f *serviceFixture) *BenefitService {
	return NewBenefitService(BenefitDependencies{
		BenefitRepo: f.benefits,
		MemberRepo:  f.members,
		Now:         func() time.Time { return fixedNow },
	})
}

func TestListBenefitsFiltersByCategory(t *testing.T) {
	f := newServiceFixture()
	svc := newBenefitService(f)

	f.addBenefit(t, nil)
	f.addBenefit(t, func(b *domain.Benefit) {
		b.Name = "Accident Protection 50K"
		b.Category = domain.CategoryAccident
		b.CoverageAmount = decimal.RequireFromString("50000")
		b.PlanCode = "APP-50"
	})
	f.addBenefit(t, func(b *domain.Benefit) {
		b.Name = "Retired Plan"
		b.PlanCode = "OLD-1"
		b.IsActive = false
	})

	all, err := svc.ListBenefits(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	accident := domain.CategoryAccident
	filtered, err := svc.ListBenefits(context.Background(), &accident)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "APP-50", filtered[0].PlanCode)

	bogus := domain.BenefitCategory("Dental")
	_, err = svc.ListBenefits(context.Background(), &bogus)
	assert.Equal(t, "VALIDATION_FAILED", domainErr(t, err).Code)
}

func TestGetBenefitNotFound(t *testing.T) {
	f := newServiceFixture()
	svc := newBenefitService(f)

	_, err := svc.GetBenefit(context.Background(), 7)
	assert.Equal(t, "NOT_FOUND", domainErr(t, err).Code)
}

func TestListForMemberMarksEligibility(t *testing.T) {
	f := newServiceFixture()
	svc := newBenefitService(f)

	// Age 50 as of the fixed evaluation date, not on active duty.
	member := f.addMember(t, time.Date(1976, time.January, 10, 0, 0, 0, 0, time.UTC), false)
	f.addBenefit(t, nil)
	f.addBenefit(t, func(b *domain.Benefit) {
		b.Name = "Active Duty Rider"
		b.PlanCode = "ADR-1"
		b.RequiresActiveDuty = true
	})

	result, err := svc.ListForMember(context.Background(), member.ID, nil)
	require.NoError(t, err)
	require.Len(t, result, 2)

	byPlan := make(map[string]EligibleBenefit, len(result))
	for _, eb := range result {
		byPlan[eb.Benefit.PlanCode] = eb
	}
	assert.True(t, byPlan["SGLI-400"].Decision.Eligible)
	require.False(t, byPlan["ADR-1"].Decision.Eligible)
	assert.Contains(t, byPlan["ADR-1"].Decision.Reasons, "requires active duty status")
}

func TestListForMemberAbortsOnCorruptRow(t *testing.T) {
	f := newServiceFixture()
	svc := newBenefitService(f)

	member := f.addMember(t, time.Date(1996, time.March, 1, 0, 0, 0, 0, time.UTC), true)
	f.addBenefit(t, func(b *domain.Benefit) {
		b.MinAge = 90
		b.MaxAge = 20
	})

	_, err := svc.ListForMember(context.Background(), member.ID, nil)
	assert.Equal(t, "DATA_INTEGRITY", domainErr(t, err).Code)
}

func TestListForMemberUnknownMember(t *testing.T) {
	f := newServiceFixture()
	svc := newBenefitService(f)

	_, err := svc.ListForMember(context.Background(), 99, nil)
	assert.Equal(t, "NOT_FOUND", domainErr(t, err).Code)
}
