package dto

import (
	"github.com/shopspring/decimal"

	"github.com/spec-kit/member-center/internal/domain"
)

// CreateEnrollmentRequest payload.
type CreateEnrollmentRequest struct {
	BenefitID               int64   `json:"benefit_id"`
	BeneficiaryName         *string `json:"beneficiary_name"`
	BeneficiaryRelationship *string `json:"beneficiary_relationship"`
}

// EnrollmentResponse represents one ledger row. Coverage and premium are the
// snapshots taken at enrollment time, not the catalog's current values.
type EnrollmentResponse struct {
	ID                      int64            `json:"id"`
	MemberID                int64            `json:"member_id"`
	BenefitID               int64            `json:"benefit_id"`
	EnrollmentDate          string           `json:"enrollment_date"`
	EffectiveDate           string           `json:"effective_date"`
	TerminationDate         *string          `json:"termination_date"`
	IsActive                bool             `json:"is_active"`
	CoverageAmount          decimal.Decimal  `json:"coverage_amount"`
	MonthlyPremium          decimal.Decimal  `json:"monthly_premium"`
	BeneficiaryName         *string          `json:"beneficiary_name"`
	BeneficiaryRelationship *string          `json:"beneficiary_relationship"`
	Benefit                 *BenefitResponse `json:"benefit,omitempty"`
}

// CategoryTotalsResponse holds per-category coverage aggregates.
type CategoryTotalsResponse struct {
	Coverage decimal.Decimal `json:"coverage"`
	Premium  decimal.Decimal `json:"premium"`
	Count    int             `json:"count"`
}

// CoverageSummaryResponse is the Coverage Aggregator output.
type CoverageSummaryResponse struct {
	TotalCoverage       decimal.Decimal                                   `json:"total_coverage"`
	TotalMonthlyPremium decimal.Decimal                                   `json:"total_monthly_premium"`
	ByCategory          map[domain.BenefitCategory]CategoryTotalsResponse `json:"by_category"`
}

// DashboardResponse aggregates the member dashboard.
type DashboardResponse struct {
	Member      MemberResponse          `json:"member"`
	Enrollments []EnrollmentResponse    `json:"enrollments"`
	Summary     CoverageSummaryResponse `json:"summary"`
}

// ChatRequest payload.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse payload.
type ChatResponse struct {
	Response string `json:"response"`
}
