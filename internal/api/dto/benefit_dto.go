package dto

import (
	"github.com/shopspring/decimal"

	"github.com/spec-kit/member-center/internal/domain"
)

// BenefitResponse represents a catalog entry. Monetary fields serialize as
// decimal strings to preserve exact values.
type BenefitResponse struct {
	ID                 int64                  `json:"id"`
	Name               string                 `json:"name"`
	Description        *string                `json:"description"`
	Category           domain.BenefitCategory `json:"category"`
	CoverageAmount     decimal.Decimal        `json:"coverage_amount"`
	MonthlyPremium     decimal.Decimal        `json:"monthly_premium"`
	Deductible         decimal.Decimal        `json:"deductible"`
	MinAge             int                    `json:"min_age"`
	MaxAge             int                    `json:"max_age"`
	RequiresActiveDuty bool                   `json:"requires_active_duty"`
	PlanCode           string                 `json:"plan_code"`
	IsActive           bool                   `json:"is_active"`
	EffectiveDate      *string                `json:"effective_date"`
}

// EligibleBenefitResponse pairs a catalog entry with the caller's evaluated
// eligibility.
type EligibleBenefitResponse struct {
	Benefit  BenefitResponse `json:"benefit"`
	Eligible bool            `json:"eligible"`
	Reasons  []string        `json:"reasons,omitempty"`
}
