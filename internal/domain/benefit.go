package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BenefitCategory enumerates the catalog's product categories.
type BenefitCategory string

const (
	CategoryLifeInsurance   BenefitCategory = "Life Insurance"
	CategoryDisability      BenefitCategory = "Disability"
	CategoryAccident        BenefitCategory = "Accident"
	CategoryCriticalIllness BenefitCategory = "Critical Illness"
	CategorySupplemental    BenefitCategory = "Supplemental"
)

// ValidCategory reports whether the value is one of the known categories.
func ValidCategory(c BenefitCategory) bool {
	switch c {
	case CategoryLifeInsurance, CategoryDisability, CategoryAccident, CategoryCriticalIllness, CategorySupplemental:
		return true
	}
	return false
}

// Benefit is a catalog entry. The catalog is administered externally and is
// read-only to this service.
type Benefit struct {
	ID          int64
	Name        string
	Description *string
	Category    BenefitCategory

	CoverageAmount decimal.Decimal
	MonthlyPremium decimal.Decimal
	Deductible     decimal.Decimal

	MinAge             int
	MaxAge             int
	RequiresActiveDuty bool

	PlanCode      string
	IsActive      bool
	EffectiveDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate flags catalog rows that violate data integrity. A corrupt row must
// fail loudly rather than silently admit or deny an applicant.
func (b *Benefit) Validate() error {
	if b.MinAge > b.MaxAge {
		return fmt.Errorf("benefit %s: min age %d exceeds max age %d: %w", b.PlanCode, b.MinAge, b.MaxAge, ErrDataIntegrity)
	}
	if b.CoverageAmount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("benefit %s: coverage amount must be positive: %w", b.PlanCode, ErrDataIntegrity)
	}
	if b.MonthlyPremium.IsNegative() {
		return fmt.Errorf("benefit %s: negative monthly premium: %w", b.PlanCode, ErrDataIntegrity)
	}
	if b.Deductible.IsNegative() {
		return fmt.Errorf("benefit %s: negative deductible: %w", b.PlanCode, ErrDataIntegrity)
	}
	return nil
}
