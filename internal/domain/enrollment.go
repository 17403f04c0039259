package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Enrollment links a member to a benefit. CoverageAmount and MonthlyPremium
// are snapshots taken from the catalog at enrollment time; later catalog
// changes never alter them. Cancellation is a soft delete: the row is kept
// with IsActive=false and TerminationDate set.
type Enrollment struct {
	ID        int64
	MemberID  int64
	BenefitID int64

	EnrollmentDate  time.Time
	EffectiveDate   time.Time
	TerminationDate *time.Time
	IsActive        bool

	CoverageAmount decimal.Decimal
	MonthlyPremium decimal.Decimal

	BeneficiaryName         *string
	BeneficiaryRelationship *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Benefit carries the joined catalog row on read paths so callers can
	// render plan details and the aggregator can group by category. It is
	// nil on write paths.
	Benefit *Benefit
}
