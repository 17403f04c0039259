package domain

import "github.com/shopspring/decimal"

// CategoryTotals holds per-category aggregates of a member's coverage.
type CategoryTotals struct {
	Coverage decimal.Decimal
	Premium  decimal.Decimal
	Count    int
}

// CoverageSummary is the reduction of a member's active enrollments into
// dashboard totals. Sums use the enrollment snapshots, never the catalog's
// current values, and are exact decimal arithmetic.
type CoverageSummary struct {
	TotalCoverage       decimal.Decimal
	TotalMonthlyPremium decimal.Decimal
	ByCategory          map[BenefitCategory]CategoryTotals
}

// SummarizeCoverage reduces the given enrollments into totals. Inactive
// enrollments are skipped, so callers may pass either the active-only set or
// the full history and get the same result.
func SummarizeCoverage(enrollments []Enrollment) CoverageSummary {
	summary := CoverageSummary{
		TotalCoverage:       decimal.Zero,
		TotalMonthlyPremium: decimal.Zero,
		ByCategory:          make(map[BenefitCategory]CategoryTotals),
	}

	for i := range enrollments {
		e := &enrollments[i]
		if !e.IsActive {
			continue
		}

		summary.TotalCoverage = summary.TotalCoverage.Add(e.CoverageAmount)
		summary.TotalMonthlyPremium = summary.TotalMonthlyPremium.Add(e.MonthlyPremium)

		if e.Benefit == nil {
			continue
		}
		totals := summary.ByCategory[e.Benefit.Category]
		totals.Coverage = totals.Coverage.Add(e.CoverageAmount)
		totals.Premium = totals.Premium.Add(e.MonthlyPremium)
		totals.Count++
		summary.ByCategory[e.Benefit.Category] = totals
	}

	return summary
}
