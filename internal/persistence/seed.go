package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type seedBenefit struct {
	name               string
	description        string
	category           string
	coverageAmount     string
	monthlyPremium     string
	deductible         string
	minAge             int
	maxAge             int
	requiresActiveDuty bool
	planCode           string
}

var demoBenefits = []seedBenefit{
	{
		name:               "Service Members' Group Life Insurance (SGLI)",
		description:        "Primary life insurance coverage for active duty service members. Provides financial protection for your family with competitive rates available only to military personnel.",
		category:           "Life Insurance",
		coverageAmount:     "400000.00", monthlyPremium: "25.00", deductible: "0",
		minAge: 18, maxAge: 65, requiresActiveDuty: true, planCode: "SGLI-400",
	},
	{
		name:               "Family Service Members' Group Life Insurance (FSGLI)",
		description:        "Life insurance coverage for spouses and dependent children of service members. Protect your entire family with affordable coverage.",
		category:           "Life Insurance",
		coverageAmount:     "100000.00", monthlyPremium: "15.00", deductible: "0",
		minAge: 18, maxAge: 65, requiresActiveDuty: false, planCode: "FSGLI-100",
	},
	{
		name:               "Veterans' Group Life Insurance (VGLI)",
		description:        "Renewable term life insurance for veterans. Continue your coverage after separation from service with no medical exam required within 240 days of discharge.",
		category:           "Life Insurance",
		coverageAmount:     "250000.00", monthlyPremium: "35.00", deductible: "0",
		minAge: 18, maxAge: 75, requiresActiveDuty: false, planCode: "VGLI-250",
	},
	{
		name:               "Service-Disabled Veterans Insurance (S-DVI)",
		description:        "Life insurance for veterans with service-connected disabilities. Available to veterans who receive a service-connected disability rating.",
		category:           "Life Insurance",
		coverageAmount:     "10000.00", monthlyPremium: "8.00", deductible: "0",
		minAge: 18, maxAge: 70, requiresActiveDuty: false, planCode: "SDVI-10",
	},
	{
		name:               "Military Disability Protection Plus",
		description:        "Comprehensive disability coverage providing income replacement if you become unable to serve due to injury or illness. Covers both service-related and non-service-related disabilities.",
		category:           "Disability",
		coverageAmount:     "5000.00", monthlyPremium: "45.00", deductible: "250",
		minAge: 18, maxAge: 60, requiresActiveDuty: true, planCode: "MDP-PLUS",
	},
	{
		name:               "Accident Protection Plan",
		description:        "Coverage for accidental injuries during active duty or civilian life. Includes benefits for hospitalization, emergency care, and rehabilitation.",
		category:           "Accident",
		coverageAmount:     "50000.00", monthlyPremium: "12.00", deductible: "100",
		minAge: 18, maxAge: 65, requiresActiveDuty: false, planCode: "APP-50",
	},
	{
		name:               "Critical Illness Shield",
		description:        "Lump-sum payment upon diagnosis of covered critical illnesses including cancer, heart attack, and stroke. Use the funds for treatment, bills, or any purpose.",
		category:           "Critical Illness",
		coverageAmount:     "75000.00", monthlyPremium: "28.00", deductible: "0",
		minAge: 18, maxAge: 65, requiresActiveDuty: false, planCode: "CIS-75",
	},
	{
		name:               "Supplemental Term Life",
		description:        "Additional life insurance coverage to supplement your primary policy. Ideal for growing families or those with increased financial responsibilities.",
		category:           "Supplemental",
		coverageAmount:     "500000.00", monthlyPremium: "55.00", deductible: "0",
		minAge: 21, maxAge: 55, requiresActiveDuty: false, planCode: "STL-500",
	},
}

// SeedDemoData loads the demo benefit catalog, a demo member and two seed
// enrollments. It is a no-op when members already exist.
func SeedDemoData(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping seed")
		return nil
	}

	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		var existing int64
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM members`).Scan(&existing); err != nil {
			return fmt.Errorf("seed precheck: %w", err)
		}
		if existing > 0 {
			return nil
		}

		benefitIDs := make(map[string]int64, len(demoBenefits))
		for _, b := range demoBenefits {
			var id int64
			err := tx.QueryRow(ctx, `
                INSERT INTO benefits (name, description, category, coverage_amount, monthly_premium,
                    deductible, min_age, max_age, requires_active_duty, plan_code, is_active, effective_date)
                VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,TRUE,$11)
                RETURNING id`,
				b.name, b.description, b.category, b.coverageAmount, b.monthlyPremium,
				b.deductible, b.minAge, b.maxAge, b.requiresActiveDuty, b.planCode,
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("seed benefit %s: %w", b.planCode, err)
			}
			benefitIDs[b.planCode] = id
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		var memberID int64
		err = tx.QueryRow(ctx, `
            INSERT INTO members (email, password_hash, first_name, last_name, date_of_birth,
                phone, address, city, state, zip_code,
                military_branch, service_start_date, rank, is_active_duty,
                member_number, membership_status, membership_start_date)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
            RETURNING id`,
			"john.doe@military.mil", string(hash), "John", "Doe",
			time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC),
			"555-123-4567", "123 Base Housing Rd", "Fort Liberty", "NC", "28307",
			"Army", time.Date(2005, 8, 1, 0, 0, 0, 0, time.UTC), "Sergeant First Class", true,
			"MIL-2024-001234", "Active", time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
		).Scan(&memberID)
		if err != nil {
			return fmt.Errorf("seed member: %w", err)
		}

		seedEnrollments := []struct {
			planCode       string
			enrollmentDate time.Time
			effectiveDate  time.Time
		}{
			{"SGLI-400", time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)},
			{"APP-50", time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC)},
		}
		for _, e := range seedEnrollments {
			_, err := tx.Exec(ctx, `
                INSERT INTO enrollments (member_id, benefit_id, enrollment_date, effective_date,
                    is_active, coverage_amount, monthly_premium, beneficiary_name, beneficiary_relationship)
                SELECT $1, id, $2, $3, TRUE, coverage_amount, monthly_premium, 'Jane Doe', 'Spouse'
                FROM benefits WHERE id=$4`,
				memberID, e.enrollmentDate, e.effectiveDate, benefitIDs[e.planCode],
			)
			if err != nil {
				return fmt.Errorf("seed enrollment %s: %w", e.planCode, err)
			}
		}

		logger.Info("demo data seeded",
			zap.Int("benefits", len(demoBenefits)),
			zap.Int64("member_id", memberID))
		return nil
	})
}
