package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/member-center/internal/domain"
)

// BenefitRepository provides read access to the benefit catalog. The catalog
// is seeded and administered externally, so there are no write methods.
type BenefitRepository interface {
	ListActive(ctx context.Context, category *domain.BenefitCategory) ([]domain.Benefit, error)
	GetByID(ctx context.Context, id int64) (*domain.Benefit, error)
}

type benefitRepository struct {
	pool *pgxpool.Pool
}

// NewBenefitRepository instantiates repository.
func NewBenefitRepository(pool *pgxpool.Pool) BenefitRepository {
	return &benefitRepository{pool: pool}
}

const benefitColumns = `id, name, description, category, coverage_amount, monthly_premium, deductible,
        min_age, max_age, requires_active_duty, plan_code, is_active, effective_date, created_at, updated_at`

func (r *benefitRepository) ListActive(ctx context.Context, category *domain.BenefitCategory) ([]domain.Benefit, error) {
	query := `SELECT ` + benefitColumns + ` FROM benefits WHERE is_active`
	args := []any{}
	if category != nil {
		args = append(args, *category)
		query += ` AND category=$1`
	}
	query += ` ORDER BY category, name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBenefits(rows)
}

func (r *benefitRepository) GetByID(ctx context.Context, id int64) (*domain.Benefit, error) {
	query := `SELECT ` + benefitColumns + ` FROM benefits WHERE id=$1`

	var benefit domain.Benefit
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&benefit.ID,
		&benefit.Name,
		&benefit.Description,
		&benefit.Category,
		&benefit.CoverageAmount,
		&benefit.MonthlyPremium,
		&benefit.Deductible,
		&benefit.MinAge,
		&benefit.MaxAge,
		&benefit.RequiresActiveDuty,
		&benefit.PlanCode,
		&benefit.IsActive,
		&benefit.EffectiveDate,
		&benefit.CreatedAt,
		&benefit.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &benefit, nil
}

func scanBenefits(rows pgx.Rows) ([]domain.Benefit, error) {
	var result []domain.Benefit
	for rows.Next() {
		var benefit domain.Benefit
		if err := rows.Scan(
			&benefit.ID,
			&benefit.Name,
			&benefit.Description,
			&benefit.Category,
			&benefit.CoverageAmount,
			&benefit.MonthlyPremium,
			&benefit.Deductible,
			&benefit.MinAge,
			&benefit.MaxAge,
			&benefit.RequiresActiveDuty,
			&benefit.PlanCode,
			&benefit.IsActive,
			&benefit.EffectiveDate,
			&benefit.CreatedAt,
			&benefit.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, benefit)
	}
	return result, rows.Err()
}
