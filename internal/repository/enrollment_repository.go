package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/member-center/internal/domain"
)

// Sentinel errors the service layer maps onto the API error taxonomy.
var (
	ErrDuplicateActiveEnrollment = errors.New("active enrollment already exists")
	ErrAlreadyCancelled          = errors.New("enrollment already cancelled")
)

const uniqueViolationCode = "23505"

// EnrollmentRepository encapsulates the enrollment ledger. CreateActive and
// Cancel each run as a single transaction so concurrent callers cannot race
// past the one-active-enrollment-per-benefit invariant.
type EnrollmentRepository interface {
	CreateActive(ctx context.Context, enrollment *domain.Enrollment) error
	Cancel(ctx context.Context, memberID, enrollmentID int64, when time.Time) error
	GetByID(ctx context.Context, id int64) (*domain.Enrollment, error)
	ListByMember(ctx context.Context, memberID int64, activeOnly bool) ([]domain.Enrollment, error)
}

type enrollmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrollmentRepository instantiates repository.
func NewEnrollmentRepository(pool *pgxpool.Pool) EnrollmentRepository {
	return &enrollmentRepository{pool: pool}
}

// CreateActive inserts a new active enrollment after checking for an existing
// active row inside the same transaction. The partial unique index on
// (member_id, benefit_id) WHERE is_active backstops the check, so a
// concurrent duplicate surfaces as a unique violation rather than a second
// active row.
func (r *enrollmentRepository) CreateActive(ctx context.Context, enrollment *domain.Enrollment) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var existingID int64
		err := tx.QueryRow(ctx,
			`SELECT id FROM enrollments WHERE member_id=$1 AND benefit_id=$2 AND is_active FOR UPDATE`,
			enrollment.MemberID, enrollment.BenefitID,
		).Scan(&existingID)
		if err == nil {
			return ErrDuplicateActiveEnrollment
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		const insert = `
            INSERT INTO enrollments (member_id, benefit_id, enrollment_date, effective_date,
                is_active, coverage_amount, monthly_premium, beneficiary_name, beneficiary_relationship)
            VALUES ($1,$2,$3,$4,TRUE,$5,$6,$7,$8)
            RETURNING id, created_at, updated_at`
		return tx.QueryRow(ctx, insert,
			enrollment.MemberID,
			enrollment.BenefitID,
			enrollment.EnrollmentDate,
			enrollment.EffectiveDate,
			enrollment.CoverageAmount,
			enrollment.MonthlyPremium,
			enrollment.BeneficiaryName,
			enrollment.BeneficiaryRelationship,
		).Scan(&enrollment.ID, &enrollment.CreatedAt, &enrollment.UpdatedAt)
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateActiveEnrollment
		}
		return err
	}
	enrollment.IsActive = true
	return nil
}

// Cancel soft-deletes the enrollment. A second cancel is reported as
// ErrAlreadyCancelled, never applied again, so the original termination date
// is preserved.
func (r *enrollmentRepository) Cancel(ctx context.Context, memberID, enrollmentID int64, when time.Time) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx,
			`UPDATE enrollments SET is_active=FALSE, termination_date=$1, updated_at=NOW()
             WHERE id=$2 AND member_id=$3 AND is_active`,
			when, enrollmentID, memberID,
		)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() > 0 {
			return nil
		}

		// Distinguish a missing/foreign enrollment from one already cancelled.
		var active bool
		err = tx.QueryRow(ctx,
			`SELECT is_active FROM enrollments WHERE id=$1 AND member_id=$2`,
			enrollmentID, memberID,
		).Scan(&active)
		if err != nil {
			return err
		}
		return ErrAlreadyCancelled
	})
}

const enrollmentColumns = `e.id, e.member_id, e.benefit_id, e.enrollment_date, e.effective_date,
        e.termination_date, e.is_active, e.coverage_amount, e.monthly_premium,
        e.beneficiary_name, e.beneficiary_relationship, e.created_at, e.updated_at`

func (r *enrollmentRepository) GetByID(ctx context.Context, id int64) (*domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + `, ` + joinedBenefitColumns + `
        FROM enrollments e JOIN benefits b ON b.id = e.benefit_id
        WHERE e.id=$1`

	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enrollments, err := scanEnrollments(rows)
	if err != nil {
		return nil, err
	}
	if len(enrollments) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &enrollments[0], nil
}

// ListByMember returns the member's enrollments in insertion order, each with
// the joined catalog row so callers can render plan details.
func (r *enrollmentRepository) ListByMember(ctx context.Context, memberID int64, activeOnly bool) ([]domain.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + `, ` + joinedBenefitColumns + `
        FROM enrollments e JOIN benefits b ON b.id = e.benefit_id
        WHERE e.member_id=$1`
	if activeOnly {
		query += ` AND e.is_active`
	}
	query += ` ORDER BY e.id`

	rows, err := r.pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEnrollments(rows)
}

const joinedBenefitColumns = `b.id, b.name, b.description, b.category, b.coverage_amount, b.monthly_premium,
        b.deductible, b.min_age, b.max_age, b.requires_active_duty, b.plan_code, b.is_active,
        b.effective_date, b.created_at, b.updated_at`

func scanEnrollments(rows pgx.Rows) ([]domain.Enrollment, error) {
	var result []domain.Enrollment
	for rows.Next() {
		var e domain.Enrollment
		var b domain.Benefit
		if err := rows.Scan(
			&e.ID,
			&e.MemberID,
			&e.BenefitID,
			&e.EnrollmentDate,
			&e.EffectiveDate,
			&e.TerminationDate,
			&e.IsActive,
			&e.CoverageAmount,
			&e.MonthlyPremium,
			&e.BeneficiaryName,
			&e.BeneficiaryRelationship,
			&e.CreatedAt,
			&e.UpdatedAt,
			&b.ID,
			&b.Name,
			&b.Description,
			&b.Category,
			&b.CoverageAmount,
			&b.MonthlyPremium,
			&b.Deductible,
			&b.MinAge,
			&b.MaxAge,
			&b.RequiresActiveDuty,
			&b.PlanCode,
			&b.IsActive,
			&b.EffectiveDate,
			&b.CreatedAt,
			&b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		e.Benefit = &b
		result = append(result, e)
	}
	return result, rows.Err()
}
