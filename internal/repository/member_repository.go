package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/member-center/internal/domain"
)

// MemberRepository defines persistence access for members. Profiles are
// written once at registration; there is no update operation.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id int64) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
}

type memberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository returns a Postgres-backed implementation.
func NewMemberRepository(pool *pgxpool.Pool) MemberRepository {
	return &memberRepository{pool: pool}
}

const memberColumns = `id, email, password_hash, first_name, last_name, date_of_birth,
        phone, address, city, state, zip_code,
        military_branch, service_start_date, service_end_date, rank, is_active_duty,
        member_number, membership_status, membership_start_date, created_at, updated_at`

// Create inserts the member. The member number is assigned by the database
// from a sequence so concurrent registrations never collide.
func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	const query = `
        INSERT INTO members (email, password_hash, first_name, last_name, date_of_birth,
            phone, address, city, state, zip_code,
            military_branch, service_start_date, service_end_date, rank, is_active_duty,
            member_number, membership_status, membership_start_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,
            'MIL-' || to_char(NOW(), 'YYYY') || '-' || lpad(nextval('member_number_seq')::text, 6, '0'),
            $16, $17)
        RETURNING id, member_number, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		member.Email,
		member.PasswordHash,
		member.FirstName,
		member.LastName,
		member.DateOfBirth,
		member.Phone,
		member.Address,
		member.City,
		member.State,
		member.ZipCode,
		member.MilitaryBranch,
		member.ServiceStartDate,
		member.ServiceEndDate,
		member.Rank,
		member.IsActiveDuty,
		member.MembershipStatus,
		member.MembershipStartDate,
	).Scan(&member.ID, &member.MemberNumber, &member.CreatedAt, &member.UpdatedAt)
}

func (r *memberRepository) GetByID(ctx context.Context, id int64) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *memberRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *memberRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Member, error) {
	var member domain.Member
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&member.ID,
		&member.Email,
		&member.PasswordHash,
		&member.FirstName,
		&member.LastName,
		&member.DateOfBirth,
		&member.Phone,
		&member.Address,
		&member.City,
		&member.State,
		&member.ZipCode,
		&member.MilitaryBranch,
		&member.ServiceStartDate,
		&member.ServiceEndDate,
		&member.Rank,
		&member.IsActiveDuty,
		&member.MemberNumber,
		&member.MembershipStatus,
		&member.MembershipStartDate,
		&member.CreatedAt,
		&member.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &member, nil
}
