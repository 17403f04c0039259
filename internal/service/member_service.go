package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/member-center/internal/auth"
	"github.com/spec-kit/member-center/internal/config"
	"github.com/spec-kit/member-center/internal/domain"
	"github.com/spec-kit/member-center/internal/events"
	"github.com/spec-kit/member-center/internal/repository"
	apperrors "github.com/spec-kit/member-center/pkg/util"
)

// MemberService coordinates registration, login and profile lookups.
type MemberService struct {
	members    repository.MemberRepository
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	now        func() time.Time
}

// MemberDependencies encapsulates requirements for the member service.
type MemberDependencies struct {
	MemberRepo repository.MemberRepository
	Dispatcher events.Dispatcher
	Now        func() time.Time
}

// RegisterInput describes the registration payload.
type RegisterInput struct {
	Email            string
	Password         string
	FirstName        string
	LastName         string
	DateOfBirth      *time.Time
	Phone            *string
	Address          *string
	City             *string
	State            *string
	ZipCode          *string
	MilitaryBranch   domain.MilitaryBranch
	ServiceStartDate *time.Time
	ServiceEndDate   *time.Time
	Rank             *string
	IsActiveDuty     bool
}

// NewMemberService builds the service.
func NewMemberService(cfg config.Config, deps MemberDependencies) *MemberService {
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &MemberService{
		members:    deps.MemberRepo,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		now:        now,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *MemberService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates a new member account. The membership starts Active with
// today's date and the member number is assigned by the store.
func (s *MemberService) Register(ctx context.Context, input RegisterInput) (*domain.Member, string, time.Time, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", time.Time{}, apperrors.NewValidationError("valid email required", nil)
	}
	if input.Password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("password required", nil)
	}
	if input.FirstName == "" || input.LastName == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("first_name and last_name required", nil)
	}
	if !domain.ValidBranch(input.MilitaryBranch) {
		return nil, "", time.Time{}, apperrors.NewValidationError("unknown military branch",
			map[string]any{"military_branch": string(input.MilitaryBranch)})
	}

	if _, err := s.members.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	today := dateOf(s.now())
	member := &domain.Member{
		Email:               email,
		PasswordHash:        hash,
		FirstName:           input.FirstName,
		LastName:            input.LastName,
		DateOfBirth:         input.DateOfBirth,
		Phone:               input.Phone,
		Address:             input.Address,
		City:                input.City,
		State:               input.State,
		ZipCode:             input.ZipCode,
		MilitaryBranch:      input.MilitaryBranch,
		ServiceStartDate:    input.ServiceStartDate,
		ServiceEndDate:      input.ServiceEndDate,
		Rank:                input.Rank,
		IsActiveDuty:        input.IsActiveDuty,
		MembershipStatus:    domain.MembershipStatusActive,
		MembershipStartDate: &today,
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventMemberRegistered,
			MemberID:  member.ID,
			Timestamp: s.now(),
			Payload: events.MemberRegisteredPayload{
				MemberNumber:   member.MemberNumber,
				Email:          member.Email,
				MilitaryBranch: member.MilitaryBranch,
			},
		})
	}

	token, exp, err := s.tokenMgr.GenerateToken(member.ID, member.MemberNumber)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return member, token, exp, nil
}

// Login authenticates a member by email and password.
func (s *MemberService) Login(ctx context.Context, email, password string) (*domain.Member, string, time.Time, error) {
	member, err := s.members.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(member.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(member.ID, member.MemberNumber)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return member, token, exp, nil
}

// GetMember fetches a member by id.
func (s *MemberService) GetMember(ctx context.Context, id int64) (*domain.Member, error) {
	member, err := s.members.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("member", map[string]any{"member_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return member, nil
}
