package dto

import (
	"time"

	"github.com/spec-kit/member-center/internal/domain"
)

// RegisterMemberRequest payload.
type RegisterMemberRequest struct {
	Email            string                `json:"email"`
	Password         string                `json:"password"`
	FirstName        string                `json:"first_name"`
	LastName         string                `json:"last_name"`
	DateOfBirth      *string               `json:"date_of_birth"`
	Phone            *string               `json:"phone"`
	Address          *string               `json:"address"`
	City             *string               `json:"city"`
	State            *string               `json:"state"`
	ZipCode          *string               `json:"zip_code"`
	MilitaryBranch   domain.MilitaryBranch `json:"military_branch"`
	ServiceStartDate *string               `json:"service_start_date"`
	ServiceEndDate   *string               `json:"service_end_date"`
	Rank             *string               `json:"rank"`
	IsActiveDuty     bool                  `json:"is_active_duty"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MemberResponse represents a member profile.
type MemberResponse struct {
	ID                  int64                   `json:"id"`
	Email               string                  `json:"email"`
	FirstName           string                  `json:"first_name"`
	LastName            string                  `json:"last_name"`
	DateOfBirth         *string                 `json:"date_of_birth"`
	Phone               *string                 `json:"phone"`
	Address             *string                 `json:"address"`
	City                *string                 `json:"city"`
	State               *string                 `json:"state"`
	ZipCode             *string                 `json:"zip_code"`
	MilitaryBranch      domain.MilitaryBranch   `json:"military_branch"`
	ServiceStartDate    *string                 `json:"service_start_date"`
	ServiceEndDate      *string                 `json:"service_end_date"`
	Rank                *string                 `json:"rank"`
	IsActiveDuty        bool                    `json:"is_active_duty"`
	MemberNumber        string                  `json:"member_number"`
	MembershipStatus    domain.MembershipStatus `json:"membership_status"`
	MembershipStartDate *string                 `json:"membership_start_date"`
	CreatedAt           time.Time               `json:"created_at"`
}

// AuthResponse carries a session token alongside the member profile.
type AuthResponse struct {
	Member    MemberResponse `json:"member"`
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
}
