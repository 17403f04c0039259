package domain

import "time"

// MilitaryBranch enumerates the service branches a member may belong to.
type MilitaryBranch string

const (
	BranchArmy        MilitaryBranch = "Army"
	BranchNavy        MilitaryBranch = "Navy"
	BranchAirForce    MilitaryBranch = "Air Force"
	BranchMarineCorps MilitaryBranch = "Marine Corps"
	BranchCoastGuard  MilitaryBranch = "Coast Guard"
	BranchSpaceForce  MilitaryBranch = "Space Force"
)

// ValidBranch reports whether the value is one of the known branches.
func ValidBranch(b MilitaryBranch) bool {
	switch b {
	case BranchArmy, BranchNavy, BranchAirForce, BranchMarineCorps, BranchCoastGuard, BranchSpaceForce:
		return true
	}
	return false
}

// MembershipStatus enumerates lifecycle states for a membership.
type MembershipStatus string

const (
	MembershipStatusActive    MembershipStatus = "Active"
	MembershipStatusInactive  MembershipStatus = "Inactive"
	MembershipStatusPending   MembershipStatus = "Pending"
	MembershipStatusSuspended MembershipStatus = "Suspended"
)

// Member is the aggregate for an insured member. MemberNumber is assigned at
// registration and never changes afterwards.
type Member struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	DateOfBirth  *time.Time
	Phone        *string
	Address      *string
	City         *string
	State        *string
	ZipCode      *string

	MilitaryBranch   MilitaryBranch
	ServiceStartDate *time.Time
	ServiceEndDate   *time.Time
	Rank             *string
	IsActiveDuty     bool

	MemberNumber        string
	MembershipStatus    MembershipStatus
	MembershipStartDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AgeAt computes the member's age in whole years as of the given date.
// The second return value is false when the date of birth is unknown.
func (m *Member) AgeAt(asOf time.Time) (int, bool) {
	if m.DateOfBirth == nil {
		return 0, false
	}
	dob := *m.DateOfBirth
	age := asOf.Year() - dob.Year()
	if asOf.Month() < dob.Month() || (asOf.Month() == dob.Month() && asOf.Day() < dob.Day()) {
		age--
	}
	return age, true
}
