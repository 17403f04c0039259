package events

import (
	"time"

	"github.com/spec-kit/member-center/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMemberRegistered    EventType = "member_registered"
	EventEnrollmentCreated   EventType = "enrollment_created"
	EventEnrollmentCancelled EventType = "enrollment_cancelled"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	MemberID  int64       `json:"member_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// MemberRegisteredPayload payload.
type MemberRegisteredPayload struct {
	MemberNumber   string                `json:"member_number"`
	Email          string                `json:"email"`
	MilitaryBranch domain.MilitaryBranch `json:"military_branch"`
}

// EnrollmentCreatedPayload payload. Amounts are the enrollment snapshots,
// serialized as decimal strings.
type EnrollmentCreatedPayload struct {
	EnrollmentID   int64  `json:"enrollment_id"`
	BenefitID      int64  `json:"benefit_id"`
	PlanCode       string `json:"plan_code"`
	CoverageAmount string `json:"coverage_amount"`
	MonthlyPremium string `json:"monthly_premium"`
}

// EnrollmentCancelledPayload payload.
type EnrollmentCancelledPayload struct {
	EnrollmentID    int64     `json:"enrollment_id"`
	BenefitID       int64     `json:"benefit_id"`
	TerminationDate time.Time `json:"termination_date"`
}
