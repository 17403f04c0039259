package domain

import (
	"fmt"
	"time"
)

// EligibilityDecision is the outcome of evaluating a member against a
// benefit's eligibility rules. Reasons lists every failed rule.
type EligibilityDecision struct {
	Eligible bool
	Reasons  []string
}

// EvaluateEligibility applies the benefit's eligibility rules to the member
// as of the given instant. It is a pure function of its inputs: no storage or
// network access, so tests can pin asOf to a fixed date.
//
// All rules are checked so the caller gets the full set of failure reasons,
// not just the first. A catalog row that fails Validate returns an error
// instead of a decision.
func EvaluateEligibility(member *Member, benefit *Benefit, asOf time.Time) (EligibilityDecision, error) {
	if err := benefit.Validate(); err != nil {
		return EligibilityDecision{}, err
	}

	var reasons []string

	if !benefit.IsActive {
		reasons = append(reasons, "benefit is not active")
	}

	age, known := member.AgeAt(asOf)
	switch {
	case !known:
		reasons = append(reasons, "age unknown")
	case age < benefit.MinAge:
		reasons = append(reasons, fmt.Sprintf("below minimum age %d", benefit.MinAge))
	case age > benefit.MaxAge:
		reasons = append(reasons, fmt.Sprintf("above maximum age %d", benefit.MaxAge))
	}

	if benefit.RequiresActiveDuty && !member.IsActiveDuty {
		reasons = append(reasons, "requires active duty status")
	}

	return EligibilityDecision{Eligible: len(reasons) == 0, Reasons: reasons}, nil
}
