package domain

import "errors"

// ErrDataIntegrity marks catalog rows that violate their own invariants, such
// as an age window with min above max or a negative monetary field. Callers
// must surface it as a server fault, never as an eligibility outcome.
var ErrDataIntegrity = errors.New("data integrity violation")
