package access

import (
	"github.com/agrifield/backend/internal/domain/shared"
)

// Decision is the tagged result of an authorization predicate: allow, or deny
// with a kinded error. Predicates never panic and never use errors as control
// flow inside the gate; the caller surfaces Err directly.
type Decision struct {
	Allowed bool
	Err     *shared.DomainError
}

// Allow returns an allowing decision
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision carrying the reason
func Deny(err *shared.DomainError) Decision {
	return Decision{Allowed: false, Err: err}
}
