package auth

import (
	"beercatalog/internal/domain"
)

const (
	ReasonUnauthenticated  = "unauthenticated"
	ReasonInsufficientRole = "insufficient_role"
	ReasonWrongOwner       = "wrong_owner"
)

// Requirement declares who may perform an operation. With ScopeMatch the
// principal's scope must equal the resource owner.
type Requirement struct {
	Roles      []Role
	ScopeMatch bool
}

var (
	AdminOnly    = Requirement{Roles: []Role{RoleAdmin}}
	OwnerOrAdmin = Requirement{Roles: []Role{RoleManufacturer}, ScopeMatch: true}
)

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision              { return Decision{Allowed: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

// Err is nil for an allow decision.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.Reason == ReasonUnauthenticated:
		return domain.UnauthenticatedError{}
	default:
		return domain.ForbiddenError{Reason: d.Reason}
	}
}

// Authorize decides whether p may act on a resource owned by owner. A nil
// owner is a global resource. Admins pass every requirement.
func Authorize(p Principal, req Requirement, owner *int64) Decision {
	if p.IsAnonymous() {
		return deny(ReasonUnauthenticated)
	}
	if p.IsAdmin() {
		return allow()
	}
	if !p.HasAnyRole(req.Roles...) {
		return deny(ReasonInsufficientRole)
	}
	if owner == nil {
		return allow()
	}
	if !req.ScopeMatch {
		return allow()
	}
	if p.ScopeID != nil && *p.ScopeID == *owner {
		return allow()
	}
	return deny(ReasonWrongOwner)
}
