// Package auth resolves the calling principal and decides whether it may
// mutate a resource.
package auth

import (
	"context"
	"strings"

	"beercatalog/internal/domain"
	"beercatalog/internal/utils"

	"github.com/samber/lo"
)

type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleManufacturer Role = "MANUFACTURER"
)

// Principal is the resolved caller. It is built once per request and never
// mutated afterwards.
type Principal struct {
	UserID int64
	Name   string
	Roles  []Role
	// ScopeID is the manufacturer the principal acts for. Nil for admins and
	// for accounts not bound to a manufacturer.
	ScopeID *int64
}

// Anonymous is the principal of unauthenticated callers.
var Anonymous = Principal{}

func (p Principal) IsAnonymous() bool {
	return p.UserID == 0 && len(p.Roles) == 0
}

func (p Principal) HasRole(r Role) bool {
	return lo.Contains(p.Roles, r)
}

func (p Principal) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if p.HasRole(r) {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool { return p.HasRole(RoleAdmin) }

// NewPrincipal builds a principal from an account's stored role list. Admins
// lose their manufacturer scope.
func NewPrincipal(userID int64, name, roles string, scopeID *int64) Principal {
	p := Principal{
		UserID:  userID,
		Name:    name,
		Roles:   ParseRoles(roles),
		ScopeID: scopeID,
	}
	if p.IsAdmin() {
		p.ScopeID = nil
	}
	return p
}

// ParseRoles reads the comma separated role column. Unknown roles are dropped.
func ParseRoles(raw string) []Role {
	roles := lo.FilterMap(utils.SplitList(raw), func(s string, _ int) (Role, bool) {
		r := Role(strings.TrimPrefix(s, "ROLE_"))
		return r, r == RoleAdmin || r == RoleManufacturer
	})
	return lo.Uniq(roles)
}

// FormatRoles is the inverse of ParseRoles.
func FormatRoles(roles ...Role) string {
	return strings.Join(lo.Map(roles, func(r Role, _ int) string { return string(r) }), ",")
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal stored by the auth middleware. Missing
// means anonymous.
func FromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Anonymous, false
	}
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok {
		return Anonymous, false
	}
	return p, true
}

// RequirePrincipal fails for anonymous callers.
func RequirePrincipal(p Principal) (Principal, error) {
	if p.IsAnonymous() {
		return Anonymous, domain.UnauthenticatedError{}
	}
	if p.IsAdmin() {
		p.ScopeID = nil
	}
	return p, nil
}
