package auth

import (
	"testing"

	"beercatalog/internal/domain"

	"github.com/stretchr/testify/assert"
)

func ptr(v int64) *int64 { return &v }

func TestAuthorize(t *testing.T) {
	admin := NewPrincipal(1, "root", "ADMIN", nil)
	maker := NewPrincipal(2, "brewery", "MANUFACTURER", ptr(7))
	unscoped := NewPrincipal(3, "loose", "MANUFACTURER", nil)
	noRoles := Principal{UserID: 4, Name: "guest"}

	cases := []struct {
		name    string
		p       Principal
		req     Requirement
		owner   *int64
		allowed bool
		reason  string
	}{
		{"anonymous is denied", Anonymous, OwnerOrAdmin, ptr(7), false, ReasonUnauthenticated},
		{"anonymous is denied for global", Anonymous, OwnerOrAdmin, nil, false, ReasonUnauthenticated},
		{"admin owns everything", admin, OwnerOrAdmin, ptr(99), true, ""},
		{"admin passes admin only", admin, AdminOnly, nil, true, ""},
		{"owner matches", maker, OwnerOrAdmin, ptr(7), true, ""},
		{"owner differs", maker, OwnerOrAdmin, ptr(8), false, ReasonWrongOwner},
		{"manufacturer blocked from admin only", maker, AdminOnly, ptr(7), false, ReasonInsufficientRole},
		{"global resource needs only the role", maker, OwnerOrAdmin, nil, true, ""},
		{"no scope never matches", unscoped, OwnerOrAdmin, ptr(7), false, ReasonWrongOwner},
		{"no roles", noRoles, OwnerOrAdmin, ptr(7), false, ReasonInsufficientRole},
		{"role only requirement", maker, Requirement{Roles: []Role{RoleManufacturer}}, ptr(8), true, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Authorize(tc.p, tc.req, tc.owner)
			assert.Equal(t, tc.allowed, d.Allowed)
			assert.Equal(t, tc.reason, d.Reason)
		})
	}
}

func TestDecisionErr(t *testing.T) {
	assert.NoError(t, allow().Err())
	assert.True(t, domain.IsUnauthenticated(deny(ReasonUnauthenticated).Err()))
	assert.True(t, domain.IsForbidden(deny(ReasonWrongOwner).Err()))
	assert.True(t, domain.IsForbidden(deny(ReasonInsufficientRole).Err()))
}
