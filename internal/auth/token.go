package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Tokens issues and parses HS256 access tokens.
type Tokens struct {
	Secret []byte
	TTL    time.Duration
	Now    func() time.Time
}

type claims struct {
	UserID int64  `json:"uid"`
	Roles  string `json:"roles"`
	Scope  *int64 `json:"mid,omitempty"`
	jwt.RegisteredClaims
}

func (t Tokens) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// Issue signs a token for p and returns it with its lifetime.
func (t Tokens) Issue(p Principal) (string, time.Duration, error) {
	if len(t.Secret) == 0 {
		return "", 0, fmt.Errorf("jwt secret not configured")
	}
	ttl := t.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := t.now()
	c := claims{
		UserID: p.UserID,
		Roles:  FormatRoles(p.Roles...),
		Scope:  p.ScopeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.Secret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return signed, ttl, nil
}

// Parse verifies raw and rebuilds the principal it was issued for.
func (t Tokens) Parse(raw string) (Principal, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(tok *jwt.Token) (any, error) {
		return t.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Anonymous, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.UserID == 0 {
		return Anonymous, ErrInvalidToken
	}
	return NewPrincipal(c.UserID, c.Subject, c.Roles, c.Scope), nil
}
