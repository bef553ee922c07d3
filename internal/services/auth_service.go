package services

import (
	"context"
	"errors"

	"beercatalog/internal/auth"
	"beercatalog/internal/domain"
	"beercatalog/internal/domain/models"
	"beercatalog/internal/repositories"
	"beercatalog/internal/utils"

	"go.uber.org/zap"
)

var errBadCredentials = domain.UnauthenticatedError{Msg: "Invalid username or password"}

type AuthService struct {
	Accounts repositories.UserRepository
	Hasher   auth.Hasher
	Tokens   auth.Tokens
}

type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (s AuthService) hasher() auth.Hasher {
	if s.Hasher != nil {
		return s.Hasher
	}
	return auth.BcryptHasher{}
}

// Authenticate checks credentials of an enabled account and resolves its
// principal.
func (s AuthService) Authenticate(ctx context.Context, name, password string) (auth.Principal, error) {
	name = utils.TrimOrEmpty(name)
	if name == "" || password == "" {
		return auth.Anonymous, errBadCredentials
	}
	a, err := s.Accounts.FindEnabledByName(ctx, name)
	if domain.IsNotFound(err) {
		return auth.Anonymous, errBadCredentials
	}
	if err != nil {
		return auth.Anonymous, err
	}
	if !s.hasher().Compare(a.PasswordHash, password) {
		return auth.Anonymous, errBadCredentials
	}
	return auth.NewPrincipal(a.ID, a.Name, a.Roles, a.ManufacturerID), nil
}

// Login authenticates and issues a bearer token.
func (s AuthService) Login(ctx context.Context, name, password string) (LoginResult, error) {
	p, err := s.Authenticate(ctx, name, password)
	if err != nil {
		return LoginResult{}, err
	}
	token, ttl, err := s.Tokens.Issue(p)
	if err != nil {
		return LoginResult{}, domain.UnavailableError{Msg: "could not issue token", Err: err}
	}
	utils.LogEvent(ctx, "auth", "login", "token issued", zap.Int64("user_id", p.UserID))
	return LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
	}, nil
}

// ParseToken resolves the principal of a bearer token.
func (s AuthService) ParseToken(raw string) (auth.Principal, error) {
	p, err := s.Tokens.Parse(raw)
	if errors.Is(err, auth.ErrInvalidToken) {
		return auth.Anonymous, domain.UnauthenticatedError{Msg: "Invalid or expired token"}
	}
	return p, err
}

// Refresh rebuilds a token principal from the current account row. Disabled
// and deleted accounts are rejected.
func (s AuthService) Refresh(ctx context.Context, p auth.Principal) (auth.Principal, error) {
	a, err := s.Accounts.FindEnabledByID(ctx, p.UserID)
	if domain.IsNotFound(err) {
		return auth.Anonymous, domain.UnauthenticatedError{Msg: "Account is disabled or no longer exists"}
	}
	if err != nil {
		return auth.Anonymous, err
	}
	return auth.NewPrincipal(a.ID, a.Name, a.Roles, a.ManufacturerID), nil
}

// CreateAdmin seeds an ADMIN account.
func (s AuthService) CreateAdmin(ctx context.Context, name, password string) (int64, error) {
	name = utils.TrimOrEmpty(name)
	if name == "" {
		return 0, domain.ValidationError{Field: "name", Msg: "User name must not be null"}
	}
	if utils.IsBlank(password) {
		return 0, domain.ValidationError{Field: "password", Msg: "Password must not be null"}
	}
	taken, err := s.Accounts.ExistsByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, duplicateName("User", name)
	}
	hash, err := s.hasher().Hash(password)
	if err != nil {
		return 0, domain.UnavailableError{Msg: "could not hash password", Err: err}
	}
	id, err := s.Accounts.Insert(ctx, models.Account{
		Name:         name,
		PasswordHash: hash,
		Roles:        auth.FormatRoles(auth.RoleAdmin),
		Enabled:      true,
	})
	if err != nil {
		return 0, err
	}
	utils.LogEvent(ctx, "auth", "create_admin", "admin account created", zap.Int64("user_id", id))
	return id, nil
}
