package services

import (
	"context"
	"fmt"
	"strings"

	"beercatalog/internal/auth"
	"beercatalog/internal/domain"
	"beercatalog/internal/domain/models"
	"beercatalog/internal/query"
	"beercatalog/internal/repositories"
	"beercatalog/internal/utils"

	"go.uber.org/zap"
)

// DefaultSort orders listings when the caller gives no sort parameter.
var DefaultSort = query.SortSpec{Column: "name", Direction: query.Asc}

// ManufacturerService owns manufacturers and the login accounts created for
// them.
type ManufacturerService struct {
	Manufacturers repositories.ManufacturerRepository
	Accounts      repositories.UserRepository
	Hasher        auth.Hasher
	Cache         *ReadCache
}

func (s ManufacturerService) hasher() auth.Hasher {
	if s.Hasher != nil {
		return s.Hasher
	}
	return auth.BcryptHasher{}
}

func duplicateName(kind, name string) error {
	return domain.ValidationError{Field: "name", Msg: fmt.Sprintf("%s with name %s already exists", kind, name)}
}

// Create registers a manufacturer together with its MANUFACTURER account.
// Admin only.
func (s ManufacturerService) Create(ctx context.Context, p auth.Principal, in models.ManufacturerInput) (models.ManufacturerUpsertResponse, error) {
	var (
		userName = utils.TrimOrEmpty(in.UserName)
		name     = utils.TrimOrEmpty(in.Name)
		hash     string
		account  int64
		created  int64
	)

	err := runStages(ctx, "manufacturer.create",
		step("validate", func(context.Context) error {
			switch {
			case userName == "":
				return domain.ValidationError{Field: "userName", Msg: "User name must not be null"}
			case utils.IsBlank(in.Password):
				return domain.ValidationError{Field: "password", Msg: "Password must not be null"}
			case name == "":
				return domain.ValidationError{Field: "name", Msg: "Manufacturer name must not be null"}
			}
			return nil
		}),
		step("authorize", func(context.Context) error {
			return auth.Authorize(p, auth.AdminOnly, nil).Err()
		}),
		step("unique_user", func(ctx context.Context) error {
			taken, err := s.Accounts.ExistsByName(ctx, userName)
			if err != nil {
				return err
			}
			if taken {
				return duplicateName("User", userName)
			}
			return nil
		}),
		step("unique_name", func(ctx context.Context) error {
			taken, err := s.Manufacturers.ExistsByName(ctx, name)
			if err != nil {
				return err
			}
			if taken {
				return duplicateName("Manufacturer", name)
			}
			return nil
		}),
		step("hash", func(context.Context) error {
			h, err := s.hasher().Hash(in.Password)
			if err != nil {
				return domain.UnavailableError{Msg: "could not hash password", Err: err}
			}
			hash = h
			return nil
		}),
		step("create_account", func(ctx context.Context) error {
			enabled := true
			if in.UserEnabled != nil {
				enabled = *in.UserEnabled
			}
			id, err := s.Accounts.Insert(ctx, models.Account{
				Name:         userName,
				PasswordHash: hash,
				Roles:        auth.FormatRoles(auth.RoleManufacturer),
				Enabled:      enabled,
			})
			if err != nil {
				return err
			}
			account = id
			return nil
		}),
		step("create_manufacturer", func(ctx context.Context) error {
			id, err := s.Manufacturers.Insert(ctx, models.Manufacturer{
				Name:    name,
				Country: utils.TrimOrEmpty(in.Country),
				UserID:  &account,
			})
			if err != nil {
				return err
			}
			created = id
			return nil
		}),
	)
	if err != nil {
		if account != 0 && created == 0 {
			utils.Logger(ctx).Warn("cleanup needed: account left without manufacturer",
				zap.Int64("orphan_account_id", account),
				zap.String("user_name", userName),
			)
		}
		return models.ManufacturerUpsertResponse{}, err
	}

	utils.LogEvent(ctx, "manufacturer", "create", "manufacturer created",
		zap.Int64("manufacturer_id", created), zap.Int64("account_id", account))
	return models.ManufacturerUpsertResponse{ID: created, Name: name}, nil
}

// Update applies the non-blank fields of in. Account fields only apply when
// the manufacturer has an account.
func (s ManufacturerService) Update(ctx context.Context, p auth.Principal, id int64, in models.ManufacturerInput) (models.ManufacturerUpsertResponse, error) {
	var (
		m           models.Manufacturer
		account     models.Account
		name        = utils.TrimOrEmpty(in.Name)
		userName    = utils.TrimOrEmpty(in.UserName)
		touchesUser = userName != "" || !utils.IsBlank(in.Password) || in.UserEnabled != nil
	)

	err := runStages(ctx, "manufacturer.update",
		step("load", func(ctx context.Context) error {
			var err error
			m, err = s.Manufacturers.FindByID(ctx, id)
			return err
		}),
		step("authorize", func(context.Context) error {
			return auth.Authorize(p, auth.OwnerOrAdmin, &m.ID).Err()
		}),
		step("unique", func(ctx context.Context) error {
			if name != "" && name != m.Name {
				taken, err := s.Manufacturers.ExistsByNameAndIDNot(ctx, name, m.ID)
				if err != nil {
					return err
				}
				if taken {
					return duplicateName("Manufacturer", name)
				}
			}
			if userName != "" && m.UserID != nil {
				taken, err := s.Accounts.ExistsByNameAndIDNot(ctx, userName, *m.UserID)
				if err != nil {
					return err
				}
				if taken {
					return duplicateName("User", userName)
				}
			}
			return nil
		}),
		step("apply", func(ctx context.Context) error {
			if name != "" {
				m.Name = name
			}
			if country := utils.TrimOrEmpty(in.Country); country != "" {
				m.Country = country
			}
			if !touchesUser || m.UserID == nil {
				return nil
			}
			var err error
			if account, err = s.Accounts.FindByID(ctx, *m.UserID); err != nil {
				return err
			}
			if userName != "" {
				account.Name = userName
			}
			if !utils.IsBlank(in.Password) {
				h, err := s.hasher().Hash(in.Password)
				if err != nil {
					return domain.UnavailableError{Msg: "could not hash password", Err: err}
				}
				account.PasswordHash = h
			}
			if in.UserEnabled != nil {
				account.Enabled = *in.UserEnabled
			}
			return nil
		}),
		step("persist", func(ctx context.Context) error {
			if err := s.Manufacturers.Update(ctx, m); err != nil {
				return err
			}
			if account.ID != 0 {
				return s.Accounts.Update(ctx, account)
			}
			return nil
		}),
		step("invalidate", func(context.Context) error {
			s.Cache.invalidate(manufacturerKey(m.ID))
			return nil
		}),
	)
	if err != nil {
		return models.ManufacturerUpsertResponse{}, err
	}

	utils.LogEvent(ctx, "manufacturer", "update", "manufacturer updated", zap.Int64("manufacturer_id", m.ID))
	return models.ManufacturerUpsertResponse{ID: m.ID, Name: m.Name}, nil
}

func (s ManufacturerService) Read(ctx context.Context, id int64) (models.ManufacturerReadResponse, error) {
	key := manufacturerKey(id)
	if v, ok := s.Cache.get(key); ok {
		if out, ok := v.(models.ManufacturerReadResponse); ok {
			return out, nil
		}
	}
	m, err := s.Manufacturers.FindByID(ctx, id)
	if err != nil {
		return models.ManufacturerReadResponse{}, err
	}
	out := models.ManufacturerReadResponse{Name: m.Name, Country: m.Country}
	s.Cache.set(key, out)
	return out, nil
}

func (s ManufacturerService) List(ctx context.Context, f domain.ManufacturerFilter, sort query.SortSpec, page query.PageRequest) (query.Page[models.ManufacturerListResponse], error) {
	if strings.TrimSpace(sort.Column) == "" {
		sort = DefaultSort
	}
	rows, err := s.Manufacturers.List(ctx, f, sort, page)
	if err != nil {
		return query.Page[models.ManufacturerListResponse]{}, err
	}
	return query.MapPage(rows, func(m models.Manufacturer) models.ManufacturerListResponse {
		return models.ManufacturerListResponse{ID: m.ID, Name: m.Name, Country: m.Country}
	}), nil
}

// Delete removes a manufacturer without beers together with its account.
// Admin only.
func (s ManufacturerService) Delete(ctx context.Context, p auth.Principal, id int64) error {
	var m models.Manufacturer

	err := runStages(ctx, "manufacturer.delete",
		step("exists", func(ctx context.Context) error {
			var err error
			m, err = s.Manufacturers.FindByID(ctx, id)
			return err
		}),
		step("has_beers", func(ctx context.Context) error {
			has, err := s.Manufacturers.HasBeers(ctx, id)
			if err != nil {
				return err
			}
			if has {
				return domain.ValidationError{
					Field: "id",
					Msg:   fmt.Sprintf("Cannot delete manufacturer with id %d because it has associated beers", id),
				}
			}
			return nil
		}),
		step("authorize", func(context.Context) error {
			return auth.Authorize(p, auth.AdminOnly, &m.ID).Err()
		}),
		step("delete", func(ctx context.Context) error {
			return s.Manufacturers.DeleteWithAccount(ctx, m.ID, m.UserID)
		}),
		step("invalidate", func(context.Context) error {
			s.Cache.invalidate(manufacturerKey(id))
			return nil
		}),
	)
	if err != nil {
		return err
	}

	utils.LogEvent(ctx, "manufacturer", "delete", "manufacturer deleted", zap.Int64("manufacturer_id", id))
	return nil
}
