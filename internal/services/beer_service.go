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

const maxAbv = 100.0

type BeerService struct {
	Beers         repositories.BeerRepository
	Manufacturers repositories.ManufacturerRepository
	Cache         *ReadCache
}

func validateAbv(abv *float64) error {
	if abv != nil && (*abv < 0 || *abv > maxAbv) {
		return domain.ValidationError{Field: "abv", Msg: "ABV must be between 0 and 100"}
	}
	return nil
}

// Create adds a beer to the manufacturer's catalog. The caller must be an
// admin or act for that manufacturer.
func (s BeerService) Create(ctx context.Context, p auth.Principal, manufacturerID int64, in models.BeerInput) (models.BeerUpsertResponse, error) {
	var (
		name    = utils.TrimOrEmpty(in.Name)
		created int64
	)

	err := runStages(ctx, "beer.create",
		step("validate", func(context.Context) error {
			if name == "" {
				return domain.ValidationError{Field: "name", Msg: "Beer name must not be null"}
			}
			return validateAbv(in.Abv)
		}),
		step("manufacturer_exists", func(ctx context.Context) error {
			ok, err := s.Manufacturers.ExistsByID(ctx, manufacturerID)
			if err != nil {
				return err
			}
			if !ok {
				return domain.NotFoundError{
					Resource: "Manufacturer",
					ID:       manufacturerID,
					Msg:      fmt.Sprintf("Manufacturer with ID %d not found.", manufacturerID),
				}
			}
			return nil
		}),
		step("authorize", func(context.Context) error {
			return auth.Authorize(p, auth.OwnerOrAdmin, &manufacturerID).Err()
		}),
		step("persist", func(ctx context.Context) error {
			id, err := s.Beers.Insert(ctx, models.Beer{
				Name:           name,
				Abv:            in.Abv,
				Style:          utils.TrimOrEmpty(in.Style),
				Description:    strings.TrimSpace(in.Description),
				ManufacturerID: manufacturerID,
			})
			if err != nil {
				return err
			}
			created = id
			return nil
		}),
	)
	if err != nil {
		return models.BeerUpsertResponse{}, err
	}

	utils.LogEvent(ctx, "beer", "create", "beer created",
		zap.Int64("beer_id", created), zap.Int64("manufacturer_id", manufacturerID))
	return models.BeerUpsertResponse{ID: created, Name: name}, nil
}

// Update applies the non-blank fields of in.
func (s BeerService) Update(ctx context.Context, p auth.Principal, id int64, in models.BeerInput) (models.BeerUpsertResponse, error) {
	var b models.Beer

	err := runStages(ctx, "beer.update",
		step("load", func(ctx context.Context) error {
			var err error
			b, err = s.Beers.FindByID(ctx, id)
			return err
		}),
		step("authorize", func(context.Context) error {
			return auth.Authorize(p, auth.OwnerOrAdmin, &b.ManufacturerID).Err()
		}),
		step("apply", func(context.Context) error {
			if err := validateAbv(in.Abv); err != nil {
				return err
			}
			if name := utils.TrimOrEmpty(in.Name); name != "" {
				b.Name = name
			}
			if in.Abv != nil {
				b.Abv = in.Abv
			}
			if style := utils.TrimOrEmpty(in.Style); style != "" {
				b.Style = style
			}
			if desc := strings.TrimSpace(in.Description); desc != "" {
				b.Description = desc
			}
			return nil
		}),
		step("persist", func(ctx context.Context) error {
			return s.Beers.Update(ctx, b)
		}),
		step("invalidate", func(context.Context) error {
			s.Cache.invalidate(beerKey(b.ID))
			return nil
		}),
	)
	if err != nil {
		return models.BeerUpsertResponse{}, err
	}

	utils.LogEvent(ctx, "beer", "update", "beer updated", zap.Int64("beer_id", b.ID))
	return models.BeerUpsertResponse{ID: b.ID, Name: b.Name}, nil
}

func (s BeerService) Read(ctx context.Context, id int64) (models.BeerReadResponse, error) {
	key := beerKey(id)
	if v, ok := s.Cache.get(key); ok {
		if out, ok := v.(models.BeerReadResponse); ok {
			return out, nil
		}
	}
	b, err := s.Beers.FindByID(ctx, id)
	if err != nil {
		return models.BeerReadResponse{}, err
	}
	out := models.BeerReadResponse{Name: b.Name, Abv: b.Abv, Style: b.Style, Description: b.Description}
	s.Cache.set(key, out)
	return out, nil
}

func toBeerListResponse(b models.Beer) models.BeerListResponse {
	return models.BeerListResponse{
		ID:             b.ID,
		Name:           b.Name,
		Abv:            b.Abv,
		Style:          b.Style,
		Description:    b.Description,
		ManufacturerID: b.ManufacturerID,
	}
}

func (s BeerService) List(ctx context.Context, f domain.BeerFilter, sort query.SortSpec, page query.PageRequest) (query.Page[models.BeerListResponse], error) {
	if strings.TrimSpace(sort.Column) == "" {
		sort = DefaultSort
	}
	if f.MinAbv != nil && f.MaxAbv != nil && *f.MinAbv > *f.MaxAbv {
		return query.Page[models.BeerListResponse]{}, domain.ValidationError{Field: "minAbv", Msg: "minAbv must not exceed maxAbv"}
	}
	rows, err := s.Beers.List(ctx, f, sort, page)
	if err != nil {
		return query.Page[models.BeerListResponse]{}, err
	}
	return query.MapPage(rows, toBeerListResponse), nil
}

func (s BeerService) Delete(ctx context.Context, p auth.Principal, id int64) error {
	var owner int64

	err := runStages(ctx, "beer.delete",
		step("exists", func(ctx context.Context) error {
			var err error
			owner, err = s.Beers.OwnerOf(ctx, id)
			return err
		}),
		step("authorize", func(context.Context) error {
			return auth.Authorize(p, auth.OwnerOrAdmin, &owner).Err()
		}),
		step("delete", func(ctx context.Context) error {
			return s.Beers.Delete(ctx, id)
		}),
		step("invalidate", func(context.Context) error {
			s.Cache.invalidate(beerKey(id))
			return nil
		}),
	)
	if err != nil {
		return err
	}

	utils.LogEvent(ctx, "beer", "delete", "beer deleted", zap.Int64("beer_id", id))
	return nil
}
