package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intconfig "beercatalog/internal/config"
	intdb "beercatalog/internal/db"
	"beercatalog/internal/domain"
	"beercatalog/internal/domain/models"
	"beercatalog/internal/query"
)

const beerColumns = "id, name, abv, style, description, manufacturer_id, created_at, updated_at"

// catalogLimit caps the beers rendered on a manufacturer catalog sheet.
const catalogLimit = 500

var beerEntity = query.Entity{
	Table:   "beers",
	Columns: []string{"id", "name", "abv", "style", "description", "manufacturer_id", "created_at", "updated_at"},
	Sortable: map[string]string{
		"id":             "id",
		"name":           "name",
		"abv":            "abv",
		"style":          "style",
		"manufacturerid": "manufacturer_id",
	},
	Fallback: "id",
}

type BeerRepository struct {
	DB *sql.DB
}

func (r BeerRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func beerNotFound(id int64) error {
	return domain.NotFoundError{
		Resource: "Beer",
		ID:       id,
		Msg:      fmt.Sprintf("Beer with ID %d not found", id),
	}
}

func scanBeer(s query.Scanner) (models.Beer, error) {
	var (
		b           models.Beer
		abv         sql.NullFloat64
		style       sql.NullString
		description sql.NullString
	)
	if err := s.Scan(&b.ID, &b.Name, &abv, &style, &description, &b.ManufacturerID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return models.Beer{}, err
	}
	if abv.Valid {
		v := abv.Float64
		b.Abv = &v
	}
	b.Style = style.String
	b.Description = description.String
	return b, nil
}

func (r BeerRepository) FindByID(ctx context.Context, id int64) (models.Beer, error) {
	row := r.db().QueryRowContext(ctx, `SELECT `+beerColumns+` FROM beers WHERE id = ? LIMIT 1`, id)
	b, err := scanBeer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Beer{}, beerNotFound(id)
	}
	if err != nil {
		return models.Beer{}, intdb.Translate(fmt.Errorf("find beer %d: %w", id, err), "beer")
	}
	return b, nil
}

// OwnerOf returns the manufacturer id of a beer.
func (r BeerRepository) OwnerOf(ctx context.Context, id int64) (int64, error) {
	var mid int64
	err := r.db().QueryRowContext(ctx, `SELECT manufacturer_id FROM beers WHERE id = ? LIMIT 1`, id).Scan(&mid)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, beerNotFound(id)
	}
	if err != nil {
		return 0, intdb.Translate(fmt.Errorf("beer owner %d: %w", id, err), "beer")
	}
	return mid, nil
}

func (r BeerRepository) Insert(ctx context.Context, b models.Beer) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO beers (name, abv, style, description, manufacturer_id)
		VALUES (?, ?, ?, ?, ?)`,
		b.Name, b.Abv, intdb.NullIfEmpty(b.Style), intdb.NullIfEmpty(b.Description), b.ManufacturerID,
	)
	if err != nil {
		return 0, intdb.Translate(fmt.Errorf("insert beer: %w", err), "beer")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, intdb.Translate(fmt.Errorf("insert beer id: %w", err), "beer")
	}
	return id, nil
}

func (r BeerRepository) Update(ctx context.Context, b models.Beer) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE beers
		SET name = ?, abv = ?, style = ?, description = ?
		WHERE id = ?`,
		b.Name, b.Abv, intdb.NullIfEmpty(b.Style), intdb.NullIfEmpty(b.Description), b.ID,
	)
	if err != nil {
		return intdb.Translate(fmt.Errorf("update beer %d: %w", b.ID, err), "beer")
	}
	return nil
}

func (r BeerRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db().ExecContext(ctx, `DELETE FROM beers WHERE id = ?`, id)
	if err != nil {
		return intdb.Translate(fmt.Errorf("delete beer %d: %w", id, err), "beer")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return beerNotFound(id)
	}
	return nil
}

func beerPredicates(f domain.BeerFilter) []query.Predicate {
	return []query.Predicate{
		query.Contains("name", f.Name),
		query.Contains("style", f.Style),
		query.Eq("manufacturer_id", f.ManufacturerID),
		query.AtLeast("abv", f.MinAbv),
		query.AtMost("abv", f.MaxAbv),
	}
}

// List returns one page of beers matching f.
func (r BeerRepository) List(ctx context.Context, f domain.BeerFilter, sort query.SortSpec, page query.PageRequest) (query.Page[models.Beer], error) {
	rows, count, err := query.Compose(beerEntity, beerPredicates(f), sort, page)
	if err != nil {
		return query.Page[models.Beer]{}, err
	}
	return query.Assemble(ctx, r.db(), rows, count, page, scanBeer)
}

// ListByManufacturer returns the manufacturer's beers ordered by name.
func (r BeerRepository) ListByManufacturer(ctx context.Context, manufacturerID int64) ([]models.Beer, error) {
	rs, err := r.db().QueryContext(ctx, `
		SELECT `+beerColumns+`
		FROM beers
		WHERE manufacturer_id = ?
		ORDER BY name ASC, id ASC
		LIMIT ?`, manufacturerID, catalogLimit)
	if err != nil {
		return nil, intdb.Translate(fmt.Errorf("list beers of %d: %w", manufacturerID, err), "beer")
	}
	defer rs.Close()

	out := []models.Beer{}
	for rs.Next() {
		b, err := scanBeer(rs)
		if err != nil {
			return nil, intdb.Translate(fmt.Errorf("scan beer: %w", err), "beer")
		}
		out = append(out, b)
	}
	if err := rs.Err(); err != nil {
		return nil, intdb.Translate(fmt.Errorf("list beers of %d: %w", manufacturerID, err), "beer")
	}
	return out, nil
}
