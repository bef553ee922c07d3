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

const manufacturerColumns = "id, name, country, user_id, created_at, updated_at"

var manufacturerEntity = query.Entity{
	Table:   "manufacturers",
	Columns: []string{"id", "name", "country", "user_id", "created_at", "updated_at"},
	Sortable: map[string]string{
		"id":      "id",
		"name":    "name",
		"country": "country",
	},
	Fallback: "id",
}

type ManufacturerRepository struct {
	DB *sql.DB
}

func (r ManufacturerRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func manufacturerNotFound(id int64) error {
	return domain.NotFoundError{
		Resource: "Manufacturer",
		ID:       id,
		Msg:      fmt.Sprintf("Manufacturer with id %d not found", id),
	}
}

func scanManufacturer(s query.Scanner) (models.Manufacturer, error) {
	var (
		m       models.Manufacturer
		country sql.NullString
		userID  sql.NullInt64
	)
	if err := s.Scan(&m.ID, &m.Name, &country, &userID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return models.Manufacturer{}, err
	}
	m.Country = country.String
	if userID.Valid {
		v := userID.Int64
		m.UserID = &v
	}
	return m, nil
}

func (r ManufacturerRepository) FindByID(ctx context.Context, id int64) (models.Manufacturer, error) {
	row := r.db().QueryRowContext(ctx, `SELECT `+manufacturerColumns+` FROM manufacturers WHERE id = ? LIMIT 1`, id)
	m, err := scanManufacturer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Manufacturer{}, manufacturerNotFound(id)
	}
	if err != nil {
		return models.Manufacturer{}, intdb.Translate(fmt.Errorf("find manufacturer %d: %w", id, err), "manufacturer")
	}
	return m, nil
}

func (r ManufacturerRepository) exists(ctx context.Context, q string, args ...any) (bool, error) {
	var one int
	err := r.db().QueryRowContext(ctx, q, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, intdb.Translate(fmt.Errorf("manufacturer exists: %w", err), "manufacturer")
	}
	return true, nil
}

func (r ManufacturerRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM manufacturers WHERE id = ? LIMIT 1`, id)
}

func (r ManufacturerRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM manufacturers WHERE name = ? LIMIT 1`, name)
}

// ExistsByNameAndIDNot looks for another manufacturer already using name.
func (r ManufacturerRepository) ExistsByNameAndIDNot(ctx context.Context, name string, id int64) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM manufacturers WHERE name = ? AND id <> ? LIMIT 1`, name, id)
}

// HasBeers reports whether any beer references the manufacturer.
func (r ManufacturerRepository) HasBeers(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM beers WHERE manufacturer_id = ? LIMIT 1`, id)
}

func (r ManufacturerRepository) Insert(ctx context.Context, m models.Manufacturer) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO manufacturers (name, country, user_id)
		VALUES (?, ?, ?)`,
		m.Name, intdb.NullIfEmpty(m.Country), m.UserID,
	)
	if err != nil {
		return 0, intdb.Translate(fmt.Errorf("insert manufacturer: %w", err), "manufacturer")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, intdb.Translate(fmt.Errorf("insert manufacturer id: %w", err), "manufacturer")
	}
	return id, nil
}

func (r ManufacturerRepository) Update(ctx context.Context, m models.Manufacturer) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE manufacturers
		SET name = ?, country = ?
		WHERE id = ?`,
		m.Name, intdb.NullIfEmpty(m.Country), m.ID,
	)
	if err != nil {
		return intdb.Translate(fmt.Errorf("update manufacturer %d: %w", m.ID, err), "manufacturer")
	}
	return nil
}

// DeleteWithAccount removes the manufacturer and, when set, its login account
// in one transaction.
func (r ManufacturerRepository) DeleteWithAccount(ctx context.Context, id int64, userID *int64) error {
	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return intdb.Translate(fmt.Errorf("begin delete manufacturer: %w", err), "manufacturer")
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM manufacturers WHERE id = ?`, id)
	if err != nil {
		return intdb.Translate(fmt.Errorf("delete manufacturer %d: %w", id, err), "manufacturer")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return manufacturerNotFound(id)
	}
	if userID != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, *userID); err != nil {
			return intdb.Translate(fmt.Errorf("delete account %d: %w", *userID, err), "account")
		}
	}
	if err := tx.Commit(); err != nil {
		return intdb.Translate(fmt.Errorf("commit delete manufacturer: %w", err), "manufacturer")
	}
	return nil
}

func manufacturerPredicates(f domain.ManufacturerFilter) []query.Predicate {
	return []query.Predicate{
		query.Contains("name", f.Name),
		query.EqFold("country", f.Country),
	}
}

// List returns one page of manufacturers matching f.
func (r ManufacturerRepository) List(ctx context.Context, f domain.ManufacturerFilter, sort query.SortSpec, page query.PageRequest) (query.Page[models.Manufacturer], error) {
	rows, count, err := query.Compose(manufacturerEntity, manufacturerPredicates(f), sort, page)
	if err != nil {
		return query.Page[models.Manufacturer]{}, err
	}
	return query.Assemble(ctx, r.db(), rows, count, page, scanManufacturer)
}
