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

// UserRepository stores login accounts.
type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const accountSelect = `
	SELECT u.id, u.name, u.password_hash, u.roles, u.enabled, m.id, u.created_at, u.updated_at
	FROM users u
	LEFT JOIN manufacturers m ON m.user_id = u.id`

func scanAccount(s query.Scanner) (models.Account, error) {
	var (
		a   models.Account
		mid sql.NullInt64
	)
	if err := s.Scan(&a.ID, &a.Name, &a.PasswordHash, &a.Roles, &a.Enabled, &mid, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return models.Account{}, err
	}
	if mid.Valid {
		v := mid.Int64
		a.ManufacturerID = &v
	}
	return a, nil
}

// FindEnabledByName loads an enabled account together with the manufacturer
// it acts for.
func (r UserRepository) FindEnabledByName(ctx context.Context, name string) (models.Account, error) {
	row := r.db().QueryRowContext(ctx, accountSelect+` WHERE u.name = ? AND u.enabled = 1 LIMIT 1`, name)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, domain.NotFoundError{Resource: "User", Msg: "User " + name + " not found"}
	}
	if err != nil {
		return models.Account{}, intdb.Translate(fmt.Errorf("find account: %w", err), "account")
	}
	return a, nil
}

// FindEnabledByID loads an enabled account by id.
func (r UserRepository) FindEnabledByID(ctx context.Context, id int64) (models.Account, error) {
	row := r.db().QueryRowContext(ctx, accountSelect+` WHERE u.id = ? AND u.enabled = 1 LIMIT 1`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, domain.NotFoundError{Resource: "User", ID: id}
	}
	if err != nil {
		return models.Account{}, intdb.Translate(fmt.Errorf("find account %d: %w", id, err), "account")
	}
	return a, nil
}

func (r UserRepository) FindByID(ctx context.Context, id int64) (models.Account, error) {
	row := r.db().QueryRowContext(ctx, accountSelect+` WHERE u.id = ? LIMIT 1`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, domain.NotFoundError{Resource: "User", ID: id}
	}
	if err != nil {
		return models.Account{}, intdb.Translate(fmt.Errorf("find account %d: %w", id, err), "account")
	}
	return a, nil
}

func (r UserRepository) exists(ctx context.Context, q string, args ...any) (bool, error) {
	var one int
	err := r.db().QueryRowContext(ctx, q, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, intdb.Translate(fmt.Errorf("account exists: %w", err), "account")
	}
	return true, nil
}

func (r UserRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM users WHERE name = ? LIMIT 1`, name)
}

func (r UserRepository) ExistsByNameAndIDNot(ctx context.Context, name string, id int64) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM users WHERE name = ? AND id <> ? LIMIT 1`, name, id)
}

func (r UserRepository) Insert(ctx context.Context, a models.Account) (int64, error) {
	res, err := r.db().ExecContext(ctx, `
		INSERT INTO users (name, password_hash, roles, enabled)
		VALUES (?, ?, ?, ?)`,
		a.Name, a.PasswordHash, a.Roles, a.Enabled,
	)
	if err != nil {
		return 0, intdb.Translate(fmt.Errorf("insert account: %w", err), "account")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, intdb.Translate(fmt.Errorf("insert account id: %w", err), "account")
	}
	return id, nil
}

func (r UserRepository) Update(ctx context.Context, a models.Account) error {
	_, err := r.db().ExecContext(ctx, `
		UPDATE users
		SET name = ?, password_hash = ?, enabled = ?
		WHERE id = ?`,
		a.Name, a.PasswordHash, a.Enabled, a.ID,
	)
	if err != nil {
		return intdb.Translate(fmt.Errorf("update account %d: %w", a.ID, err), "account")
	}
	return nil
}
