package db

import (
	"context"
	"database/sql"
	"errors"

	"beercatalog/internal/domain"

	"github.com/go-sql-driver/mysql"
)

const mysqlDuplicateEntry = 1062

type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NullIfEmpty stores blank optional strings as NULL.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// IsDuplicateKey reports a unique-index violation.
func IsDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

// Translate maps driver errors onto domain kinds. Duplicate keys become
// ConflictError for resource, anything else is unavailable storage.
func Translate(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case IsDuplicateKey(err):
		return domain.ConflictError{Resource: resource, Msg: "duplicate value", Err: err}
	default:
		return domain.Unavailable(err)
	}
}

// HasTable checks information_schema for table in the current database.
func HasTable(ctx context.Context, q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}
