package services

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"beercatalog/internal/auth"
	"beercatalog/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// plainHasher keeps tests fast; bcrypt is covered in the auth package.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }
func (plainHasher) Compare(h, p string) bool     { return h == "hashed:"+p }

var (
	admin   = auth.NewPrincipal(1, "root", "ADMIN", nil)
	brewery = auth.NewPrincipal(2, "brewery", "MANUFACTURER", ptr(5))
	nobody  = auth.Anonymous
)

func ptr(v int64) *int64 { return &v }

func newServiceMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	prev := utils.L()
	utils.SetLogger(zap.New(core))
	t.Cleanup(func() { utils.SetLogger(prev) })
	return logs
}

var manufacturerRow = []string{"id", "name", "country", "user_id", "created_at", "updated_at"}

func manufacturerRows(id int64, name, country string, userID any) *sqlmock.Rows {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return sqlmock.NewRows(manufacturerRow).AddRow(id, name, country, userID, now, now)
}

var beerRow = []string{"id", "name", "abv", "style", "description", "manufacturer_id", "created_at", "updated_at"}

func beerRows(id int64, name string, abv any, manufacturerID int64) *sqlmock.Rows {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return sqlmock.NewRows(beerRow).AddRow(id, name, abv, "Lager", "Crisp", manufacturerID, now, now)
}

func noRows() *sqlmock.Rows { return sqlmock.NewRows([]string{"1"}) }
func oneRow() *sqlmock.Rows { return sqlmock.NewRows([]string{"1"}).AddRow(1) }

func hasMessage(logs *observer.ObservedLogs, fragment string) bool {
	for _, e := range logs.All() {
		if strings.Contains(e.Message, fragment) {
			return true
		}
	}
	return false
}

var fixedTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
