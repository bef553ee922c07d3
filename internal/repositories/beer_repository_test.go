package repositories

import (
	"context"
	"testing"
	"time"

	"beercatalog/internal/domain"
	"beercatalog/internal/domain/models"
	"beercatalog/internal/query"

	"github.com/DATA-DOG/go-sqlmock"
)

var beerCols = []string{"id", "name", "abv", "style", "description", "manufacturer_id", "created_at", "updated_at"}

func manufacturerFixture() models.Manufacturer {
	return models.Manufacturer{Name: "Acme", Country: "Belgium"}
}

func TestBeerListBindsRangeFilters(t *testing.T) {
	db, mock := newRepoMock(t)
	mock.MatchExpectationsInOrder(false)
	now := time.Now()
	minAbv, maxAbv := 5.0, 8.5
	mid := int64(2)

	mock.ExpectQuery("FROM beers WHERE 1=1 AND manufacturer_id = \\? AND abv >= \\? AND abv <= \\? ORDER BY name ASC, id ASC LIMIT").
		WithArgs(int64(2), 5.0, 8.5, 20, 0).
		WillReturnRows(sqlmock.NewRows(beerCols).
			AddRow(int64(1), "Tripel", 8.0, "Belgian", nil, int64(2), now, now).
			AddRow(int64(4), "Dubbel", nil, nil, nil, int64(2), now, now))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM beers WHERE 1=1 AND manufacturer_id = \\?").
		WithArgs(int64(2), 5.0, 8.5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	page, err := BeerRepository{DB: db}.List(context.Background(),
		domain.BeerFilter{ManufacturerID: &mid, MinAbv: &minAbv, MaxAbv: &maxAbv},
		query.SortSpec{Column: "name"},
		query.PageRequest{Index: 0, Size: 20},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Content) != 2 {
		t.Fatalf("expected 2 beers, got %d", len(page.Content))
	}
	if page.Content[0].Abv == nil || *page.Content[0].Abv != 8.0 {
		t.Fatalf("abv not scanned: %+v", page.Content[0])
	}
	if page.Content[1].Abv != nil || page.Content[1].Style != "" {
		t.Fatalf("null columns should stay empty: %+v", page.Content[1])
	}
}

func TestBeerListInvalidPageSkipsStorage(t *testing.T) {
	db, mock := newRepoMock(t)

	_, err := BeerRepository{DB: db}.List(context.Background(), domain.BeerFilter{}, query.SortSpec{}, query.PageRequest{Index: -1, Size: 10})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("storage should not be touched: %v", err)
	}
}

func TestBeerDeleteMissingIsNotFound(t *testing.T) {
	db, mock := newRepoMock(t)
	mock.ExpectExec("DELETE FROM beers WHERE id = \\?").WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := BeerRepository{DB: db}.Delete(context.Background(), 7)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err.Error() != "Beer with ID 7 not found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAccountLookupJoinsManufacturer(t *testing.T) {
	db, mock := newRepoMock(t)
	now := time.Now()
	mock.ExpectQuery("FROM users u\\s+LEFT JOIN manufacturers m ON m.user_id = u.id WHERE u.name = \\? AND u.enabled = 1").
		WithArgs("brewery").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "password_hash", "roles", "enabled", "mid", "created_at", "updated_at"}).
			AddRow(int64(3), "brewery", "hash", "MANUFACTURER", true, int64(12), now, now))

	a, err := UserRepository{DB: db}.FindEnabledByName(context.Background(), "brewery")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ManufacturerID == nil || *a.ManufacturerID != 12 {
		t.Fatalf("manufacturer id not joined: %+v", a)
	}
}
