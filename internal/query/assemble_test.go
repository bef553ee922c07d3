package query

import (
	"context"
	"errors"
	"math"
	"testing"

	"beercatalog/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   int64
	Name string
}

func scanRow(s Scanner) (row, error) {
	var r row
	err := s.Scan(&r.ID, &r.Name)
	return r, err
}

func newMock(t *testing.T) (sqlmock.Sqlmock, Querier) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	// row and count statements run concurrently
	mock.MatchExpectationsInOrder(false)
	return mock, db
}

var pageEntity = Entity{
	Table:    "manufacturers",
	Columns:  []string{"id", "name"},
	Sortable: map[string]string{"name": "name"},
	Fallback: "id",
}

func TestAssembleCombinesRowsAndCount(t *testing.T) {
	mock, db := newMock(t)
	req := PageRequest{Index: 0, Size: 2}
	rows, count, err := Compose(pageEntity, nil, SortSpec{Column: "name"}, req)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT id, name FROM manufacturers WHERE 1=1 ORDER BY name ASC`).
		WithArgs(2, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(2), "Alpha").AddRow(int64(1), "Beta"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM manufacturers`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))

	page, err := Assemble(context.Background(), db, rows, count, req, scanRow)
	require.NoError(t, err)

	assert.Equal(t, []row{{2, "Alpha"}, {1, "Beta"}}, page.Content)
	assert.Equal(t, int64(7), page.Page.TotalElements)
	assert.Equal(t, int64(4), page.Page.TotalPages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssembleEmptyPageKeepsTotal(t *testing.T) {
	mock, db := newMock(t)
	req := PageRequest{Index: 4, Size: 5}
	rows, count, err := Compose(pageEntity, nil, SortSpec{}, req)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT id, name FROM manufacturers`).
		WithArgs(5, 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM manufacturers`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(12)))

	page, err := Assemble(context.Background(), db, rows, count, req, scanRow)
	require.NoError(t, err)
	assert.Empty(t, page.Content)
	assert.Equal(t, int64(12), page.Page.TotalElements)
	assert.Equal(t, 4, page.Page.Number)
}

func TestAssemblePropagatesCountFailure(t *testing.T) {
	mock, db := newMock(t)
	req := PageRequest{Size: 5}
	rows, count, err := Compose(pageEntity, nil, SortSpec{}, req)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT id, name FROM manufacturers`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Alpha"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM manufacturers`).
		WillReturnError(errors.New("connection reset by peer"))

	page, err := Assemble(context.Background(), db, rows, count, req, scanRow)
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	assert.NotContains(t, err.Error(), "connection reset")
	assert.Nil(t, page.Content)
}

func TestAssemblePropagatesRowFailure(t *testing.T) {
	mock, db := newMock(t)
	req := PageRequest{Size: 5}
	rows, count, err := Compose(pageEntity, nil, SortSpec{}, req)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT id, name FROM manufacturers`).
		WillReturnError(errors.New("table is locked"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM manufacturers`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	_, err = Assemble(context.Background(), db, rows, count, req, scanRow)
	assert.True(t, domain.IsUnavailable(err))
}

func TestAssembleOversizedRequestDoesNotPreallocate(t *testing.T) {
	mock, db := newMock(t)
	rows, count, err := Compose(pageEntity, nil, SortSpec{}, PageRequest{Size: 5})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT id, name FROM manufacturers`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "Alpha"))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM manufacturers`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	var page Page[row]
	require.NotPanics(t, func() {
		page, err = Assemble(context.Background(), db, rows, count, PageRequest{Size: math.MaxInt}, scanRow)
	})
	require.NoError(t, err)
	assert.Len(t, page.Content, 1)
}
