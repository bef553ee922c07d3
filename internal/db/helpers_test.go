package db

import (
	"context"
	"errors"
	"testing"

	"beercatalog/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, Translate(nil, "beer"))

	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'Acme' for key 'uq_manufacturers_name'"}
	err := Translate(dup, "manufacturer")
	assert.True(t, domain.IsConflict(err))
	assert.True(t, IsDuplicateKey(err))

	err = Translate(errors.New("broken pipe"), "manufacturer")
	assert.True(t, domain.IsUnavailable(err))
	assert.NotContains(t, err.Error(), "broken pipe")

	nf := domain.NotFoundError{Resource: "Beer", ID: 4}
	assert.Equal(t, nf, Translate(nf, "beer"))
}

func TestHasTable(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(`information_schema\.tables`).WithArgs("beers").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("beers"))
	mock.ExpectQuery(`information_schema\.tables`).WithArgs("hops").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))

	assert.True(t, HasTable(context.Background(), conn, "beers"))
	assert.False(t, HasTable(context.Background(), conn, "hops"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
