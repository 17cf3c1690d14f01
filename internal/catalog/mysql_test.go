package catalog

import (
	"context"
	"regexp"
	"testing"

	"donpollo_back_end/internal/apperr"
	"donpollo_back_end/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var productCols = []string{"id", "name", "description", "price", "stock", "image"}

func newMockRepo(t *testing.T) (*MySQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMySQLRepository(db), mock
}

func TestSearchAvailableEscapesPattern(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(searchAvailableSQL)).
		WithArgs(`%50\% de\_pollo%`, `%50\% de\_pollo%`).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(int64(1), "Pechuga de Pollo", nil, "15000.00", int64(50), "pechuga.jpg"))

	products, err := repo.SearchAvailable(context.Background(), "50% DE_POLLO")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Empty(t, products[0].Description)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(15000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAvailableByIDs(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE stock > 0 AND id IN (?, ?) ORDER BY id`)).
		WithArgs(int64(2), int64(5)).
		WillReturnRows(sqlmock.NewRows(productCols))

	products, err := repo.ListAvailableByIDs(context.Background(), []int64{2, 5})
	require.NoError(t, err)
	assert.Empty(t, products)

	products, err = repo.ListAvailableByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(getProductSQL)).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(productCols))

	_, err := repo.GetProduct(context.Background(), 42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestInsertAndDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(insertSQL)).
		WithArgs("Menudencias", nil, decimal.NewFromInt(6000), 10, models.DefaultImage).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteSQL)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	p := &models.Product{Name: "Menudencias", Price: decimal.NewFromInt(6000), Stock: 10, Image: models.DefaultImage}
	require.NoError(t, repo.Insert(context.Background(), p))
	assert.Equal(t, int64(7), p.ID)

	require.NoError(t, repo.Delete(context.Background(), 7))
	assert.ErrorIs(t, repo.Delete(context.Background(), 7), apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
