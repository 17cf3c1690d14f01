package orders

import (
	"context"
	"regexp"
	"testing"

	"donpollo_back_end/internal/apperr"
	"donpollo_back_end/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*MySQLRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMySQLRepository(db), mock
}

func sampleOrder() (*models.Order, []models.OrderLine, *models.Invoice) {
	order := &models.Order{
		OrderNumber:     "ORD-20240315143005",
		CustomerName:    "Ana Gómez",
		CustomerPhone:   "3001234567",
		CustomerAddress: "Calle 10 #5-20",
		PaymentMethod:   "efectivo",
		Total:           decimal.NewFromInt(30000),
		Status:          models.OrderStatusPending,
		CreatedAt:       fixedNow,
	}
	lines := []models.OrderLine{{
		ProductID:   1,
		ProductName: "Pechuga de Pollo",
		Quantity:    2,
		UnitPrice:   decimal.NewFromInt(15000),
		Subtotal:    decimal.NewFromInt(30000),
	}}
	invoice := &models.Invoice{InvoiceNumber: "FAC-20240315143005", CreatedAt: fixedNow}
	return order, lines, invoice
}

func expectOrderInsert(mock sqlmock.Sqlmock, order *models.Order) *sqlmock.ExpectedExec {
	return mock.ExpectExec(regexp.QuoteMeta(insertOrderSQL)).
		WithArgs(order.OrderNumber, order.CustomerName, order.CustomerPhone, order.CustomerAddress,
			order.PaymentMethod, order.Total, order.Status, sqlmock.AnyArg())
}

func TestCreateCommitsEverything(t *testing.T) {
	repo, mock := newMockRepo(t)
	order, lines, invoice := sampleOrder()

	mock.ExpectBegin()
	expectOrderInsert(mock, order).WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertLineSQL)).
		WithArgs(int64(7), int64(1), "Pechuga de Pollo", 2, decimal.NewFromInt(15000), decimal.NewFromInt(30000)).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta(decrementStockSQL)).
		WithArgs(2, int64(1), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertInvoiceSQL)).
		WithArgs(int64(7), "FAC-20240315143005", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), order, lines, invoice))

	assert.Equal(t, int64(7), order.ID)
	assert.Equal(t, int64(11), lines[0].ID)
	assert.Equal(t, int64(7), lines[0].OrderID)
	assert.Equal(t, int64(3), invoice.ID)
	assert.Equal(t, int64(7), invoice.OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRollsBackOnInsufficientStock(t *testing.T) {
	repo, mock := newMockRepo(t)
	order, lines, invoice := sampleOrder()

	mock.ExpectBegin()
	expectOrderInsert(mock, order).WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertLineSQL)).WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta(decrementStockSQL)).
		WithArgs(2, int64(1), 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(productExistsSQL)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), order, lines, invoice)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Zero(t, order.ID, "aucun identifiant attribué après rollback")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRollsBackOnDeletedProduct(t *testing.T) {
	repo, mock := newMockRepo(t)
	order, lines, invoice := sampleOrder()

	mock.ExpectBegin()
	expectOrderInsert(mock, order).WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertLineSQL)).WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta(decrementStockSQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(productExistsSQL)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), order, lines, invoice)
	var missing *apperr.MissingProductError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, int64(1), missing.ProductID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NotErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRollsBackWhenInvoiceFails(t *testing.T) {
	repo, mock := newMockRepo(t)
	order, lines, invoice := sampleOrder()

	mock.ExpectBegin()
	expectOrderInsert(mock, order).WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertLineSQL)).WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta(decrementStockSQL)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(insertInvoiceSQL)).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'FAC-20240315143005'"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), order, lines, invoice)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateOrderNumberIsConflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	order, lines, invoice := sampleOrder()

	mock.ExpectBegin()
	expectOrderInsert(mock, order).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ORD-20240315143005'"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), order, lines, invoice)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

var orderCols = []string{"id", "order_number", "customer_name", "customer_phone", "customer_address", "payment_method", "total", "status", "created_at"}
var lineCols = []string{"id", "order_id", "product_id", "product_name", "quantity", "unit_price", "subtotal"}

func TestFindByNumber(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(confirmationSQL)).
		WithArgs("ORD-20240315143005").
		WillReturnRows(sqlmock.NewRows(append(orderCols, "invoice_number")).
			AddRow(int64(7), "ORD-20240315143005", "Ana Gómez", "3001234567", "Calle 10 #5-20", "efectivo", "30000.00", "pending", fixedNow, "FAC-20240315143005"))
	mock.ExpectQuery(regexp.QuoteMeta(linesSQL)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(lineCols).
			AddRow(int64(11), int64(7), int64(1), "Pechuga de Pollo", int64(2), "15000.00", "30000.00"))

	conf, err := repo.FindByNumber(context.Background(), "ORD-20240315143005")
	require.NoError(t, err)
	assert.Equal(t, "FAC-20240315143005", conf.InvoiceNumber)
	assert.True(t, conf.Order.Total.Equal(decimal.NewFromInt(30000)))
	require.Len(t, conf.Lines, 1)
	assert.Equal(t, 2, conf.Lines[0].Quantity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByNumberNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(confirmationSQL)).
		WithArgs("ORD-00000000000000").
		WillReturnRows(sqlmock.NewRows(append(orderCols, "invoice_number")))

	_, err := repo.FindByNumber(context.Background(), "ORD-00000000000000")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListInvoicesAndStats(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(listInvoiceSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"invoice_number", "order_number", "customer_name", "total", "created_at"}).
			AddRow("FAC-2", "ORD-2", "Luis", "12000.00", fixedNow).
			AddRow("FAC-1", "ORD-1", "Ana", "30000.00", fixedNow))
	mock.ExpectQuery(regexp.QuoteMeta(statsSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"p", "o", "i", "r"}).
			AddRow(int64(6), int64(2), int64(2), "42000.00"))

	invoices, err := repo.ListInvoices(context.Background())
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "FAC-2", invoices[0].InvoiceNumber)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(6), stats.Products)
	assert.True(t, stats.Revenue.Equal(decimal.NewFromInt(42000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(orderByIDSQL)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(orderCols))

	_, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
