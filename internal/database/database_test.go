package database

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"donpollo_back_end/internal/config"
	"donpollo_back_end/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSNFromParts(t *testing.T) {
	dsn, err := DSN(config.MySQLConfig{Host: "db", Port: "3306", User: "pollo", Password: "s3cret", Name: "pollo_tienda"})
	require.NoError(t, err)

	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db:3306", parsed.Addr)
	assert.Equal(t, "pollo_tienda", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.True(t, parsed.ClientFoundRows)
}

func TestDSNFromURLKeepsFlags(t *testing.T) {
	dsn, err := DSN(config.MySQLConfig{DSN: "root:pw@tcp(localhost:3307)/tienda"})
	require.NoError(t, err)
	assert.True(t, strings.Contains(dsn, "parseTime=true"))
	assert.True(t, strings.Contains(dsn, "clientFoundRows=true"))

	_, err = DSN(config.MySQLConfig{DSN: "pas une dsn"})
	assert.Error(t, err)
}

func TestMigrateRunsEveryStatement(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range schema {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, Migrate(context.Background(), db, 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateReportsPersistentFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS products").WillReturnError(errors.New("accès refusé"))

	assert.Error(t, Migrate(context.Background(), db, 0))
}

func TestSeedEmptyDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	products := []models.Product{{Name: "Pechuga de Pollo", Description: "Pechuga fresca sin hueso", Price: decimal.NewFromInt(15000), Stock: 50, Image: "pechuga.jpg"}}

	mock.ExpectQuery(regexp.QuoteMeta(countAdminSQL)).WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(int64(0)))
	mock.ExpectExec(regexp.QuoteMeta(insertAdminSQL)).
		WithArgs("admin", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(countProductsSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(int64(0)))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(seedProductSQL)).
		WithArgs("Pechuga de Pollo", "Pechuga fresca sin hueso", decimal.NewFromInt(15000), 50, "pechuga.jpg").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, Seed(context.Background(), db, "admin", "admin123", products))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedExistingDatabaseIsUntouched(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(countAdminSQL)).WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta(countProductsSQL)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(int64(6)))

	require.NoError(t, Seed(context.Background(), db, "admin", "admin123", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
