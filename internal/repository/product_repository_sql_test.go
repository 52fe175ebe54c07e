package repository_test

import (
	"context"
	"testing"
	"time"

	"trendz_shop/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestGetForUpdate_LocksRow(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewProductRepository(gormDB)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "category", "serial_code", "name", "price", "stock", "is_available", "created_at", "updated_at"}).
		AddRow(7, "Shirts", "SHIR-007", "Oxford Shirt", "19.99", 4, true, now, now)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE .+ FOR UPDATE`).
		WillReturnRows(rows)

	product, err := repo.GetForUpdate(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Oxford Shirt", product.Name)
	assert.Equal(t, "19.99", product.Price.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementStock_GuardedUpdate(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "products" SET .+ WHERE \(id = \$\d+ AND stock >= \$\d+\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ok, err := repo.DecrementStock(context.Background(), 7, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecrementStock_GuardRejects(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "products" SET .+ WHERE \(id = \$\d+ AND stock >= \$\d+\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ok, err := repo.DecrementStock(context.Background(), 7, 6)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFields_WritesOnlyGivenColumns(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "products" SET "name"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs("Oxford Shirt", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateFields(context.Background(), 7, map[string]interface{}{"name": "Oxford Shirt"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
