package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
)

// newMockCustomerRepository creates a GormCustomerRepository with a mocked SQL connection
func newMockCustomerRepository(t *testing.T) (*GormCustomerRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormCustomerRepository(gormDB), mock, mockDB
}

func TestNewGormCustomerRepository(t *testing.T) {
	t.Run("creates repository with valid DB", func(t *testing.T) {
		repo, _, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		assert.NotNil(t, repo)
		assert.NotNil(t, repo.db)
	})
}

func TestGormCustomerRepository_FindByID(t *testing.T) {
	t.Run("finds existing customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "full_name", "email", "deleted", "version"}).
			AddRow(customerID, "Jane Smith", "jane@example.com", false, 1)

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 AND deleted = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, false, 1).
			WillReturnRows(rows)

		customer, err := repo.FindByID(context.Background(), customerID)

		assert.NoError(t, err)
		assert.NotNil(t, customer)
		assert.Equal(t, customerID, customer.ID)
		assert.Equal(t, "Jane Smith", customer.FullName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing customer", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE id = \$1 AND deleted = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(customerID, false, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		customer, err := repo.FindByID(context.Background(), customerID)

		assert.Error(t, err)
		assert.Nil(t, customer)
		assert.True(t, shared.IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_FindByEmail(t *testing.T) {
	t.Run("normalizes email before lookup", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "full_name", "email", "deleted", "version"}).
			AddRow(customerID, "Jane Smith", "jane@example.com", false, 1)

		mock.ExpectQuery(`SELECT \* FROM "customers" WHERE email = \$1 AND deleted = \$2 ORDER BY .* LIMIT .*`).
			WithArgs("jane@example.com", false, 1).
			WillReturnRows(rows)

		customer, err := repo.FindByEmail(context.Background(), "  Jane@Example.COM ")

		assert.NoError(t, err)
		assert.Equal(t, "jane@example.com", customer.Email)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_SaveWithLock(t *testing.T) {
	t.Run("succeeds when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customer, err := partner.NewCustomer("Jane Smith", "jane@example.com")
		require.NoError(t, err)
		customer.IncrementVersion()

		mock.ExpectExec(`UPDATE "customers" SET .* WHERE \(id = \$\d+ AND version = \$\d+\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err = repo.SaveWithLock(context.Background(), customer)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when version differs", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		customer, err := partner.NewCustomer("Jane Smith", "jane@example.com")
		require.NoError(t, err)
		customer.IncrementVersion()

		mock.ExpectExec(`UPDATE "customers" SET .* WHERE \(id = \$\d+ AND version = \$\d+\)`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = repo.SaveWithLock(context.Background(), customer)

		assert.Error(t, err)
		assert.True(t, shared.IsConflict(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormCustomerRepository_Count(t *testing.T) {
	t.Run("counts non-deleted customers", func(t *testing.T) {
		repo, mock, mockDB := newMockCustomerRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "customers" WHERE deleted = \$1`).
			WithArgs(false).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		count, err := repo.Count(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
