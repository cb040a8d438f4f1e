package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/loyalty/backend/internal/domain/loyalty"
)

func newMockTransactionRepository(t *testing.T) (*GormTransactionRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormTransactionRepository(gormDB), mock, mockDB
}

func TestGormTransactionRepository_List(t *testing.T) {
	t.Run("filters by customer and kind", func(t *testing.T) {
		repo, mock, mockDB := newMockTransactionRepository(t)
		defer mockDB.Close()

		customerID := uuid.New()
		tenantID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "transactions" WHERE customer_id = \$1 AND kind = \$2`).
			WithArgs(customerID, "earn").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "tenant_id", "customer_id", "amount", "kind", "description"}).
			AddRow(uuid.New(), time.Now(), time.Now(), tenantID, customerID, 50, "earn", "purchase")

		mock.ExpectQuery(`SELECT \* FROM "transactions" WHERE customer_id = \$1 AND kind = \$2 ORDER BY created_at DESC LIMIT .*`).
			WithArgs(customerID, "earn", 20).
			WillReturnRows(rows)

		entries, total, err := repo.List(context.Background(), loyalty.TransactionFilter{
			CustomerID: customerID,
			Kind:       loyalty.KindEarn,
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, entries, 1)
		assert.Equal(t, int64(50), entries[0].Amount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTransactionRepository_HasAnyForCustomer(t *testing.T) {
	repo, mock, mockDB := newMockTransactionRepository(t)
	defer mockDB.Close()

	customerID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "transactions" WHERE customer_id = \$1 LIMIT .*`).
		WithArgs(customerID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	has, err := repo.HasAnyForCustomer(context.Background(), customerID)

	assert.NoError(t, err)
	assert.True(t, has)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionRepository_SumForCustomer(t *testing.T) {
	repo, mock, mockDB := newMockTransactionRepository(t)
	defer mockDB.Close()

	customerID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "transactions" WHERE customer_id = \$1`).
		WithArgs(customerID).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(170))

	sum, err := repo.SumForCustomer(context.Background(), customerID)

	assert.NoError(t, err)
	assert.Equal(t, int64(170), sum)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionRepository_SumConsumedAllTime(t *testing.T) {
	repo, mock, mockDB := newMockTransactionRepository(t)
	defer mockDB.Close()

	customerID := uuid.New()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(amount\), 0\) FROM "transactions" WHERE customer_id = \$1 AND kind IN \(\$2,\$3\)`).
		WithArgs(customerID, "spend", "expiration").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(-90))

	sum, err := repo.SumConsumedAllTime(context.Background(), customerID)

	assert.NoError(t, err)
	assert.Equal(t, int64(90), sum, "consumed total is a magnitude")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionRepository_KPI(t *testing.T) {
	repo, mock, mockDB := newMockTransactionRepository(t)
	defer mockDB.Close()

	// two customers earned 100 and 200, the first spent 60
	rows := sqlmock.NewRows([]string{"total_customers", "total_issued", "total_redeemed", "current_liability"}).
		AddRow(2, 300, 60, 240)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT customer_id\) AS total_customers, .* FROM "transactions"`).
		WillReturnRows(rows)

	row, err := repo.KPI(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(2), row.TotalCustomers)
	assert.Equal(t, int64(300), row.TotalIssued)
	assert.Equal(t, int64(60), row.TotalRedeemed)
	assert.Equal(t, int64(240), row.CurrentLiability)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionRepository_Timeline(t *testing.T) {
	repo, mock, mockDB := newMockTransactionRepository(t)
	defer mockDB.Close()

	since := time.Now().AddDate(0, 0, -30)

	rows := sqlmock.NewRows([]string{"date", "issued", "redeemed"}).
		AddRow("2026-08-01", 100, 30).
		AddRow("2026-08-02", 50, 0)

	mock.ExpectQuery(`SELECT DATE\(created_at\) AS date, .* FROM "transactions" WHERE created_at >= \$1 GROUP BY DATE\(created_at\) ORDER BY date ASC`).
		WithArgs(since).
		WillReturnRows(rows)

	timeline, err := repo.Timeline(context.Background(), since)

	assert.NoError(t, err)
	require.Len(t, timeline, 2)
	assert.Equal(t, "2026-08-01", timeline[0].Date)
	assert.Equal(t, int64(100), timeline[0].Issued)
	assert.Equal(t, int64(30), timeline[0].Redeemed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
