package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loyalty/backend/internal/domain/loyalty"
)

// GormTransactionRepository implements loyalty.TransactionRepository using
// GORM. Ledger entries are append-only; the repository exposes no update or
// delete path.
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Create appends a ledger entry
func (r *GormTransactionRepository) Create(ctx context.Context, tx *loyalty.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// List finds ledger entries matching the filter with a total count
func (r *GormTransactionRepository) List(ctx context.Context, filter loyalty.TransactionFilter) ([]loyalty.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&loyalty.Transaction{})

	if filter.CustomerID != uuid.Nil {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, TransactionSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).Limit(filter.Limit())

	var entries []loyalty.Transaction
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// HasAnyForCustomer reports whether a customer has any ledger history
func (r *GormTransactionRepository) HasAnyForCustomer(ctx context.Context, customerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&loyalty.Transaction{}).
		Where("customer_id = ?", customerID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SumForCustomer aggregates all entry amounts for a customer
func (r *GormTransactionRepository) SumForCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&loyalty.Transaction{}).
		Where("customer_id = ?", customerID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// SumEarnedThrough aggregates earn entries created at or before cutoff
func (r *GormTransactionRepository) SumEarnedThrough(ctx context.Context, customerID uuid.UUID, cutoff time.Time) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&loyalty.Transaction{}).
		Where("customer_id = ? AND kind = ? AND created_at <= ?", customerID, loyalty.KindEarn, cutoff).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// SumConsumedAllTime aggregates spend and expiration entries over all time,
// returned as a non-negative magnitude
func (r *GormTransactionRepository) SumConsumedAllTime(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).Model(&loyalty.Transaction{}).
		Where("customer_id = ? AND kind IN ?", customerID, []loyalty.TransactionKind{loyalty.KindSpend, loyalty.KindExpiration}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum < 0 {
		sum = -sum
	}
	return sum, nil
}

// KPI aggregates the totals backing the dashboard KPI block in a single
// pass over the ledger. The liability is the signed sum of all amounts,
// so it already nets out spends and expirations.
func (r *GormTransactionRepository) KPI(ctx context.Context) (loyalty.KPIRow, error) {
	var row loyalty.KPIRow

	err := r.db.WithContext(ctx).Model(&loyalty.Transaction{}).
		Select(
			"COUNT(DISTINCT customer_id) AS total_customers, " +
				"COALESCE(SUM(CASE WHEN kind = 'earn' THEN amount ELSE 0 END), 0) AS total_issued, " +
				"COALESCE(SUM(CASE WHEN kind = 'spend' THEN -amount ELSE 0 END), 0) AS total_redeemed, " +
				"COALESCE(SUM(amount), 0) AS current_liability",
		).
		Scan(&row).Error
	if err != nil {
		return loyalty.KPIRow{}, err
	}

	return row, nil
}

// Timeline aggregates daily issued/redeemed totals since the given time.
// DATE() works on both postgres and sqlite.
func (r *GormTransactionRepository) Timeline(ctx context.Context, since time.Time) ([]loyalty.TimelineRow, error) {
	type rawRow struct {
		Date     string
		Issued   int64
		Redeemed int64
	}

	var raw []rawRow
	err := r.db.WithContext(ctx).Model(&loyalty.Transaction{}).
		Select(
			"DATE(created_at) AS date, " +
				"COALESCE(SUM(CASE WHEN kind = 'earn' THEN amount ELSE 0 END), 0) AS issued, " +
				"COALESCE(SUM(CASE WHEN kind = 'spend' THEN -amount ELSE 0 END), 0) AS redeemed",
		).
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&raw).Error
	if err != nil {
		return nil, err
	}

	rows := make([]loyalty.TimelineRow, len(raw))
	for i, rr := range raw {
		rows[i] = loyalty.TimelineRow{Date: rr.Date, Issued: rr.Issued, Redeemed: rr.Redeemed}
	}
	return rows, nil
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ loyalty.TransactionRepository = (*GormTransactionRepository)(nil)
