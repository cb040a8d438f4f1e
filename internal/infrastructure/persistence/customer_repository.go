package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/loyalty/backend/internal/domain/loyalty"
	"github.com/loyalty/backend/internal/domain/shared"
)

// GormCustomerRepository implements loyalty.CustomerRepository using GORM.
// Tenant scoping comes from the tenant callbacks registered on the DB.
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Create inserts a new customer
func (r *GormCustomerRepository) Create(ctx context.Context, customer *loyalty.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*loyalty.Customer, error) {
	var customer loyalty.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByIDForUpdate finds a customer by ID holding a row-level write lock.
// SELECT ... FOR UPDATE is only emitted on postgres; sqlite serializes
// writers at the database level so the lock clause is unnecessary there.
func (r *GormCustomerRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*loyalty.Customer, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var customer loyalty.Customer
	if err := query.First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// FindByExternalID finds a customer by its merchant-assigned identifier
func (r *GormCustomerRepository) FindByExternalID(ctx context.Context, externalID string) (*loyalty.Customer, error) {
	var customer loyalty.Customer
	if err := r.db.WithContext(ctx).
		Where("external_id = ?", externalID).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &customer, nil
}

// ApplyBalanceDelta atomically adjusts the cached balance. The guard in the
// WHERE clause makes a debit past zero affect no rows, so two concurrent
// debits can never both succeed against the same points.
func (r *GormCustomerRepository) ApplyBalanceDelta(ctx context.Context, id uuid.UUID, delta int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&loyalty.Customer{}).
		Where("id = ? AND balance + ? >= 0", id, delta).
		Update("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Search finds customers matching the filter with a total count
func (r *GormCustomerRepository) Search(ctx context.Context, filter shared.Filter) ([]loyalty.Customer, int64, error) {
	query := r.db.WithContext(ctx).Model(&loyalty.Customer{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("external_id LIKE ? OR email LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, CustomerSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).Limit(filter.Limit())

	var customers []loyalty.Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// ForEach streams customers in primary-key batches
func (r *GormCustomerRepository) ForEach(ctx context.Context, batchSize int, fn func(customer *loyalty.Customer) error) error {
	if batchSize < 1 {
		batchSize = 100
	}

	var batch []loyalty.Customer
	return r.db.WithContext(ctx).FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
		for i := range batch {
			if err := fn(&batch[i]); err != nil {
				return err
			}
		}
		return nil
	}).Error
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ loyalty.CustomerRepository = (*GormCustomerRepository)(nil)
