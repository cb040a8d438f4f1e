package loyalty

import (
	"context"

	"github.com/google/uuid"

	"github.com/loyalty/backend/internal/domain/loyalty"
	"github.com/loyalty/backend/internal/domain/shared"
)

// CustomerService exposes read access to customers. Customers are created
// implicitly by accruals and never deleted; there is deliberately no
// create, update, or delete here.
type CustomerService struct {
	customerRepo    loyalty.CustomerRepository
	transactionRepo loyalty.TransactionRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customerRepo loyalty.CustomerRepository,
	transactionRepo loyalty.TransactionRepository,
) *CustomerService {
	return &CustomerService{
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
	}
}

// Get returns a single customer
func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := NewCustomerResponse(customer)
	return &resp, nil
}

// GetByExternalID returns a customer by the merchant's own identifier
func (s *CustomerService) GetByExternalID(ctx context.Context, externalID string) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	resp := NewCustomerResponse(customer)
	return &resp, nil
}

// List returns customers matching the filter
func (s *CustomerService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[CustomerResponse], error) {
	customers, total, err := s.customerRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]CustomerResponse, len(customers))
	for i := range customers {
		items[i] = NewCustomerResponse(&customers[i])
	}

	return &shared.Paginated[CustomerResponse]{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.Limit(),
	}, nil
}

// ListTransactions returns ledger entries matching the filter
func (s *CustomerService) ListTransactions(ctx context.Context, filter loyalty.TransactionFilter) (*shared.Paginated[TransactionResponse], error) {
	entries, total, err := s.transactionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]TransactionResponse, len(entries))
	for i := range entries {
		items[i] = NewTransactionResponse(&entries[i])
	}

	return &shared.Paginated[TransactionResponse]{
		Items:    items,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.Limit(),
	}, nil
}
