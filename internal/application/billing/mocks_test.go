package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
)

// MockInvoiceRepository is a testify mock for billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[billing.Invoice]), args.Error(1)
}

func (m *MockInvoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[billing.Invoice]), args.Error(1)
}

func (m *MockInvoiceRepository) FindReconcilable(ctx context.Context) ([]*billing.Invoice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOverdue(ctx context.Context, asOf time.Time, limit int) ([]*billing.Invoice, error) {
	args := m.Called(ctx, asOf, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindDueBetween(ctx context.Context, from, to time.Time, limit int) ([]*billing.Invoice, error) {
	args := m.Called(ctx, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindPaidSince(ctx context.Context, since time.Time) ([]*billing.Invoice, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindRenewableItems(ctx context.Context, asOf time.Time) ([]*billing.InvoiceItem, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.InvoiceItem), args.Error(1)
}

func (m *MockInvoiceRepository) HasActiveInvoiceForCustomer(ctx context.Context, customerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, customerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) HasServiceOnActiveInvoice(ctx context.Context, serviceID uuid.UUID) (bool, error) {
	args := m.Called(ctx, serviceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) SaveItem(ctx context.Context, item *billing.InvoiceItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockInvoiceRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) CountByStatus(ctx context.Context) (map[billing.InvoiceStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[billing.InvoiceStatus]int64), args.Error(1)
}

// MockCustomerRepository is a testify mock for partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*partner.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByTaxNumber(ctx context.Context, taxNumber string) (*partner.Customer, error) {
	args := m.Called(ctx, taxNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[partner.Customer], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[partner.Customer]), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockServiceRepository is a testify mock for catalog.ServiceRepository
type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Service), args.Error(1)
}

func (m *MockServiceRepository) FindByName(ctx context.Context, name string) (*catalog.Service, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Service), args.Error(1)
}

func (m *MockServiceRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[catalog.Service], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[catalog.Service]), args.Error(1)
}

func (m *MockServiceRepository) Save(ctx context.Context, service *catalog.Service) error {
	return m.Called(ctx, service).Error(0)
}

func (m *MockServiceRepository) SaveWithLock(ctx context.Context, service *catalog.Service) error {
	return m.Called(ctx, service).Error(0)
}

func (m *MockServiceRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockSnapshotCache is a testify mock for SnapshotCache
type MockSnapshotCache struct {
	mock.Mock
}

func (m *MockSnapshotCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockSnapshotCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockSnapshotCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
