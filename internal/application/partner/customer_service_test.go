package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
)

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

// MockActiveInvoiceChecker is a testify mock for partner.ActiveInvoiceChecker
type MockActiveInvoiceChecker struct {
	mock.Mock
}

func (m *MockActiveInvoiceChecker) HasActiveInvoiceForCustomer(ctx context.Context, customerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, customerID)
	return args.Bool(0), args.Error(1)
}

func notFound() error {
	return shared.NewNotFoundError("CUSTOMER_NOT_FOUND", "Customer not found")
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, new(MockActiveInvoiceChecker), nil)

	repo.On("FindByEmail", ctx, "ada@example.com").Return(nil, notFound())
	repo.On("FindByTaxNumber", ctx, "1234567890").Return(nil, notFound())
	repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

	resp, err := svc.Create(ctx, CreateCustomerRequest{
		FullName:  "Ada Lovelace",
		Email:     "Ada@Example.com",
		Phone:     "+90 212 555 1234",
		TaxOffice: "Kadikoy",
		TaxNumber: "1234567890",
		Address:   "Istanbul",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", resp.FullName)
	assert.Equal(t, "ada@example.com", resp.Email)
	assert.Equal(t, "1234567890", resp.TaxNumber)
	repo.AssertExpectations(t)
}

func TestCustomerService_Create_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, new(MockActiveInvoiceChecker), nil)

	existing, err := partner.NewCustomer("Ada Lovelace", "ada@example.com")
	require.NoError(t, err)
	repo.On("FindByEmail", ctx, "ada@example.com").Return(existing, nil)

	_, err = svc.Create(ctx, CreateCustomerRequest{
		FullName: "Another Ada",
		Email:    "ada@example.com",
	})
	require.Error(t, err)
	assert.True(t, shared.IsRuleViolation(err))

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CUSTOMER_EMAIL_TAKEN", domainErr.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCustomerService_Create_InvalidRequest(t *testing.T) {
	svc := NewCustomerService(new(MockCustomerRepository), new(MockActiveInvoiceChecker), nil)

	_, err := svc.Create(context.Background(), CreateCustomerRequest{
		FullName:  "Ada Lovelace",
		Email:     "not-an-email",
		TaxNumber: "123",
	})
	require.Error(t, err)
	assert.True(t, shared.IsInvalidArgument(err))
}

func TestCustomerService_Update_PartialFields(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, new(MockActiveInvoiceChecker), nil)

	customer, err := partner.NewCustomer("Ada Lovelace", "ada@example.com")
	require.NoError(t, err)
	customer.ClearDomainEvents()

	repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	repo.On("SaveWithLock", ctx, customer).Return(nil)

	newPhone := "+90 212 555 0000"
	resp, err := svc.Update(ctx, customer.ID, UpdateCustomerRequest{Phone: &newPhone})
	require.NoError(t, err)

	assert.Equal(t, newPhone, resp.Phone)
	assert.Equal(t, "Ada Lovelace", resp.FullName, "unset fields unchanged")
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestCustomerService_Update_EmailUniquenessExcludesSelf(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, new(MockActiveInvoiceChecker), nil)

	customer, err := partner.NewCustomer("Ada Lovelace", "ada@example.com")
	require.NoError(t, err)
	customer.ClearDomainEvents()

	repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	repo.On("FindByEmail", ctx, "ada@example.com").Return(customer, nil)
	repo.On("SaveWithLock", ctx, customer).Return(nil)

	sameEmail := "ada@example.com"
	_, err = svc.Update(ctx, customer.ID, UpdateCustomerRequest{Email: &sameEmail})
	require.NoError(t, err, "updating to own email is not a duplicate")
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	checker := new(MockActiveInvoiceChecker)
	svc := NewCustomerService(repo, checker, nil)

	customer, err := partner.NewCustomer("Ada Lovelace", "ada@example.com")
	require.NoError(t, err)
	customer.ClearDomainEvents()

	repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	checker.On("HasActiveInvoiceForCustomer", ctx, customer.ID).Return(false, nil)
	repo.On("SaveWithLock", ctx, customer).Return(nil)

	require.NoError(t, svc.Delete(ctx, customer.ID))
	assert.True(t, customer.IsDeleted())
}

func TestCustomerService_Delete_BlockedByActiveInvoice(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	checker := new(MockActiveInvoiceChecker)
	svc := NewCustomerService(repo, checker, nil)

	customer, err := partner.NewCustomer("Ada Lovelace", "ada@example.com")
	require.NoError(t, err)

	repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
	checker.On("HasActiveInvoiceForCustomer", ctx, customer.ID).Return(true, nil)

	err = svc.Delete(ctx, customer.ID)
	require.Error(t, err)
	assert.True(t, shared.IsRuleViolation(err))
	assert.False(t, customer.IsDeleted())
	repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestCustomerService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, new(MockActiveInvoiceChecker), nil)

	id := uuid.New()
	repo.On("FindByID", ctx, id).Return(nil, notFound())

	_, err := svc.GetByID(ctx, id)
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestCustomerService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, new(MockActiveInvoiceChecker), nil)

	customer, err := partner.NewCustomer("Ada Lovelace", "ada@example.com")
	require.NoError(t, err)

	page := shared.NewPaginated([]partner.Customer{*customer}, 1, 1, 20)
	repo.On("FindAll", ctx, mock.AnythingOfType("shared.Filter")).Return(&page, nil)

	customers, total, err := svc.List(ctx, ListCustomersRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, customers, 1)
	assert.Equal(t, "Ada Lovelace", customers[0].FullName)
}
