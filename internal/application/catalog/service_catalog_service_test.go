package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/shared"
)

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

// MockServiceUsageChecker is a testify mock for catalog.ServiceUsageChecker
type MockServiceUsageChecker struct {
	mock.Mock
}

func (m *MockServiceUsageChecker) HasServiceOnActiveInvoice(ctx context.Context, serviceID uuid.UUID) (bool, error) {
	args := m.Called(ctx, serviceID)
	return args.Bool(0), args.Error(1)
}

func serviceNotFound() error {
	return shared.NewNotFoundError("SERVICE_NOT_FOUND", "Service not found")
}

func TestServiceCatalogService_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(MockServiceRepository)
	svc := NewServiceCatalogService(repo, new(MockServiceUsageChecker), nil)

	repo.On("FindByName", ctx, "Web Hosting").Return(nil, serviceNotFound())
	repo.On("Save", ctx, mock.AnythingOfType("*catalog.Service")).Return(nil)

	resp, err := svc.Create(ctx, CreateServiceRequest{
		Name:        "Web Hosting",
		Price:       decimal.NewFromFloat(49.90),
		Description: "Annual plan",
	})
	require.NoError(t, err)
	assert.Equal(t, "Web Hosting", resp.Name)
	assert.True(t, resp.Price.Equal(decimal.NewFromFloat(49.90)))
}

func TestServiceCatalogService_Create_DuplicateName(t *testing.T) {
	ctx := context.Background()
	repo := new(MockServiceRepository)
	svc := NewServiceCatalogService(repo, new(MockServiceUsageChecker), nil)

	existing, err := catalog.NewService("Web Hosting", decimal.NewFromInt(50), "")
	require.NoError(t, err)
	repo.On("FindByName", ctx, "Web Hosting").Return(existing, nil)

	_, err = svc.Create(ctx, CreateServiceRequest{Name: "Web Hosting", Price: decimal.NewFromInt(60)})
	require.Error(t, err)
	assert.True(t, shared.IsRuleViolation(err))
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestServiceCatalogService_Create_NegativePrice(t *testing.T) {
	ctx := context.Background()
	repo := new(MockServiceRepository)
	svc := NewServiceCatalogService(repo, new(MockServiceUsageChecker), nil)

	repo.On("FindByName", ctx, "Web Hosting").Return(nil, serviceNotFound())

	_, err := svc.Create(ctx, CreateServiceRequest{Name: "Web Hosting", Price: decimal.NewFromInt(-1)})
	require.Error(t, err)
	assert.True(t, shared.IsInvalidArgument(err))
}

func TestServiceCatalogService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(MockServiceRepository)
	svc := NewServiceCatalogService(repo, new(MockServiceUsageChecker), nil)

	service, err := catalog.NewService("Web Hosting", decimal.NewFromInt(50), "")
	require.NoError(t, err)
	service.ClearDomainEvents()

	repo.On("FindByID", ctx, service.ID).Return(service, nil)
	repo.On("SaveWithLock", ctx, service).Return(nil)

	newPrice := decimal.NewFromInt(75)
	resp, err := svc.Update(ctx, service.ID, UpdateServiceRequest{Price: &newPrice})
	require.NoError(t, err)

	assert.True(t, resp.Price.Equal(newPrice))
	assert.Equal(t, "Web Hosting", resp.Name, "unset fields unchanged")
	repo.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything)
}

func TestServiceCatalogService_Delete_BlockedWhenInUse(t *testing.T) {
	ctx := context.Background()
	repo := new(MockServiceRepository)
	checker := new(MockServiceUsageChecker)
	svc := NewServiceCatalogService(repo, checker, nil)

	service, err := catalog.NewService("Web Hosting", decimal.NewFromInt(50), "")
	require.NoError(t, err)

	repo.On("FindByID", ctx, service.ID).Return(service, nil)
	checker.On("HasServiceOnActiveInvoice", ctx, service.ID).Return(true, nil)

	err = svc.Delete(ctx, service.ID)
	require.Error(t, err)
	assert.True(t, shared.IsRuleViolation(err))
	assert.False(t, service.IsDeleted())
}

func TestServiceCatalogService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockServiceRepository)
	checker := new(MockServiceUsageChecker)
	svc := NewServiceCatalogService(repo, checker, nil)

	service, err := catalog.NewService("Web Hosting", decimal.NewFromInt(50), "")
	require.NoError(t, err)
	service.ClearDomainEvents()

	repo.On("FindByID", ctx, service.ID).Return(service, nil)
	checker.On("HasServiceOnActiveInvoice", ctx, service.ID).Return(false, nil)
	repo.On("SaveWithLock", ctx, service).Return(nil)

	require.NoError(t, svc.Delete(ctx, service.ID))
	assert.True(t, service.IsDeleted())
}
