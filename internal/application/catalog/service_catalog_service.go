package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/crm/backend/internal/application/validation"
	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/shared"
)

// ServiceCatalogService handles catalog-related business operations
type ServiceCatalogService struct {
	serviceRepo  catalog.ServiceRepository
	usageChecker catalog.ServiceUsageChecker
	rules        *shared.RuleValidator
	publisher    shared.EventPublisher
}

// NewServiceCatalogService creates a new ServiceCatalogService
func NewServiceCatalogService(serviceRepo catalog.ServiceRepository, usageChecker catalog.ServiceUsageChecker, publisher shared.EventPublisher) *ServiceCatalogService {
	return &ServiceCatalogService{
		serviceRepo:  serviceRepo,
		usageChecker: usageChecker,
		rules:        shared.NewRuleValidator(),
		publisher:    publisher,
	}
}

// Create adds a new billable service to the catalog
func (s *ServiceCatalogService) Create(ctx context.Context, req CreateServiceRequest) (*ServiceResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if err := s.rules.Validate(ctx,
		catalog.NewServiceNameMustBeUnique(s.serviceRepo, req.Name, uuid.Nil),
	); err != nil {
		return nil, err
	}

	service, err := catalog.NewService(req.Name, req.Price, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.serviceRepo.Save(ctx, service); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, service)

	response := ToServiceResponse(service)
	return &response, nil
}

// GetByID retrieves a service by ID
func (s *ServiceCatalogService) GetByID(ctx context.Context, serviceID uuid.UUID) (*ServiceResponse, error) {
	service, err := s.serviceRepo.FindByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	response := ToServiceResponse(service)
	return &response, nil
}

// List retrieves services with pagination and search
func (s *ServiceCatalogService) List(ctx context.Context, req ListServicesRequest) ([]ServiceResponse, int64, error) {
	if err := validation.Struct(req); err != nil {
		return nil, 0, err
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.Search = req.Search

	page, err := s.serviceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToServiceResponses(page.Items), page.Total, nil
}

// Update updates a service. Nil request fields are left unchanged.
func (s *ServiceCatalogService) Update(ctx context.Context, serviceID uuid.UUID, req UpdateServiceRequest) (*ServiceResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	service, err := s.serviceRepo.FindByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	name := service.Name
	price := service.Price
	description := service.Description
	if req.Name != nil {
		name = *req.Name
		if err := s.rules.Validate(ctx,
			catalog.NewServiceNameMustBeUnique(s.serviceRepo, name, serviceID),
		); err != nil {
			return nil, err
		}
	}
	if req.Price != nil {
		price = *req.Price
	}
	if req.Description != nil {
		description = *req.Description
	}

	if err := service.Update(name, price, description); err != nil {
		return nil, err
	}

	if err := s.serviceRepo.SaveWithLock(ctx, service); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, service)

	response := ToServiceResponse(service)
	return &response, nil
}

// Delete soft-deletes a service. Services used on a pending invoice
// cannot be deleted.
func (s *ServiceCatalogService) Delete(ctx context.Context, serviceID uuid.UUID) error {
	service, err := s.serviceRepo.FindByID(ctx, serviceID)
	if err != nil {
		return err
	}

	if err := s.rules.Validate(ctx,
		catalog.NewServiceCanBeDeleted(s.usageChecker, serviceID),
	); err != nil {
		return err
	}

	if err := service.Delete(); err != nil {
		return err
	}

	if err := s.serviceRepo.SaveWithLock(ctx, service); err != nil {
		return err
	}

	s.publishEvents(ctx, service)

	return nil
}

func (s *ServiceCatalogService) publishEvents(ctx context.Context, service *catalog.Service) {
	if s.publisher == nil {
		return
	}
	for _, event := range service.GetDomainEvents() {
		_ = s.publisher.Publish(ctx, event)
	}
	service.ClearDomainEvents()
}
