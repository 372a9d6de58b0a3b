package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/domain/shared"
)

// Event type constants for the catalog context
const (
	ServiceCreatedEventType = "catalog.service.created"
	ServiceUpdatedEventType = "catalog.service.updated"
	ServiceDeletedEventType = "catalog.service.deleted"
)

// ServiceCreatedEvent is raised when a billable service is added to the catalog
type ServiceCreatedEvent struct {
	shared.BaseDomainEvent
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// NewServiceCreatedEvent creates a service created event
func NewServiceCreatedEvent(service *Service) *ServiceCreatedEvent {
	return &ServiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ServiceCreatedEventType, "Service", service.ID),
		Name:            service.Name,
		Price:           service.Price,
	}
}

// ServiceUpdatedEvent is raised when a service's catalog fields change
type ServiceUpdatedEvent struct {
	shared.BaseDomainEvent
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// NewServiceUpdatedEvent creates a service updated event
func NewServiceUpdatedEvent(service *Service) *ServiceUpdatedEvent {
	return &ServiceUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ServiceUpdatedEventType, "Service", service.ID),
		Name:            service.Name,
		Price:           service.Price,
	}
}

// ServiceDeletedEvent is raised when a service is soft-deleted
type ServiceDeletedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewServiceDeletedEvent creates a service deleted event
func NewServiceDeletedEvent(service *Service) *ServiceDeletedEvent {
	return &ServiceDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(ServiceDeletedEventType, "Service", service.ID),
		Name:            service.Name,
	}
}
