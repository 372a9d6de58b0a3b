package partner

import (
	"github.com/crm/backend/internal/domain/shared"
)

// Event type constants for the partner context
const (
	CustomerCreatedEventType = "partner.customer.created"
	CustomerUpdatedEventType = "partner.customer.updated"
	CustomerDeletedEventType = "partner.customer.deleted"
)

// CustomerCreatedEvent is raised when a new customer is registered
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// NewCustomerCreatedEvent creates a customer created event
func NewCustomerCreatedEvent(customer *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(CustomerCreatedEventType, "Customer", customer.ID),
		FullName:        customer.FullName,
		Email:           customer.Email,
	}
}

// CustomerUpdatedEvent is raised when a customer's identity fields change
type CustomerUpdatedEvent struct {
	shared.BaseDomainEvent
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// NewCustomerUpdatedEvent creates a customer updated event
func NewCustomerUpdatedEvent(customer *Customer) *CustomerUpdatedEvent {
	return &CustomerUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(CustomerUpdatedEventType, "Customer", customer.ID),
		FullName:        customer.FullName,
		Email:           customer.Email,
	}
}

// CustomerDeletedEvent is raised when a customer is soft-deleted
type CustomerDeletedEvent struct {
	shared.BaseDomainEvent
	FullName string `json:"full_name"`
}

// NewCustomerDeletedEvent creates a customer deleted event
func NewCustomerDeletedEvent(customer *Customer) *CustomerDeletedEvent {
	return &CustomerDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(CustomerDeletedEventType, "Customer", customer.ID),
		FullName:        customer.FullName,
	}
}
