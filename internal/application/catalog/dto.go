package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/domain/catalog"
)

// CreateServiceRequest represents a request to add a billable service
type CreateServiceRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description" validate:"max=500"`
}

// UpdateServiceRequest represents a request to update a service.
// Nil fields are left unchanged.
type UpdateServiceRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
}

// ListServicesRequest carries pagination and search parameters
type ListServicesRequest struct {
	Page     int    `json:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" validate:"omitempty,min=1,max=100"`
	Search   string `json:"search" validate:"max=200"`
}

// ServiceResponse represents a service in responses
type ServiceResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToServiceResponse converts a domain service to a response
func ToServiceResponse(service *catalog.Service) ServiceResponse {
	return ServiceResponse{
		ID:          service.ID,
		Name:        service.Name,
		Price:       service.Price,
		Description: service.Description,
		CreatedAt:   service.CreatedAt,
		UpdatedAt:   service.UpdatedAt,
	}
}

// ToServiceResponses converts a slice of domain services
func ToServiceResponses(services []catalog.Service) []ServiceResponse {
	responses := make([]ServiceResponse, len(services))
	for i := range services {
		responses[i] = ToServiceResponse(&services[i])
	}
	return responses
}
