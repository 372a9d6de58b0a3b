package partner

import (
	"time"

	"github.com/google/uuid"

	"github.com/crm/backend/internal/domain/partner"
)

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	FullName    string `json:"full_name" validate:"required,min=1,max=200"`
	Email       string `json:"email" validate:"required,email,max=100"`
	Phone       string `json:"phone" validate:"max=20"`
	TaxOffice   string `json:"tax_office" validate:"max=100"`
	TaxNumber   string `json:"tax_number" validate:"omitempty,len=10,numeric"`
	Address     string `json:"address" validate:"max=500"`
	Description string `json:"description" validate:"max=1000"`
}

// UpdateCustomerRequest represents a request to update a customer.
// Nil fields are left unchanged.
type UpdateCustomerRequest struct {
	FullName    *string `json:"full_name" validate:"omitempty,min=1,max=200"`
	Email       *string `json:"email" validate:"omitempty,email,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,max=20"`
	TaxOffice   *string `json:"tax_office" validate:"omitempty,max=100"`
	TaxNumber   *string `json:"tax_number" validate:"omitempty,len=10,numeric"`
	Address     *string `json:"address" validate:"omitempty,max=500"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// ListCustomersRequest carries pagination and search parameters
type ListCustomersRequest struct {
	Page     int    `json:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" validate:"omitempty,min=1,max=100"`
	Search   string `json:"search" validate:"max=200"`
}

// CustomerResponse represents a customer in responses
type CustomerResponse struct {
	ID          uuid.UUID `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	TaxOffice   string    `json:"tax_office"`
	TaxNumber   string    `json:"tax_number"`
	Address     string    `json:"address"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCustomerResponse converts a domain customer to a response
func ToCustomerResponse(customer *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          customer.ID,
		FullName:    customer.FullName,
		Email:       customer.Email,
		Phone:       customer.Phone,
		TaxOffice:   customer.TaxOffice,
		TaxNumber:   customer.TaxNumber,
		Address:     customer.Address,
		Description: customer.Description,
		CreatedAt:   customer.CreatedAt,
		UpdatedAt:   customer.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of domain customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses
}
