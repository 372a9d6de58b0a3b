package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/domain/billing"
)

// CreateInvoiceItemRequest represents one line item on a new invoice
type CreateInvoiceItemRequest struct {
	ServiceID    uuid.UUID       `json:"service_id" validate:"required"`
	RenewalCycle string          `json:"renewal_cycle" validate:"required,oneof=none monthly yearly"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity" validate:"required,min=1"`
	VAT          decimal.Decimal `json:"vat"`
	StartDate    time.Time       `json:"start_date" validate:"required"`
	Description  string          `json:"description" validate:"max=1000"`
}

// CreateInvoiceRequest represents a request to issue an invoice
type CreateInvoiceRequest struct {
	CustomerID  uuid.UUID                  `json:"customer_id" validate:"required"`
	Description string                     `json:"description" validate:"max=1000"`
	Items       []CreateInvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateInvoiceRequest reassigns an invoice's customer, description
// and status and replaces its items. Status is carried as a string so
// unknown values can be rejected explicitly.
type UpdateInvoiceRequest struct {
	CustomerID  uuid.UUID                  `json:"customer_id" validate:"required"`
	Description string                     `json:"description" validate:"max=1000"`
	Status      string                     `json:"status" validate:"required"`
	Items       []CreateInvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ListInvoicesRequest carries pagination and filter parameters
type ListInvoicesRequest struct {
	Page       int        `json:"page" validate:"omitempty,min=1"`
	PageSize   int        `json:"page_size" validate:"omitempty,min=1,max=100"`
	Status     string     `json:"status" validate:"omitempty,oneof=pending paid overdue cancelled"`
	CustomerID *uuid.UUID `json:"customer_id"`
}

// InvoiceItemResponse represents a line item in responses
type InvoiceItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ServiceID    uuid.UUID       `json:"service_id"`
	RenewalCycle string          `json:"renewal_cycle"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	VAT          decimal.Decimal `json:"vat"`
	StartDate    time.Time       `json:"start_date"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	Description  string          `json:"description"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// InvoiceResponse represents an invoice in responses
type InvoiceResponse struct {
	ID          uuid.UUID             `json:"id"`
	CustomerID  uuid.UUID             `json:"customer_id"`
	Description string                `json:"description"`
	Status      string                `json:"status"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	Items       []InvoiceItemResponse `json:"items"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// ToInvoiceItemResponse converts a domain item to a response. The
// never-due sentinel is rendered as an absent due date.
func ToInvoiceItemResponse(item *billing.InvoiceItem) InvoiceItemResponse {
	response := InvoiceItemResponse{
		ID:           item.ID,
		ServiceID:    item.ServiceID,
		RenewalCycle: string(item.RenewalCycle),
		Price:        item.Price,
		Quantity:     item.Quantity,
		VAT:          item.VAT,
		StartDate:    item.StartDate,
		Description:  item.Description,
		LineTotal:    item.LineTotal().RoundBank(2),
	}
	if !billing.IsNeverDue(item.DueDate) {
		due := item.DueDate
		response.DueDate = &due
	}
	return response
}

// ToInvoiceResponse converts a domain invoice to a response.
// Soft-deleted items are omitted.
func ToInvoiceResponse(invoice *billing.Invoice) InvoiceResponse {
	active := invoice.ActiveItems()
	items := make([]InvoiceItemResponse, len(active))
	for i := range active {
		items[i] = ToInvoiceItemResponse(&active[i])
	}
	return InvoiceResponse{
		ID:          invoice.ID,
		CustomerID:  invoice.CustomerID,
		Description: invoice.Description,
		Status:      string(invoice.Status),
		TotalAmount: invoice.TotalAmount(),
		Items:       items,
		CreatedAt:   invoice.CreatedAt,
		UpdatedAt:   invoice.UpdatedAt,
	}
}

// ToInvoiceResponses converts a slice of domain invoices
func ToInvoiceResponses(invoices []billing.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses
}
