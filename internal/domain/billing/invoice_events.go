package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/domain/shared"
)

// Event type constants for the billing context
const (
	InvoiceCreatedEventType       = "billing.invoice.created"
	InvoicePaidEventType          = "billing.invoice.paid"
	InvoiceCancelledEventType     = "billing.invoice.cancelled"
	InvoiceDeletedEventType       = "billing.invoice.deleted"
	InvoiceStatusChangedEventType = "billing.invoice.status_changed"
	RenewalGeneratedEventType     = "billing.invoice.renewal_generated"
)

// InvoiceCreatedEvent is raised when an invoice is issued
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
}

// NewInvoiceCreatedEvent creates an invoice created event
func NewInvoiceCreatedEvent(invoice *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(InvoiceCreatedEventType, "Invoice", invoice.ID),
		CustomerID:      invoice.CustomerID,
		TotalAmount:     invoice.TotalAmount(),
		ItemCount:       len(invoice.ActiveItems()),
	}
}

// InvoicePaidEvent is raised when an invoice is marked as paid
type InvoicePaidEvent struct {
	shared.BaseDomainEvent
	CustomerID  uuid.UUID       `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewInvoicePaidEvent creates an invoice paid event
func NewInvoicePaidEvent(invoice *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(InvoicePaidEventType, "Invoice", invoice.ID),
		CustomerID:      invoice.CustomerID,
		TotalAmount:     invoice.TotalAmount(),
	}
}

// InvoiceCancelledEvent is raised when an invoice is cancelled
type InvoiceCancelledEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
}

// NewInvoiceCancelledEvent creates an invoice cancelled event
func NewInvoiceCancelledEvent(invoice *Invoice) *InvoiceCancelledEvent {
	return &InvoiceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(InvoiceCancelledEventType, "Invoice", invoice.ID),
		CustomerID:      invoice.CustomerID,
	}
}

// InvoiceDeletedEvent is raised when an invoice is soft-deleted
type InvoiceDeletedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
}

// NewInvoiceDeletedEvent creates an invoice deleted event
func NewInvoiceDeletedEvent(invoice *Invoice) *InvoiceDeletedEvent {
	return &InvoiceDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(InvoiceDeletedEventType, "Invoice", invoice.ID),
		CustomerID:      invoice.CustomerID,
	}
}

// InvoiceStatusChangedEvent is raised when reconciliation flips an
// invoice between Pending and Overdue
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID     `json:"customer_id"`
	Status     InvoiceStatus `json:"status"`
}

// NewInvoiceStatusChangedEvent creates a status changed event
func NewInvoiceStatusChangedEvent(invoice *Invoice) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(InvoiceStatusChangedEventType, "Invoice", invoice.ID),
		CustomerID:      invoice.CustomerID,
		Status:          invoice.Status,
	}
}

// RenewalGeneratedEvent is raised when the recurring generator spawns
// a follow-up invoice from a paid source invoice
type RenewalGeneratedEvent struct {
	shared.BaseDomainEvent
	SourceInvoiceID uuid.UUID `json:"source_invoice_id"`
	SourceItemID    uuid.UUID `json:"source_item_id"`
	CustomerID      uuid.UUID `json:"customer_id"`
}

// NewRenewalGeneratedEvent creates a renewal generated event on the
// new invoice, referencing the source it was spawned from
func NewRenewalGeneratedEvent(renewal *Invoice, sourceInvoiceID, sourceItemID uuid.UUID) *RenewalGeneratedEvent {
	return &RenewalGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(RenewalGeneratedEventType, "Invoice", renewal.ID),
		SourceInvoiceID: sourceInvoiceID,
		SourceItemID:    sourceItemID,
		CustomerID:      renewal.CustomerID,
	}
}
