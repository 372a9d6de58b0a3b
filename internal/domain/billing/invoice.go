package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/domain/shared"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	StatusPending   InvoiceStatus = "pending"
	StatusPaid      InvoiceStatus = "paid"
	StatusOverdue   InvoiceStatus = "overdue"
	StatusCancelled InvoiceStatus = "cancelled"
)

// IsValid checks if the status is valid
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether automatic reconciliation leaves the
// status alone. Overdue is not terminal: it is a derived view of
// Pending and reconciliation may revert it.
func (s InvoiceStatus) IsTerminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// CanBePaid reports whether a mark-as-paid action is allowed
func (s InvoiceStatus) CanBePaid() bool {
	return s == StatusPending || s == StatusOverdue
}

// CanBeCancelled reports whether a cancel action is allowed
func (s InvoiceStatus) CanBeCancelled() bool {
	return s == StatusPending || s == StatusOverdue
}

// Invoice is the billing aggregate root. Its total is always derived
// from the non-deleted items, never stored.
type Invoice struct {
	shared.BaseAggregateRoot
	CustomerID  uuid.UUID     `gorm:"type:uuid;not null;index"`
	Description string        `gorm:"type:varchar(1000)"`
	Status      InvoiceStatus `gorm:"type:varchar(20);not null;index"`
	Items       []InvoiceItem `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a pending invoice with at least one line item
func NewInvoice(customerID uuid.UUID, description string, items []InvoiceItem) (*Invoice, error) {
	description = strings.TrimSpace(description)

	if customerID == uuid.Nil {
		return nil, shared.NewInvalidArgumentError("INVALID_CUSTOMER_ID", "Customer ID is required")
	}
	if len(description) > 1000 {
		return nil, shared.NewInvalidArgumentError("INVALID_INVOICE_DESCRIPTION", "Description cannot exceed 1000 characters")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVOICE_WITHOUT_ITEMS", "Invoice must contain at least one item")
	}

	invoice := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Description:       description,
		Status:            StatusPending,
	}

	for idx := range items {
		items[idx].InvoiceID = invoice.ID
	}
	invoice.Items = items

	invoice.AddDomainEvent(NewInvoiceCreatedEvent(invoice))

	return invoice, nil
}

// ActiveItems returns the non-deleted line items
func (inv *Invoice) ActiveItems() []InvoiceItem {
	active := make([]InvoiceItem, 0, len(inv.Items))
	for _, item := range inv.Items {
		if !item.Deleted {
			active = append(active, item)
		}
	}
	return active
}

// TotalAmount sums the non-deleted line totals and rounds the result
// half-to-even to two decimals.
func (inv *Invoice) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, item := range inv.Items {
		if !item.Deleted {
			total = total.Add(item.LineTotal())
		}
	}
	return total.RoundBank(2)
}

// HasOverdueItems reports whether any non-deleted item is past due
func (inv *Invoice) HasOverdueItems(today time.Time) bool {
	for _, item := range inv.Items {
		if item.IsOverdue(today) {
			return true
		}
	}
	return false
}

// EarliestDueDate returns the soonest real due date among non-deleted
// items, or the NeverDue sentinel when no item tracks a due date.
func (inv *Invoice) EarliestDueDate() time.Time {
	earliest := NeverDue
	for _, item := range inv.Items {
		if item.Deleted || IsNeverDue(item.DueDate) {
			continue
		}
		if item.DueDate.Before(earliest) {
			earliest = item.DueDate
		}
	}
	return earliest
}

// Reconcile recomputes the Pending/Overdue split from the current due
// dates. Paid and Cancelled invoices are never touched. It returns
// true when the status changed; running it again on unchanged data is
// a no-op.
func (inv *Invoice) Reconcile(today time.Time) bool {
	if inv.Status.IsTerminal() || inv.Deleted {
		return false
	}

	overdue := inv.HasOverdueItems(today)
	switch {
	case overdue && inv.Status == StatusPending:
		inv.Status = StatusOverdue
	case !overdue && inv.Status == StatusOverdue:
		inv.Status = StatusPending
	default:
		return false
	}

	inv.UpdatedAt = time.Now().UTC()
	inv.AddDomainEvent(NewInvoiceStatusChangedEvent(inv))
	return true
}

// MarkPaid transitions the invoice to Paid
func (inv *Invoice) MarkPaid() error {
	if inv.Status == StatusPaid {
		return shared.NewDomainError("INVOICE_ALREADY_PAID", "Invoice is already paid")
	}
	if inv.Status == StatusCancelled {
		return shared.NewDomainError("INVOICE_CANCELLED", "Cancelled invoices cannot be paid")
	}

	inv.Status = StatusPaid
	inv.UpdatedAt = time.Now().UTC()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoicePaidEvent(inv))

	return nil
}

// Cancel transitions the invoice to Cancelled
func (inv *Invoice) Cancel() error {
	if inv.Status == StatusPaid {
		return shared.NewDomainError("INVOICE_PAID", "Paid invoices cannot be cancelled")
	}
	if inv.Status == StatusCancelled {
		return nil
	}

	inv.Status = StatusCancelled
	inv.UpdatedAt = time.Now().UTC()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceCancelledEvent(inv))

	return nil
}

// Update reassigns the invoice's customer, description and status and
// replaces its line items. Existing items are soft-deleted, never
// removed.
func (inv *Invoice) Update(customerID uuid.UUID, description string, status InvoiceStatus, items []InvoiceItem) error {
	description = strings.TrimSpace(description)

	if customerID == uuid.Nil {
		return shared.NewInvalidArgumentError("INVALID_CUSTOMER_ID", "Customer ID is required")
	}
	if !status.IsValid() {
		return shared.NewInvalidArgumentError("INVALID_INVOICE_STATUS", "Unknown invoice status")
	}
	if len(description) > 1000 {
		return shared.NewInvalidArgumentError("INVALID_INVOICE_DESCRIPTION", "Description cannot exceed 1000 characters")
	}
	if len(items) == 0 {
		return shared.NewDomainError("INVOICE_WITHOUT_ITEMS", "Invoice must contain at least one item")
	}

	for idx := range inv.Items {
		if !inv.Items[idx].Deleted {
			inv.Items[idx].MarkDeleted()
		}
	}
	for idx := range items {
		items[idx].InvoiceID = inv.ID
	}
	inv.Items = append(inv.Items, items...)

	inv.CustomerID = customerID
	inv.Description = description
	inv.Status = status
	inv.UpdatedAt = time.Now().UTC()
	inv.IncrementVersion()

	return nil
}

// Delete soft-deletes the invoice. Paid invoices are kept for the
// books and cannot be deleted.
func (inv *Invoice) Delete() error {
	if inv.Deleted {
		return shared.NewNotFoundError("INVOICE_NOT_FOUND", "Invoice not found")
	}
	if inv.Status == StatusPaid {
		return shared.NewDomainError("INVOICE_PAID", "Paid invoices cannot be deleted")
	}

	inv.MarkDeleted()
	inv.IncrementVersion()

	inv.AddDomainEvent(NewInvoiceDeletedEvent(inv))

	return nil
}
