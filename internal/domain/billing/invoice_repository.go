package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/crm/backend/internal/domain/shared"
)

// InvoiceRepository defines the persistence contract for invoices.
// All queries exclude soft-deleted invoices; loaded invoices carry
// their items including soft-deleted ones so domain logic can filter.
type InvoiceRepository interface {
	// FindByID finds an invoice with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindAll returns invoices matching the filter, newest first,
	// with items preloaded
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Invoice], error)

	// FindByCustomer returns a customer's invoices with items preloaded
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[Invoice], error)

	// FindReconcilable returns all Pending and Overdue invoices with
	// items, for the bulk reconciliation pass
	FindReconcilable(ctx context.Context) ([]*Invoice, error)

	// FindOverdue returns Pending and Overdue invoices with an item due
	// before asOf, ordered by earliest due date, limited to limit
	// (0 means no limit). Membership is decided by the due dates, so
	// invoices the reconciliation pass has not flipped yet are included.
	FindOverdue(ctx context.Context, asOf time.Time, limit int) ([]*Invoice, error)

	// FindDueBetween returns Pending and Overdue invoices with a real
	// due date in [from, to), ordered by earliest due date
	FindDueBetween(ctx context.Context, from, to time.Time, limit int) ([]*Invoice, error)

	// FindPaidSince returns Paid invoices updated at or after since,
	// with items preloaded, for revenue aggregation
	FindPaidSince(ctx context.Context, since time.Time) ([]*Invoice, error)

	// FindRenewableItems returns non-deleted items on Paid invoices
	// whose renewal cycle is monthly or yearly and whose due date is
	// at or before asOf. Watermark filtering is left to the caller.
	FindRenewableItems(ctx context.Context, asOf time.Time) ([]*InvoiceItem, error)

	// HasActiveInvoiceForCustomer reports whether the customer has a
	// non-deleted Pending invoice
	HasActiveInvoiceForCustomer(ctx context.Context, customerID uuid.UUID) (bool, error)

	// HasServiceOnActiveInvoice reports whether the service appears on
	// a non-deleted item of a non-deleted Pending invoice
	HasServiceOnActiveInvoice(ctx context.Context, serviceID uuid.UUID) (bool, error)

	// Save persists the invoice and its items (insert or update)
	Save(ctx context.Context, invoice *Invoice) error

	// SaveWithLock persists the invoice with an optimistic version check
	SaveWithLock(ctx context.Context, invoice *Invoice) error

	// SaveItem persists a single item, used to advance the renewal
	// watermark without rewriting the whole aggregate
	SaveItem(ctx context.Context, item *InvoiceItem) error

	// Count returns the number of non-deleted invoices
	Count(ctx context.Context) (int64, error)

	// CountByStatus returns non-deleted invoice counts per status
	CountByStatus(ctx context.Context) (map[InvoiceStatus]int64, error)
}
