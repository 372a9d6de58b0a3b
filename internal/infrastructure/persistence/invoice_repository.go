package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/shared"
)

// GormInvoiceRepository implements InvoiceRepository using GORM.
// Invoices are loaded with all of their items, including soft-deleted
// ones, so the domain layer can apply its own filtering.
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// minDueDateSubquery orders invoices by the earliest due date of their
// non-deleted items
const minDueDateSubquery = "(SELECT MIN(due_date) FROM invoice_items WHERE invoice_items.invoice_id = invoices.id AND invoice_items.deleted = false)"

// FindByID finds an invoice with its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND deleted = ?", id, false).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("INVOICE_NOT_FOUND", "Invoice not found")
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAll returns invoices matching the filter, newest first
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	return r.findPaginated(ctx, r.db.WithContext(ctx).Model(&billing.Invoice{}).Where("deleted = ?", false), filter)
}

// FindByCustomer returns a customer's invoices with items preloaded
func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	query := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("customer_id = ? AND deleted = ?", customerID, false)
	return r.findPaginated(ctx, query, filter)
}

func (r *GormInvoiceRepository) findPaginated(_ context.Context, base *gorm.DB, filter shared.Filter) (*shared.Paginated[billing.Invoice], error) {
	if status, ok := filter.Filters["status"]; ok {
		base = base.Where("status = ?", status)
	}
	if search, ok := filter.Filters["description"]; ok {
		base = base.Where("description ILIKE ?", "%"+search.(string)+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var invoices []billing.Invoice
	if err := applyPagination(base, filter).Preload("Items").Find(&invoices).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(invoices, total, filter.Page, filter.PageSize)
	return &result, nil
}

// FindReconcilable returns all Pending and Overdue invoices with items
func (r *GormInvoiceRepository) FindReconcilable(ctx context.Context) ([]*billing.Invoice, error) {
	var invoices []*billing.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status IN ? AND deleted = ?",
			[]billing.InvoiceStatus{billing.StatusPending, billing.StatusOverdue}, false).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindOverdue returns Pending and Overdue invoices with a non-deleted
// item due before asOf, ordered by earliest due date. The due-date
// predicate, not the stored status, decides membership: an invoice the
// reconciliation pass has not visited yet is still overdue here.
func (r *GormInvoiceRepository) FindOverdue(ctx context.Context, asOf time.Time, limit int) ([]*billing.Invoice, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("status IN ? AND deleted = ?",
			[]billing.InvoiceStatus{billing.StatusPending, billing.StatusOverdue}, false).
		Where("EXISTS (SELECT 1 FROM invoice_items WHERE invoice_items.invoice_id = invoices.id"+
			" AND invoice_items.deleted = false AND invoice_items.due_date < ?)", asOf).
		Order(minDueDateSubquery + " ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var invoices []*billing.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindDueBetween returns Pending and Overdue invoices with a real due
// date in [from, to), ordered by earliest due date
func (r *GormInvoiceRepository) FindDueBetween(ctx context.Context, from, to time.Time, limit int) ([]*billing.Invoice, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("status IN ? AND deleted = ?",
			[]billing.InvoiceStatus{billing.StatusPending, billing.StatusOverdue}, false).
		Where("EXISTS (SELECT 1 FROM invoice_items WHERE invoice_items.invoice_id = invoices.id"+
			" AND invoice_items.deleted = false AND invoice_items.due_date >= ? AND invoice_items.due_date < ?)",
			from, to).
		Order(minDueDateSubquery + " ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var invoices []*billing.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindPaidSince returns Paid invoices updated at or after since.
// A zero since returns all paid invoices.
func (r *GormInvoiceRepository) FindPaidSince(ctx context.Context, since time.Time) ([]*billing.Invoice, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ? AND deleted = ?", billing.StatusPaid, false)
	if !since.IsZero() {
		query = query.Where("updated_at >= ?", since)
	}

	var invoices []*billing.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindRenewableItems returns non-deleted items on Paid invoices whose
// renewal cycle is monthly or yearly and whose due date is at or before asOf
func (r *GormInvoiceRepository) FindRenewableItems(ctx context.Context, asOf time.Time) ([]*billing.InvoiceItem, error) {
	var items []*billing.InvoiceItem
	if err := r.db.WithContext(ctx).
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Where("invoices.status = ? AND invoices.deleted = ?", billing.StatusPaid, false).
		Where("invoice_items.deleted = ?", false).
		Where("invoice_items.renewal_cycle IN ?",
			[]billing.RenewalCycle{billing.CycleMonthly, billing.CycleYearly}).
		Where("invoice_items.due_date <= ?", asOf).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// HasActiveInvoiceForCustomer reports whether the customer has a
// non-deleted Pending invoice
func (r *GormInvoiceRepository) HasActiveInvoiceForCustomer(ctx context.Context, customerID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("customer_id = ? AND status = ? AND deleted = ?",
			customerID, billing.StatusPending, false).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasServiceOnActiveInvoice reports whether the service appears on a
// non-deleted item of a non-deleted Pending invoice
func (r *GormInvoiceRepository) HasServiceOnActiveInvoice(ctx context.Context, serviceID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.InvoiceItem{}).
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Where("invoice_items.service_id = ? AND invoice_items.deleted = ?", serviceID, false).
		Where("invoices.status = ? AND invoices.deleted = ?", billing.StatusPending, false).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists the invoice and its items
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(invoice).Error
}

// SaveWithLock persists the invoice with an optimistic version check.
// The invoice row is updated only when the stored version matches; the
// items are rewritten afterwards within the same connection.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	result := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Select("customer_id", "description", "status", "version", "deleted", "updated_at").
		Updates(map[string]interface{}{
			"customer_id": invoice.CustomerID,
			"description": invoice.Description,
			"status":      invoice.Status,
			"version":     invoice.Version,
			"deleted":     invoice.Deleted,
			"updated_at":  invoice.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("CONCURRENT_UPDATE", "Invoice was modified concurrently")
	}

	for i := range invoice.Items {
		if err := r.db.WithContext(ctx).Save(&invoice.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// SaveItem persists a single item, used to advance the renewal watermark
// without rewriting the whole aggregate
func (r *GormInvoiceRepository) SaveItem(ctx context.Context, item *billing.InvoiceItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Count returns the number of non-deleted invoices
func (r *GormInvoiceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Where("deleted = ?", false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus returns non-deleted invoice counts per status
func (r *GormInvoiceRepository) CountByStatus(ctx context.Context) (map[billing.InvoiceStatus]int64, error) {
	var rows []struct {
		Status billing.InvoiceStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&billing.Invoice{}).
		Select("status, COUNT(*) as count").
		Where("deleted = ?", false).
		Group("status").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[billing.InvoiceStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
