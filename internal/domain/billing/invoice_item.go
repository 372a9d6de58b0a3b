package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/domain/shared"
)

// RenewalCycle controls automatic re-billing of an invoice item
type RenewalCycle string

const (
	CycleNone    RenewalCycle = "none"
	CycleMonthly RenewalCycle = "monthly"
	CycleYearly  RenewalCycle = "yearly"
)

// IsValid checks if the renewal cycle is valid
func (c RenewalCycle) IsValid() bool {
	switch c {
	case CycleNone, CycleMonthly, CycleYearly:
		return true
	}
	return false
}

// Renews returns true when the cycle produces follow-up invoices
func (c RenewalCycle) Renews() bool {
	return c == CycleMonthly || c == CycleYearly
}

// NeverDue is the sentinel due date for items with no renewal cycle.
// Such items are exempt from overdue and recurring processing.
var NeverDue = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// IsNeverDue reports whether t is the never-due sentinel
func IsNeverDue(t time.Time) bool {
	return t.Equal(NeverDue)
}

// DueDateFor computes the due date for an item billed from startDate.
// Monthly adds one calendar month, yearly one calendar year, and a
// None cycle yields the NeverDue sentinel.
func DueDateFor(startDate time.Time, cycle RenewalCycle) time.Time {
	switch cycle {
	case CycleMonthly:
		return startDate.AddDate(0, 1, 0)
	case CycleYearly:
		return startDate.AddDate(1, 0, 0)
	default:
		return NeverDue
	}
}

var hundred = decimal.NewFromInt(100)

// LineTotal computes price * quantity * (1 + vat/100) with exact
// decimal arithmetic. Rounding is applied by callers at aggregation
// boundaries, not here.
func LineTotal(price decimal.Decimal, quantity int, vat decimal.Decimal) decimal.Decimal {
	gross := price.Mul(decimal.NewFromInt(int64(quantity)))
	return gross.Mul(decimal.NewFromInt(1).Add(vat.Div(hundred)))
}

// InvoiceItem is a billable line on an invoice. Price, quantity and VAT
// are snapshots taken at creation time; later catalog price changes do
// not affect existing items.
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ServiceID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	RenewalCycle RenewalCycle    `gorm:"type:varchar(20);not null"`
	Price        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity     int             `gorm:"not null;default:1"`
	VAT          decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	StartDate    time.Time       `gorm:"not null"`
	DueDate      time.Time       `gorm:"not null;index"`
	Description  string          `gorm:"type:varchar(1000)"`

	// BilledThrough records the due date a renewal invoice has already
	// been generated for, so re-running the generator cannot spawn
	// duplicates. Nil means the item has never been renewed.
	BilledThrough *time.Time
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoiceItem creates an invoice line item. The due date is derived
// from the start date and renewal cycle.
func NewInvoiceItem(serviceID uuid.UUID, cycle RenewalCycle, price decimal.Decimal, quantity int, vat decimal.Decimal, startDate time.Time, description string) (*InvoiceItem, error) {
	description = strings.TrimSpace(description)

	if serviceID == uuid.Nil {
		return nil, shared.NewInvalidArgumentError("INVALID_SERVICE_ID", "Service ID is required")
	}
	if !cycle.IsValid() {
		return nil, shared.NewInvalidArgumentError("INVALID_RENEWAL_CYCLE", "Invalid renewal cycle")
	}
	if !price.IsPositive() {
		return nil, shared.NewInvalidArgumentError("INVALID_ITEM_PRICE", "Price must be greater than zero")
	}
	if quantity <= 0 {
		return nil, shared.NewInvalidArgumentError("INVALID_ITEM_QUANTITY", "Quantity must be greater than zero")
	}
	if vat.IsNegative() || vat.GreaterThan(hundred) {
		return nil, shared.NewInvalidArgumentError("INVALID_ITEM_VAT", "VAT must be between 0 and 100")
	}
	if startDate.IsZero() {
		return nil, shared.NewInvalidArgumentError("INVALID_ITEM_START_DATE", "Start date is required")
	}
	if len(description) > 1000 {
		return nil, shared.NewInvalidArgumentError("INVALID_ITEM_DESCRIPTION", "Description cannot exceed 1000 characters")
	}

	startDate = startDate.UTC()

	return &InvoiceItem{
		BaseEntity:   shared.NewBaseEntity(),
		ServiceID:    serviceID,
		RenewalCycle: cycle,
		Price:        price,
		Quantity:     quantity,
		VAT:          vat,
		StartDate:    startDate,
		DueDate:      DueDateFor(startDate, cycle),
		Description:  description,
	}, nil
}

// LineTotal returns the item's gross amount including VAT
func (i *InvoiceItem) LineTotal() decimal.Decimal {
	return LineTotal(i.Price, i.Quantity, i.VAT)
}

// IsOverdue reports whether the item's due date has passed, at UTC day
// granularity. Never-due items are never overdue.
func (i *InvoiceItem) IsOverdue(today time.Time) bool {
	if i.Deleted || IsNeverDue(i.DueDate) {
		return false
	}
	day := today.UTC().Truncate(24 * time.Hour)
	return i.DueDate.Before(day)
}

// EligibleForRenewal reports whether a renewal invoice should be
// generated for this item as of now. The BilledThrough watermark
// guards against generating the same renewal twice.
func (i *InvoiceItem) EligibleForRenewal(now time.Time) bool {
	if i.Deleted || !i.RenewalCycle.Renews() || IsNeverDue(i.DueDate) {
		return false
	}
	if i.DueDate.After(now) {
		return false
	}
	return i.BilledThrough == nil || i.BilledThrough.Before(i.DueDate)
}

// MarkBilledThrough advances the renewal watermark to the item's
// current due date.
func (i *InvoiceItem) MarkBilledThrough() {
	due := i.DueDate
	i.BilledThrough = &due
	i.UpdatedAt = time.Now().UTC()
}

// Renewal builds the line item for the follow-up invoice, copying the
// billing terms and restarting the window from now.
func (i *InvoiceItem) Renewal(now time.Time) (*InvoiceItem, error) {
	return NewInvoiceItem(i.ServiceID, i.RenewalCycle, i.Price, i.Quantity, i.VAT, now, i.Description)
}
