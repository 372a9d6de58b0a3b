package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
)

// CustomerMustExist fails when the customer is missing or soft-deleted
type CustomerMustExist struct {
	repo       partner.CustomerRepository
	customerID uuid.UUID
}

// NewCustomerMustExist creates the rule
func NewCustomerMustExist(repo partner.CustomerRepository, customerID uuid.UUID) *CustomerMustExist {
	return &CustomerMustExist{repo: repo, customerID: customerID}
}

func (r *CustomerMustExist) Name() string {
	return "CUSTOMER_NOT_FOUND"
}

func (r *CustomerMustExist) Message() string {
	return "Customer not found"
}

func (r *CustomerMustExist) IsSatisfied(ctx context.Context) (bool, error) {
	_, err := r.repo.FindByID(ctx, r.customerID)
	if err != nil {
		if shared.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ServiceMustExist fails when the referenced service is missing or
// soft-deleted. One rule instance per line item.
type ServiceMustExist struct {
	repo      catalog.ServiceRepository
	serviceID uuid.UUID
}

// NewServiceMustExist creates the rule
func NewServiceMustExist(repo catalog.ServiceRepository, serviceID uuid.UUID) *ServiceMustExist {
	return &ServiceMustExist{repo: repo, serviceID: serviceID}
}

func (r *ServiceMustExist) Name() string {
	return "SERVICE_NOT_FOUND"
}

func (r *ServiceMustExist) Message() string {
	return "Service not found"
}

func (r *ServiceMustExist) IsSatisfied(ctx context.Context) (bool, error) {
	_, err := r.repo.FindByID(ctx, r.serviceID)
	if err != nil {
		if shared.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ItemTerms is the subset of line-item input the per-item rules check
type ItemTerms struct {
	Price    decimal.Decimal
	Quantity int
	VAT      decimal.Decimal
}

// NewItemPriceMustBePositive fails when the price is zero or negative
func NewItemPriceMustBePositive(terms ItemTerms) shared.BusinessRule {
	return shared.NewRule("ITEM_PRICE_NOT_POSITIVE", "Price must be greater than zero",
		func(ctx context.Context) (bool, error) {
			return terms.Price.IsPositive(), nil
		})
}

// NewItemQuantityMustBePositive fails when the quantity is zero or negative
func NewItemQuantityMustBePositive(terms ItemTerms) shared.BusinessRule {
	return shared.NewRule("ITEM_QUANTITY_NOT_POSITIVE", "Quantity must be greater than zero",
		func(ctx context.Context) (bool, error) {
			return terms.Quantity > 0, nil
		})
}

// NewItemVATMustBeInRange fails when VAT is outside [0, 100]
func NewItemVATMustBeInRange(terms ItemTerms) shared.BusinessRule {
	return shared.NewRule("ITEM_VAT_OUT_OF_RANGE", "VAT must be between 0 and 100",
		func(ctx context.Context) (bool, error) {
			return !terms.VAT.IsNegative() && !terms.VAT.GreaterThan(decimal.NewFromInt(100)), nil
		})
}

// NewInvoiceMustHaveItems fails when the item list is empty
func NewInvoiceMustHaveItems(itemCount int) shared.BusinessRule {
	return shared.NewRule("INVOICE_WITHOUT_ITEMS", "Invoice must contain at least one item",
		func(ctx context.Context) (bool, error) {
			return itemCount > 0, nil
		})
}

// NewInvoiceCanBePaid fails unless the invoice is Pending or Overdue
func NewInvoiceCanBePaid(invoice *Invoice) shared.BusinessRule {
	return shared.NewRule("INVOICE_NOT_PAYABLE", "Only pending or overdue invoices can be marked as paid",
		func(ctx context.Context) (bool, error) {
			return invoice.Status.CanBePaid(), nil
		})
}

// NewInvoiceCanBeCancelled fails when the invoice is Paid
func NewInvoiceCanBeCancelled(invoice *Invoice) shared.BusinessRule {
	return shared.NewRule("INVOICE_NOT_CANCELLABLE", "Paid invoices cannot be cancelled",
		func(ctx context.Context) (bool, error) {
			return invoice.Status != StatusPaid, nil
		})
}

// NewInvoiceCanBeDeleted fails when the invoice is Paid
func NewInvoiceCanBeDeleted(invoice *Invoice) shared.BusinessRule {
	return shared.NewRule("INVOICE_NOT_DELETABLE", "Paid invoices cannot be deleted",
		func(ctx context.Context) (bool, error) {
			return invoice.Status != StatusPaid, nil
		})
}
