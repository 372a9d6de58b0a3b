package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/crm/backend/internal/domain/shared"
)

// ActiveInvoiceChecker reports whether a customer currently has a pending
// invoice. Implemented by the billing context to avoid a direct dependency.
type ActiveInvoiceChecker interface {
	HasActiveInvoiceForCustomer(ctx context.Context, customerID uuid.UUID) (bool, error)
}

// CustomerEmailMustBeUnique fails when another non-deleted customer already
// uses the email address.
type CustomerEmailMustBeUnique struct {
	repo      CustomerRepository
	email     string
	excludeID uuid.UUID
}

// NewCustomerEmailMustBeUnique creates the rule. Pass uuid.Nil as excludeID
// when creating a new customer.
func NewCustomerEmailMustBeUnique(repo CustomerRepository, email string, excludeID uuid.UUID) *CustomerEmailMustBeUnique {
	return &CustomerEmailMustBeUnique{repo: repo, email: NormalizeEmail(email), excludeID: excludeID}
}

func (r *CustomerEmailMustBeUnique) Name() string {
	return "CUSTOMER_EMAIL_TAKEN"
}

func (r *CustomerEmailMustBeUnique) Message() string {
	return "A customer with this email already exists"
}

func (r *CustomerEmailMustBeUnique) IsSatisfied(ctx context.Context) (bool, error) {
	existing, err := r.repo.FindByEmail(ctx, r.email)
	if err != nil {
		if shared.IsNotFound(err) {
			return true, nil
		}
		return false, err
	}
	return existing.ID == r.excludeID, nil
}

// CustomerTaxNumberMustBeUnique fails when another non-deleted customer
// already uses the tax number. An empty tax number is always satisfied.
type CustomerTaxNumberMustBeUnique struct {
	repo      CustomerRepository
	taxNumber string
	excludeID uuid.UUID
}

// NewCustomerTaxNumberMustBeUnique creates the rule
func NewCustomerTaxNumberMustBeUnique(repo CustomerRepository, taxNumber string, excludeID uuid.UUID) *CustomerTaxNumberMustBeUnique {
	return &CustomerTaxNumberMustBeUnique{repo: repo, taxNumber: taxNumber, excludeID: excludeID}
}

func (r *CustomerTaxNumberMustBeUnique) Name() string {
	return "CUSTOMER_TAX_NUMBER_TAKEN"
}

func (r *CustomerTaxNumberMustBeUnique) Message() string {
	return "A customer with this tax number already exists"
}

func (r *CustomerTaxNumberMustBeUnique) IsSatisfied(ctx context.Context) (bool, error) {
	if r.taxNumber == "" {
		return true, nil
	}
	existing, err := r.repo.FindByTaxNumber(ctx, r.taxNumber)
	if err != nil {
		if shared.IsNotFound(err) {
			return true, nil
		}
		return false, err
	}
	return existing.ID == r.excludeID, nil
}

// CustomerCanBeDeleted fails when the customer has a pending invoice
type CustomerCanBeDeleted struct {
	checker    ActiveInvoiceChecker
	customerID uuid.UUID
}

// NewCustomerCanBeDeleted creates the rule
func NewCustomerCanBeDeleted(checker ActiveInvoiceChecker, customerID uuid.UUID) *CustomerCanBeDeleted {
	return &CustomerCanBeDeleted{checker: checker, customerID: customerID}
}

func (r *CustomerCanBeDeleted) Name() string {
	return "CUSTOMER_HAS_ACTIVE_INVOICE"
}

func (r *CustomerCanBeDeleted) Message() string {
	return "Customer cannot be deleted while a pending invoice exists"
}

func (r *CustomerCanBeDeleted) IsSatisfied(ctx context.Context) (bool, error) {
	active, err := r.checker.HasActiveInvoiceForCustomer(ctx, r.customerID)
	if err != nil {
		return false, err
	}
	return !active, nil
}
