package billing

import (
	"context"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/partner"
)

// TransactionScope provides transactional access to billing repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and are committed
// or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories the
// billing workflows touch, all sharing one underlying transaction.
// Invoice-plus-items creation must be one logical unit of work, and the
// recurring generator must persist the renewal invoice and the source
// item's watermark together.
type TransactionalRepositories interface {
	// InvoiceRepo returns the invoice repository scoped to the current transaction
	InvoiceRepo() billing.InvoiceRepository
	// CustomerRepo returns the customer repository scoped to the current transaction
	CustomerRepo() partner.CustomerRepository
	// ServiceRepo returns the service repository scoped to the current transaction
	ServiceRepo() catalog.ServiceRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	invoiceRepo  billing.InvoiceRepository
	customerRepo partner.CustomerRepository
	serviceRepo  catalog.ServiceRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	invoiceRepo billing.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	serviceRepo catalog.ServiceRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		serviceRepo:  serviceRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// InvoiceRepo returns the invoice repository.
func (s *NoOpTransactionScope) InvoiceRepo() billing.InvoiceRepository {
	return s.invoiceRepo
}

// CustomerRepo returns the customer repository.
func (s *NoOpTransactionScope) CustomerRepo() partner.CustomerRepository {
	return s.customerRepo
}

// ServiceRepo returns the service repository.
func (s *NoOpTransactionScope) ServiceRepo() catalog.ServiceRepository {
	return s.serviceRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
