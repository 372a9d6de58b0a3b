package persistence

import (
	"context"

	"gorm.io/gorm"

	appbilling "github.com/crm/backend/internal/application/billing"
	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/partner"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// InvoiceRepo returns the invoice repository scoped to the current transaction.
func (r *gormTransactionalRepositories) InvoiceRepo() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// CustomerRepo returns the customer repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CustomerRepo() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

// ServiceRepo returns the service repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ServiceRepo() catalog.ServiceRepository {
	return NewGormServiceRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appbilling.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appbilling.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
