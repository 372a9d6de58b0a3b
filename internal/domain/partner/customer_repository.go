package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/crm/backend/internal/domain/shared"
)

// CustomerRepository defines the persistence contract for customers.
// All queries exclude soft-deleted records.
type CustomerRepository interface {
	// FindByID finds a customer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByEmail finds a customer by normalized email
	FindByEmail(ctx context.Context, email string) (*Customer, error)

	// FindByTaxNumber finds a customer by tax number
	FindByTaxNumber(ctx context.Context, taxNumber string) (*Customer, error)

	// FindAll returns customers matching the filter, newest first
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Customer], error)

	// Save persists the customer (insert or update)
	Save(ctx context.Context, customer *Customer) error

	// SaveWithLock persists the customer with an optimistic version check
	SaveWithLock(ctx context.Context, customer *Customer) error

	// Count returns the number of non-deleted customers
	Count(ctx context.Context) (int64, error)
}
