package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/crm/backend/internal/domain/shared"
)

// ServiceRepository defines the persistence contract for catalog services.
// All queries exclude soft-deleted records.
type ServiceRepository interface {
	// FindByID finds a service by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Service, error)

	// FindByName finds a service by exact name
	FindByName(ctx context.Context, name string) (*Service, error)

	// FindAll returns services matching the filter, newest first
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Service], error)

	// Save persists the service (insert or update)
	Save(ctx context.Context, service *Service) error

	// SaveWithLock persists the service with an optimistic version check
	SaveWithLock(ctx context.Context, service *Service) error

	// Count returns the number of non-deleted services
	Count(ctx context.Context) (int64, error)
}
