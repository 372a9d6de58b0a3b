package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/crm/backend/internal/domain/shared"
)

// ServiceUsageChecker reports whether a service is referenced by an item
// on a pending invoice. Implemented by the billing context.
type ServiceUsageChecker interface {
	HasServiceOnActiveInvoice(ctx context.Context, serviceID uuid.UUID) (bool, error)
}

// ServiceNameMustBeUnique fails when another non-deleted service already
// uses the name.
type ServiceNameMustBeUnique struct {
	repo      ServiceRepository
	name      string
	excludeID uuid.UUID
}

// NewServiceNameMustBeUnique creates the rule. Pass uuid.Nil as excludeID
// when creating a new service.
func NewServiceNameMustBeUnique(repo ServiceRepository, name string, excludeID uuid.UUID) *ServiceNameMustBeUnique {
	return &ServiceNameMustBeUnique{repo: repo, name: strings.TrimSpace(name), excludeID: excludeID}
}

func (r *ServiceNameMustBeUnique) Name() string {
	return "SERVICE_NAME_TAKEN"
}

func (r *ServiceNameMustBeUnique) Message() string {
	return "A service with this name already exists"
}

func (r *ServiceNameMustBeUnique) IsSatisfied(ctx context.Context) (bool, error) {
	existing, err := r.repo.FindByName(ctx, r.name)
	if err != nil {
		if shared.IsNotFound(err) {
			return true, nil
		}
		return false, err
	}
	return existing.ID == r.excludeID, nil
}

// ServiceCanBeDeleted fails when the service is referenced by an item on
// a pending invoice.
type ServiceCanBeDeleted struct {
	checker   ServiceUsageChecker
	serviceID uuid.UUID
}

// NewServiceCanBeDeleted creates the rule
func NewServiceCanBeDeleted(checker ServiceUsageChecker, serviceID uuid.UUID) *ServiceCanBeDeleted {
	return &ServiceCanBeDeleted{checker: checker, serviceID: serviceID}
}

func (r *ServiceCanBeDeleted) Name() string {
	return "SERVICE_IN_USE"
}

func (r *ServiceCanBeDeleted) Message() string {
	return "Service cannot be deleted while it is used on a pending invoice"
}

func (r *ServiceCanBeDeleted) IsSatisfied(ctx context.Context) (bool, error) {
	inUse, err := r.checker.HasServiceOnActiveInvoice(ctx, r.serviceID)
	if err != nil {
		return false, err
	}
	return !inUse, nil
}
