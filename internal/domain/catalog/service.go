package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crm/backend/internal/domain/shared"
)

// Service represents a billable service offering in the catalog.
// Its Price is the default unit price proposed when the service is
// added to an invoice; invoice items carry their own price snapshot.
type Service struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null;index"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Description string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Service) TableName() string {
	return "services"
}

// NewService creates a new billable service
func NewService(name string, price decimal.Decimal, description string) (*Service, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	service := &Service{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Price:             price,
		Description:       description,
	}

	service.AddDomainEvent(NewServiceCreatedEvent(service))

	return service, nil
}

// Update updates the service's catalog fields
func (s *Service) Update(name string, price decimal.Decimal, description string) error {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	if err := validateName(name); err != nil {
		return err
	}
	if err := validatePrice(price); err != nil {
		return err
	}
	if err := validateDescription(description); err != nil {
		return err
	}

	s.Name = name
	s.Price = price
	s.Description = description
	s.UpdatedAt = time.Now().UTC()
	s.IncrementVersion()

	s.AddDomainEvent(NewServiceUpdatedEvent(s))

	return nil
}

// Delete soft-deletes the service. Callers are responsible for checking
// the active-invoice reference guard first.
func (s *Service) Delete() error {
	if s.Deleted {
		return shared.NewNotFoundError("SERVICE_NOT_FOUND", "Service not found")
	}

	s.MarkDeleted()
	s.IncrementVersion()

	s.AddDomainEvent(NewServiceDeletedEvent(s))

	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewInvalidArgumentError("INVALID_SERVICE_NAME", "Service name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewInvalidArgumentError("INVALID_SERVICE_NAME", "Service name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewInvalidArgumentError("INVALID_SERVICE_PRICE", "Service price cannot be negative")
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > 500 {
		return shared.NewInvalidArgumentError("INVALID_SERVICE_DESCRIPTION", "Description cannot exceed 500 characters")
	}
	return nil
}
