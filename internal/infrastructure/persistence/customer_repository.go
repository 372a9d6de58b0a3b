package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID, excluding soft-deleted records
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Where("id = ? AND deleted = ?", id, false).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		return nil, err
	}
	return &customer, nil
}

// FindByEmail finds a customer by normalized email
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Where("email = ? AND deleted = ?", partner.NormalizeEmail(email), false).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		return nil, err
	}
	return &customer, nil
}

// FindByTaxNumber finds a customer by tax number
func (r *GormCustomerRepository) FindByTaxNumber(ctx context.Context, taxNumber string) (*partner.Customer, error) {
	var customer partner.Customer
	if err := r.db.WithContext(ctx).
		Where("tax_number = ? AND deleted = ?", strings.TrimSpace(taxNumber), false).
		First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("CUSTOMER_NOT_FOUND", "Customer not found")
		}
		return nil, err
	}
	return &customer, nil
}

// FindAll returns customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[partner.Customer], error) {
	base := r.db.WithContext(ctx).Model(&partner.Customer{}).Where("deleted = ?", false)

	var total int64
	if err := applySearch(base.Session(&gorm.Session{}), filter, customerSearchColumns).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var customers []partner.Customer
	query := applyPagination(applySearch(base, filter, customerSearchColumns), filter)
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(customers, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// SaveWithLock saves a customer with an optimistic version check.
// Returns a conflict error if the record was modified concurrently.
func (r *GormCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	result := r.db.WithContext(ctx).
		Model(customer).
		Where("id = ? AND version = ?", customer.ID, customer.Version-1).
		Select("*").
		Updates(customer)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("CONCURRENT_UPDATE", "Customer was modified concurrently")
	}
	return nil
}

// Count returns the number of non-deleted customers
func (r *GormCustomerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&partner.Customer{}).
		Where("deleted = ?", false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var customerSearchColumns = []string{"full_name", "email", "tax_number"}

// Ensure GormCustomerRepository implements CustomerRepository
var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
