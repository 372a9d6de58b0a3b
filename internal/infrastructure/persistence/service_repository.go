package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/shared"
)

// GormServiceRepository implements ServiceRepository using GORM
type GormServiceRepository struct {
	db *gorm.DB
}

// NewGormServiceRepository creates a new GormServiceRepository
func NewGormServiceRepository(db *gorm.DB) *GormServiceRepository {
	return &GormServiceRepository{db: db}
}

// FindByID finds a service by ID, excluding soft-deleted records
func (r *GormServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	var service catalog.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND deleted = ?", id, false).
		First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("SERVICE_NOT_FOUND", "Service not found")
		}
		return nil, err
	}
	return &service, nil
}

// FindByName finds a service by exact name
func (r *GormServiceRepository) FindByName(ctx context.Context, name string) (*catalog.Service, error) {
	var service catalog.Service
	if err := r.db.WithContext(ctx).
		Where("name = ? AND deleted = ?", strings.TrimSpace(name), false).
		First(&service).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("SERVICE_NOT_FOUND", "Service not found")
		}
		return nil, err
	}
	return &service, nil
}

// FindAll returns services matching the filter
func (r *GormServiceRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[catalog.Service], error) {
	base := r.db.WithContext(ctx).Model(&catalog.Service{}).Where("deleted = ?", false)

	var total int64
	if err := applySearch(base.Session(&gorm.Session{}), filter, serviceSearchColumns).
		Count(&total).Error; err != nil {
		return nil, err
	}

	var services []catalog.Service
	query := applyPagination(applySearch(base, filter, serviceSearchColumns), filter)
	if err := query.Find(&services).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(services, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Save creates or updates a service
func (r *GormServiceRepository) Save(ctx context.Context, service *catalog.Service) error {
	return r.db.WithContext(ctx).Save(service).Error
}

// SaveWithLock saves a service with an optimistic version check.
// Returns a conflict error if the record was modified concurrently.
func (r *GormServiceRepository) SaveWithLock(ctx context.Context, service *catalog.Service) error {
	result := r.db.WithContext(ctx).
		Model(service).
		Where("id = ? AND version = ?", service.ID, service.Version-1).
		Select("*").
		Updates(service)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("CONCURRENT_UPDATE", "Service was modified concurrently")
	}
	return nil
}

// Count returns the number of non-deleted services
func (r *GormServiceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Service{}).
		Where("deleted = ?", false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var serviceSearchColumns = []string{"name", "description"}

// Ensure GormServiceRepository implements ServiceRepository
var _ catalog.ServiceRepository = (*GormServiceRepository)(nil)
