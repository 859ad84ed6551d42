package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/agrifield/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTenantRepository implements identity.TenantRepository using GORM.
// The tenants table is platform-level and has no tenant_id column, so every
// query runs Unscoped to bypass the tenant callbacks.
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// Create stores a new tenant
func (r *GormTenantRepository) Create(ctx context.Context, t *identity.Tenant) error {
	model := models.TenantModelFromDomain(t)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update stores changes to a tenant
func (r *GormTenantRepository) Update(ctx context.Context, t *identity.Tenant) error {
	model := models.TenantModelFromDomain(t)
	return r.db.WithContext(ctx).Unscoped().Save(model).Error
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	var model models.TenantModelRow
	if err := r.db.WithContext(ctx).Unscoped().First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a tenant by its unique code
func (r *GormTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	var model models.TenantModelRow
	if err := r.db.WithContext(ctx).Unscoped().
		Where("LOWER(code) = ?", strings.ToLower(code)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all tenants ordered by code
func (r *GormTenantRepository) FindAll(ctx context.Context) ([]*identity.Tenant, error) {
	var tenantModels []models.TenantModelRow
	if err := r.db.WithContext(ctx).Unscoped().Order("code").Find(&tenantModels).Error; err != nil {
		return nil, err
	}
	tenants := make([]*identity.Tenant, 0, len(tenantModels))
	for i := range tenantModels {
		tenants = append(tenants, tenantModels[i].ToDomain())
	}
	return tenants, nil
}

var _ identity.TenantRepository = (*GormTenantRepository)(nil)
