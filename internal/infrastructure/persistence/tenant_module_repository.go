package persistence

import (
	"context"
	"errors"

	"github.com/agrifield/backend/internal/domain/licensing"
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/agrifield/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTenantModuleRepository implements licensing.TenantModuleRepository
// using GORM. Reads run under the ambient tenant scope.
type GormTenantModuleRepository struct {
	db *gorm.DB
}

// NewGormTenantModuleRepository creates a new GormTenantModuleRepository
func NewGormTenantModuleRepository(db *gorm.DB) *GormTenantModuleRepository {
	return &GormTenantModuleRepository{db: db}
}

// FindByKey returns the enablement row for one module of the current tenant
func (r *GormTenantModuleRepository) FindByKey(ctx context.Context, key licensing.ModuleKey) (*licensing.TenantModule, error) {
	var model models.TenantModuleModel
	if err := r.db.WithContext(ctx).Where("module_key = ?", string(key)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all enablement rows of the current tenant
func (r *GormTenantModuleRepository) FindAll(ctx context.Context) ([]*licensing.TenantModule, error) {
	var moduleModels []models.TenantModuleModel
	if err := r.db.WithContext(ctx).Find(&moduleModels).Error; err != nil {
		return nil, err
	}
	rows := make([]*licensing.TenantModule, 0, len(moduleModels))
	for i := range moduleModels {
		rows = append(rows, moduleModels[i].ToDomain())
	}
	return rows, nil
}

// FindAllForUpdate returns all enablement rows of the current tenant locked
// for the surrounding transaction.
func (r *GormTenantModuleRepository) FindAllForUpdate(ctx context.Context) ([]*licensing.TenantModule, error) {
	var moduleModels []models.TenantModuleModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Find(&moduleModels).Error
	if err != nil {
		return nil, err
	}
	rows := make([]*licensing.TenantModule, 0, len(moduleModels))
	for i := range moduleModels {
		rows = append(rows, moduleModels[i].ToDomain())
	}
	return rows, nil
}

// Upsert inserts or updates the enablement row keyed by (tenant_id, module_key)
func (r *GormTenantModuleRepository) Upsert(ctx context.Context, tm *licensing.TenantModule) error {
	model := models.TenantModuleModelFromDomain(tm)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "module_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "enabled_at", "disabled_at", "enabled_by_user_id", "updated_at",
		}),
	}).Create(model).Error
}

var _ licensing.TenantModuleRepository = (*GormTenantModuleRepository)(nil)
