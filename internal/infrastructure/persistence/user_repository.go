package persistence

import (
	"context"
	"errors"

	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/agrifield/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository implements identity.UserRepository using GORM.
// All lookups except FindByIDUnscoped run under the ambient tenant scope.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create stores a new user
func (r *GormUserRepository) Create(ctx context.Context, u *identity.User) error {
	model := models.UserModelFromDomain(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update stores changes to a user
func (r *GormUserRepository) Update(ctx context.Context, u *identity.User) error {
	model := models.UserModelFromDomain(u)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete removes a user by id
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.UserModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a user of the current tenant by id
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUsername finds a user of the current tenant by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all users of the current tenant ordered by username
func (r *GormUserRepository) FindAll(ctx context.Context) ([]*identity.User, error) {
	var userModels []models.UserModel
	if err := r.db.WithContext(ctx).Order("username").Find(&userModels).Error; err != nil {
		return nil, err
	}
	users := make([]*identity.User, 0, len(userModels))
	for i := range userModels {
		users = append(users, userModels[i].ToDomain())
	}
	return users, nil
}

// FindByIDUnscoped finds a user by id across all tenants. Identity resolution
// is its only caller; it verifies tenant membership itself.
func (r *GormUserRepository) FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Unscoped().First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CountEnabledAdmins counts enabled tenant_admin users for the tenant, with
// the counted rows locked. PostgreSQL does not allow FOR UPDATE with an
// aggregate, so the rows are selected and counted client-side.
func (r *GormUserRepository) CountEnabledAdmins(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND role = ? AND is_enabled = ?", tenantID, identity.RoleTenantAdmin, true).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
