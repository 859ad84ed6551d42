package persistence

import (
	"context"
	"errors"

	"github.com/agrifield/backend/internal/domain/land"
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/agrifield/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLandParcelRepository implements land.LandParcelRepository using GORM
type GormLandParcelRepository struct {
	db *gorm.DB
}

// NewGormLandParcelRepository creates a new GormLandParcelRepository
func NewGormLandParcelRepository(db *gorm.DB) *GormLandParcelRepository {
	return &GormLandParcelRepository{db: db}
}

// Create stores a new parcel
func (r *GormLandParcelRepository) Create(ctx context.Context, p *land.LandParcel) error {
	model := models.LandParcelModelFromDomain(p)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByID finds a parcel of the current tenant by id
func (r *GormLandParcelRepository) FindByID(ctx context.Context, id uuid.UUID) (*land.LandParcel, error) {
	var model models.LandParcelModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate locks the parcel row for the surrounding transaction
func (r *GormLandParcelRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*land.LandParcel, error) {
	var model models.LandParcelModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var _ land.LandParcelRepository = (*GormLandParcelRepository)(nil)

// GormLandAllocationRepository implements land.LandAllocationRepository using GORM
type GormLandAllocationRepository struct {
	db *gorm.DB
}

// NewGormLandAllocationRepository creates a new GormLandAllocationRepository
func NewGormLandAllocationRepository(db *gorm.DB) *GormLandAllocationRepository {
	return &GormLandAllocationRepository{db: db}
}

// Create stores a new allocation
func (r *GormLandAllocationRepository) Create(ctx context.Context, a *land.LandAllocation) error {
	model := models.LandAllocationModelFromDomain(a)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update stores changes to an allocation
func (r *GormLandAllocationRepository) Update(ctx context.Context, a *land.LandAllocation) error {
	model := models.LandAllocationModelFromDomain(a)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds an allocation of the current tenant by id
func (r *GormLandAllocationRepository) FindByID(ctx context.Context, id uuid.UUID) (*land.LandAllocation, error) {
	var model models.LandAllocationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByParcel returns the allocations of one parcel
func (r *GormLandAllocationRepository) FindByParcel(ctx context.Context, parcelID uuid.UUID) ([]*land.LandAllocation, error) {
	var allocationModels []models.LandAllocationModel
	err := r.db.WithContext(ctx).
		Where("parcel_id = ?", parcelID).
		Order("created_at").
		Find(&allocationModels).Error
	if err != nil {
		return nil, err
	}
	allocations := make([]*land.LandAllocation, 0, len(allocationModels))
	for i := range allocationModels {
		allocations = append(allocations, allocationModels[i].ToDomain())
	}
	return allocations, nil
}

// SumAllocatedAcres totals the allocated acres of a parcel, excluding the
// given allocation when excludeID is non-nil.
func (r *GormLandAllocationRepository) SumAllocatedAcres(ctx context.Context, parcelID uuid.UUID, excludeID *uuid.UUID) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.LandAllocationModel{}).
		Where("parcel_id = ?", parcelID)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var total decimal.Decimal
	err := query.
		Select("COALESCE(SUM(allocated_acres), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

var _ land.LandAllocationRepository = (*GormLandAllocationRepository)(nil)
