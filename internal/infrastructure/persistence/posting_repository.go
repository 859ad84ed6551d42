package persistence

import (
	"context"
	"errors"

	"github.com/agrifield/backend/internal/domain/posting"
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/agrifield/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGRNRepository implements posting.GRNRepository using GORM
type GormGRNRepository struct {
	db *gorm.DB
}

// NewGormGRNRepository creates a new GormGRNRepository
func NewGormGRNRepository(db *gorm.DB) *GormGRNRepository {
	return &GormGRNRepository{db: db}
}

// Create stores a new GRN with its lines
func (r *GormGRNRepository) Create(ctx context.Context, g *posting.GRN) error {
	model := models.GRNModelFromDomain(g)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update stores changes to the GRN document row. Lines are immutable once
// created and are not rewritten.
func (r *GormGRNRepository) Update(ctx context.Context, g *posting.GRN) error {
	model := models.GRNModelFromDomain(g)
	return r.db.WithContext(ctx).Omit("Lines").Save(model).Error
}

// FindByID finds a GRN of the current tenant with its lines
func (r *GormGRNRepository) FindByID(ctx context.Context, id uuid.UUID) (*posting.GRN, error) {
	var model models.GRNModel
	err := r.db.WithContext(ctx).Preload("Lines").First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate locks the GRN document row for the surrounding
// transaction, then loads the lines. Only the document row is locked; lines
// never change after creation.
func (r *GormGRNRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*posting.GRN, error) {
	var model models.GRNModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("grn_id = ?", model.ID).
		Find(&model.Lines).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

var _ posting.GRNRepository = (*GormGRNRepository)(nil)

// GormPostingGroupRepository implements posting.PostingGroupRepository using
// GORM. The posting_groups table carries a unique index on
// (tenant_id, idempotency_key).
type GormPostingGroupRepository struct {
	db *gorm.DB
}

// NewGormPostingGroupRepository creates a new GormPostingGroupRepository
func NewGormPostingGroupRepository(db *gorm.DB) *GormPostingGroupRepository {
	return &GormPostingGroupRepository{db: db}
}

// Create stores a new posting group. A unique violation on the idempotency
// key is reported as shared.ErrAlreadyExists so the caller can re-read the
// winning row.
func (r *GormPostingGroupRepository) Create(ctx context.Context, g *posting.PostingGroup) error {
	model := models.PostingGroupModelFromDomain(g)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByIdempotencyKey finds the posting group recorded under key for the
// current tenant.
func (r *GormPostingGroupRepository) FindByIdempotencyKey(ctx context.Context, key string) (*posting.PostingGroup, error) {
	var model models.PostingGroupModel
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByID finds a posting group of the current tenant by id
func (r *GormPostingGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*posting.PostingGroup, error) {
	var model models.PostingGroupModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

var _ posting.PostingGroupRepository = (*GormPostingGroupRepository)(nil)

// GormStockBalanceRepository implements posting.StockBalanceRepository using GORM
type GormStockBalanceRepository struct {
	db *gorm.DB
}

// NewGormStockBalanceRepository creates a new GormStockBalanceRepository
func NewGormStockBalanceRepository(db *gorm.DB) *GormStockBalanceRepository {
	return &GormStockBalanceRepository{db: db}
}

// FindForUpdate returns the balance row for (store, item) locked for the
// surrounding transaction.
func (r *GormStockBalanceRepository) FindForUpdate(ctx context.Context, storeID, itemID uuid.UUID) (*posting.StockBalance, error) {
	var model models.StockBalanceModel
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ? AND item_id = ?", storeID, itemID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Find returns the balance row for (store, item) without locking
func (r *GormStockBalanceRepository) Find(ctx context.Context, storeID, itemID uuid.UUID) (*posting.StockBalance, error) {
	var model models.StockBalanceModel
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND item_id = ?", storeID, itemID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Create stores a new balance row
func (r *GormStockBalanceRepository) Create(ctx context.Context, b *posting.StockBalance) error {
	model := models.StockBalanceModelFromDomain(b)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update stores changes to a balance row
func (r *GormStockBalanceRepository) Update(ctx context.Context, b *posting.StockBalance) error {
	model := models.StockBalanceModelFromDomain(b)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ posting.StockBalanceRepository = (*GormStockBalanceRepository)(nil)
