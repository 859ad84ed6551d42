package posting

import (
	"context"

	"github.com/google/uuid"
)

// GRNRepository persists goods-receipt-notes with their lines, under the
// ambient tenant scope.
type GRNRepository interface {
	Create(ctx context.Context, grn *GRN) error
	Update(ctx context.Context, grn *GRN) error
	FindByID(ctx context.Context, id uuid.UUID) (*GRN, error)
	// FindByIDForUpdate locks the document row for the surrounding
	// transaction so concurrent posts of the same GRN serialize.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*GRN, error)
}

// PostingGroupRepository persists posting groups. The backing table carries a
// unique constraint on (tenant_id, idempotency_key); Create surfaces a
// violation as shared.ErrAlreadyExists so callers can fall back to re-read.
type PostingGroupRepository interface {
	Create(ctx context.Context, group *PostingGroup) error
	FindByIdempotencyKey(ctx context.Context, key string) (*PostingGroup, error)
	FindByID(ctx context.Context, id uuid.UUID) (*PostingGroup, error)
}

// StockBalanceRepository persists stock balances keyed by (store, item)
// within the ambient tenant scope.
type StockBalanceRepository interface {
	// FindForUpdate returns the balance row locked for the surrounding
	// transaction, or shared.ErrNotFound when none exists yet.
	FindForUpdate(ctx context.Context, storeID, itemID uuid.UUID) (*StockBalance, error)
	Find(ctx context.Context, storeID, itemID uuid.UUID) (*StockBalance, error)
	Create(ctx context.Context, balance *StockBalance) error
	Update(ctx context.Context, balance *StockBalance) error
}
