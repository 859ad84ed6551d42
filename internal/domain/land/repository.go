package land

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LandParcelRepository persists parcels under the ambient tenant scope
type LandParcelRepository interface {
	Create(ctx context.Context, parcel *LandParcel) error
	FindByID(ctx context.Context, id uuid.UUID) (*LandParcel, error)
	// FindByIDForUpdate locks the parcel row for the duration of the
	// surrounding transaction, serializing concurrent capacity checks.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*LandParcel, error)
}

// LandAllocationRepository persists allocations under the ambient tenant scope
type LandAllocationRepository interface {
	Create(ctx context.Context, allocation *LandAllocation) error
	Update(ctx context.Context, allocation *LandAllocation) error
	FindByID(ctx context.Context, id uuid.UUID) (*LandAllocation, error)
	FindByParcel(ctx context.Context, parcelID uuid.UUID) ([]*LandAllocation, error)
	// SumAllocatedAcres totals allocated acres for the parcel, excluding the
	// given allocation id when non-nil (for updates).
	SumAllocatedAcres(ctx context.Context, parcelID uuid.UUID, excludeID *uuid.UUID) (decimal.Decimal, error)
}
