// Package land owns land parcels and the acreage allocations carved out of
// them for crop cycles.
package land

import (
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LandParcel is a tenant-owned parcel with a fixed acreage capacity
type LandParcel struct {
	shared.TenantEntity
	Name       string
	TotalAcres decimal.Decimal
}

// NewLandParcel creates a parcel with the given capacity
func NewLandParcel(tenantID uuid.UUID, name string, totalAcres decimal.Decimal) (*LandParcel, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Parcel name is required")
	}
	if totalAcres.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Parcel capacity must be positive")
	}
	return &LandParcel{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
		TotalAcres:   totalAcres,
	}, nil
}

// RemainingCapacity returns the acres left given the currently allocated sum
func (p *LandParcel) RemainingCapacity(allocated decimal.Decimal) decimal.Decimal {
	return p.TotalAcres.Sub(allocated)
}

// CheckCapacity validates that allocatedSum plus proposed stays within the
// parcel's total acreage. allocatedSum must already exclude the allocation
// being updated, if any.
func (p *LandParcel) CheckCapacity(allocatedSum, proposed decimal.Decimal) error {
	if proposed.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_FAILED", "Allocated acres must be positive")
	}
	if allocatedSum.Add(proposed).GreaterThan(p.TotalAcres) {
		return shared.NewDomainErrorf("CAPACITY_EXCEEDED",
			"Allocating %s acres would exceed parcel capacity of %s (already allocated: %s)",
			proposed.String(), p.TotalAcres.String(), allocatedSum.String())
	}
	return nil
}

// LandAllocation assigns part of a parcel to a party for one crop cycle
type LandAllocation struct {
	shared.TenantEntity
	ParcelID       uuid.UUID
	CropCycleID    uuid.UUID
	PartyID        uuid.UUID
	AllocatedAcres decimal.Decimal
}

// NewLandAllocation creates an allocation. Capacity is checked by the
// allocation service inside a transaction; this only validates shape.
func NewLandAllocation(tenantID, parcelID, cropCycleID, partyID uuid.UUID, acres decimal.Decimal) (*LandAllocation, error) {
	if parcelID == uuid.Nil || cropCycleID == uuid.Nil || partyID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Parcel, crop cycle and party are required")
	}
	if acres.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Allocated acres must be positive")
	}
	return &LandAllocation{
		TenantEntity:   shared.NewTenantEntity(tenantID),
		ParcelID:       parcelID,
		CropCycleID:    cropCycleID,
		PartyID:        partyID,
		AllocatedAcres: acres,
	}, nil
}

// Reallocate changes the allocated amount
func (a *LandAllocation) Reallocate(acres decimal.Decimal) error {
	if acres.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_FAILED", "Allocated acres must be positive")
	}
	a.AllocatedAcres = acres
	a.Touch()
	return nil
}
