// Package land implements parcel and allocation management. Acreage capacity
// is enforced inside a transaction that locks the parcel row, so two
// concurrent allocations cannot both pass the check.
package land

import (
	"context"
	"errors"
	"time"

	domacc "github.com/agrifield/backend/internal/domain/access"
	"github.com/agrifield/backend/internal/domain/land"
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransactionScope runs a function against transactional repositories
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories participating in an
// allocation transaction.
type TransactionalRepositories interface {
	Parcels() land.LandParcelRepository
	Allocations() land.LandAllocationRepository
}

// AllocationService manages land parcels and their crop-cycle allocations
type AllocationService struct {
	parcels     land.LandParcelRepository
	allocations land.LandAllocationRepository
	txScope     TransactionScope
	logger      *zap.Logger
}

// NewAllocationService creates an allocation service
func NewAllocationService(
	parcels land.LandParcelRepository,
	allocations land.LandAllocationRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *AllocationService {
	return &AllocationService{
		parcels:     parcels,
		allocations: allocations,
		txScope:     txScope,
		logger:      logger,
	}
}

// CreateParcelInput carries the fields for registering a parcel
type CreateParcelInput struct {
	Name       string          `json:"name" binding:"required"`
	TotalAcres decimal.Decimal `json:"total_acres" binding:"required"`
}

// AllocateInput carries the fields for allocating part of a parcel
type AllocateInput struct {
	ParcelID       uuid.UUID       `json:"parcel_id" binding:"required"`
	CropCycleID    uuid.UUID       `json:"crop_cycle_id" binding:"required"`
	PartyID        uuid.UUID       `json:"party_id" binding:"required"`
	AllocatedAcres decimal.Decimal `json:"allocated_acres" binding:"required"`
}

// ParcelDTO is the read representation of a parcel
type ParcelDTO struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	TotalAcres     decimal.Decimal `json:"total_acres"`
	AllocatedAcres decimal.Decimal `json:"allocated_acres"`
	RemainingAcres decimal.Decimal `json:"remaining_acres"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AllocationDTO is the read representation of an allocation
type AllocationDTO struct {
	ID             uuid.UUID       `json:"id"`
	ParcelID       uuid.UUID       `json:"parcel_id"`
	CropCycleID    uuid.UUID       `json:"crop_cycle_id"`
	PartyID        uuid.UUID       `json:"party_id"`
	AllocatedAcres decimal.Decimal `json:"allocated_acres"`
	CreatedAt      time.Time       `json:"created_at"`
}

// CreateParcel registers a parcel for the caller's tenant
func (s *AllocationService) CreateParcel(ctx context.Context, scope domacc.Scope, input CreateParcelInput) (*ParcelDTO, error) {
	parcel, err := land.NewLandParcel(scope.TenantID, input.Name, input.TotalAcres)
	if err != nil {
		return nil, err
	}
	if err := s.parcels.Create(ctx, parcel); err != nil {
		s.logger.Error("Failed to create parcel", zap.Error(err))
		return nil, shared.ErrInternal
	}
	return toParcelDTO(parcel, decimal.Zero), nil
}

// GetParcel returns a parcel with its current allocation totals
func (s *AllocationService) GetParcel(ctx context.Context, scope domacc.Scope, id uuid.UUID) (*ParcelDTO, error) {
	parcel, err := s.parcels.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	allocated, err := s.allocations.SumAllocatedAcres(ctx, id, nil)
	if err != nil {
		s.logger.Error("Failed to sum parcel allocations", zap.Error(err))
		return nil, shared.ErrInternal
	}
	return toParcelDTO(parcel, allocated), nil
}

// ListAllocations returns the allocations of one parcel
func (s *AllocationService) ListAllocations(ctx context.Context, scope domacc.Scope, parcelID uuid.UUID) ([]*AllocationDTO, error) {
	if _, err := s.parcels.FindByID(ctx, parcelID); err != nil {
		return nil, err
	}
	allocations, err := s.allocations.FindByParcel(ctx, parcelID)
	if err != nil {
		s.logger.Error("Failed to list allocations", zap.Error(err))
		return nil, shared.ErrInternal
	}
	result := make([]*AllocationDTO, 0, len(allocations))
	for _, allocation := range allocations {
		result = append(result, toAllocationDTO(allocation))
	}
	return result, nil
}

// Allocate carves acreage out of a parcel for a crop cycle. The parcel row is
// locked while the running total is checked against its capacity.
func (s *AllocationService) Allocate(ctx context.Context, scope domacc.Scope, input AllocateInput) (*AllocationDTO, error) {
	allocation, err := land.NewLandAllocation(scope.TenantID, input.ParcelID, input.CropCycleID, input.PartyID, input.AllocatedAcres)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		parcel, err := repos.Parcels().FindByIDForUpdate(ctx, input.ParcelID)
		if err != nil {
			return err
		}
		allocated, err := repos.Allocations().SumAllocatedAcres(ctx, input.ParcelID, nil)
		if err != nil {
			return err
		}
		if err := parcel.CheckCapacity(allocated, input.AllocatedAcres); err != nil {
			return err
		}
		return repos.Allocations().Create(ctx, allocation)
	})
	if err != nil {
		return nil, s.mapError(err, "Failed to allocate parcel acreage")
	}
	return toAllocationDTO(allocation), nil
}

// Reallocate changes the acreage of an existing allocation. The capacity
// check excludes the allocation's own current acreage.
func (s *AllocationService) Reallocate(ctx context.Context, scope domacc.Scope, allocationID uuid.UUID, acres decimal.Decimal) (*AllocationDTO, error) {
	var updated *land.LandAllocation
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		allocation, err := repos.Allocations().FindByID(ctx, allocationID)
		if err != nil {
			return err
		}
		parcel, err := repos.Parcels().FindByIDForUpdate(ctx, allocation.ParcelID)
		if err != nil {
			return err
		}
		allocated, err := repos.Allocations().SumAllocatedAcres(ctx, allocation.ParcelID, &allocation.ID)
		if err != nil {
			return err
		}
		if err := parcel.CheckCapacity(allocated, acres); err != nil {
			return err
		}
		if err := allocation.Reallocate(acres); err != nil {
			return err
		}
		if err := repos.Allocations().Update(ctx, allocation); err != nil {
			return err
		}
		updated = allocation
		return nil
	})
	if err != nil {
		return nil, s.mapError(err, "Failed to reallocate parcel acreage")
	}
	return toAllocationDTO(updated), nil
}

func (s *AllocationService) mapError(err error, logMsg string) error {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de
	}
	s.logger.Error(logMsg, zap.Error(err))
	return shared.ErrInternal
}

func toParcelDTO(parcel *land.LandParcel, allocated decimal.Decimal) *ParcelDTO {
	return &ParcelDTO{
		ID:             parcel.ID,
		Name:           parcel.Name,
		TotalAcres:     parcel.TotalAcres,
		AllocatedAcres: allocated,
		RemainingAcres: parcel.RemainingCapacity(allocated),
		CreatedAt:      parcel.CreatedAt,
	}
}

func toAllocationDTO(allocation *land.LandAllocation) *AllocationDTO {
	return &AllocationDTO{
		ID:             allocation.ID,
		ParcelID:       allocation.ParcelID,
		CropCycleID:    allocation.CropCycleID,
		PartyID:        allocation.PartyID,
		AllocatedAcres: allocation.AllocatedAcres,
		CreatedAt:      allocation.CreatedAt,
	}
}
