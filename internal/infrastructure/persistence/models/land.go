package models

import (
	"github.com/agrifield/backend/internal/domain/land"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LandParcelModel is the persistence model for a land parcel
type LandParcelModel struct {
	TenantModel
	Name       string          `gorm:"type:varchar(200);not null"`
	TotalAcres decimal.Decimal `gorm:"type:numeric(12,3);not null"`
}

// TableName returns the table name for GORM
func (LandParcelModel) TableName() string {
	return "land_parcels"
}

// ToDomain converts the persistence model to a domain LandParcel
func (m *LandParcelModel) ToDomain() *land.LandParcel {
	return &land.LandParcel{
		TenantEntity: m.ToDomainTenantEntity(),
		Name:         m.Name,
		TotalAcres:   m.TotalAcres,
	}
}

// FromDomain populates the persistence model from a domain LandParcel
func (m *LandParcelModel) FromDomain(p *land.LandParcel) {
	m.FromDomainTenantEntity(p.TenantEntity)
	m.Name = p.Name
	m.TotalAcres = p.TotalAcres
}

// LandParcelModelFromDomain creates a new persistence model from a domain
// LandParcel.
func LandParcelModelFromDomain(p *land.LandParcel) *LandParcelModel {
	m := &LandParcelModel{}
	m.FromDomain(p)
	return m
}

// LandAllocationModel is the persistence model for a parcel allocation
type LandAllocationModel struct {
	TenantModel
	ParcelID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CropCycleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	PartyID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	AllocatedAcres decimal.Decimal `gorm:"type:numeric(12,3);not null"`
}

// TableName returns the table name for GORM
func (LandAllocationModel) TableName() string {
	return "land_allocations"
}

// ToDomain converts the persistence model to a domain LandAllocation
func (m *LandAllocationModel) ToDomain() *land.LandAllocation {
	return &land.LandAllocation{
		TenantEntity:   m.ToDomainTenantEntity(),
		ParcelID:       m.ParcelID,
		CropCycleID:    m.CropCycleID,
		PartyID:        m.PartyID,
		AllocatedAcres: m.AllocatedAcres,
	}
}

// FromDomain populates the persistence model from a domain LandAllocation
func (m *LandAllocationModel) FromDomain(a *land.LandAllocation) {
	m.FromDomainTenantEntity(a.TenantEntity)
	m.ParcelID = a.ParcelID
	m.CropCycleID = a.CropCycleID
	m.PartyID = a.PartyID
	m.AllocatedAcres = a.AllocatedAcres
}

// LandAllocationModelFromDomain creates a new persistence model from a domain
// LandAllocation.
func LandAllocationModelFromDomain(a *land.LandAllocation) *LandAllocationModel {
	m := &LandAllocationModel{}
	m.FromDomain(a)
	return m
}
