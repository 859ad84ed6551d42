package models

import (
	"time"

	"github.com/agrifield/backend/internal/domain/licensing"
	"github.com/google/uuid"
)

// TenantModuleModel is the persistence model for a tenant's module enablement
// row. (tenant_id, module_key) is unique; the index is created in the
// migration step.
type TenantModuleModel struct {
	TenantModel
	ModuleKey       string                       `gorm:"type:varchar(50);not null;index"`
	Status          licensing.TenantModuleStatus `gorm:"type:varchar(20);not null"`
	EnabledAt       *time.Time
	DisabledAt      *time.Time
	EnabledByUserID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (TenantModuleModel) TableName() string {
	return "tenant_modules"
}

// ToDomain converts the persistence model to a domain TenantModule
func (m *TenantModuleModel) ToDomain() *licensing.TenantModule {
	return &licensing.TenantModule{
		TenantEntity:    m.ToDomainTenantEntity(),
		ModuleKey:       licensing.ModuleKey(m.ModuleKey),
		Status:          m.Status,
		EnabledAt:       m.EnabledAt,
		DisabledAt:      m.DisabledAt,
		EnabledByUserID: m.EnabledByUserID,
	}
}

// FromDomain populates the persistence model from a domain TenantModule
func (m *TenantModuleModel) FromDomain(tm *licensing.TenantModule) {
	m.FromDomainTenantEntity(tm.TenantEntity)
	m.ModuleKey = string(tm.ModuleKey)
	m.Status = tm.Status
	m.EnabledAt = tm.EnabledAt
	m.DisabledAt = tm.DisabledAt
	m.EnabledByUserID = tm.EnabledByUserID
}

// TenantModuleModelFromDomain creates a new persistence model from a domain
// TenantModule.
func TenantModuleModelFromDomain(tm *licensing.TenantModule) *TenantModuleModel {
	m := &TenantModuleModel{}
	m.FromDomain(tm)
	return m
}
