package licensing

import (
	"time"

	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TenantModuleStatus is the stored enablement state of a module for a tenant
type TenantModuleStatus string

const (
	TenantModuleEnabled  TenantModuleStatus = "ENABLED"
	TenantModuleDisabled TenantModuleStatus = "DISABLED"
)

// TenantModule is the tenant × module join row. Absence of a row means
// "disabled" for non-core modules and "implicitly enabled" for core ones.
type TenantModule struct {
	shared.TenantEntity
	ModuleKey       ModuleKey
	Status          TenantModuleStatus
	EnabledAt       *time.Time
	DisabledAt      *time.Time
	EnabledByUserID *uuid.UUID
}

// NewTenantModule creates an enabled module row for the tenant
func NewTenantModule(tenantID uuid.UUID, key ModuleKey, enabledBy *uuid.UUID) *TenantModule {
	tm := &TenantModule{
		TenantEntity: shared.NewTenantEntity(tenantID),
		ModuleKey:    key,
	}
	tm.SetEnabled(true, enabledBy)
	return tm
}

// SetEnabled flips the stored status, stamping the matching timestamp and
// clearing the other.
func (tm *TenantModule) SetEnabled(enabled bool, byUserID *uuid.UUID) {
	now := time.Now()
	if enabled {
		tm.Status = TenantModuleEnabled
		tm.EnabledAt = &now
		tm.DisabledAt = nil
	} else {
		tm.Status = TenantModuleDisabled
		tm.DisabledAt = &now
		tm.EnabledAt = nil
	}
	tm.EnabledByUserID = byUserID
	tm.Touch()
}

// IsEnabled reports whether the stored status is ENABLED
func (tm *TenantModule) IsEnabled() bool {
	return tm.Status == TenantModuleEnabled
}

// EffectiveEnablement computes whether a catalog module is enabled for a
// tenant given its stored row (nil when absent): core modules are always
// enabled; non-core modules are enabled iff a row exists with status ENABLED.
func EffectiveEnablement(module Module, row *TenantModule) bool {
	if module.IsCore {
		return true
	}
	return row != nil && row.IsEnabled()
}
