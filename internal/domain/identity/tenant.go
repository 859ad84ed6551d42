package identity

import (
	"encoding/json"
	"time"

	"github.com/agrifield/backend/internal/domain/shared"
)

// TenantStatus represents the lifecycle status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusArchived  TenantStatus = "archived"
)

// Valid reports whether the status is a known lifecycle state
func (s TenantStatus) Valid() bool {
	switch s {
	case TenantStatusActive, TenantStatusSuspended, TenantStatusArchived:
		return true
	}
	return false
}

// Tenant is an isolated farm business. Tenants are created and lifecycle-managed
// by platform admins and are never hard-deleted.
type Tenant struct {
	shared.BaseEntity
	Code   string
	Name   string
	Status TenantStatus
	// Settings holds arbitrary tenant configuration as a JSON document,
	// including onboarding state. The core treats it as opaque.
	Settings    string
	SuspendedAt *time.Time
}

// NewTenant creates a new active tenant
func NewTenant(code, name string) (*Tenant, error) {
	if code == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Tenant code is required")
	}
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Tenant name is required")
	}
	return &Tenant{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Status:     TenantStatusActive,
		Settings:   "{}",
	}, nil
}

// IsActive reports whether tenant-scoped operations are permitted
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// Suspend moves the tenant to suspended. Suspending an archived tenant is
// rejected; suspending twice is a no-op.
func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Archived tenant cannot be suspended")
	}
	if t.Status == TenantStatusSuspended {
		return nil
	}
	now := time.Now()
	t.Status = TenantStatusSuspended
	t.SuspendedAt = &now
	t.Touch()
	return nil
}

// Activate returns a suspended tenant to active
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Archived tenant cannot be activated")
	}
	t.Status = TenantStatusActive
	t.SuspendedAt = nil
	t.Touch()
	return nil
}

// Archive retires the tenant permanently. Archived behaves as suspended for
// access purposes.
func (t *Tenant) Archive() {
	t.Status = TenantStatusArchived
	t.Touch()
}

// UpdateSettings replaces the settings JSON document
func (t *Tenant) UpdateSettings(settingsJSON string) error {
	if settingsJSON == "" {
		return shared.NewDomainError("VALIDATION_FAILED", "Settings document is required")
	}
	if !json.Valid([]byte(settingsJSON)) {
		return shared.NewDomainError("VALIDATION_FAILED", "Settings document must be valid JSON")
	}
	t.Settings = settingsJSON
	t.Touch()
	return nil
}
