package identity

import (
	"time"

	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role is the authorization role of a user. Roles are a closed set; protected
// operations declare the minimal roles they accept.
type Role string

const (
	// RolePlatformAdmin operates platform routes and is not tenant-scoped
	RolePlatformAdmin Role = "platform_admin"
	RoleTenantAdmin   Role = "tenant_admin"
	RoleAccountant    Role = "accountant"
	RoleOperator      Role = "operator"
)

// Valid reports whether the role is a known role
func (r Role) Valid() bool {
	switch r {
	case RolePlatformAdmin, RoleTenantAdmin, RoleAccountant, RoleOperator:
		return true
	}
	return false
}

// IsPlatformAdmin reports whether the role bypasses tenant scoping
func (r Role) IsPlatformAdmin() bool {
	return r == RolePlatformAdmin
}

// User belongs to exactly one tenant. A disabled user cannot act, regardless
// of role.
type User struct {
	shared.TenantEntity
	Username    string
	DisplayName string
	Role        Role
	IsEnabled   bool
	LastLoginAt *time.Time
}

// NewUser creates a new enabled user for the given tenant
func NewUser(tenantID uuid.UUID, username string, role Role) (*User, error) {
	if username == "" {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Username is required")
	}
	if !role.Valid() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Unknown role: "+string(role))
	}
	if tenantID == uuid.Nil && role != RolePlatformAdmin {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Tenant is required for non-platform users")
	}
	return &User{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Username:     username,
		Role:         role,
		IsEnabled:    true,
	}, nil
}

// Enable re-enables a disabled user
func (u *User) Enable() {
	u.IsEnabled = true
	u.Touch()
}

// Disable prevents the user from acting. The last-admin invariant is enforced
// by the user service, not here, because it needs a tenant-wide count.
func (u *User) Disable() {
	u.IsEnabled = false
	u.Touch()
}

// BelongsTo reports whether the user belongs to the given tenant
func (u *User) BelongsTo(tenantID uuid.UUID) bool {
	return u.TenantID == tenantID
}

// IsEnabledAdmin reports whether the user counts toward the tenant's
// enabled-admin total
func (u *User) IsEnabledAdmin() bool {
	return u.Role == RoleTenantAdmin && u.IsEnabled
}

// RecordLogin stamps the last login time
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.Touch()
}
