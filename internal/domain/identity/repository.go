package identity

import (
	"context"

	"github.com/google/uuid"
)

// TenantRepository persists tenants. Tenant rows are platform-level and are
// not themselves subject to tenant scoping.
type TenantRepository interface {
	Create(ctx context.Context, tenant *Tenant) error
	Update(ctx context.Context, tenant *Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	FindAll(ctx context.Context) ([]*Tenant, error)
}

// UserRepository persists users. All lookups except FindByIDUnscoped run under
// the ambient tenant scope.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	// FindByIDUnscoped bypasses tenant scoping; used only by identity
	// resolution, which must verify tenant membership itself.
	FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*User, error)
	// CountEnabledAdmins counts enabled tenant_admin users for the tenant.
	// Implementations lock the counted rows so a concurrent disable cannot
	// race past the last-admin check.
	CountEnabledAdmins(ctx context.Context, tenantID uuid.UUID) (int64, error)
}
