// Package access defines the resolved request scope that every operation
// carries: which tenant, which user, which role. The scope is explicit
// context state, constructed once per inbound operation and discarded with
// the request context, so nothing leaks across operations in tests or in
// single-process runners.
package access

import (
	"context"

	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// Identity is the authenticated output of the transport layer: a tenant
// identifier, a role claim, and an optional user identifier. Credential
// verification happens upstream; resolution and enforcement happen here.
type Identity struct {
	TenantID uuid.UUID
	Role     identity.Role
	UserID   *uuid.UUID
}

// Scope is the resolved acting scope for one operation. A platform scope has
// no tenant and is exempt from tenant filtering.
type Scope struct {
	TenantID uuid.UUID
	Role     identity.Role
	UserID   *uuid.UUID
	Platform bool
}

// TenantScope creates a tenant-bound scope
func TenantScope(tenantID uuid.UUID, role identity.Role, userID *uuid.UUID) Scope {
	return Scope{TenantID: tenantID, Role: role, UserID: userID}
}

// PlatformScope creates a platform-admin scope that bypasses tenant resolution
func PlatformScope(userID *uuid.UUID) Scope {
	return Scope{Role: identity.RolePlatformAdmin, UserID: userID, Platform: true}
}

// IsZero reports whether the scope was never resolved
func (s Scope) IsZero() bool {
	return !s.Platform && s.TenantID == uuid.Nil && s.Role == ""
}

type contextKey struct{}

// WithScope attaches the resolved scope to the request context. The
// persistence layer reads it back to apply the tenant_id predicate; business
// code cannot issue a scoped query without it.
func WithScope(ctx context.Context, scope Scope) context.Context {
	return context.WithValue(ctx, contextKey{}, scope)
}

// FromContext returns the scope attached to the context, if any
func FromContext(ctx context.Context) (Scope, bool) {
	scope, ok := ctx.Value(contextKey{}).(Scope)
	return scope, ok
}

// MustFromContext returns the attached scope and panics if none was resolved.
// Reaching data access without a resolved scope is a programming error, not a
// request error.
func MustFromContext(ctx context.Context) Scope {
	scope, ok := FromContext(ctx)
	if !ok {
		panic("access: no scope resolved for this operation")
	}
	return scope
}
