// Package access implements identity resolution and the authorization gate
// that every operation passes through before business logic runs.
package access

import (
	"context"
	"errors"

	"github.com/agrifield/backend/internal/domain/access"
	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResolverConfig controls non-production relaxations of identity resolution
type ResolverConfig struct {
	// AllowRoleOnlyIdentity permits the legacy role-only path (no user id).
	// It belongs to the same override family as module-enforcement disable
	// and must stay off in production: without a user row there is no
	// enabled-user check.
	AllowRoleOnlyIdentity bool
}

// Resolver turns transport-layer identity hints into a resolved scope for
// one operation. It is the only component allowed to read users across
// tenant boundaries, because it is the component that verifies membership.
type Resolver struct {
	tenants identity.TenantRepository
	users   identity.UserRepository
	cfg     ResolverConfig
	logger  *zap.Logger
}

// NewResolver creates a resolver
func NewResolver(tenants identity.TenantRepository, users identity.UserRepository, cfg ResolverConfig, logger *zap.Logger) *Resolver {
	return &Resolver{
		tenants: tenants,
		users:   users,
		cfg:     cfg,
		logger:  logger,
	}
}

// Resolve validates the identity hints and returns the acting scope.
// Checks run in a fixed order: role claim, user verification, tenant
// lifecycle. Failures surface as domain errors; none reach business logic.
func (r *Resolver) Resolve(ctx context.Context, ident access.Identity) (access.Scope, error) {
	if !ident.Role.Valid() {
		return access.Scope{}, shared.ErrUnauthenticated
	}

	if ident.Role.IsPlatformAdmin() {
		return r.resolvePlatform(ctx, ident)
	}

	if ident.TenantID == uuid.Nil {
		return access.Scope{}, shared.ErrUnauthenticated
	}

	if ident.UserID != nil {
		if err := r.verifyUser(ctx, ident); err != nil {
			return access.Scope{}, err
		}
	} else if !r.cfg.AllowRoleOnlyIdentity {
		// Legacy role-only identities skip the enabled-user check entirely,
		// so they are refused unless explicitly allowed by configuration.
		return access.Scope{}, shared.ErrUnauthenticated
	}

	tenant, err := r.tenants.FindByID(ctx, ident.TenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return access.Scope{}, shared.ErrUnauthenticated
		}
		r.logger.Error("Failed to load tenant during resolution", zap.Error(err))
		return access.Scope{}, shared.ErrInternal
	}
	if !tenant.IsActive() {
		return access.Scope{}, shared.ErrTenantSuspended
	}

	return access.TenantScope(tenant.ID, ident.Role, ident.UserID), nil
}

// resolvePlatform handles platform_admin identities, which bypass tenant
// resolution and are not filtered by tenant id.
func (r *Resolver) resolvePlatform(ctx context.Context, ident access.Identity) (access.Scope, error) {
	if ident.UserID == nil {
		if !r.cfg.AllowRoleOnlyIdentity {
			return access.Scope{}, shared.ErrUnauthenticated
		}
		return access.PlatformScope(nil), nil
	}

	user, err := r.users.FindByIDUnscoped(ctx, *ident.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return access.Scope{}, shared.ErrForbidden
		}
		r.logger.Error("Failed to load user during resolution", zap.Error(err))
		return access.Scope{}, shared.ErrInternal
	}
	if !user.IsEnabled || user.Role != identity.RolePlatformAdmin {
		return access.Scope{}, shared.ErrForbidden
	}
	return access.PlatformScope(ident.UserID), nil
}

// verifyUser checks the referenced user exists, belongs to the claimed
// tenant, is enabled, and actually holds the claimed role.
func (r *Resolver) verifyUser(ctx context.Context, ident access.Identity) error {
	user, err := r.users.FindByIDUnscoped(ctx, *ident.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrForbidden
		}
		r.logger.Error("Failed to load user during resolution", zap.Error(err))
		return shared.ErrInternal
	}
	if !user.BelongsTo(ident.TenantID) {
		return shared.ErrForbidden
	}
	if !user.IsEnabled {
		return shared.NewDomainError("FORBIDDEN", "User account is disabled")
	}
	if user.Role != ident.Role {
		return shared.ErrForbidden
	}
	return nil
}
