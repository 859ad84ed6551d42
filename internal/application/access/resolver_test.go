package access

import (
	"context"
	"testing"

	"github.com/agrifield/backend/internal/domain/access"
	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestResolver(t *testing.T, cfg ResolverConfig) (*Resolver, *MockTenantRepository, *MockUserRepository) {
	t.Helper()
	tenants := new(MockTenantRepository)
	users := new(MockUserRepository)
	return NewResolver(tenants, users, cfg, zap.NewNop()), tenants, users
}

func activeTenant(t *testing.T) *identity.Tenant {
	t.Helper()
	tenant, err := identity.NewTenant("greenacre", "Greenacre Farms")
	require.NoError(t, err)
	return tenant
}

func enabledUser(t *testing.T, tenantID uuid.UUID, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser(tenantID, "alice", role)
	require.NoError(t, err)
	return user
}

func TestResolver_Resolve_TenantUser(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves enabled user of active tenant", func(t *testing.T) {
		resolver, tenants, users := newTestResolver(t, ResolverConfig{})
		tenant := activeTenant(t)
		user := enabledUser(t, tenant.ID, identity.RoleOperator)

		users.On("FindByIDUnscoped", ctx, user.ID).Return(user, nil)
		tenants.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

		scope, err := resolver.Resolve(ctx, access.Identity{
			TenantID: tenant.ID,
			Role:     identity.RoleOperator,
			UserID:   &user.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, tenant.ID, scope.TenantID)
		assert.Equal(t, identity.RoleOperator, scope.Role)
		assert.False(t, scope.Platform)
	})

	t.Run("rejects unknown role claim", func(t *testing.T) {
		resolver, _, _ := newTestResolver(t, ResolverConfig{})
		_, err := resolver.Resolve(ctx, access.Identity{TenantID: uuid.New(), Role: "root"})
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})

	t.Run("rejects missing tenant id", func(t *testing.T) {
		resolver, _, _ := newTestResolver(t, ResolverConfig{})
		_, err := resolver.Resolve(ctx, access.Identity{Role: identity.RoleOperator})
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})

	t.Run("rejects nonexistent user", func(t *testing.T) {
		resolver, _, users := newTestResolver(t, ResolverConfig{})
		userID := uuid.New()
		users.On("FindByIDUnscoped", ctx, userID).Return(nil, shared.ErrNotFound)

		_, err := resolver.Resolve(ctx, access.Identity{
			TenantID: uuid.New(),
			Role:     identity.RoleOperator,
			UserID:   &userID,
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("rejects user of another tenant", func(t *testing.T) {
		resolver, _, users := newTestResolver(t, ResolverConfig{})
		user := enabledUser(t, uuid.New(), identity.RoleOperator)
		users.On("FindByIDUnscoped", ctx, user.ID).Return(user, nil)

		_, err := resolver.Resolve(ctx, access.Identity{
			TenantID: uuid.New(), // different tenant than the user's
			Role:     identity.RoleOperator,
			UserID:   &user.ID,
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("rejects disabled user", func(t *testing.T) {
		resolver, _, users := newTestResolver(t, ResolverConfig{})
		tenant := activeTenant(t)
		user := enabledUser(t, tenant.ID, identity.RoleOperator)
		user.Disable()
		users.On("FindByIDUnscoped", ctx, user.ID).Return(user, nil)

		_, err := resolver.Resolve(ctx, access.Identity{
			TenantID: tenant.ID,
			Role:     identity.RoleOperator,
			UserID:   &user.ID,
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("rejects role claim that does not match stored role", func(t *testing.T) {
		resolver, _, users := newTestResolver(t, ResolverConfig{})
		tenant := activeTenant(t)
		user := enabledUser(t, tenant.ID, identity.RoleOperator)
		users.On("FindByIDUnscoped", ctx, user.ID).Return(user, nil)

		_, err := resolver.Resolve(ctx, access.Identity{
			TenantID: tenant.ID,
			Role:     identity.RoleTenantAdmin,
			UserID:   &user.ID,
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("rejects suspended tenant with suspension message", func(t *testing.T) {
		resolver, tenants, users := newTestResolver(t, ResolverConfig{})
		tenant := activeTenant(t)
		require.NoError(t, tenant.Suspend())
		user := enabledUser(t, tenant.ID, identity.RoleTenantAdmin)

		users.On("FindByIDUnscoped", ctx, user.ID).Return(user, nil)
		tenants.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

		_, err := resolver.Resolve(ctx, access.Identity{
			TenantID: tenant.ID,
			Role:     identity.RoleTenantAdmin,
			UserID:   &user.ID,
		})
		require.ErrorIs(t, err, shared.ErrTenantSuspended)
		assert.Contains(t, err.Error(), "suspended")
	})

	t.Run("rejects unknown tenant", func(t *testing.T) {
		resolver, tenants, users := newTestResolver(t, ResolverConfig{})
		tenantID := uuid.New()
		user := enabledUser(t, tenantID, identity.RoleOperator)
		users.On("FindByIDUnscoped", ctx, user.ID).Return(user, nil)
		tenants.On("FindByID", ctx, tenantID).Return(nil, shared.ErrNotFound)

		_, err := resolver.Resolve(ctx, access.Identity{
			TenantID: tenantID,
			Role:     identity.RoleOperator,
			UserID:   &user.ID,
		})
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})
}

func TestResolver_Resolve_RoleOnlyLegacy(t *testing.T) {
	ctx := context.Background()

	t.Run("refused by default", func(t *testing.T) {
		resolver, _, _ := newTestResolver(t, ResolverConfig{})
		_, err := resolver.Resolve(ctx, access.Identity{
			TenantID: uuid.New(),
			Role:     identity.RoleOperator,
		})
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})

	t.Run("allowed when the override is on", func(t *testing.T) {
		resolver, tenants, _ := newTestResolver(t, ResolverConfig{AllowRoleOnlyIdentity: true})
		tenant := activeTenant(t)
		tenants.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

		scope, err := resolver.Resolve(ctx, access.Identity{
			TenantID: tenant.ID,
			Role:     identity.RoleAccountant,
		})
		require.NoError(t, err)
		assert.Equal(t, identity.RoleAccountant, scope.Role)
		assert.Nil(t, scope.UserID)
	})

	t.Run("suspended tenant rejected even in legacy mode", func(t *testing.T) {
		resolver, tenants, _ := newTestResolver(t, ResolverConfig{AllowRoleOnlyIdentity: true})
		tenant := activeTenant(t)
		require.NoError(t, tenant.Suspend())
		tenants.On("FindByID", ctx, tenant.ID).Return(tenant, nil)

		_, err := resolver.Resolve(ctx, access.Identity{
			TenantID: tenant.ID,
			Role:     identity.RoleAccountant,
		})
		assert.ErrorIs(t, err, shared.ErrTenantSuspended)
	})
}

func TestResolver_Resolve_Platform(t *testing.T) {
	ctx := context.Background()

	t.Run("platform admin bypasses tenant resolution", func(t *testing.T) {
		resolver, tenants, users := newTestResolver(t, ResolverConfig{})
		admin := enabledUser(t, uuid.Nil, identity.RolePlatformAdmin)
		users.On("FindByIDUnscoped", ctx, admin.ID).Return(admin, nil)

		scope, err := resolver.Resolve(ctx, access.Identity{
			Role:   identity.RolePlatformAdmin,
			UserID: &admin.ID,
		})
		require.NoError(t, err)
		assert.True(t, scope.Platform)
		tenants.AssertNotCalled(t, "FindByID")
	})

	t.Run("disabled platform admin is rejected", func(t *testing.T) {
		resolver, _, users := newTestResolver(t, ResolverConfig{})
		admin := enabledUser(t, uuid.Nil, identity.RolePlatformAdmin)
		admin.Disable()
		users.On("FindByIDUnscoped", ctx, admin.ID).Return(admin, nil)

		_, err := resolver.Resolve(ctx, access.Identity{
			Role:   identity.RolePlatformAdmin,
			UserID: &admin.ID,
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("non-admin user claiming platform role is rejected", func(t *testing.T) {
		resolver, _, users := newTestResolver(t, ResolverConfig{})
		user := enabledUser(t, uuid.New(), identity.RoleOperator)
		users.On("FindByIDUnscoped", ctx, user.ID).Return(user, nil)

		_, err := resolver.Resolve(ctx, access.Identity{
			Role:   identity.RolePlatformAdmin,
			UserID: &user.ID,
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}
