package identity

import (
	"context"
	"testing"

	domacc "github.com/agrifield/backend/internal/domain/access"
	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func adminScope(tenantID uuid.UUID) domacc.Scope {
	userID := uuid.New()
	return domacc.TenantScope(tenantID, identity.RoleTenantAdmin, &userID)
}

func newUserService(repo identity.UserRepository) *UserService {
	return NewUserService(repo, &passthroughScope{users: repo}, zap.NewNop())
}

func tenantUser(tenantID uuid.UUID, role identity.Role) *identity.User {
	user, _ := identity.NewUser(tenantID, "someone", role)
	return user
}

func TestUserService_Create(t *testing.T) {
	tenantID := uuid.New()
	scope := adminScope(tenantID)

	t.Run("creates an enabled user in the caller's tenant", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByUsername", mock.Anything, "hfarmer").Return(nil, shared.ErrNotFound)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
			return u.TenantID == tenantID && u.Username == "hfarmer" && u.IsEnabled
		})).Return(nil)

		dto, err := newUserService(repo).Create(context.Background(), scope, CreateUserInput{
			Username: "hfarmer",
			Role:     identity.RoleOperator,
		})

		require.NoError(t, err)
		assert.Equal(t, "operator", dto.Role)
		assert.True(t, dto.IsEnabled)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate usernames", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByUsername", mock.Anything, "hfarmer").
			Return(tenantUser(tenantID, identity.RoleOperator), nil)

		_, err := newUserService(repo).Create(context.Background(), scope, CreateUserInput{
			Username: "hfarmer",
			Role:     identity.RoleOperator,
		})

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("rejects platform_admin role", func(t *testing.T) {
		repo := new(MockUserRepository)

		_, err := newUserService(repo).Create(context.Background(), scope, CreateUserInput{
			Username: "root",
			Role:     identity.RolePlatformAdmin,
		})

		assert.ErrorIs(t, err, shared.ErrValidationFailed)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-admin callers", func(t *testing.T) {
		repo := new(MockUserRepository)
		callerID := uuid.New()
		operator := domacc.TenantScope(tenantID, identity.RoleOperator, &callerID)

		_, err := newUserService(repo).Create(context.Background(), operator, CreateUserInput{
			Username: "hfarmer",
			Role:     identity.RoleOperator,
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestUserService_SetEnabled(t *testing.T) {
	tenantID := uuid.New()
	scope := adminScope(tenantID)

	t.Run("disables a non-admin user without counting admins", func(t *testing.T) {
		repo := new(MockUserRepository)
		target := tenantUser(tenantID, identity.RoleOperator)
		repo.On("FindByID", mock.Anything, target.ID).Return(target, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
			return !u.IsEnabled
		})).Return(nil)

		dto, err := newUserService(repo).SetEnabled(context.Background(), scope, target.ID, false)

		require.NoError(t, err)
		assert.False(t, dto.IsEnabled)
		repo.AssertNotCalled(t, "CountEnabledAdmins", mock.Anything, mock.Anything)
	})

	t.Run("disabling the last enabled admin is rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		target := tenantUser(tenantID, identity.RoleTenantAdmin)
		repo.On("FindByID", mock.Anything, target.ID).Return(target, nil)
		repo.On("CountEnabledAdmins", mock.Anything, tenantID).Return(int64(1), nil)

		_, err := newUserService(repo).SetEnabled(context.Background(), scope, target.ID, false)

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrLastAdmin)
		assert.Contains(t, err.Error(), "last")
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("disabling an admin succeeds when another remains", func(t *testing.T) {
		repo := new(MockUserRepository)
		target := tenantUser(tenantID, identity.RoleTenantAdmin)
		repo.On("FindByID", mock.Anything, target.ID).Return(target, nil)
		repo.On("CountEnabledAdmins", mock.Anything, tenantID).Return(int64(2), nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)

		dto, err := newUserService(repo).SetEnabled(context.Background(), scope, target.ID, false)

		require.NoError(t, err)
		assert.False(t, dto.IsEnabled)
	})

	t.Run("disabling an already disabled user is a no-op", func(t *testing.T) {
		repo := new(MockUserRepository)
		target := tenantUser(tenantID, identity.RoleTenantAdmin)
		target.Disable()
		repo.On("FindByID", mock.Anything, target.ID).Return(target, nil)

		dto, err := newUserService(repo).SetEnabled(context.Background(), scope, target.ID, false)

		require.NoError(t, err)
		assert.False(t, dto.IsEnabled)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown user reports not found", func(t *testing.T) {
		repo := new(MockUserRepository)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := newUserService(repo).SetEnabled(context.Background(), scope, id, false)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestUserService_Update(t *testing.T) {
	tenantID := uuid.New()
	scope := adminScope(tenantID)

	t.Run("demoting the last enabled admin is rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		target := tenantUser(tenantID, identity.RoleTenantAdmin)
		repo.On("FindByID", mock.Anything, target.ID).Return(target, nil)
		repo.On("CountEnabledAdmins", mock.Anything, tenantID).Return(int64(1), nil)

		newRole := identity.RoleAccountant
		_, err := newUserService(repo).Update(context.Background(), scope, target.ID, UpdateUserInput{
			Role: &newRole,
		})

		assert.ErrorIs(t, err, shared.ErrLastAdmin)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("renaming does not count admins", func(t *testing.T) {
		repo := new(MockUserRepository)
		target := tenantUser(tenantID, identity.RoleTenantAdmin)
		repo.On("FindByID", mock.Anything, target.ID).Return(target, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)

		name := "Harvest Manager"
		dto, err := newUserService(repo).Update(context.Background(), scope, target.ID, UpdateUserInput{
			DisplayName: &name,
		})

		require.NoError(t, err)
		assert.Equal(t, "Harvest Manager", dto.DisplayName)
		repo.AssertNotCalled(t, "CountEnabledAdmins", mock.Anything, mock.Anything)
	})

	t.Run("promoting to platform_admin is rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		role := identity.RolePlatformAdmin

		_, err := newUserService(repo).Update(context.Background(), scope, uuid.New(), UpdateUserInput{
			Role: &role,
		})

		assert.ErrorIs(t, err, shared.ErrValidationFailed)
	})
}

func TestUserService_Delete(t *testing.T) {
	tenantID := uuid.New()
	scope := adminScope(tenantID)

	t.Run("deleting the last enabled admin is rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		target := tenantUser(tenantID, identity.RoleTenantAdmin)
		repo.On("FindByID", mock.Anything, target.ID).Return(target, nil)
		repo.On("CountEnabledAdmins", mock.Anything, tenantID).Return(int64(1), nil)

		err := newUserService(repo).Delete(context.Background(), scope, target.ID)

		assert.ErrorIs(t, err, shared.ErrLastAdmin)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("deleting a disabled admin does not count admins", func(t *testing.T) {
		repo := new(MockUserRepository)
		target := tenantUser(tenantID, identity.RoleTenantAdmin)
		target.Disable()
		repo.On("FindByID", mock.Anything, target.ID).Return(target, nil)
		repo.On("Delete", mock.Anything, target.ID).Return(nil)

		err := newUserService(repo).Delete(context.Background(), scope, target.ID)

		require.NoError(t, err)
		repo.AssertNotCalled(t, "CountEnabledAdmins", mock.Anything, mock.Anything)
	})

	t.Run("deleting an operator succeeds", func(t *testing.T) {
		repo := new(MockUserRepository)
		target := tenantUser(tenantID, identity.RoleOperator)
		repo.On("FindByID", mock.Anything, target.ID).Return(target, nil)
		repo.On("Delete", mock.Anything, target.ID).Return(nil)

		err := newUserService(repo).Delete(context.Background(), scope, target.ID)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("scoped lookup masks other tenants' users as not found", func(t *testing.T) {
		repo := new(MockUserRepository)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		err := newUserService(repo).Delete(context.Background(), scope, id)

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
