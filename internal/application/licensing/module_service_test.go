package licensing

import (
	"context"
	"errors"
	"testing"

	domacc "github.com/agrifield/backend/internal/domain/access"
	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/domain/licensing"
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockTenantModuleRepository struct {
	mock.Mock
}

func (m *MockTenantModuleRepository) FindByKey(ctx context.Context, key licensing.ModuleKey) (*licensing.TenantModule, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*licensing.TenantModule), args.Error(1)
}

func (m *MockTenantModuleRepository) FindAll(ctx context.Context) ([]*licensing.TenantModule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*licensing.TenantModule), args.Error(1)
}

func (m *MockTenantModuleRepository) FindAllForUpdate(ctx context.Context) ([]*licensing.TenantModule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*licensing.TenantModule), args.Error(1)
}

func (m *MockTenantModuleRepository) Upsert(ctx context.Context, module *licensing.TenantModule) error {
	args := m.Called(ctx, module)
	return args.Error(0)
}

// passthroughScope executes the transactional function directly against the
// supplied repository, which is what a committed transaction looks like to
// the service.
type passthroughScope struct {
	modules licensing.TenantModuleRepository
}

func (s *passthroughScope) Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *passthroughScope) TenantModules() licensing.TenantModuleRepository {
	return s.modules
}

func adminScope() domacc.Scope {
	userID := uuid.New()
	return domacc.TenantScope(uuid.New(), identity.RoleTenantAdmin, &userID)
}

func newService(repo licensing.TenantModuleRepository) *ModuleService {
	return NewModuleService(repo, &passthroughScope{modules: repo}, zap.NewNop())
}

func enabledRow(scope domacc.Scope, key licensing.ModuleKey) *licensing.TenantModule {
	return licensing.NewTenantModule(scope.TenantID, key, scope.UserID)
}

func TestModuleService_List(t *testing.T) {
	scope := adminScope()

	t.Run("core modules always report enabled", func(t *testing.T) {
		repo := new(MockTenantModuleRepository)
		repo.On("FindAll", mock.Anything).Return([]*licensing.TenantModule{}, nil)

		modules, err := newService(repo).List(context.Background(), scope)

		require.NoError(t, err)
		byKey := dtosByKey(modules)
		assert.True(t, byKey[string(licensing.ModuleFarmCore)].Enabled)
		assert.Equal(t, "ENABLED", byKey[string(licensing.ModuleFarmCore)].Status)
		assert.True(t, byKey[string(licensing.ModuleLand)].Enabled)
		assert.False(t, byKey[string(licensing.ModuleInventory)].Enabled)
		assert.Equal(t, "DISABLED", byKey[string(licensing.ModuleInventory)].Status)
	})

	t.Run("enabled row reflected in listing", func(t *testing.T) {
		repo := new(MockTenantModuleRepository)
		repo.On("FindAll", mock.Anything).Return([]*licensing.TenantModule{
			enabledRow(scope, licensing.ModuleInventory),
		}, nil)

		modules, err := newService(repo).List(context.Background(), scope)

		require.NoError(t, err)
		byKey := dtosByKey(modules)
		assert.True(t, byKey[string(licensing.ModuleInventory)].Enabled)
		assert.False(t, byKey[string(licensing.ModulePurchasing)].Enabled)
	})
}

func TestModuleService_Toggle(t *testing.T) {
	scope := adminScope()

	t.Run("enables a module and persists the row", func(t *testing.T) {
		repo := new(MockTenantModuleRepository)
		repo.On("FindAllForUpdate", mock.Anything).Return([]*licensing.TenantModule{}, nil)
		repo.On("Upsert", mock.Anything, mock.MatchedBy(func(tm *licensing.TenantModule) bool {
			return tm.ModuleKey == licensing.ModuleInventory && tm.IsEnabled()
		})).Return(nil)

		modules, err := newService(repo).Toggle(context.Background(), scope, []ModuleToggle{
			{Key: licensing.ModuleInventory, Enabled: true},
		})

		require.NoError(t, err)
		assert.True(t, dtosByKey(modules)[string(licensing.ModuleInventory)].Enabled)
		repo.AssertExpectations(t)
	})

	t.Run("reads current enablement with a locked query", func(t *testing.T) {
		repo := new(MockTenantModuleRepository)
		repo.On("FindAllForUpdate", mock.Anything).Return([]*licensing.TenantModule{}, nil)
		repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

		_, err := newService(repo).Toggle(context.Background(), scope, []ModuleToggle{
			{Key: licensing.ModuleInventory, Enabled: true},
		})

		require.NoError(t, err)
		repo.AssertCalled(t, "FindAllForUpdate", mock.Anything)
		repo.AssertNotCalled(t, "FindAll", mock.Anything)
	})

	t.Run("rejects non-admin callers", func(t *testing.T) {
		repo := new(MockTenantModuleRepository)
		operatorID := uuid.New()
		operator := domacc.TenantScope(scope.TenantID, identity.RoleOperator, &operatorID)

		_, err := newService(repo).Toggle(context.Background(), operator, []ModuleToggle{
			{Key: licensing.ModuleInventory, Enabled: true},
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("disabling a core module fails the whole batch", func(t *testing.T) {
		repo := new(MockTenantModuleRepository)

		_, err := newService(repo).Toggle(context.Background(), scope, []ModuleToggle{
			{Key: licensing.ModuleInventory, Enabled: true},
			{Key: licensing.ModuleFarmCore, Enabled: false},
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrModuleDependency)
		assert.Contains(t, err.Error(), "Core modules cannot be disabled")
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("enabling a dependent without its requirement fails", func(t *testing.T) {
		repo := new(MockTenantModuleRepository)
		repo.On("FindAllForUpdate", mock.Anything).Return([]*licensing.TenantModule{}, nil)

		_, err := newService(repo).Toggle(context.Background(), scope, []ModuleToggle{
			{Key: licensing.ModulePurchasing, Enabled: true},
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrModuleDependency)
		assert.Contains(t, err.Error(), string(licensing.ModuleInventory))
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("disabling a requirement of an enabled module fails", func(t *testing.T) {
		repo := new(MockTenantModuleRepository)
		repo.On("FindAllForUpdate", mock.Anything).Return([]*licensing.TenantModule{
			enabledRow(scope, licensing.ModuleInventory),
			enabledRow(scope, licensing.ModulePurchasing),
		}, nil)

		_, err := newService(repo).Toggle(context.Background(), scope, []ModuleToggle{
			{Key: licensing.ModuleInventory, Enabled: false},
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrModuleDependency)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("requirement and dependent can be enabled in one batch", func(t *testing.T) {
		repo := new(MockTenantModuleRepository)
		repo.On("FindAllForUpdate", mock.Anything).Return([]*licensing.TenantModule{}, nil)
		repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

		modules, err := newService(repo).Toggle(context.Background(), scope, []ModuleToggle{
			{Key: licensing.ModuleInventory, Enabled: true},
			{Key: licensing.ModulePurchasing, Enabled: true},
		})

		require.NoError(t, err)
		byKey := dtosByKey(modules)
		assert.True(t, byKey[string(licensing.ModuleInventory)].Enabled)
		assert.True(t, byKey[string(licensing.ModulePurchasing)].Enabled)
	})

	t.Run("disabling an already absent module writes nothing", func(t *testing.T) {
		repo := new(MockTenantModuleRepository)
		repo.On("FindAllForUpdate", mock.Anything).Return([]*licensing.TenantModule{}, nil)

		_, err := newService(repo).Toggle(context.Background(), scope, []ModuleToggle{
			{Key: licensing.ModuleFinance, Enabled: false},
		})

		require.NoError(t, err)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("unknown module key fails validation", func(t *testing.T) {
		repo := new(MockTenantModuleRepository)

		_, err := newService(repo).Toggle(context.Background(), scope, []ModuleToggle{
			{Key: licensing.ModuleKey("telepathy"), Enabled: true},
		})

		assert.ErrorIs(t, err, shared.ErrValidationFailed)
	})

	t.Run("repository failure surfaces as internal error", func(t *testing.T) {
		repo := new(MockTenantModuleRepository)
		repo.On("FindAllForUpdate", mock.Anything).Return(nil, errors.New("connection reset"))

		_, err := newService(repo).Toggle(context.Background(), scope, []ModuleToggle{
			{Key: licensing.ModuleInventory, Enabled: true},
		})

		assert.ErrorIs(t, err, shared.ErrInternal)
	})
}

func dtosByKey(modules []ModuleDTO) map[string]ModuleDTO {
	byKey := make(map[string]ModuleDTO, len(modules))
	for _, m := range modules {
		byKey[m.Key] = m
	}
	return byKey
}
