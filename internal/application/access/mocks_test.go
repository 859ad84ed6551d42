package access

import (
	"context"

	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/domain/licensing"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTenantRepository is a mock implementation of identity.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) Update(ctx context.Context, tenant *identity.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAll(ctx context.Context) ([]*identity.Tenant, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*identity.Tenant), args.Error(1)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context) ([]*identity.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDUnscoped(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) CountEnabledAdmins(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

// MockTenantModuleRepository is a mock implementation of licensing.TenantModuleRepository
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
	return args.Get(0).([]*licensing.TenantModule), args.Error(1)
}

func (m *MockTenantModuleRepository) FindAllForUpdate(ctx context.Context) ([]*licensing.TenantModule, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*licensing.TenantModule), args.Error(1)
}

func (m *MockTenantModuleRepository) Upsert(ctx context.Context, tm *licensing.TenantModule) error {
	args := m.Called(ctx, tm)
	return args.Error(0)
}
