package identity

import (
	"context"
	"errors"
	"time"

	domacc "github.com/agrifield/backend/internal/domain/access"
	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TenantService manages tenant lifecycle. All operations require platform
// scope; tenants cannot administer themselves.
type TenantService struct {
	tenants identity.TenantRepository
	txScope TransactionScope
	logger  *zap.Logger
}

// NewTenantService creates a tenant service
func NewTenantService(tenants identity.TenantRepository, txScope TransactionScope, logger *zap.Logger) *TenantService {
	return &TenantService{
		tenants: tenants,
		txScope: txScope,
		logger:  logger,
	}
}

// CreateTenantInput carries the fields for provisioning a tenant. The initial
// admin is created alongside so the tenant never exists without one.
type CreateTenantInput struct {
	Code          string `json:"code" binding:"required"`
	Name          string `json:"name" binding:"required"`
	AdminUsername string `json:"admin_username" binding:"required"`
}

// TenantDTO is the read representation of a tenant
type TenantDTO struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	Settings    string     `json:"settings,omitempty"`
	SuspendedAt *time.Time `json:"suspended_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Create provisions a tenant together with its first enabled admin
func (s *TenantService) Create(ctx context.Context, scope domacc.Scope, input CreateTenantInput) (*TenantDTO, error) {
	if !scope.Platform {
		return nil, shared.ErrForbidden
	}

	if existing, err := s.tenants.FindByCode(ctx, input.Code); err == nil && existing != nil {
		return nil, shared.NewDomainErrorf("ALREADY_EXISTS", "Tenant code already taken: %s", input.Code)
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check tenant code", zap.Error(err))
		return nil, shared.ErrInternal
	}

	tenant, err := identity.NewTenant(input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	admin, err := identity.NewUser(tenant.ID, input.AdminUsername, identity.RoleTenantAdmin)
	if err != nil {
		return nil, err
	}

	// Tenant and bootstrap admin commit together: a tenant row must never
	// exist without an enabled tenant admin.
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.Tenants().Create(ctx, tenant); err != nil {
			return err
		}
		return repos.Users().Create(ctx, admin)
	})
	if err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) {
			return nil, de
		}
		s.logger.Error("Failed to provision tenant", zap.Error(err))
		return nil, shared.ErrInternal
	}

	s.logger.Info("Tenant provisioned",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("code", tenant.Code))
	return toTenantDTO(tenant), nil
}

// Get returns one tenant
func (s *TenantService) Get(ctx context.Context, scope domacc.Scope, id uuid.UUID) (*TenantDTO, error) {
	if !scope.Platform {
		return nil, shared.ErrForbidden
	}
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTenantDTO(tenant), nil
}

// List returns all tenants
func (s *TenantService) List(ctx context.Context, scope domacc.Scope) ([]*TenantDTO, error) {
	if !scope.Platform {
		return nil, shared.ErrForbidden
	}
	tenants, err := s.tenants.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list tenants", zap.Error(err))
		return nil, shared.ErrInternal
	}
	result := make([]*TenantDTO, 0, len(tenants))
	for _, tenant := range tenants {
		result = append(result, toTenantDTO(tenant))
	}
	return result, nil
}

// Suspend blocks all access for the tenant's users. Suspending an already
// suspended tenant is a no-op.
func (s *TenantService) Suspend(ctx context.Context, scope domacc.Scope, id uuid.UUID) (*TenantDTO, error) {
	return s.transition(ctx, scope, id, (*identity.Tenant).Suspend)
}

// Activate restores access for a suspended tenant
func (s *TenantService) Activate(ctx context.Context, scope domacc.Scope, id uuid.UUID) (*TenantDTO, error) {
	return s.transition(ctx, scope, id, (*identity.Tenant).Activate)
}

// Archive retires a tenant permanently
func (s *TenantService) Archive(ctx context.Context, scope domacc.Scope, id uuid.UUID) (*TenantDTO, error) {
	return s.transition(ctx, scope, id, func(t *identity.Tenant) error {
		t.Archive()
		return nil
	})
}

// UpdateSettings replaces the tenant's settings document
func (s *TenantService) UpdateSettings(ctx context.Context, scope domacc.Scope, id uuid.UUID, settings string) (*TenantDTO, error) {
	return s.transition(ctx, scope, id, func(t *identity.Tenant) error {
		return t.UpdateSettings(settings)
	})
}

func (s *TenantService) transition(ctx context.Context, scope domacc.Scope, id uuid.UUID, apply func(*identity.Tenant) error) (*TenantDTO, error) {
	if !scope.Platform {
		return nil, shared.ErrForbidden
	}
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(tenant); err != nil {
		return nil, err
	}
	if err := s.tenants.Update(ctx, tenant); err != nil {
		s.logger.Error("Failed to update tenant", zap.Error(err))
		return nil, shared.ErrInternal
	}
	return toTenantDTO(tenant), nil
}

func toTenantDTO(tenant *identity.Tenant) *TenantDTO {
	return &TenantDTO{
		ID:          tenant.ID,
		Code:        tenant.Code,
		Name:        tenant.Name,
		Status:      string(tenant.Status),
		Settings:    tenant.Settings,
		SuspendedAt: tenant.SuspendedAt,
		CreatedAt:   tenant.CreatedAt,
	}
}
