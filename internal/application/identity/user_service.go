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

// TransactionScope runs a function against transactional repositories.
// Mutations that can violate the last-admin invariant must hold the admin
// rows locked for the whole check-then-write sequence.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories participating in an
// identity transaction.
type TransactionalRepositories interface {
	Tenants() identity.TenantRepository
	Users() identity.UserRepository
}

// UserService manages tenant users. Every tenant must keep at least one
// enabled tenant_admin at all times.
type UserService struct {
	users   identity.UserRepository
	txScope TransactionScope
	logger  *zap.Logger
}

// NewUserService creates a user service
func NewUserService(users identity.UserRepository, txScope TransactionScope, logger *zap.Logger) *UserService {
	return &UserService{
		users:   users,
		txScope: txScope,
		logger:  logger,
	}
}

// CreateUserInput carries the fields for creating a user
type CreateUserInput struct {
	Username    string        `json:"username" binding:"required"`
	DisplayName string        `json:"display_name"`
	Role        identity.Role `json:"role" binding:"required"`
}

// UpdateUserInput carries the mutable fields of a user
type UpdateUserInput struct {
	DisplayName *string        `json:"display_name"`
	Role        *identity.Role `json:"role"`
}

// UserDTO is the read representation of a user
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	IsEnabled   bool       `json:"is_enabled"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Create adds a user to the caller's tenant. Platform admins cannot be
// created through tenant administration.
func (s *UserService) Create(ctx context.Context, scope domacc.Scope, input CreateUserInput) (*UserDTO, error) {
	if scope.Role != identity.RoleTenantAdmin {
		return nil, shared.ErrForbidden
	}
	if input.Role.IsPlatformAdmin() {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "Cannot create platform administrators")
	}

	if existing, err := s.users.FindByUsername(ctx, input.Username); err == nil && existing != nil {
		return nil, shared.NewDomainErrorf("ALREADY_EXISTS", "Username already taken: %s", input.Username)
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to check username", zap.Error(err))
		return nil, shared.ErrInternal
	}

	user, err := identity.NewUser(scope.TenantID, input.Username, input.Role)
	if err != nil {
		return nil, err
	}
	user.DisplayName = input.DisplayName

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainErrorf("ALREADY_EXISTS", "Username already taken: %s", input.Username)
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, shared.ErrInternal
	}
	return toUserDTO(user), nil
}

// Get returns one user of the caller's tenant. Users of other tenants do not
// resolve; the scoped lookup reports them as not found.
func (s *UserService) Get(ctx context.Context, scope domacc.Scope, id uuid.UUID) (*UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserDTO(user), nil
}

// List returns all users of the caller's tenant
func (s *UserService) List(ctx context.Context, scope domacc.Scope) ([]*UserDTO, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, shared.ErrInternal
	}
	result := make([]*UserDTO, 0, len(users))
	for _, user := range users {
		result = append(result, toUserDTO(user))
	}
	return result, nil
}

// Update changes a user's display name or role. Demoting the last enabled
// tenant admin is rejected.
func (s *UserService) Update(ctx context.Context, scope domacc.Scope, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	if scope.Role != identity.RoleTenantAdmin {
		return nil, shared.ErrForbidden
	}
	if input.Role != nil {
		if !input.Role.Valid() || input.Role.IsPlatformAdmin() {
			return nil, shared.NewDomainError("VALIDATION_FAILED", "Unknown role: "+string(*input.Role))
		}
	}

	var updated *identity.User
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		user, err := repos.Users().FindByID(ctx, id)
		if err != nil {
			return err
		}

		demotes := input.Role != nil && *input.Role != identity.RoleTenantAdmin && user.IsEnabledAdmin()
		if demotes {
			if err := s.guardLastAdmin(ctx, repos, user.TenantID); err != nil {
				return err
			}
		}

		if input.DisplayName != nil {
			user.DisplayName = *input.DisplayName
		}
		if input.Role != nil {
			user.Role = *input.Role
		}
		user.Touch()

		if err := repos.Users().Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, s.mapError(err, "Failed to update user")
	}
	return toUserDTO(updated), nil
}

// SetEnabled enables or disables a user. Disabling the last enabled tenant
// admin is rejected.
func (s *UserService) SetEnabled(ctx context.Context, scope domacc.Scope, id uuid.UUID, enabled bool) (*UserDTO, error) {
	if scope.Role != identity.RoleTenantAdmin {
		return nil, shared.ErrForbidden
	}

	var updated *identity.User
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		user, err := repos.Users().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if user.IsEnabled == enabled {
			updated = user
			return nil
		}

		if !enabled && user.IsEnabledAdmin() {
			if err := s.guardLastAdmin(ctx, repos, user.TenantID); err != nil {
				return err
			}
		}

		if enabled {
			user.Enable()
		} else {
			user.Disable()
		}
		if err := repos.Users().Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, s.mapError(err, "Failed to change user enablement")
	}
	return toUserDTO(updated), nil
}

// Delete removes a user. Deleting the last enabled tenant admin is rejected.
func (s *UserService) Delete(ctx context.Context, scope domacc.Scope, id uuid.UUID) error {
	if scope.Role != identity.RoleTenantAdmin {
		return shared.ErrForbidden
	}

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		user, err := repos.Users().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if user.IsEnabledAdmin() {
			if err := s.guardLastAdmin(ctx, repos, user.TenantID); err != nil {
				return err
			}
		}
		return repos.Users().Delete(ctx, user.ID)
	})
	if err != nil {
		return s.mapError(err, "Failed to delete user")
	}
	return nil
}

// guardLastAdmin rejects the operation when the target tenant has only one
// enabled admin left. Callers invoke it only when the operation would remove
// an enabled admin, and only inside a transaction that locked the admin rows.
func (s *UserService) guardLastAdmin(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID) error {
	count, err := repos.Users().CountEnabledAdmins(ctx, tenantID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return shared.ErrLastAdmin
	}
	return nil
}

func (s *UserService) mapError(err error, logMsg string) error {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de
	}
	s.logger.Error(logMsg, zap.Error(err))
	return shared.ErrInternal
}

func toUserDTO(user *identity.User) *UserDTO {
	return &UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		IsEnabled:   user.IsEnabled,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
