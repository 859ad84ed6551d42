// Package licensing implements the per-tenant module administration
// operations: listing effective enablement and toggling modules.
package licensing

import (
	"context"
	"errors"

	domacc "github.com/agrifield/backend/internal/domain/access"
	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/domain/licensing"
	"github.com/agrifield/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TransactionScope runs a function against transactional repositories.
// A batch toggle commits atomically or not at all.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories participating in a
// module-toggle transaction.
type TransactionalRepositories interface {
	TenantModules() licensing.TenantModuleRepository
}

// ModuleService handles module listing and toggling for the current tenant
type ModuleService struct {
	modules licensing.TenantModuleRepository
	txScope TransactionScope
	logger  *zap.Logger
}

// NewModuleService creates a module service
func NewModuleService(modules licensing.TenantModuleRepository, txScope TransactionScope, logger *zap.Logger) *ModuleService {
	return &ModuleService{
		modules: modules,
		txScope: txScope,
		logger:  logger,
	}
}

// ModuleToggle is one entry of a toggle batch
type ModuleToggle struct {
	Key     licensing.ModuleKey `json:"key"`
	Enabled bool                `json:"enabled"`
}

// ModuleDTO is the read representation of a catalog module for one tenant
type ModuleDTO struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsCore      bool   `json:"is_core"`
	SortOrder   int    `json:"sort_order"`
	Enabled     bool   `json:"enabled"`
	Status      string `json:"status"`
}

// List returns every catalog module with its computed enablement for the
// caller's tenant. Core modules always report enabled with status ENABLED.
func (s *ModuleService) List(ctx context.Context, scope domacc.Scope) ([]ModuleDTO, error) {
	rows, err := s.modules.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load tenant modules", zap.Error(err))
		return nil, shared.ErrInternal
	}
	byKey := rowsByKey(rows)

	result := make([]ModuleDTO, 0, len(licensing.AllModules()))
	for _, module := range licensing.AllModules() {
		result = append(result, toDTO(module, byKey[module.Key]))
	}
	return result, nil
}

// Toggle applies a batch of {key, enabled} changes for the caller's tenant.
// The whole batch is validated and written atomically: a core-module disable
// or a dependency violation fails everything and changes no module state.
func (s *ModuleService) Toggle(ctx context.Context, scope domacc.Scope, toggles []ModuleToggle) ([]ModuleDTO, error) {
	if scope.Role != identity.RoleTenantAdmin {
		return nil, shared.ErrForbidden
	}
	if len(toggles) == 0 {
		return nil, shared.NewDomainError("VALIDATION_FAILED", "No module toggles provided")
	}

	for _, toggle := range toggles {
		module, ok := licensing.LookupModule(toggle.Key)
		if !ok {
			return nil, shared.NewDomainErrorf("VALIDATION_FAILED", "Unknown module: %s", toggle.Key)
		}
		if module.IsCore && !toggle.Enabled {
			return nil, shared.NewDomainError("MODULE_DEPENDENCY", "Core modules cannot be disabled")
		}
	}

	var finalRows map[licensing.ModuleKey]*licensing.TenantModule
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		rows, err := repos.TenantModules().FindAllForUpdate(ctx)
		if err != nil {
			return err
		}
		byKey := rowsByKey(rows)

		if err := checkDependencies(byKey, toggles); err != nil {
			return err
		}

		for _, toggle := range toggles {
			module, _ := licensing.LookupModule(toggle.Key)
			if module.IsCore {
				// Core modules are implicitly enabled; nothing to store.
				continue
			}
			row, exists := byKey[toggle.Key]
			if !exists {
				if !toggle.Enabled {
					// No row means already disabled by default.
					continue
				}
				row = licensing.NewTenantModule(scope.TenantID, toggle.Key, scope.UserID)
			} else {
				row.SetEnabled(toggle.Enabled, scope.UserID)
			}
			if err := repos.TenantModules().Upsert(ctx, row); err != nil {
				return err
			}
			byKey[toggle.Key] = row
		}
		finalRows = byKey
		return nil
	})
	if err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) {
			return nil, de
		}
		s.logger.Error("Module toggle transaction failed", zap.Error(err))
		return nil, shared.ErrInternal
	}

	result := make([]ModuleDTO, 0, len(licensing.AllModules()))
	for _, module := range licensing.AllModules() {
		result = append(result, toDTO(module, finalRows[module.Key]))
	}
	return result, nil
}

// checkDependencies validates the projected post-batch state: every module
// that would end up enabled must have all its requirements enabled too.
func checkDependencies(current map[licensing.ModuleKey]*licensing.TenantModule, toggles []ModuleToggle) error {
	projected := make(map[licensing.ModuleKey]bool, len(licensing.AllModules()))
	for _, module := range licensing.AllModules() {
		projected[module.Key] = licensing.EffectiveEnablement(module, current[module.Key])
	}
	for _, toggle := range toggles {
		if module, ok := licensing.LookupModule(toggle.Key); ok && !module.IsCore {
			projected[toggle.Key] = toggle.Enabled
		}
	}

	for _, module := range licensing.AllModules() {
		if !projected[module.Key] {
			continue
		}
		for _, req := range module.Requires {
			if !projected[req] {
				return shared.NewDomainErrorf("MODULE_DEPENDENCY",
					"Module %q requires %q to be enabled", string(module.Key), string(req))
			}
		}
	}
	return nil
}

func rowsByKey(rows []*licensing.TenantModule) map[licensing.ModuleKey]*licensing.TenantModule {
	byKey := make(map[licensing.ModuleKey]*licensing.TenantModule, len(rows))
	for _, row := range rows {
		byKey[row.ModuleKey] = row
	}
	return byKey
}

func toDTO(module licensing.Module, row *licensing.TenantModule) ModuleDTO {
	enabled := licensing.EffectiveEnablement(module, row)
	status := string(licensing.TenantModuleDisabled)
	if enabled {
		status = string(licensing.TenantModuleEnabled)
	}
	return ModuleDTO{
		Key:         string(module.Key),
		Name:        module.Name,
		Description: module.Description,
		IsCore:      module.IsCore,
		SortOrder:   module.SortOrder,
		Enabled:     enabled,
		Status:      status,
	}
}
