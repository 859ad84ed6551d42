package licensing

import (
	"context"
)

// TenantModuleRepository persists per-tenant module rows. All operations run
// under the ambient tenant scope; toggling one tenant's modules can never
// touch another tenant's rows.
type TenantModuleRepository interface {
	// FindByKey returns the row for the module key, or shared.ErrNotFound
	// when no row exists.
	FindByKey(ctx context.Context, key ModuleKey) (*TenantModule, error)
	FindAll(ctx context.Context) ([]*TenantModule, error)
	// FindAllForUpdate returns all rows of the tenant locked for the
	// surrounding transaction, so concurrent toggle batches serialize.
	FindAllForUpdate(ctx context.Context) ([]*TenantModule, error)
	// Upsert inserts or updates the row keyed by (tenant, module key).
	Upsert(ctx context.Context, tm *TenantModule) error
}
