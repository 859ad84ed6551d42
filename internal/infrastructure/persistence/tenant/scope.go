// Package tenant provides structural multi-tenant scoping for GORM.
//
// Every query, update and delete against a tenant-owned table is filtered by
// the tenant of the request scope carried in the context. The filter is
// applied by registered callbacks, so repositories never write tenant_id
// conditions themselves and cannot forget one. Platform scopes skip the
// filter; a scoped operation without any resolved scope fails instead of
// running unfiltered.
package tenant

import (
	"context"
	"errors"

	"github.com/agrifield/backend/internal/domain/access"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrScopeRequired is returned when a scoped operation runs without a
// resolved request scope in its context.
var ErrScopeRequired = errors.New("request scope is required but not found in context")

// Scope applies an explicit tenant filter to a GORM query
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// ScopedDB wraps a GORM DB whose callbacks enforce tenant filtering
type ScopedDB struct {
	db *gorm.DB
}

// NewScopedDB registers the tenant callbacks on db and returns the wrapper
func NewScopedDB(db *gorm.DB) *ScopedDB {
	RegisterCallbacks(db)
	return &ScopedDB{db: db}
}

// DB returns the underlying GORM DB. Operations still go through the
// registered callbacks; this only skips the context convenience.
func (s *ScopedDB) DB() *gorm.DB {
	return s.db
}

// WithContext returns a GORM DB bound to ctx. The callbacks read the request
// scope from the statement context on every operation.
func (s *ScopedDB) WithContext(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// tenantFor extracts the effective tenant filter from the context. The second
// return is false when no filter should be applied (platform scope), the
// error is non-nil when no scope is present at all.
func tenantFor(ctx context.Context) (uuid.UUID, bool, error) {
	scope, ok := access.FromContext(ctx)
	if !ok {
		return uuid.Nil, false, ErrScopeRequired
	}
	if scope.Platform {
		return uuid.Nil, false, nil
	}
	return scope.TenantID, true, nil
}
