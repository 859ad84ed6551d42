package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/agrifield/backend/internal/domain/access"
	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockGorm opens a gorm connection over sqlmock with the tenant scoping
// callbacks registered, mirroring what NewDatabase does.
func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	tenant.RegisterCallbacks(gormDB)

	return gormDB, mock, mockDB
}

// scopedCtx returns a context carrying a tenant scope, the way the HTTP
// layer hands contexts to repositories.
func scopedCtx(tenantID uuid.UUID) context.Context {
	return access.WithScope(context.Background(),
		access.TenantScope(tenantID, identity.RoleTenantAdmin, nil))
}
