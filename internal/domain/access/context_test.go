package access

import (
	"context"
	"testing"

	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeRoundTrip(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()

	ctx := WithScope(context.Background(), TenantScope(tenantID, identity.RoleOperator, &userID))

	scope, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, tenantID, scope.TenantID)
	assert.Equal(t, identity.RoleOperator, scope.Role)
	assert.Equal(t, &userID, scope.UserID)
	assert.False(t, scope.Platform)
}

func TestFromContext_Missing(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	assert.Panics(t, func() {
		MustFromContext(context.Background())
	})
}

func TestScope_NoLeakageAcrossOperations(t *testing.T) {
	// A scope attached to one operation's context is invisible to a fresh
	// context, mirroring the per-request construct/discard lifecycle.
	first := WithScope(context.Background(), TenantScope(uuid.New(), identity.RoleTenantAdmin, nil))
	_, ok := FromContext(first)
	require.True(t, ok)

	second := context.Background()
	_, ok = FromContext(second)
	assert.False(t, ok)
}

func TestPlatformScope(t *testing.T) {
	scope := PlatformScope(nil)
	assert.True(t, scope.Platform)
	assert.Equal(t, uuid.Nil, scope.TenantID)
	assert.False(t, scope.IsZero())
}

func TestDecision(t *testing.T) {
	allow := Allow()
	assert.True(t, allow.Allowed)
	assert.Nil(t, allow.Err)

	deny := Deny(shared.ErrForbidden)
	assert.False(t, deny.Allowed)
	assert.Equal(t, "FORBIDDEN", deny.Err.Code)
}
