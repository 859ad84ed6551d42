package logger

import (
	"context"
	"testing"

	"github.com/agrifield/backend/internal/domain/access"
	"github.com/agrifield/backend/internal/domain/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextLogger(t *testing.T) {
	t.Run("round trips through context", func(t *testing.T) {
		logger := zap.NewNop()
		ctx := WithContext(context.Background(), logger)
		assert.Same(t, logger, FromContext(ctx))
	})

	t.Run("missing logger falls back to no-op", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("request id is stored and logged", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		ctx, logger := WithRequestID(context.Background(), zap.New(core), "req-42")

		logger.Info("hello")

		assert.Equal(t, "req-42", GetRequestID(ctx))
		entries := logs.All()
		assert.Len(t, entries, 1)
		assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	})
}

func TestWithScope(t *testing.T) {
	t.Run("tenant scope logs tenant and user", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		tenantID := uuid.New()
		userID := uuid.New()
		scope := access.TenantScope(tenantID, identity.RoleOperator, &userID)

		WithScope(zap.New(core), scope).Info("hello")

		fields := logs.All()[0].ContextMap()
		assert.Equal(t, tenantID.String(), fields["tenant_id"])
		assert.Equal(t, userID.String(), fields["user_id"])
	})

	t.Run("platform scope logs a platform marker instead of a tenant", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		userID := uuid.New()

		WithScope(zap.New(core), access.PlatformScope(&userID)).Info("hello")

		fields := logs.All()[0].ContextMap()
		assert.Equal(t, true, fields["platform"])
		assert.NotContains(t, fields, "tenant_id")
	})
}
