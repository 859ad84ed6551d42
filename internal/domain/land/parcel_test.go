package land

import (
	"testing"

	"github.com/agrifield/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acres(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewLandParcel(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates parcel", func(t *testing.T) {
		p, err := NewLandParcel(tenantID, "North Field", acres("100"))
		require.NoError(t, err)
		assert.Equal(t, tenantID, p.TenantID)
		assert.True(t, p.TotalAcres.Equal(acres("100")))
	})

	t.Run("rejects zero capacity", func(t *testing.T) {
		_, err := NewLandParcel(tenantID, "North Field", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewLandParcel(tenantID, "", acres("50"))
		assert.Error(t, err)
	})
}

func TestLandParcel_CheckCapacity(t *testing.T) {
	p, _ := NewLandParcel(uuid.New(), "North Field", acres("100"))

	t.Run("allows allocation within capacity", func(t *testing.T) {
		assert.NoError(t, p.CheckCapacity(acres("60"), acres("40")))
	})

	t.Run("allows exactly full capacity", func(t *testing.T) {
		assert.NoError(t, p.CheckCapacity(acres("99.5"), acres("0.5")))
	})

	t.Run("rejects overshoot", func(t *testing.T) {
		err := p.CheckCapacity(acres("60"), acres("50"))
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrCapacityExceeded)
		assert.Contains(t, err.Error(), "exceed")
	})

	t.Run("rejects non-positive proposal", func(t *testing.T) {
		assert.Error(t, p.CheckCapacity(decimal.Zero, decimal.Zero))
	})
}

func TestLandParcel_RemainingCapacity(t *testing.T) {
	p, _ := NewLandParcel(uuid.New(), "North Field", acres("100"))
	assert.True(t, p.RemainingCapacity(acres("60")).Equal(acres("40")))
}

func TestNewLandAllocation(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates allocation", func(t *testing.T) {
		a, err := NewLandAllocation(tenantID, uuid.New(), uuid.New(), uuid.New(), acres("25.75"))
		require.NoError(t, err)
		assert.True(t, a.AllocatedAcres.Equal(acres("25.75")))
	})

	t.Run("rejects missing references", func(t *testing.T) {
		_, err := NewLandAllocation(tenantID, uuid.Nil, uuid.New(), uuid.New(), acres("10"))
		assert.Error(t, err)
	})

	t.Run("rejects non-positive acres", func(t *testing.T) {
		_, err := NewLandAllocation(tenantID, uuid.New(), uuid.New(), uuid.New(), acres("-1"))
		assert.Error(t, err)
	})
}

func TestLandAllocation_Reallocate(t *testing.T) {
	a, _ := NewLandAllocation(uuid.New(), uuid.New(), uuid.New(), uuid.New(), acres("10"))

	require.NoError(t, a.Reallocate(acres("15")))
	assert.True(t, a.AllocatedAcres.Equal(acres("15")))

	assert.Error(t, a.Reallocate(decimal.Zero))
}
