package licensing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupModule(t *testing.T) {
	m, ok := LookupModule(ModuleInventory)
	require.True(t, ok)
	assert.Equal(t, "Inventory", m.Name)
	assert.False(t, m.IsCore)

	_, ok = LookupModule(ModuleKey("no_such_module"))
	assert.False(t, ok)
}

func TestAllModules_SortedByOrder(t *testing.T) {
	modules := AllModules()
	require.NotEmpty(t, modules)
	for i := 1; i < len(modules); i++ {
		assert.Less(t, modules[i-1].SortOrder, modules[i].SortOrder)
	}
	assert.Equal(t, ModuleFarmCore, modules[0].Key)
}

func TestDependents(t *testing.T) {
	deps := Dependents(ModuleFinance)
	require.Len(t, deps, 1)
	assert.Equal(t, ModuleReporting, deps[0].Key)

	assert.Empty(t, Dependents(ModuleReporting))
}

func TestEffectiveEnablement(t *testing.T) {
	core, _ := LookupModule(ModuleFarmCore)
	nonCore, _ := LookupModule(ModuleInventory)
	tenantID := uuid.New()

	t.Run("core module enabled without a row", func(t *testing.T) {
		assert.True(t, EffectiveEnablement(core, nil))
	})

	t.Run("core module enabled even with a disabled row", func(t *testing.T) {
		row := NewTenantModule(tenantID, ModuleFarmCore, nil)
		row.SetEnabled(false, nil)
		assert.True(t, EffectiveEnablement(core, row))
	})

	t.Run("non-core module disabled by default", func(t *testing.T) {
		assert.False(t, EffectiveEnablement(nonCore, nil))
	})

	t.Run("non-core module follows stored status", func(t *testing.T) {
		row := NewTenantModule(tenantID, ModuleInventory, nil)
		assert.True(t, EffectiveEnablement(nonCore, row))

		row.SetEnabled(false, nil)
		assert.False(t, EffectiveEnablement(nonCore, row))
	})
}

func TestTenantModule_SetEnabled(t *testing.T) {
	actor := uuid.New()
	tm := NewTenantModule(uuid.New(), ModuleInventory, &actor)

	require.True(t, tm.IsEnabled())
	assert.NotNil(t, tm.EnabledAt)
	assert.Nil(t, tm.DisabledAt)
	assert.Equal(t, &actor, tm.EnabledByUserID)

	tm.SetEnabled(false, &actor)
	assert.False(t, tm.IsEnabled())
	assert.Nil(t, tm.EnabledAt)
	assert.NotNil(t, tm.DisabledAt)
}
