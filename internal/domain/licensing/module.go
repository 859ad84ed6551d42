// Package licensing owns the feature module catalog and per-tenant module
// enablement. Modules are togglable feature areas of the ERP; core modules
// are always enabled and can never be disabled.
package licensing

import (
	"sort"
)

// ModuleKey represents a unique identifier for a feature module
type ModuleKey string

// Catalog module keys
const (
	ModuleFarmCore   ModuleKey = "farm_core"
	ModuleLand       ModuleKey = "land"
	ModuleInventory  ModuleKey = "inventory"
	ModulePurchasing ModuleKey = "purchasing"
	ModuleFinance    ModuleKey = "finance"
	ModuleReporting  ModuleKey = "reporting"
)

// Module is a process-wide static catalog entry describing a feature area
type Module struct {
	Key         ModuleKey
	Name        string
	Description string
	IsCore      bool
	SortOrder   int
	// Requires lists module keys that must be effectively enabled for this
	// module to be enabled, and that cannot be disabled while this module
	// stays enabled.
	Requires []ModuleKey
}

// catalog is the static process-wide module registry. It is immutable after
// init; per-tenant state lives in TenantModule rows.
var catalog = map[ModuleKey]Module{
	ModuleFarmCore: {
		Key:         ModuleFarmCore,
		Name:        "Farm Core",
		Description: "Farms, parties, crop cycles and master data",
		IsCore:      true,
		SortOrder:   10,
	},
	ModuleLand: {
		Key:         ModuleLand,
		Name:        "Land Management",
		Description: "Land parcels and acreage allocation",
		IsCore:      true,
		SortOrder:   20,
	},
	ModuleInventory: {
		Key:         ModuleInventory,
		Name:        "Inventory",
		Description: "Stores, stock balances and goods receipts",
		IsCore:      false,
		SortOrder:   30,
	},
	ModulePurchasing: {
		Key:         ModulePurchasing,
		Name:        "Purchasing",
		Description: "Suppliers and goods-receipt-note capture",
		IsCore:      false,
		SortOrder:   40,
		Requires:    []ModuleKey{ModuleInventory},
	},
	ModuleFinance: {
		Key:         ModuleFinance,
		Name:        "Finance",
		Description: "Posting groups and valuation",
		IsCore:      false,
		SortOrder:   50,
	},
	ModuleReporting: {
		Key:         ModuleReporting,
		Name:        "Reporting",
		Description: "Operational and financial reports",
		IsCore:      false,
		SortOrder:   60,
		Requires:    []ModuleKey{ModuleFinance},
	},
}

// LookupModule returns the catalog entry for a key
func LookupModule(key ModuleKey) (Module, bool) {
	m, ok := catalog[key]
	return m, ok
}

// AllModules returns the catalog ordered by SortOrder
func AllModules() []Module {
	modules := make([]Module, 0, len(catalog))
	for _, m := range catalog {
		modules = append(modules, m)
	}
	sort.Slice(modules, func(i, j int) bool {
		return modules[i].SortOrder < modules[j].SortOrder
	})
	return modules
}

// Dependents returns catalog modules that list key in their requirements
func Dependents(key ModuleKey) []Module {
	var deps []Module
	for _, m := range AllModules() {
		for _, req := range m.Requires {
			if req == key {
				deps = append(deps, m)
			}
		}
	}
	return deps
}
