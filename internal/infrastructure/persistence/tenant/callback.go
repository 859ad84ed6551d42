package tenant

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const tenantColumn = "tenant_id"

// RegisterCallbacks registers the tenant filtering callbacks with GORM.
// Create is not hooked: tenant_id is set explicitly when entities are built,
// and the persistence models reject nil tenant ids on insert.
func RegisterCallbacks(db *gorm.DB) {
	_ = db.Callback().Query().Before("gorm:query").Register("tenant:before_query", addTenantFilter)
	_ = db.Callback().Update().Before("gorm:update").Register("tenant:before_update", addTenantFilter)
	_ = db.Callback().Delete().Before("gorm:delete").Register("tenant:before_delete", addTenantFilter)
	_ = db.Callback().Row().Before("gorm:row").Register("tenant:before_row", addTenantFilter)
}

// RemoveCallbacks unregisters the tenant callbacks, for tests only
func RemoveCallbacks(db *gorm.DB) {
	_ = db.Callback().Query().Remove("tenant:before_query")
	_ = db.Callback().Update().Remove("tenant:before_update")
	_ = db.Callback().Delete().Remove("tenant:before_delete")
	_ = db.Callback().Row().Remove("tenant:before_row")
}

func addTenantFilter(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}
	// Unscoped marks deliberate cross-tenant access, used only by identity
	// resolution and platform repositories.
	if db.Statement.Unscoped {
		return
	}
	if hasTenantCondition(db) {
		return
	}

	tenantID, filter, err := tenantFor(db.Statement.Context)
	if err != nil {
		_ = db.AddError(err)
		return
	}
	if !filter {
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: tenantColumn},
				Value:  tenantID,
			},
		},
	})
}

// hasTenantCondition checks whether a tenant_id predicate is already present
func hasTenantCondition(db *gorm.DB) bool {
	if whereClause, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if exprContainsTenant(expr) {
					return true
				}
			}
		}
	}
	sql := db.Statement.SQL.String()
	return sql != "" && strings.Contains(sql, tenantColumn)
}

func exprContainsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tenantColumn
		}
	case clause.IN:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tenantColumn
		}
	case clause.Expr:
		return strings.Contains(e.SQL, tenantColumn)
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if exprContainsTenant(cond) {
				return true
			}
		}
	case clause.OrConditions:
		for _, cond := range e.Exprs {
			if exprContainsTenant(cond) {
				return true
			}
		}
	}
	return false
}
