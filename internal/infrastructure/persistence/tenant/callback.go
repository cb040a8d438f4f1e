package tenant

import (
	"reflect"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/loyalty/backend/internal/infrastructure/logger"
)

// TenantCallback provides GORM callback hooks for automatic tenant filtering
type TenantCallback struct {
	tenantColumn string
	tenantField  string
}

// NewTenantCallback creates a new tenant callback handler
func NewTenantCallback(tenantColumn string) *TenantCallback {
	if tenantColumn == "" {
		tenantColumn = "tenant_id"
	}
	return &TenantCallback{
		tenantColumn: tenantColumn,
		tenantField:  "TenantID",
	}
}

// RegisterCallbacks registers tenant callbacks with GORM
func (tc *TenantCallback) RegisterCallbacks(db *gorm.DB) {
	// Query callback - add tenant filter
	_ = db.Callback().Query().Before("gorm:query").Register("tenant:before_query", tc.beforeQuery)

	// Update callback - ensure tenant filter
	_ = db.Callback().Update().Before("gorm:update").Register("tenant:before_update", tc.beforeUpdate)

	// Delete callback - ensure tenant filter
	_ = db.Callback().Delete().Before("gorm:delete").Register("tenant:before_delete", tc.beforeDelete)

	// Row query callback - add tenant filter
	_ = db.Callback().Row().Before("gorm:row").Register("tenant:before_row", tc.beforeQuery)

	// Create callback - stamp tenant_id from context and reject rows that
	// cannot resolve a tenant at all
	_ = db.Callback().Create().Before("gorm:create").Register("tenant:before_create", tc.beforeCreate)
}

func (tc *TenantCallback) beforeQuery(db *gorm.DB) {
	tc.addTenantFilter(db)
}

func (tc *TenantCallback) beforeUpdate(db *gorm.DB) {
	tc.addTenantFilter(db)
}

func (tc *TenantCallback) beforeDelete(db *gorm.DB) {
	tc.addTenantFilter(db)
}

// beforeCreate stamps tenant_id on rows being inserted. The entity's own
// tenant_id wins; a zero value is filled from the context. A create with
// no tenant on the entity and none in the context is rejected.
func (tc *TenantCallback) beforeCreate(db *gorm.DB) {
	if db.Statement.Context == nil || db.Statement.Schema == nil {
		return
	}

	field := db.Statement.Schema.LookUpField(tc.tenantField)
	if field == nil {
		// Model is not tenant-owned (e.g. tenants table itself)
		return
	}

	ctxTenant := logger.GetTenantID(db.Statement.Context)
	var ctxUUID uuid.UUID
	if ctxTenant != "" {
		parsed, err := uuid.Parse(ctxTenant)
		if err != nil {
			_ = db.AddError(ErrInvalidTenantID)
			return
		}
		ctxUUID = parsed
	}

	stamp := func(rv reflect.Value) {
		value, zero := field.ValueOf(db.Statement.Context, rv)
		if !zero {
			if id, ok := value.(uuid.UUID); ok && id != uuid.Nil {
				return
			}
		}
		if ctxUUID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return
		}
		if err := field.Set(db.Statement.Context, rv, ctxUUID); err != nil {
			_ = db.AddError(err)
		}
	}

	switch db.Statement.ReflectValue.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < db.Statement.ReflectValue.Len(); i++ {
			stamp(db.Statement.ReflectValue.Index(i))
		}
	case reflect.Struct:
		stamp(db.Statement.ReflectValue)
	}
}

// addTenantFilter adds tenant filtering to the query
func (tc *TenantCallback) addTenantFilter(db *gorm.DB) {
	if db.Statement.Context == nil {
		return
	}

	// Skip if unscoped
	if db.Statement.Unscoped {
		return
	}

	// Skip models without a tenant column (e.g. the tenants table)
	if db.Statement.Schema != nil && db.Statement.Schema.LookUpField(tc.tenantField) == nil {
		return
	}

	// Skip if already has tenant condition
	if tc.hasTenantCondition(db) {
		return
	}

	tenantID := logger.GetTenantID(db.Statement.Context)
	if tenantID == "" {
		// System mode: unrestricted access
		return
	}

	if _, err := uuid.Parse(tenantID); err != nil {
		_ = db.AddError(ErrInvalidTenantID)
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: tc.tenantColumn},
				Value:  tenantID,
			},
		},
	})
}

// hasTenantCondition checks if tenant_id condition is already present
func (tc *TenantCallback) hasTenantCondition(db *gorm.DB) bool {
	if db.Statement.Unscoped {
		return true
	}

	if whereClause, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if tc.exprContainsTenant(expr) {
					return true
				}
			}
		}
	}

	// Also check the built SQL if available
	sql := db.Statement.SQL.String()
	if sql != "" && strings.Contains(sql, tc.tenantColumn) {
		return true
	}

	return false
}

// exprContainsTenant checks if an expression contains tenant_id column
func (tc *TenantCallback) exprContainsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.IN:
		if col, ok := e.Column.(clause.Column); ok {
			return col.Name == tc.tenantColumn
		}
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	case clause.OrConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	}
	return false
}

// EnableAutoTenantFilter enables automatic tenant filtering on a GORM DB
// instance. This registers callbacks that add tenant_id filtering to all
// queries and stamp tenant_id on creates.
func EnableAutoTenantFilter(db *gorm.DB) {
	tc := NewTenantCallback("tenant_id")
	tc.RegisterCallbacks(db)
}

// DisableAutoTenantFilter removes the tenant callbacks (mainly for tests)
func DisableAutoTenantFilter(db *gorm.DB) {
	_ = db.Callback().Query().Remove("tenant:before_query")
	_ = db.Callback().Update().Remove("tenant:before_update")
	_ = db.Callback().Delete().Remove("tenant:before_delete")
	_ = db.Callback().Row().Remove("tenant:before_row")
	_ = db.Callback().Create().Remove("tenant:before_create")
}
