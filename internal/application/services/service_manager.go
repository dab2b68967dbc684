package services

import (
	"database/sql"

	"github.com/gridbase/backend/internal/infrastructure/persistence"
)

// ServiceManager orchestrates all services with dependency injection
type ServiceManager struct {
	db *sql.DB

	Tables      *TableService
	Fields      *FieldService
	Collections *CollectionService
	Access      *AccessService
	Menus       *MenuService
	Auth        *AuthService
	Hooks       *HookService
	Retention   *RetentionService
}

// NewServiceManager creates a new service manager with all dependencies wired
func NewServiceManager(db *sql.DB) *ServiceManager {
	sm := &ServiceManager{db: db}

	tableRepo := persistence.NewTableRepository(db)
	fieldRepo := persistence.NewFieldRepository(db)
	userRepo := persistence.NewUserRepository(db)
	menuRepo := persistence.NewMenuRepository(db)
	rowRepo := persistence.NewRowRepository(db)
	schemaOps := persistence.NewSchemaManager(db)

	sm.Hooks = NewHookService()
	sm.Tables = NewTableService(tableRepo, fieldRepo, schemaOps)
	sm.Fields = NewFieldService(sm.Tables, tableRepo, fieldRepo, schemaOps)
	sm.Collections = NewCollectionService(rowRepo, sm.Hooks)
	sm.Access = NewAccessService(tableRepo, userRepo)
	sm.Menus = NewMenuService(menuRepo, tableRepo)
	sm.Auth = NewAuthService(userRepo)
	sm.Retention = NewRetentionService(tableRepo, fieldRepo, schemaOps)

	return sm
}
