// Package ports defines the storage interfaces the application services
// depend on. The persistence package provides the SQL-backed implementations;
// tests substitute in-memory fakes.
package ports

import (
	"context"

	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/internal/domain/schema"
)

// TableStore persists table metadata and its field list
type TableStore interface {
	// FindBySlug resolves a table by its URL-safe slug. Trashed tables are
	// only visible when includeTrashed is set (restore-style lookups).
	FindBySlug(ctx context.Context, slug string, includeTrashed bool) (*models.Table, error)
	FindByID(ctx context.Context, id string) (*models.Table, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, table *models.Table, synthesized schema.Definition) error
	Update(ctx context.Context, table *models.Table, synthesized schema.Definition) error
	// Delete removes the table document permanently
	Delete(ctx context.Context, id string) error
	ListTrashedBefore(ctx context.Context, cutoffDays int) ([]models.Table, error)
}

// FieldStore persists field documents; membership lives on the table
type FieldStore interface {
	Create(ctx context.Context, tableID string, field *models.Field, position int) error
	Update(ctx context.Context, field *models.Field) error
	Delete(ctx context.Context, id string) error
	ListTrashedBefore(ctx context.Context, cutoffDays int) ([]models.Field, error)
}

// UserStore reads accounts with their group and permissions populated.
// Decisions always read fresh state, never token claims.
type UserStore interface {
	FindWithPermissions(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// MenuStore persists navigation entries
type MenuStore interface {
	FindByID(ctx context.Context, id string) (*models.Menu, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Children(ctx context.Context, parentID string) ([]models.Menu, error)
	Create(ctx context.Context, menu *models.Menu) error
	Update(ctx context.Context, menu *models.Menu) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Menu, error)
}

// RowStore executes CRUD against a dynamically materialized collection. The
// tableName is always a constants.DataTableName product or a system table.
type RowStore interface {
	FindOne(ctx context.Context, tableName, id string) (models.Row, error)
	FindMany(ctx context.Context, tableName string, filter map[string]interface{}, limit, offset int) ([]models.Row, error)
	FindByIDs(ctx context.Context, tableName string, ids []string) ([]models.Row, error)
	Insert(ctx context.Context, tableName string, row models.Row) error
	Update(ctx context.Context, tableName, id string, updates models.Row) error
	SoftDelete(ctx context.Context, tableName, id string) error
	Count(ctx context.Context, tableName string, filter map[string]interface{}) (int64, error)
}

// SchemaOps materializes synthesized schemas as physical tables
type SchemaOps interface {
	CreateDataTable(ctx context.Context, tableName string, def schema.Definition) error
	AddDataColumn(ctx context.Context, tableName string, col schema.Column) error
	DropDataTable(ctx context.Context, tableName string) error
}
