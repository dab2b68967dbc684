package persistence

import (
	"context"
	"database/sql"
	"log"

	"github.com/gridbase/backend/internal/domain/schema"
)

// SchemaManager executes the DDL side of schema synthesis. DDL statements
// are not transactional in MySQL; callers sequence them before the metadata
// write so a failed materialization never leaves a dangling document.
type SchemaManager struct {
	db *sql.DB
}

// NewSchemaManager creates a new SchemaManager
func NewSchemaManager(db *sql.DB) *SchemaManager {
	return &SchemaManager{db: db}
}

// CreateDataTable materializes a synthesized definition as a physical table
func (m *SchemaManager) CreateDataTable(ctx context.Context, tableName string, def schema.Definition) error {
	ddl := schema.TableDDL(tableName, def)
	log.Printf("🔨 Creating data table %s (%d columns)", tableName, len(def.Columns))
	_, err := m.db.ExecContext(ctx, ddl)
	return err
}

// AddDataColumn appends one column to an existing data table
func (m *SchemaManager) AddDataColumn(ctx context.Context, tableName string, col schema.Column) error {
	ddl := schema.AddColumnDDL(tableName, col)
	log.Printf("🔨 Adding column %s.%s", tableName, col.Slug)
	_, err := m.db.ExecContext(ctx, ddl)
	return err
}

// DropDataTable removes a physical data table. Used by permanent table
// deletion and the retention sweeper.
func (m *SchemaManager) DropDataTable(ctx context.Context, tableName string) error {
	ddl := schema.DropTableDDL(tableName)
	log.Printf("🗑️ Dropping data table %s", tableName)
	_, err := m.db.ExecContext(ctx, ddl)
	return err
}
