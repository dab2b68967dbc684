package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/internal/domain/schema"
	"github.com/gridbase/backend/pkg/constants"
)

// TableRepository persists table metadata in _System_Table and the table's
// field list in _System_Field. The table document is the aggregate root:
// field membership and order live on the join, not on the field.
type TableRepository struct {
	db *sql.DB
}

// NewTableRepository creates a new TableRepository
func NewTableRepository(db *sql.DB) *TableRepository {
	return &TableRepository{db: db}
}

var tableColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
	constants.FieldID,
	constants.FieldName,
	constants.FieldSlug,
	constants.FieldDescription,
	constants.FieldLogoRef,
	constants.FieldTypeName,
	constants.FieldConfiguration,
	constants.FieldMethods,
	constants.FieldSynthesized,
	constants.FieldTrashed,
	constants.FieldTrashedAt,
	constants.FieldCreatedAt,
)

// FindBySlug resolves a table and its ordered field list. Trashed tables are
// only returned when includeTrashed is set.
func (r *TableRepository) FindBySlug(ctx context.Context, slug string, includeTrashed bool) (*models.Table, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", tableColumns, constants.TableTable, constants.FieldSlug)
	if !includeTrashed {
		query += fmt.Sprintf(" AND %s = 0", constants.FieldTrashed)
	}
	return r.findOne(ctx, query, slug)
}

// FindByID resolves a table by id, including trashed ones
func (r *TableRepository) FindByID(ctx context.Context, id string) (*models.Table, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", tableColumns, constants.TableTable, constants.FieldID)
	return r.findOne(ctx, query, id)
}

func (r *TableRepository) findOne(ctx context.Context, query string, arg string) (*models.Table, error) {
	var (
		table         models.Table
		description   sql.NullString
		logoRef       sql.NullString
		configJSON    []byte
		methodsJSON   []byte
		schemaJSON    []byte
		trashedAt     sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&table.ID, &table.Name, &table.Slug, &description, &logoRef,
		&table.Type, &configJSON, &methodsJSON, &schemaJSON,
		&table.Trashed, &trashedAt, &table.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if description.Valid {
		table.Description = &description.String
	}
	if logoRef.Valid {
		table.LogoRef = &logoRef.String
	}
	if trashedAt.Valid {
		t := trashedAt.Time
		table.TrashedAt = &t
	}
	if len(configJSON) > 0 {
		if err := json.Unmarshal(configJSON, &table.Configuration); err != nil {
			return nil, fmt.Errorf("corrupt configuration for table %s: %w", table.Slug, err)
		}
	}
	if len(methodsJSON) > 0 {
		_ = json.Unmarshal(methodsJSON, &table.Methods)
	}

	fields, err := r.loadFields(ctx, table.ID)
	if err != nil {
		return nil, err
	}
	table.Fields = fields

	return &table, nil
}

// loadFields returns all member fields ordered by position. Trashed fields
// stay in the list; schema synthesis is what omits them.
func (r *TableRepository) loadFields(ctx context.Context, tableID string) ([]models.Field, error) {
	query := fmt.Sprintf(
		"SELECT %s, %s, %s, %s, %s, %s, %s, %s FROM %s WHERE %s = ? ORDER BY %s ASC",
		constants.FieldID, constants.FieldName, constants.FieldSlug, constants.FieldTypeName,
		constants.FieldConfiguration, constants.FieldTrashed, constants.FieldTrashedAt, constants.FieldCreatedAt,
		constants.TableField, constants.FieldTableID, constants.FieldPosition,
	)

	rows, err := r.db.QueryContext(ctx, query, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := make([]models.Field, 0)
	for rows.Next() {
		var (
			field      models.Field
			configJSON []byte
			trashedAt  sql.NullTime
		)
		if err := rows.Scan(&field.ID, &field.Name, &field.Slug, &field.Type,
			&configJSON, &field.Trashed, &trashedAt, &field.CreatedAt); err != nil {
			return nil, err
		}
		if trashedAt.Valid {
			t := trashedAt.Time
			field.TrashedAt = &t
		}
		if len(configJSON) > 0 {
			if err := json.Unmarshal(configJSON, &field.Configuration); err != nil {
				return nil, fmt.Errorf("corrupt configuration for field %s: %w", field.Slug, err)
			}
		}
		fields = append(fields, field)
	}

	return fields, rows.Err()
}

// SlugExists checks slug uniqueness among non-trashed tables
func (r *TableRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = ? AND %s = 0)",
		constants.TableTable, constants.FieldSlug, constants.FieldTrashed)
	if err := r.db.QueryRowContext(ctx, query, slug).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts the table document with its synthesized schema snapshot
func (r *TableRepository) Create(ctx context.Context, table *models.Table, synthesized schema.Definition) error {
	configJSON, err := json.Marshal(table.Configuration)
	if err != nil {
		return err
	}
	methodsJSON, err := json.Marshal(table.Methods)
	if err != nil {
		return err
	}
	schemaJSON, err := json.Marshal(synthesized)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s, %s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		constants.TableTable, tableColumns, constants.FieldUpdatedAt,
	)
	now := time.Now()
	_, err = r.db.ExecContext(ctx, query,
		table.ID, table.Name, table.Slug, table.Description, table.LogoRef,
		table.Type, configJSON, methodsJSON, schemaJSON,
		table.Trashed, table.TrashedAt, now, now,
	)
	return err
}

// Update persists the table document and resynchronizes the schema snapshot
func (r *TableRepository) Update(ctx context.Context, table *models.Table, synthesized schema.Definition) error {
	configJSON, err := json.Marshal(table.Configuration)
	if err != nil {
		return err
	}
	methodsJSON, err := json.Marshal(table.Methods)
	if err != nil {
		return err
	}
	schemaJSON, err := json.Marshal(synthesized)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, %s = ? WHERE %s = ?",
		constants.TableTable,
		constants.FieldName, constants.FieldDescription, constants.FieldLogoRef,
		constants.FieldConfiguration, constants.FieldMethods, constants.FieldSynthesized,
		constants.FieldTrashed, constants.FieldTrashedAt, constants.FieldUpdatedAt,
		constants.FieldID,
	)
	_, err = r.db.ExecContext(ctx, query,
		table.Name, table.Description, table.LogoRef,
		configJSON, methodsJSON, schemaJSON,
		table.Trashed, table.TrashedAt, time.Now(),
		table.ID,
	)
	return err
}

// Delete permanently removes the table document and its field documents in
// one transaction so a crash cannot orphan either side
func (r *TableRepository) Delete(ctx context.Context, id string) error {
	return WithTransaction(ctx, r.db, func(tx Executor) error {
		fieldQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", constants.TableField, constants.FieldTableID)
		if _, err := tx.ExecContext(ctx, fieldQuery, id); err != nil {
			return err
		}
		query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", constants.TableTable, constants.FieldID)
		_, err := tx.ExecContext(ctx, query, id)
		return err
	})
}

// ListTrashedBefore returns tables trashed longer ago than cutoffDays
func (r *TableRepository) ListTrashedBefore(ctx context.Context, cutoffDays int) ([]models.Table, error) {
	query := fmt.Sprintf(
		"SELECT %s, %s FROM %s WHERE %s = 1 AND %s < DATE_SUB(NOW(), INTERVAL ? DAY)",
		constants.FieldID, constants.FieldSlug, constants.TableTable,
		constants.FieldTrashed, constants.FieldTrashedAt,
	)
	rows, err := r.db.QueryContext(ctx, query, cutoffDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]models.Table, 0)
	for rows.Next() {
		var t models.Table
		if err := rows.Scan(&t.ID, &t.Slug); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}
