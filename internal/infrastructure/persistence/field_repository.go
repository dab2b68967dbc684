package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/pkg/constants"
)

// FieldRepository persists field documents in _System_Field
type FieldRepository struct {
	db *sql.DB
}

// NewFieldRepository creates a new FieldRepository
func NewFieldRepository(db *sql.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

// Create inserts a field document at the given position in its table
func (r *FieldRepository) Create(ctx context.Context, tableID string, field *models.Field, position int) error {
	configJSON, err := json.Marshal(field.Configuration)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		constants.TableField,
		constants.FieldID, constants.FieldTableID, constants.FieldName, constants.FieldSlug,
		constants.FieldTypeName, constants.FieldConfiguration, constants.FieldPosition,
		constants.FieldTrashed, constants.FieldTrashedAt, constants.FieldCreatedAt,
	)
	_, err = r.db.ExecContext(ctx, query,
		field.ID, tableID, field.Name, field.Slug,
		field.Type, configJSON, position,
		field.Trashed, field.TrashedAt, time.Now(),
	)
	return err
}

// Update persists a field document in place. Slug and type are immutable
// after creation; only name, configuration and trash state move.
func (r *FieldRepository) Update(ctx context.Context, field *models.Field) error {
	configJSON, err := json.Marshal(field.Configuration)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		"UPDATE %s SET %s = ?, %s = ?, %s = ?, %s = ? WHERE %s = ?",
		constants.TableField,
		constants.FieldName, constants.FieldConfiguration,
		constants.FieldTrashed, constants.FieldTrashedAt,
		constants.FieldID,
	)
	_, err = r.db.ExecContext(ctx, query,
		field.Name, configJSON, field.Trashed, field.TrashedAt, field.ID,
	)
	return err
}

// Delete permanently removes a field document
func (r *FieldRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", constants.TableField, constants.FieldID)
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

// ListTrashedBefore returns fields trashed longer ago than cutoffDays
func (r *FieldRepository) ListTrashedBefore(ctx context.Context, cutoffDays int) ([]models.Field, error) {
	query := fmt.Sprintf(
		"SELECT %s, %s FROM %s WHERE %s = 1 AND %s < DATE_SUB(NOW(), INTERVAL ? DAY)",
		constants.FieldID, constants.FieldSlug, constants.TableField,
		constants.FieldTrashed, constants.FieldTrashedAt,
	)
	rows, err := r.db.QueryContext(ctx, query, cutoffDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := make([]models.Field, 0)
	for rows.Next() {
		var f models.Field
		if err := rows.Scan(&f.ID, &f.Slug); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}
