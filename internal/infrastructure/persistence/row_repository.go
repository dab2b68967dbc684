package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/pkg/constants"
	"github.com/gridbase/backend/pkg/query"
)

// RowRepository executes CRUD against the dynamically materialized data
// tables. Table names are never caller input; they come from the metadata
// layer via constants.DataTableName or are system table constants.
type RowRepository struct {
	db *sql.DB
}

// NewRowRepository creates a new RowRepository
func NewRowRepository(db *sql.DB) *RowRepository {
	return &RowRepository{db: db}
}

// FindOne returns one non-trashed row by id, or nil
func (r *RowRepository) FindOne(ctx context.Context, tableName, id string) (models.Row, error) {
	result := query.From(tableName).
		Where(fmt.Sprintf("`%s` = ?", constants.FieldID), id).
		ExcludeTrashed().
		Build()

	rows, err := r.db.QueryContext(ctx, result.SQL, result.Params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := query.ScanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// FindMany returns non-trashed rows matching the equality filter, newest
// first. A zero limit means no paging.
func (r *RowRepository) FindMany(ctx context.Context, tableName string, filter map[string]interface{}, limit, offset int) ([]models.Row, error) {
	b := query.From(tableName).ExcludeTrashed()
	applyFilter(b, filter)
	b.OrderBy(constants.FieldCreatedAt, constants.SortDESC)
	if limit > 0 {
		b.Limit(limit).Offset(offset)
	}
	result := b.Build()

	rows, err := r.db.QueryContext(ctx, result.SQL, result.Params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return query.ScanRows(rows)
}

// FindByIDs returns the non-trashed rows with the given ids, used by the
// reference population pass
func (r *RowRepository) FindByIDs(ctx context.Context, tableName string, ids []string) ([]models.Row, error) {
	if len(ids) == 0 {
		return []models.Row{}, nil
	}
	values := make([]interface{}, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	result := query.From(tableName).
		WhereIn(constants.FieldID, values).
		ExcludeTrashed().
		Build()

	rows, err := r.db.QueryContext(ctx, result.SQL, result.Params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return query.ScanRows(rows)
}

// Insert writes a new row. Bookkeeping columns the caller did not set are
// filled in here.
func (r *RowRepository) Insert(ctx context.Context, tableName string, row models.Row) error {
	data := make(map[string]interface{}, len(row)+2)
	for k, v := range row {
		data[k] = v
	}
	if _, ok := data[constants.FieldCreatedAt]; !ok {
		data[constants.FieldCreatedAt] = time.Now()
	}
	if _, ok := data[constants.FieldUpdatedAt]; !ok {
		data[constants.FieldUpdatedAt] = time.Now()
	}

	result := query.Insert(tableName, data).Build()
	_, err := r.db.ExecContext(ctx, result.SQL, result.Params...)
	return err
}

// Update applies the given column updates to one row
func (r *RowRepository) Update(ctx context.Context, tableName, id string, updates models.Row) error {
	data := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		if k == constants.FieldID {
			continue
		}
		data[k] = v
	}
	data[constants.FieldUpdatedAt] = time.Now()

	result := query.Update(tableName).
		Set(data).
		Where(fmt.Sprintf("`%s` = ?", constants.FieldID), id).
		Build()
	_, err := r.db.ExecContext(ctx, result.SQL, result.Params...)
	return err
}

// SoftDelete marks one row trashed
func (r *RowRepository) SoftDelete(ctx context.Context, tableName, id string) error {
	result := query.Update(tableName).
		Set(map[string]interface{}{
			constants.FieldTrashed:   1,
			constants.FieldTrashedAt: time.Now(),
		}).
		Where(fmt.Sprintf("`%s` = ?", constants.FieldID), id).
		Build()
	_, err := r.db.ExecContext(ctx, result.SQL, result.Params...)
	return err
}

// Count returns the number of non-trashed rows matching the filter
func (r *RowRepository) Count(ctx context.Context, tableName string, filter map[string]interface{}) (int64, error) {
	clauses := []string{fmt.Sprintf("`%s` = 0", constants.FieldTrashed)}
	params := make([]interface{}, 0, len(filter))
	keys := make([]string, 0, len(filter))
	for key := range filter {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		clauses = append(clauses, fmt.Sprintf("`%s` = ?", key))
		params = append(params, filter[key])
	}
	stmt := fmt.Sprintf("SELECT COUNT(*) FROM `%s` WHERE %s", tableName, strings.Join(clauses, " AND "))

	var count int64
	if err := r.db.QueryRowContext(ctx, stmt, params...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter adds equality conditions in sorted key order so the rendered
// SQL is stable
func applyFilter(b *query.Builder, filter map[string]interface{}) {
	keys := make([]string, 0, len(filter))
	for key := range filter {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.Where(fmt.Sprintf("`%s` = ?", key), filter[key])
	}
}
