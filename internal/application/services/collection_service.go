package services

import (
	"context"
	"log"

	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/internal/domain/ports"
	"github.com/gridbase/backend/pkg/constants"
	"github.com/gridbase/backend/pkg/errors"
	"github.com/gridbase/backend/pkg/utils"
)

// PopulateDirective describes how one reference-typed column expands into
// related entities on fetch.
type PopulateDirective struct {
	Column     string `json:"column"`
	Collection string `json:"collection"`
	Multiple   bool   `json:"multiple"`
}

// BuildPopulate emits one directive per reference-typed, non-trashed field:
// which collection to expand from and whether the column is array-valued.
func BuildPopulate(fields []models.Field) []PopulateDirective {
	directives := make([]PopulateDirective, 0)
	for i := range fields {
		field := &fields[i]
		if field.Trashed || !field.IsReferenceType() {
			continue
		}
		d := PopulateDirective{Column: field.Slug, Multiple: field.Configuration.Multiple}
		switch field.Type {
		case constants.FieldTypeRelationship:
			if field.Configuration.Relationship == nil {
				continue
			}
			d.Collection = constants.DataTableName(field.Configuration.Relationship.Table)
		case constants.FieldTypeFile:
			d.Collection = constants.TableFile
		case constants.FieldTypeReaction:
			d.Collection = constants.TableUser
			d.Multiple = true
		case constants.FieldTypeEvaluation:
			d.Collection = constants.TableEvaluation
			d.Multiple = true
		case constants.FieldTypeFieldGroup:
			if field.Configuration.Group == nil {
				continue
			}
			d.Collection = constants.DataTableName(field.Configuration.Group.Table)
			d.Multiple = true
		}
		directives = append(directives, d)
	}
	return directives
}

// CollectionHandle exposes row CRUD scoped to one table's data collection,
// interpreting stored columns through the table's synthesized schema. The
// handle holds no cache; it is built per request from the table snapshot.
type CollectionHandle struct {
	table     *models.Table
	name      string
	populate  []PopulateDirective
	rows      ports.RowStore
	hooks     *HookService
}

// CollectionService binds tables to their data collections
type CollectionService struct {
	rows  ports.RowStore
	hooks *HookService
}

// NewCollectionService creates a new CollectionService
func NewCollectionService(rows ports.RowStore, hooks *HookService) *CollectionService {
	return &CollectionService{rows: rows, hooks: hooks}
}

// Bind returns a handle scoped to the table's collection
func (s *CollectionService) Bind(table *models.Table) *CollectionHandle {
	return &CollectionHandle{
		table:    table,
		name:     constants.DataTableName(table.Slug),
		populate: BuildPopulate(table.Fields),
		rows:     s.rows,
		hooks:    s.hooks,
	}
}

// FindOne fetches a row, expands its references and runs the onLoad hook
func (h *CollectionHandle) FindOne(ctx context.Context, user *models.User, id string) (models.Row, error) {
	row, err := h.rows.FindOne(ctx, h.name, id)
	if err != nil {
		log.Printf("❌ Collection %s: fetch %s failed: %v", h.name, id, err)
		return nil, errors.NewInternalError(errors.CauseRowOperationError, err)
	}
	if row == nil {
		return nil, errors.NewNotFoundError("row", id, errors.CauseRowNotFound)
	}
	if err := h.expand(ctx, []models.Row{row}); err != nil {
		return nil, errors.NewInternalError(errors.CauseRowOperationError, err)
	}
	return h.hooks.RunOnLoad(h.table, user, row), nil
}

// FindMany fetches rows matching the filter, with references expanded and the
// onLoad hook applied per row
func (h *CollectionHandle) FindMany(ctx context.Context, user *models.User, filter map[string]interface{}, limit, offset int) ([]models.Row, error) {
	rows, err := h.rows.FindMany(ctx, h.name, h.filterColumns(filter), limit, offset)
	if err != nil {
		log.Printf("❌ Collection %s: list failed: %v", h.name, err)
		return nil, errors.NewInternalError(errors.CauseRowOperationError, err)
	}
	if err := h.expand(ctx, rows); err != nil {
		return nil, errors.NewInternalError(errors.CauseRowOperationError, err)
	}
	for i := range rows {
		rows[i] = h.hooks.RunOnLoad(h.table, user, rows[i])
	}
	return rows, nil
}

// Count counts rows matching the filter
func (h *CollectionHandle) Count(ctx context.Context, filter map[string]interface{}) (int64, error) {
	count, err := h.rows.Count(ctx, h.name, h.filterColumns(filter))
	if err != nil {
		return 0, errors.NewInternalError(errors.CauseRowOperationError, err)
	}
	return count, nil
}

// Create validates, runs beforeSave, writes the row and fires afterSave
func (h *CollectionHandle) Create(ctx context.Context, user *models.User, input models.Row) (models.Row, error) {
	row := h.pruneToSchema(input)
	if err := h.checkRequired(row); err != nil {
		return nil, err
	}

	row, err := h.hooks.RunBeforeSave(h.table, user, row)
	if err != nil {
		return nil, errors.NewValidationError("before_save", err.Error())
	}

	row[constants.FieldID] = utils.GenerateID()
	if err := h.rows.Insert(ctx, h.name, row); err != nil {
		log.Printf("❌ Collection %s: insert failed: %v", h.name, err)
		return nil, errors.NewInternalError(errors.CauseRowOperationError, err)
	}

	h.hooks.RunAfterSave(h.table, user, row)
	return row, nil
}

// Update runs beforeSave on the merged row, re-checks required columns,
// writes the result and fires afterSave
func (h *CollectionHandle) Update(ctx context.Context, user *models.User, id string, input models.Row) (models.Row, error) {
	existing, err := h.rows.FindOne(ctx, h.name, id)
	if err != nil {
		return nil, errors.NewInternalError(errors.CauseRowOperationError, err)
	}
	if existing == nil {
		return nil, errors.NewNotFoundError("row", id, errors.CauseRowNotFound)
	}

	updates := h.pruneToSchema(input)
	merged := make(models.Row, len(existing)+len(updates))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range updates {
		merged[k] = v
	}

	merged, err = h.hooks.RunBeforeSave(h.table, user, merged)
	if err != nil {
		return nil, errors.NewValidationError("before_save", err.Error())
	}
	if err := h.checkRequired(merged); err != nil {
		return nil, err
	}

	if err := h.rows.Update(ctx, h.name, id, h.pruneToSchema(merged)); err != nil {
		log.Printf("❌ Collection %s: update %s failed: %v", h.name, id, err)
		return nil, errors.NewInternalError(errors.CauseRowOperationError, err)
	}

	h.hooks.RunAfterSave(h.table, user, merged)
	return merged, nil
}

// SoftDelete moves a row to the trash
func (h *CollectionHandle) SoftDelete(ctx context.Context, id string) error {
	existing, err := h.rows.FindOne(ctx, h.name, id)
	if err != nil {
		return errors.NewInternalError(errors.CauseRowOperationError, err)
	}
	if existing == nil {
		return errors.NewNotFoundError("row", id, errors.CauseRowNotFound)
	}
	if err := h.rows.SoftDelete(ctx, h.name, id); err != nil {
		log.Printf("❌ Collection %s: trash %s failed: %v", h.name, id, err)
		return errors.NewInternalError(errors.CauseRowOperationError, err)
	}
	return nil
}

// Populate returns the handle's populate directives
func (h *CollectionHandle) Populate() []PopulateDirective {
	return h.populate
}

// expand inlines referenced entities per the populate directives. Single
// references become the related row; array columns stay id lists plus a
// `<column>_populated` sibling so the stored shape survives round-trips.
func (h *CollectionHandle) expand(ctx context.Context, rows []models.Row) error {
	for _, directive := range h.populate {
		var err error
		if directive.Multiple {
			err = h.expandMulti(ctx, rows, directive)
		} else {
			err = h.expandSingle(ctx, rows, directive)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (h *CollectionHandle) expandSingle(ctx context.Context, rows []models.Row, directive PopulateDirective) error {
	ids := make([]string, 0, len(rows))
	seen := make(map[string]bool)
	for _, row := range rows {
		id, ok := row[directive.Column].(string)
		if !ok || id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}

	byID, err := h.fetchRelated(ctx, directive.Collection, ids)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if id, ok := row[directive.Column].(string); ok {
			if rel, found := byID[id]; found {
				row[directive.Column] = rel
			}
		}
	}
	return nil
}

func (h *CollectionHandle) expandMulti(ctx context.Context, rows []models.Row, directive PopulateDirective) error {
	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, row := range rows {
		for _, id := range referenceIDs(row[directive.Column]) {
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	byID, err := h.fetchRelated(ctx, directive.Collection, ids)
	if err != nil {
		return err
	}
	for _, row := range rows {
		memberIDs := referenceIDs(row[directive.Column])
		if len(memberIDs) == 0 {
			continue
		}
		populated := make([]models.Row, 0, len(memberIDs))
		for _, id := range memberIDs {
			if rel, found := byID[id]; found {
				populated = append(populated, rel)
			}
		}
		row[directive.Column+"_populated"] = populated
	}
	return nil
}

// fetchRelated batch-loads related rows keyed by id
func (h *CollectionHandle) fetchRelated(ctx context.Context, collection string, ids []string) (map[string]models.Row, error) {
	related, err := h.rows.FindByIDs(ctx, collection, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Row, len(related))
	for _, rel := range related {
		byID[rel.ID()] = rel
	}
	return byID, nil
}

// referenceIDs normalizes a stored id-array column. JSON decoding yields
// []interface{}; in-process writers may hand over []string.
func referenceIDs(value interface{}) []string {
	switch list := value.(type) {
	case []string:
		return list
	case []interface{}:
		out := make([]string, 0, len(list))
		for _, v := range list {
			if id, ok := v.(string); ok && id != "" {
				out = append(out, id)
			}
		}
		return out
	}
	return nil
}

// pruneToSchema drops input keys that have no column in the synthesized
// schema, so trashed fields and arbitrary client keys never reach storage
func (h *CollectionHandle) pruneToSchema(input models.Row) models.Row {
	row := make(models.Row, len(input))
	def := desiredColumns(h.table)
	for key, value := range input {
		if def[key] {
			row[key] = value
		}
	}
	return row
}

// checkRequired enforces presence constraints from the field list
func (h *CollectionHandle) checkRequired(row models.Row) error {
	for i := range h.table.Fields {
		field := &h.table.Fields[i]
		if field.Trashed || !field.Configuration.Required {
			continue
		}
		if v, ok := row[field.Slug]; !ok || v == nil || v == "" {
			return errors.NewValidationError(field.Slug, "value is required")
		}
	}
	return nil
}

// filterColumns keeps only columns marked filterable, so trashed fields and
// arbitrary client keys never parameterize a query
func (h *CollectionHandle) filterColumns(filter map[string]interface{}) map[string]interface{} {
	if len(filter) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(h.table.Fields))
	for i := range h.table.Fields {
		field := &h.table.Fields[i]
		if !field.Trashed && field.Configuration.Filtering {
			allowed[field.Slug] = true
		}
	}
	out := make(map[string]interface{}, len(filter))
	for key, value := range filter {
		if key == constants.FieldID || allowed[key] {
			out[key] = value
		}
	}
	return out
}

func desiredColumns(table *models.Table) map[string]bool {
	cols := make(map[string]bool, len(table.Fields))
	for i := range table.Fields {
		if !table.Fields[i].Trashed {
			cols[table.Fields[i].Slug] = true
		}
	}
	return cols
}
