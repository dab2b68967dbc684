package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gridbase/backend/internal/domain/category"
	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/internal/domain/ports"
	"github.com/gridbase/backend/internal/domain/schema"
	"github.com/gridbase/backend/pkg/constants"
	"github.com/gridbase/backend/pkg/errors"
	"github.com/gridbase/backend/pkg/utils"
)

// FieldService owns field lifecycle inside a table: create, update, trash and
// category tree edits. Every mutation resynthesizes the owning table's schema
// in the same operation so the field list and schema never diverge.
type FieldService struct {
	tables    *TableService
	fields    ports.FieldStore
	tableRepo ports.TableStore
	schemaOps ports.SchemaOps
}

// NewFieldService creates a new FieldService
func NewFieldService(tables *TableService, tableRepo ports.TableStore, fields ports.FieldStore, schemaOps ports.SchemaOps) *FieldService {
	return &FieldService{
		tables:    tables,
		fields:    fields,
		tableRepo: tableRepo,
		schemaOps: schemaOps,
	}
}

// CreateFieldInput is the payload for adding a field to a table
type CreateFieldInput struct {
	Name          string                    `json:"name" binding:"required"`
	Slug          string                    `json:"slug" binding:"required"`
	Type          string                    `json:"type" binding:"required"`
	Configuration models.FieldConfiguration `json:"configuration"`
}

// CreateField appends a field to the table, persists it and widens the
// physical data table with the new column.
func (s *FieldService) CreateField(ctx context.Context, tableSlug string, input CreateFieldInput) (*models.Field, error) {
	table, err := s.tables.GetTable(ctx, tableSlug)
	if err != nil {
		return nil, err
	}

	if !constants.IsValidFieldType(input.Type) {
		return nil, errors.NewValidationCause(errors.CauseInvalidFieldType, "unknown field type "+input.Type)
	}
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" {
		return nil, errors.NewValidationCause(errors.CauseInvalidParameters, "slug is required")
	}
	if constants.IsBookkeepingColumn(slug) {
		return nil, errors.NewValidationCause(errors.CauseInvalidParameters, "reserved column name")
	}
	if table.FieldBySlug(slug) != nil {
		return nil, errors.NewConflictError("field", "slug already in use on this table", errors.CauseSlugTaken)
	}
	if err := validateReferenceConfig(constants.FieldType(input.Type), input.Configuration); err != nil {
		return nil, err
	}

	field := &models.Field{
		ID:            utils.GenerateID(),
		Name:          input.Name,
		Slug:          slug,
		Type:          constants.FieldType(input.Type),
		Configuration: input.Configuration,
	}

	if err := s.fields.Create(ctx, table.ID, field, len(table.Fields)); err != nil {
		log.Printf("❌ FieldService: field persist failed for %s.%s: %v", tableSlug, slug, err)
		return nil, errors.NewInternalError(errors.CauseCreateFieldError, err)
	}

	table.Fields = append(table.Fields, *field)
	if err := s.resynthesize(ctx, table); err != nil {
		// The field document is already persisted; drop the cached table so
		// the next read rebuilds from storage.
		s.tables.invalidate(tableSlug)
		return nil, errors.NewInternalError(errors.CauseCreateFieldError, err)
	}

	// Widen the physical table. Trashed fields synthesize to nothing, so the
	// freshly added field always has a column in the new definition.
	def := schema.SynthesizeTable(table, s.tables.groupResolver(ctx))
	if col := def.Column(slug); col != nil {
		if err := s.schemaOps.AddDataColumn(ctx, constants.DataTableName(table.Slug), *col); err != nil {
			log.Printf("⚠️ FieldService: adding column %s.%s failed: %v", table.Slug, slug, err)
		}
	}

	s.tables.invalidate(tableSlug)
	log.Printf("✅ Created field %s on table %s", slug, tableSlug)
	return field, nil
}

// UpdateFieldInput is the payload for updating a field. Slug and type are
// immutable after creation.
type UpdateFieldInput struct {
	Name          *string                    `json:"name"`
	Configuration *models.FieldConfiguration `json:"configuration"`
}

// UpdateField applies a partial update to a member field and resynthesizes
func (s *FieldService) UpdateField(ctx context.Context, tableSlug, fieldID string, input UpdateFieldInput) (*models.Field, error) {
	table, field, err := s.locate(ctx, tableSlug, fieldID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		field.Name = *input.Name
	}
	if input.Configuration != nil {
		if err := validateReferenceConfig(field.Type, *input.Configuration); err != nil {
			return nil, err
		}
		field.Configuration = *input.Configuration
	}

	if err := s.fields.Update(ctx, field); err != nil {
		log.Printf("❌ FieldService: field update failed for %s/%s: %v", tableSlug, fieldID, err)
		return nil, errors.NewInternalError(errors.CauseUpdateFieldError, err)
	}
	if err := s.resynthesize(ctx, table); err != nil {
		s.tables.invalidate(tableSlug)
		return nil, errors.NewInternalError(errors.CauseUpdateFieldError, err)
	}

	s.tables.invalidate(tableSlug)
	return field, nil
}

// SendFieldToTrash soft-deletes a member field. The field document stays
// retrievable; its listing/filtering/required flags are stripped so it drops
// out of generic list, filter and validation logic, and its column disappears
// from the next schema synthesis. Stored row data is orphaned, not deleted.
func (s *FieldService) SendFieldToTrash(ctx context.Context, tableSlug, fieldID string) (*models.Field, error) {
	table, field, err := s.locate(ctx, tableSlug, fieldID)
	if err != nil {
		return nil, err
	}
	if field.Trashed {
		return nil, errors.NewConflictError("field", "field is already in the trash", errors.CauseAlreadyTrashed)
	}

	now := time.Now()
	field.Trashed = true
	field.TrashedAt = &now
	field.Configuration.Listing = false
	field.Configuration.Filtering = false
	field.Configuration.Required = false

	if err := s.fields.Update(ctx, field); err != nil {
		log.Printf("❌ FieldService: trashing field %s/%s failed: %v", tableSlug, fieldID, err)
		return nil, errors.NewInternalError(errors.CauseSendFieldToTrashError, err)
	}

	table.ReplaceField(*field)
	if err := s.resynthesize(ctx, table); err != nil {
		s.tables.invalidate(tableSlug)
		return nil, errors.NewInternalError(errors.CauseSendFieldToTrashError, err)
	}

	s.tables.invalidate(tableSlug)
	log.Printf("🗑️ Trashed field %s on table %s", field.Slug, tableSlug)
	return field, nil
}

// AddCategoryOption inserts a node into a CATEGORY field's tree and persists
// the updated configuration. An empty parentID appends a new root.
func (s *FieldService) AddCategoryOption(ctx context.Context, tableSlug, fieldID, parentID, label string) (*category.Node, *models.Field, error) {
	table, field, err := s.locate(ctx, tableSlug, fieldID)
	if err != nil {
		return nil, nil, err
	}
	if field.Type != constants.FieldTypeCategory {
		return nil, nil, errors.NewValidationCause(errors.CauseInvalidFieldType, "field is not a CATEGORY field")
	}
	if strings.TrimSpace(label) == "" {
		return nil, nil, errors.NewValidationCause(errors.CauseInvalidParameters, "label is required")
	}

	forest, node, inserted := category.Insert(field.Configuration.Category, parentID, label)
	if !inserted {
		return nil, nil, errors.NewNotFoundError("category node", parentID, errors.CauseParentCategoryNotFound)
	}

	field.Configuration.Category = forest
	if err := s.fields.Update(ctx, field); err != nil {
		log.Printf("❌ FieldService: persisting category option on %s/%s failed: %v", tableSlug, fieldID, err)
		return nil, nil, errors.NewInternalError(errors.CauseAddCategoryOptionError, err)
	}

	table.ReplaceField(*field)
	s.tables.invalidate(tableSlug)
	return node, field, nil
}

// locate resolves the table and confirms field membership through the
// table's own field list
func (s *FieldService) locate(ctx context.Context, tableSlug, fieldID string) (*models.Table, *models.Field, error) {
	table, err := s.tables.GetTable(ctx, tableSlug)
	if err != nil {
		return nil, nil, err
	}
	field := table.FieldByID(fieldID)
	if field == nil {
		return nil, nil, errors.NewNotFoundError("field", fieldID, errors.CauseFieldNotFound)
	}
	return table, field, nil
}

// resynthesize persists the table with a freshly computed schema
func (s *FieldService) resynthesize(ctx context.Context, table *models.Table) error {
	def := schema.SynthesizeTable(table, s.tables.groupResolver(ctx))
	if err := s.tableRepo.Update(ctx, table, def); err != nil {
		log.Printf("❌ FieldService: schema persist failed for %s: %v", table.Slug, err)
		return err
	}
	return nil
}

// validateReferenceConfig rejects reference-typed fields whose configuration
// does not name a target
func validateReferenceConfig(fieldType constants.FieldType, cfg models.FieldConfiguration) error {
	switch fieldType {
	case constants.FieldTypeRelationship:
		if cfg.Relationship == nil || cfg.Relationship.Table == "" {
			return errors.NewValidationCause(errors.CauseInvalidParameters, "relationship fields require a target table")
		}
	case constants.FieldTypeFieldGroup:
		if cfg.Group == nil || cfg.Group.Table == "" {
			return errors.NewValidationCause(errors.CauseInvalidParameters, "field group fields require a target table")
		}
	}
	return nil
}
