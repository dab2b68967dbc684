package services

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/internal/domain/ports"
	"github.com/gridbase/backend/internal/domain/schema"
	"github.com/gridbase/backend/pkg/constants"
	"github.com/gridbase/backend/pkg/errors"
	"github.com/gridbase/backend/pkg/expression"
	"github.com/gridbase/backend/pkg/utils"
)

// TableService owns table lifecycle: create, update, trash, restore and hard
// delete, keeping the synthesized schema and the physical data table in step
// with the field list.
//
// Reads go through a cache keyed by slug; every mutation invalidates the
// entry so subsequent reads observe fresh state.
type TableService struct {
	tables    ports.TableStore
	fields    ports.FieldStore
	schemaOps ports.SchemaOps
	expr      *expression.Engine

	cache   map[string]*models.Table
	cacheMu sync.RWMutex
}

// NewTableService creates a new TableService
func NewTableService(tables ports.TableStore, fields ports.FieldStore, schemaOps ports.SchemaOps) *TableService {
	return &TableService{
		tables:    tables,
		fields:    fields,
		schemaOps: schemaOps,
		expr:      expression.NewEngine(),
		cache:     make(map[string]*models.Table),
	}
}

// GetTable resolves a non-trashed table by slug, from cache when possible.
// Callers always receive an independent snapshot: staged mutations never leak
// into the cached entry, and a persist failure leaves the cache clean.
func (s *TableService) GetTable(ctx context.Context, slug string) (*models.Table, error) {
	s.cacheMu.RLock()
	if table, ok := s.cache[slug]; ok {
		s.cacheMu.RUnlock()
		return snapshot(table), nil
	}
	s.cacheMu.RUnlock()

	table, err := s.tables.FindBySlug(ctx, slug, false)
	if err != nil {
		return nil, err
	}
	if table == nil {
		return nil, errors.NewNotFoundError("table", slug, errors.CauseTableNotFound)
	}

	s.cacheMu.Lock()
	s.cache[slug] = table
	s.cacheMu.Unlock()
	return snapshot(table), nil
}

// snapshot copies a table with its field list so the original stays untouched
func snapshot(table *models.Table) *models.Table {
	copied := *table
	copied.Fields = make([]models.Field, len(table.Fields))
	copy(copied.Fields, table.Fields)
	return &copied
}

// invalidate drops a table from the read cache
func (s *TableService) invalidate(slug string) {
	s.cacheMu.Lock()
	delete(s.cache, slug)
	s.cacheMu.Unlock()
}

// groupResolver resolves FIELD_GROUP targets during schema synthesis. Only
// non-trashed FIELD_GROUP tables resolve.
func (s *TableService) groupResolver(ctx context.Context) schema.GroupResolver {
	return func(tableSlug string) ([]models.Field, bool) {
		target, err := s.tables.FindBySlug(ctx, tableSlug, false)
		if err != nil || target == nil || target.Type != constants.TableTypeFieldGroup {
			return nil, false
		}
		return target.Fields, true
	}
}

// CreateTableInput is the payload for creating a table
type CreateTableInput struct {
	Name          string                    `json:"name" binding:"required"`
	Slug          string                    `json:"slug" binding:"required"`
	Description   *string                   `json:"description"`
	Type          constants.TableType       `json:"type"`
	Configuration models.TableConfiguration `json:"configuration"`
	Methods       models.TableMethods       `json:"methods"`
}

// CreateTable validates the input, persists the table document and
// materializes its (initially empty) data table.
func (s *TableService) CreateTable(ctx context.Context, input CreateTableInput, ownerID string) (*models.Table, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" || strings.TrimSpace(input.Name) == "" {
		return nil, errors.NewValidationCause(errors.CauseInvalidParameters, "name and slug are required")
	}
	if constants.IsSystemTable(slug) {
		return nil, errors.NewValidationCause(errors.CauseInvalidParameters, "reserved slug")
	}

	taken, err := s.tables.SlugExists(ctx, slug)
	if err != nil {
		log.Printf("❌ TableService: slug check failed for %s: %v", slug, err)
		return nil, errors.NewInternalError(errors.CauseCreateTableError, err)
	}
	if taken {
		return nil, errors.NewConflictError("table", "slug already in use", errors.CauseSlugTaken)
	}

	if err := s.validateMethods(input.Methods); err != nil {
		return nil, err
	}

	table := &models.Table{
		ID:            utils.GenerateID(),
		Name:          input.Name,
		Slug:          slug,
		Description:   input.Description,
		Type:          input.Type,
		Configuration: input.Configuration,
		Methods:       input.Methods,
		Fields:        []models.Field{},
	}
	if table.Type == "" {
		table.Type = constants.TableTypeTable
	}
	if table.Configuration.Visibility == "" {
		table.Configuration.Visibility = constants.VisibilityPrivate
	}
	if table.Configuration.Owner == "" {
		table.Configuration.Owner = ownerID
	}

	synthesized := schema.SynthesizeTable(table, s.groupResolver(ctx))

	// The physical table is created before the document so a DDL failure
	// never leaves a table document without its collection.
	if err := s.schemaOps.CreateDataTable(ctx, constants.DataTableName(slug), synthesized); err != nil {
		log.Printf("❌ TableService: data table creation failed for %s: %v", slug, err)
		return nil, errors.NewInternalError(errors.CauseCreateTableError, err)
	}
	if err := s.tables.Create(ctx, table, synthesized); err != nil {
		log.Printf("❌ TableService: table persist failed for %s: %v", slug, err)
		return nil, errors.NewInternalError(errors.CauseCreateTableError, err)
	}

	log.Printf("✅ Created table %s (%s)", table.Name, table.Slug)
	return table, nil
}

// UpdateTableInput is the payload for updating a table. Nil members are left
// untouched; Trash moves the table to the trash.
type UpdateTableInput struct {
	Name          *string                    `json:"name"`
	Description   *string                    `json:"description"`
	LogoRef       *string                    `json:"logo_ref"`
	Configuration *models.TableConfiguration `json:"configuration"`
	Methods       *models.TableMethods       `json:"methods"`
	Trash         bool                       `json:"trash"`
}

// UpdateTable applies a partial update and resynthesizes the schema
func (s *TableService) UpdateTable(ctx context.Context, slug string, input UpdateTableInput) (*models.Table, error) {
	table, err := s.GetTable(ctx, slug)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, errors.NewValidationCause(errors.CauseInvalidParameters, "name cannot be empty")
		}
		table.Name = *input.Name
	}
	if input.Description != nil {
		table.Description = input.Description
	}
	if input.LogoRef != nil {
		table.LogoRef = input.LogoRef
	}
	if input.Configuration != nil {
		// Ownership cannot be dropped through a partial update
		if input.Configuration.Owner == "" {
			input.Configuration.Owner = table.Configuration.Owner
		}
		table.Configuration = *input.Configuration
	}
	if input.Methods != nil {
		if err := s.validateMethods(*input.Methods); err != nil {
			return nil, err
		}
		table.Methods = *input.Methods
	}
	if input.Trash {
		table.Trashed = true
		now := time.Now()
		table.TrashedAt = &now
	}

	synthesized := schema.SynthesizeTable(table, s.groupResolver(ctx))
	if err := s.tables.Update(ctx, table, synthesized); err != nil {
		log.Printf("❌ TableService: table update failed for %s: %v", slug, err)
		return nil, errors.NewInternalError(errors.CauseCreateTableError, err)
	}

	s.invalidate(slug)
	return table, nil
}

// RestoreTable brings a trashed table back. The lookup includes trashed
// tables; restoring a live table is a no-op success.
func (s *TableService) RestoreTable(ctx context.Context, slug string) (*models.Table, error) {
	table, err := s.tables.FindBySlug(ctx, slug, true)
	if err != nil {
		log.Printf("❌ TableService: restore lookup failed for %s: %v", slug, err)
		return nil, errors.NewInternalError(errors.CauseRestoreTableError, err)
	}
	if table == nil {
		return nil, errors.NewNotFoundError("table", slug, errors.CauseTableNotFound)
	}
	if !table.Trashed {
		return table, nil
	}

	table.Trashed = false
	table.TrashedAt = nil

	synthesized := schema.SynthesizeTable(table, s.groupResolver(ctx))
	if err := s.tables.Update(ctx, table, synthesized); err != nil {
		log.Printf("❌ TableService: restore failed for %s: %v", slug, err)
		return nil, errors.NewInternalError(errors.CauseRestoreTableError, err)
	}

	s.invalidate(slug)
	log.Printf("♻️ Restored table %s", slug)
	return table, nil
}

// DeleteTable permanently removes a non-trashed table: the document, its
// field documents and the physical data table.
func (s *TableService) DeleteTable(ctx context.Context, slug string) error {
	table, err := s.tables.FindBySlug(ctx, slug, false)
	if err != nil {
		log.Printf("❌ TableService: delete lookup failed for %s: %v", slug, err)
		return errors.NewInternalError(errors.CauseDeleteTableError, err)
	}
	if table == nil {
		return errors.NewNotFoundError("table", slug, errors.CauseTableNotFound)
	}

	if err := s.tables.Delete(ctx, table.ID); err != nil {
		log.Printf("❌ TableService: delete failed for %s: %v", slug, err)
		return errors.NewInternalError(errors.CauseDeleteTableError, err)
	}
	if err := s.schemaOps.DropDataTable(ctx, constants.DataTableName(slug)); err != nil {
		// The document is gone; a failed drop only leaves an orphan table
		// the retention sweeper can reclaim.
		log.Printf("⚠️ TableService: dropping data table for %s failed: %v", slug, err)
	}

	s.invalidate(slug)
	log.Printf("🗑️ Deleted table %s", slug)
	return nil
}

// validateMethods compile-checks every lifecycle hook so broken code is
// rejected at save time instead of at row time
func (s *TableService) validateMethods(methods models.TableMethods) error {
	for name, hook := range map[string]models.MethodHook{
		"on_load":     methods.OnLoad,
		"before_save": methods.BeforeSave,
		"after_save":  methods.AfterSave,
	} {
		if hook.Code == nil || *hook.Code == "" {
			continue
		}
		if err := s.expr.Validate(*hook.Code, nil); err != nil {
			return errors.NewValidationError(name, "hook does not compile: "+err.Error())
		}
	}
	return nil
}
