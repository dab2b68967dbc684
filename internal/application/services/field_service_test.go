package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/internal/domain/schema"
	"github.com/gridbase/backend/pkg/constants"
	"github.com/gridbase/backend/pkg/errors"
)

// fakeFieldStore persists field documents in memory
type fakeFieldStore struct {
	fields    map[string]*models.Field
	updateErr error
}

func (f *fakeFieldStore) Create(_ context.Context, _ string, field *models.Field, _ int) error {
	copied := *field
	f.fields[field.ID] = &copied
	return nil
}

func (f *fakeFieldStore) Update(_ context.Context, field *models.Field) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	copied := *field
	f.fields[field.ID] = &copied
	return nil
}

func (f *fakeFieldStore) Delete(_ context.Context, id string) error {
	delete(f.fields, id)
	return nil
}

func (f *fakeFieldStore) ListTrashedBefore(_ context.Context, _ int) ([]models.Field, error) {
	return nil, nil
}

// fakeSchemaOps records DDL calls
type fakeSchemaOps struct {
	created []string
	columns []string
	dropped []string
}

func (f *fakeSchemaOps) CreateDataTable(_ context.Context, tableName string, _ schema.Definition) error {
	f.created = append(f.created, tableName)
	return nil
}

func (f *fakeSchemaOps) AddDataColumn(_ context.Context, tableName string, col schema.Column) error {
	f.columns = append(f.columns, tableName+"."+col.Slug)
	return nil
}

func (f *fakeSchemaOps) DropDataTable(_ context.Context, tableName string) error {
	f.dropped = append(f.dropped, tableName)
	return nil
}

type fieldFixture struct {
	svc       *FieldService
	tables    *fakeTableStore
	fields    *fakeFieldStore
	schemaOps *fakeSchemaOps
}

func newFieldFixture(table *models.Table) *fieldFixture {
	tables := &fakeTableStore{tables: map[string]*models.Table{}}
	if table != nil {
		tables.tables[table.Slug] = table
	}
	fields := &fakeFieldStore{fields: map[string]*models.Field{}}
	schemaOps := &fakeSchemaOps{}
	tableSvc := NewTableService(tables, fields, schemaOps)
	return &fieldFixture{
		svc:       NewFieldService(tableSvc, tables, fields, schemaOps),
		tables:    tables,
		fields:    fields,
		schemaOps: schemaOps,
	}
}

func seededTable() *models.Table {
	return &models.Table{
		ID:   "tbl-1",
		Name: "Projects",
		Slug: "projects",
		Type: constants.TableTypeTable,
		Configuration: models.TableConfiguration{
			Visibility: constants.VisibilityOpen,
			Owner:      "owner-1",
		},
		Fields: []models.Field{
			{ID: "fld-title", Name: "Title", Slug: "title", Type: constants.FieldTypeTextShort,
				Configuration: models.FieldConfiguration{Required: true, Listing: true, Filtering: true}},
			{ID: "fld-tags", Name: "Tags", Slug: "tags", Type: constants.FieldTypeCategory},
		},
	}
}

func TestCreateFieldAddsColumn(t *testing.T) {
	f := newFieldFixture(seededTable())

	field, err := f.svc.CreateField(context.Background(), "projects", CreateFieldInput{
		Name: "Due",
		Slug: "due",
		Type: string(constants.FieldTypeDate),
	})
	require.NoError(t, err)
	assert.Equal(t, constants.FieldTypeDate, field.Type)
	assert.Contains(t, f.schemaOps.columns, "data_projects.due")

	// The persisted table carries the new field and its schema entry
	stored := f.tables.tables["projects"]
	require.NotNil(t, stored.FieldBySlug("due"))
}

func TestCreateFieldRejectsInvalidType(t *testing.T) {
	f := newFieldFixture(seededTable())

	_, err := f.svc.CreateField(context.Background(), "projects", CreateFieldInput{
		Name: "X", Slug: "x", Type: "HOLOGRAM",
	})
	require.Error(t, err)
	assert.Equal(t, errors.CauseInvalidFieldType, errors.GetErrorCode(err))
}

func TestCreateFieldRejectsDuplicateSlug(t *testing.T) {
	f := newFieldFixture(seededTable())

	_, err := f.svc.CreateField(context.Background(), "projects", CreateFieldInput{
		Name: "Title 2", Slug: "title", Type: string(constants.FieldTypeTextShort),
	})
	require.Error(t, err)
	assert.Equal(t, errors.CauseSlugTaken, errors.GetErrorCode(err))
}

func TestCreateFieldRejectsBookkeepingSlug(t *testing.T) {
	f := newFieldFixture(seededTable())

	_, err := f.svc.CreateField(context.Background(), "projects", CreateFieldInput{
		Name: "ID", Slug: "id", Type: string(constants.FieldTypeTextShort),
	})
	require.Error(t, err)
	assert.Equal(t, errors.CauseInvalidParameters, errors.GetErrorCode(err))
}

func TestSendFieldToTrash(t *testing.T) {
	f := newFieldFixture(seededTable())

	field, err := f.svc.SendFieldToTrash(context.Background(), "projects", "fld-title")
	require.NoError(t, err)
	assert.True(t, field.Trashed)
	require.NotNil(t, field.TrashedAt)
	assert.False(t, field.Configuration.Required)
	assert.False(t, field.Configuration.Listing)
	assert.False(t, field.Configuration.Filtering)

	// Document stays retrievable but the next synthesis omits its slug
	stored := f.tables.tables["projects"]
	require.NotNil(t, stored.FieldByID("fld-title"))
	def := schema.SynthesizeTable(stored, nil)
	assert.Nil(t, def.Column("title"))
	assert.NotNil(t, def.Column("tags"))
}

func TestSendFieldToTrashAlreadyTrashed(t *testing.T) {
	table := seededTable()
	table.Fields[0].Trashed = true
	f := newFieldFixture(table)

	_, err := f.svc.SendFieldToTrash(context.Background(), "projects", "fld-title")
	require.Error(t, err)
	assert.Equal(t, errors.CauseAlreadyTrashed, errors.GetErrorCode(err))
	assert.True(t, errors.IsConflict(err))
}

func TestSendFieldToTrashFailedPersistLeavesCleanState(t *testing.T) {
	f := newFieldFixture(seededTable())

	f.fields.updateErr = assert.AnError
	_, err := f.svc.SendFieldToTrash(context.Background(), "projects", "fld-title")
	require.Error(t, err)

	// Nothing was persisted, so a retry must succeed rather than report the
	// field as already trashed
	f.fields.updateErr = nil
	field, err := f.svc.SendFieldToTrash(context.Background(), "projects", "fld-title")
	require.NoError(t, err)
	assert.True(t, field.Trashed)
}

func TestSendFieldToTrashFieldNotFound(t *testing.T) {
	f := newFieldFixture(seededTable())

	_, err := f.svc.SendFieldToTrash(context.Background(), "projects", "fld-ghost")
	require.Error(t, err)
	assert.Equal(t, errors.CauseFieldNotFound, errors.GetErrorCode(err))
}

func TestAddCategoryOptionRoot(t *testing.T) {
	f := newFieldFixture(seededTable())

	node, field, err := f.svc.AddCategoryOption(context.Background(), "projects", "fld-tags", "", "Backend")
	require.NoError(t, err)
	assert.Equal(t, "Backend", node.Label)
	assert.NotEmpty(t, node.ID)
	require.Len(t, field.Configuration.Category, 1)
}

func TestAddCategoryOptionNested(t *testing.T) {
	f := newFieldFixture(seededTable())

	root, _, err := f.svc.AddCategoryOption(context.Background(), "projects", "fld-tags", "", "Backend")
	require.NoError(t, err)
	child, _, err := f.svc.AddCategoryOption(context.Background(), "projects", "fld-tags", root.ID, "Go")
	require.NoError(t, err)
	_, field, err := f.svc.AddCategoryOption(context.Background(), "projects", "fld-tags", child.ID, "Concurrency")
	require.NoError(t, err)

	forest := field.Configuration.Category
	require.Len(t, forest, 1)
	require.Len(t, forest[0].Children, 1)
	require.Len(t, forest[0].Children[0].Children, 1)
	assert.Equal(t, "Concurrency", forest[0].Children[0].Children[0].Label)
}

func TestAddCategoryOptionParentNotFound(t *testing.T) {
	f := newFieldFixture(seededTable())

	_, _, err := f.svc.AddCategoryOption(context.Background(), "projects", "fld-tags", "ghost-parent", "X")
	require.Error(t, err)
	assert.Equal(t, errors.CauseParentCategoryNotFound, errors.GetErrorCode(err))
}

func TestAddCategoryOptionWrongFieldType(t *testing.T) {
	f := newFieldFixture(seededTable())

	_, _, err := f.svc.AddCategoryOption(context.Background(), "projects", "fld-title", "", "X")
	require.Error(t, err)
	assert.Equal(t, errors.CauseInvalidFieldType, errors.GetErrorCode(err))
}

func TestAddCategoryOptionTableNotFound(t *testing.T) {
	f := newFieldFixture(nil)

	_, _, err := f.svc.AddCategoryOption(context.Background(), "ghost", "fld-tags", "", "X")
	require.Error(t, err)
	assert.Equal(t, errors.CauseTableNotFound, errors.GetErrorCode(err))
}
