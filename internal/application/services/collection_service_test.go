package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/pkg/constants"
	"github.com/gridbase/backend/pkg/errors"
)

// fakeRowStore holds rows in memory per collection
type fakeRowStore struct {
	collections map[string]map[string]models.Row
	trashed     map[string]bool
	lastFilter  map[string]interface{}
}

func newFakeRowStore() *fakeRowStore {
	return &fakeRowStore{
		collections: map[string]map[string]models.Row{},
		trashed:     map[string]bool{},
	}
}

func (f *fakeRowStore) seed(collection string, rows ...models.Row) {
	if f.collections[collection] == nil {
		f.collections[collection] = map[string]models.Row{}
	}
	for _, row := range rows {
		f.collections[collection][row.ID()] = row
	}
}

func (f *fakeRowStore) FindOne(_ context.Context, tableName, id string) (models.Row, error) {
	if f.trashed[tableName+"/"+id] {
		return nil, nil
	}
	row, ok := f.collections[tableName][id]
	if !ok {
		return nil, nil
	}
	copied := make(models.Row, len(row))
	for k, v := range row {
		copied[k] = v
	}
	return copied, nil
}

func (f *fakeRowStore) FindMany(_ context.Context, tableName string, filter map[string]interface{}, _, _ int) ([]models.Row, error) {
	f.lastFilter = filter
	var out []models.Row
	for id, row := range f.collections[tableName] {
		if f.trashed[tableName+"/"+id] {
			continue
		}
		match := true
		for k, v := range filter {
			if row[k] != v {
				match = false
				break
			}
		}
		if match {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeRowStore) FindByIDs(_ context.Context, tableName string, ids []string) ([]models.Row, error) {
	var out []models.Row
	for _, id := range ids {
		if row, ok := f.collections[tableName][id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeRowStore) Insert(_ context.Context, tableName string, row models.Row) error {
	f.seed(tableName, row)
	return nil
}

func (f *fakeRowStore) Update(_ context.Context, tableName, id string, updates models.Row) error {
	row, ok := f.collections[tableName][id]
	if !ok {
		return nil
	}
	for k, v := range updates {
		row[k] = v
	}
	return nil
}

func (f *fakeRowStore) SoftDelete(_ context.Context, tableName, id string) error {
	f.trashed[tableName+"/"+id] = true
	return nil
}

func (f *fakeRowStore) Count(_ context.Context, tableName string, filter map[string]interface{}) (int64, error) {
	rows, _ := f.FindMany(context.Background(), tableName, filter, 0, 0)
	return int64(len(rows)), nil
}

func collectionTable() *models.Table {
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
			{ID: "f1", Name: "Title", Slug: "title", Type: constants.FieldTypeTextShort,
				Configuration: models.FieldConfiguration{Required: true, Filtering: true}},
			{ID: "f2", Name: "Status", Slug: "status", Type: constants.FieldTypeDropdown,
				Configuration: models.FieldConfiguration{Filtering: true}},
			{ID: "f3", Name: "Lead", Slug: "lead", Type: constants.FieldTypeRelationship,
				Configuration: models.FieldConfiguration{Relationship: &models.RelationshipConfig{Table: "people"}}},
			{ID: "f4", Name: "Old", Slug: "old", Type: constants.FieldTypeTextShort, Trashed: true},
		},
	}
}

func newCollectionFixture(table *models.Table) (*CollectionHandle, *fakeRowStore) {
	rows := newFakeRowStore()
	svc := NewCollectionService(rows, NewHookService())
	return svc.Bind(table), rows
}

func TestBuildPopulateCoversReferenceFields(t *testing.T) {
	table := collectionTable()
	table.Fields = append(table.Fields,
		models.Field{ID: "f5", Slug: "attachment", Type: constants.FieldTypeFile},
		models.Field{ID: "f6", Slug: "likes", Type: constants.FieldTypeReaction},
		models.Field{ID: "f7", Slug: "rating", Type: constants.FieldTypeEvaluation},
		models.Field{ID: "f8", Slug: "address", Type: constants.FieldTypeFieldGroup,
			Configuration: models.FieldConfiguration{Group: &models.GroupConfig{Table: "addresses"}}},
		models.Field{ID: "f9", Slug: "gone", Type: constants.FieldTypeFile, Trashed: true},
	)

	directives := BuildPopulate(table.Fields)

	byColumn := map[string]PopulateDirective{}
	for _, d := range directives {
		byColumn[d.Column] = d
	}
	require.Len(t, directives, 5)
	assert.Equal(t, "data_people", byColumn["lead"].Collection)
	assert.False(t, byColumn["lead"].Multiple)
	assert.Equal(t, constants.TableFile, byColumn["attachment"].Collection)
	assert.Equal(t, constants.TableUser, byColumn["likes"].Collection)
	assert.True(t, byColumn["likes"].Multiple)
	assert.Equal(t, constants.TableEvaluation, byColumn["rating"].Collection)
	assert.True(t, byColumn["rating"].Multiple)
	assert.Equal(t, "data_addresses", byColumn["address"].Collection)
	assert.True(t, byColumn["address"].Multiple)
	_, listed := byColumn["gone"]
	assert.False(t, listed)
}

func TestCreatePrunesUnknownColumns(t *testing.T) {
	handle, store := newCollectionFixture(collectionTable())

	row, err := handle.Create(context.Background(), nil, models.Row{
		"title":    "Launch",
		"status":   "open",
		"old":      "ghost value",
		"arbitrary": 42,
	})
	require.NoError(t, err)
	require.NotEmpty(t, row.ID())

	stored := store.collections["data_projects"][row.ID()]
	assert.Equal(t, "Launch", stored["title"])
	assert.NotContains(t, stored, "old")
	assert.NotContains(t, stored, "arbitrary")
}

func TestCreateEnforcesRequired(t *testing.T) {
	handle, _ := newCollectionFixture(collectionTable())

	_, err := handle.Create(context.Background(), nil, models.Row{"status": "open"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestCreateRunsBeforeSaveHook(t *testing.T) {
	table := collectionTable()
	code := `{"title": UPPER(record.title), "status": "open"}`
	table.Methods.BeforeSave = models.MethodHook{Code: &code}
	handle, _ := newCollectionFixture(table)

	row, err := handle.Create(context.Background(), nil, models.Row{"title": "launch"})
	require.NoError(t, err)
	assert.Equal(t, "LAUNCH", row["title"])
	assert.Equal(t, "open", row["status"])
}

func TestCreateAbortsOnFailingBeforeSave(t *testing.T) {
	table := collectionTable()
	code := `record.missing.deep`
	table.Methods.BeforeSave = models.MethodHook{Code: &code}
	handle, store := newCollectionFixture(table)

	_, err := handle.Create(context.Background(), nil, models.Row{"title": "launch"})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Empty(t, store.collections["data_projects"])
}

func TestFindOneExpandsSingleReference(t *testing.T) {
	handle, store := newCollectionFixture(collectionTable())
	store.seed("data_people", models.Row{"id": "p1", "name": "Ada"})
	store.seed("data_projects", models.Row{"id": "r1", "title": "Launch", "lead": "p1"})

	row, err := handle.FindOne(context.Background(), nil, "r1")
	require.NoError(t, err)

	lead, ok := row["lead"].(models.Row)
	require.True(t, ok)
	assert.Equal(t, "Ada", lead["name"])
}

func TestFindOneLeavesDanglingReference(t *testing.T) {
	handle, store := newCollectionFixture(collectionTable())
	store.seed("data_projects", models.Row{"id": "r1", "title": "Launch", "lead": "ghost"})

	row, err := handle.FindOne(context.Background(), nil, "r1")
	require.NoError(t, err)
	assert.Equal(t, "ghost", row["lead"])
}

func TestFindOneExpandsArrayReference(t *testing.T) {
	table := collectionTable()
	table.Fields = append(table.Fields, models.Field{
		ID: "f5", Name: "Reviewers", Slug: "reviewers", Type: constants.FieldTypeRelationship,
		Configuration: models.FieldConfiguration{
			Multiple:     true,
			Relationship: &models.RelationshipConfig{Table: "people"},
		},
	})
	handle, store := newCollectionFixture(table)
	store.seed("data_people",
		models.Row{"id": "p1", "name": "Ada"},
		models.Row{"id": "p2", "name": "Grace"},
	)
	store.seed("data_projects", models.Row{
		"id": "r1", "title": "Launch",
		"reviewers": []interface{}{"p1", "p2", "ghost"},
	})

	row, err := handle.FindOne(context.Background(), nil, "r1")
	require.NoError(t, err)

	// The id list stays untouched; the expanded rows ride alongside it
	assert.Equal(t, []interface{}{"p1", "p2", "ghost"}, row["reviewers"])
	populated, ok := row["reviewers_populated"].([]models.Row)
	require.True(t, ok)
	require.Len(t, populated, 2)
	assert.Equal(t, "Ada", populated[0]["name"])
	assert.Equal(t, "Grace", populated[1]["name"])
}

func TestFindOneNotFound(t *testing.T) {
	handle, _ := newCollectionFixture(collectionTable())

	_, err := handle.FindOne(context.Background(), nil, "ghost")
	require.Error(t, err)
	assert.Equal(t, errors.CauseRowNotFound, errors.GetErrorCode(err))
}

func TestFindOneAppliesOnLoadHook(t *testing.T) {
	table := collectionTable()
	code := `{"title": record.title, "label": LOWER(record.title)}`
	table.Methods.OnLoad = models.MethodHook{Code: &code}
	handle, store := newCollectionFixture(table)
	store.seed("data_projects", models.Row{"id": "r1", "title": "Launch"})

	row, err := handle.FindOne(context.Background(), nil, "r1")
	require.NoError(t, err)
	assert.Equal(t, "launch", row["label"])
}

func TestFindManyDropsUnfilterableColumns(t *testing.T) {
	handle, store := newCollectionFixture(collectionTable())
	store.seed("data_projects", models.Row{"id": "r1", "title": "Launch", "status": "open"})

	_, err := handle.FindMany(context.Background(), nil, map[string]interface{}{
		"status": "open",
		"lead":   "p1",
		"old":    "x",
	}, 50, 0)
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"status": "open"}, store.lastFilter)
}

func TestUpdateMergesExistingRow(t *testing.T) {
	handle, store := newCollectionFixture(collectionTable())
	store.seed("data_projects", models.Row{"id": "r1", "title": "Launch", "status": "open"})

	merged, err := handle.Update(context.Background(), nil, "r1", models.Row{"status": "closed"})
	require.NoError(t, err)
	assert.Equal(t, "Launch", merged["title"])
	assert.Equal(t, "closed", merged["status"])
	assert.Equal(t, "closed", store.collections["data_projects"]["r1"]["status"])
}

func TestUpdateRejectsBlankedRequiredColumn(t *testing.T) {
	handle, store := newCollectionFixture(collectionTable())
	store.seed("data_projects", models.Row{"id": "r1", "title": "Launch", "status": "open"})

	_, err := handle.Update(context.Background(), nil, "r1", models.Row{"title": ""})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, "Launch", store.collections["data_projects"]["r1"]["title"])
}

func TestUpdateRowNotFound(t *testing.T) {
	handle, _ := newCollectionFixture(collectionTable())

	_, err := handle.Update(context.Background(), nil, "ghost", models.Row{"status": "closed"})
	require.Error(t, err)
	assert.Equal(t, errors.CauseRowNotFound, errors.GetErrorCode(err))
}

func TestSoftDeleteHidesRow(t *testing.T) {
	handle, _ := newCollectionFixture(collectionTable())
	handle.rows.Insert(context.Background(), "data_projects", models.Row{"id": "r1", "title": "Launch"})

	require.NoError(t, handle.SoftDelete(context.Background(), "r1"))

	_, err := handle.FindOne(context.Background(), nil, "r1")
	require.Error(t, err)
	assert.Equal(t, errors.CauseRowNotFound, errors.GetErrorCode(err))

	// Trashing twice reports the row as missing
	err = handle.SoftDelete(context.Background(), "r1")
	require.Error(t, err)
	assert.Equal(t, errors.CauseRowNotFound, errors.GetErrorCode(err))
}

func TestCountUsesFilter(t *testing.T) {
	handle, store := newCollectionFixture(collectionTable())
	store.seed("data_projects",
		models.Row{"id": "r1", "status": "open"},
		models.Row{"id": "r2", "status": "open"},
		models.Row{"id": "r3", "status": "closed"},
	)

	count, err := handle.Count(context.Background(), map[string]interface{}{"status": "open"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
