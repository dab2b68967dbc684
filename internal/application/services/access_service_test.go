package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/internal/domain/schema"
	"github.com/gridbase/backend/pkg/auth"
	"github.com/gridbase/backend/pkg/constants"
	"github.com/gridbase/backend/pkg/errors"
)

// fakeTableStore serves tables from memory
type fakeTableStore struct {
	tables  map[string]*models.Table
	findErr error
}

func (f *fakeTableStore) FindBySlug(_ context.Context, slug string, includeTrashed bool) (*models.Table, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	table, ok := f.tables[slug]
	if !ok {
		return nil, nil
	}
	if table.Trashed && !includeTrashed {
		return nil, nil
	}
	copied := *table
	return &copied, nil
}

func (f *fakeTableStore) FindByID(_ context.Context, id string) (*models.Table, error) {
	for _, table := range f.tables {
		if table.ID == id {
			copied := *table
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTableStore) SlugExists(_ context.Context, slug string) (bool, error) {
	table, ok := f.tables[slug]
	return ok && !table.Trashed, nil
}

func (f *fakeTableStore) Create(_ context.Context, table *models.Table, _ schema.Definition) error {
	f.tables[table.Slug] = table
	return nil
}

func (f *fakeTableStore) Update(_ context.Context, table *models.Table, _ schema.Definition) error {
	f.tables[table.Slug] = table
	return nil
}

func (f *fakeTableStore) Delete(_ context.Context, id string) error {
	for slug, table := range f.tables {
		if table.ID == id {
			delete(f.tables, slug)
		}
	}
	return nil
}

func (f *fakeTableStore) ListTrashedBefore(_ context.Context, _ int) ([]models.Table, error) {
	return nil, nil
}

// fakeUserStore serves users from memory
type fakeUserStore struct {
	users   map[string]*models.User
	findErr error
}

func (f *fakeUserStore) FindWithPermissions(_ context.Context, id string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if user, ok := f.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func tableWith(visibility constants.Visibility) *models.Table {
	return &models.Table{
		ID:   "tbl-1",
		Name: "Projects",
		Slug: "projects",
		Type: constants.TableTypeTable,
		Configuration: models.TableConfiguration{
			Visibility:     visibility,
			Owner:          "owner-1",
			Administrators: []string{"admin-1"},
		},
	}
}

func activeUser(id string, role constants.UserRole, grants ...constants.TableAction) *models.User {
	user := &models.User{
		ID:     id,
		Name:   id,
		Email:  id + "@example.com",
		Role:   role,
		Status: constants.StatusActive,
	}
	if len(grants) > 0 {
		permissions := make([]models.Permission, len(grants))
		for i, g := range grants {
			permissions[i] = models.Permission{ID: "perm-" + string(g), Slug: string(g)}
		}
		user.Group = &models.UserGroup{ID: "grp-1", Slug: "members", Permissions: permissions}
	}
	return user
}

func newAccessFixture(table *models.Table, users ...*models.User) *AccessService {
	tables := &fakeTableStore{tables: map[string]*models.Table{}}
	if table != nil {
		tables.tables[table.Slug] = table
	}
	store := &fakeUserStore{users: map[string]*models.User{}}
	for _, u := range users {
		store.users[u.ID] = u
	}
	return NewAccessService(tables, store)
}

func TestDecideAnonymousPublicRead(t *testing.T) {
	svc := newAccessFixture(tableWith(constants.VisibilityPublic))

	decision := svc.Decide(context.Background(), nil, "projects", constants.ActionViewRow, http.MethodGet)
	assert.True(t, decision.Allowed)
	require.NotNil(t, decision.Table)
	assert.Nil(t, decision.User)
}

func TestDecideAnonymousFormSubmission(t *testing.T) {
	svc := newAccessFixture(tableWith(constants.VisibilityForm))

	decision := svc.Decide(context.Background(), nil, "projects", constants.ActionCreateRow, http.MethodPost)
	assert.True(t, decision.Allowed)

	// Anything beyond create-row on the same table needs a principal
	decision = svc.Decide(context.Background(), nil, "projects", constants.ActionUpdateRow, http.MethodPost)
	assert.False(t, decision.Allowed)
	assert.Equal(t, errors.CauseUserNotAuthenticated, decision.Cause)
	assert.Equal(t, http.StatusUnauthorized, decision.Status)
}

func TestDecideTableNotFound(t *testing.T) {
	svc := newAccessFixture(nil)

	decision := svc.Decide(context.Background(), nil, "ghost", constants.ActionViewTable, http.MethodGet)
	assert.False(t, decision.Allowed)
	assert.Equal(t, errors.CauseTableNotFound, decision.Cause)
	assert.Equal(t, http.StatusNotFound, decision.Status)
}

func TestDecideStorageFailureIsNotNotFound(t *testing.T) {
	tables := &fakeTableStore{tables: map[string]*models.Table{}, findErr: assert.AnError}
	users := &fakeUserStore{users: map[string]*models.User{}}
	svc := NewAccessService(tables, users)

	decision := svc.Decide(context.Background(), nil, "projects", constants.ActionViewTable, http.MethodGet)
	assert.False(t, decision.Allowed)
	assert.Equal(t, errors.CauseAccessCheckError, decision.Cause)
	assert.Equal(t, http.StatusInternalServerError, decision.Status)

	// A failing user lookup is a 500 too, not a missing account
	tables.findErr = nil
	tables.tables["projects"] = tableWith(constants.VisibilityOpen)
	users.findErr = assert.AnError
	principal := &auth.Principal{Sub: "user-1", Role: constants.RoleCommon}

	decision = svc.Decide(context.Background(), principal, "projects", constants.ActionViewRow, http.MethodGet)
	assert.False(t, decision.Allowed)
	assert.Equal(t, errors.CauseAccessCheckError, decision.Cause)
	assert.Equal(t, http.StatusInternalServerError, decision.Status)
}

func TestDecideTrashedTableVisibleOnlyToRestore(t *testing.T) {
	table := tableWith(constants.VisibilityPublic)
	table.Trashed = true
	owner := activeUser("owner-1", constants.RoleCommon)
	svc := newAccessFixture(table, owner)
	principal := &auth.Principal{Sub: "owner-1", Role: constants.RoleCommon}

	decision := svc.Decide(context.Background(), principal, "projects", constants.ActionViewTable, http.MethodGet)
	assert.Equal(t, errors.CauseTableNotFound, decision.Cause)

	decision = svc.Decide(context.Background(), principal, "projects", constants.ActionRestoreTable, http.MethodPatch)
	assert.True(t, decision.Allowed)
	assert.True(t, decision.IsOwner)
}

func TestDecideMasterBypass(t *testing.T) {
	// MASTER is allowed even when inactive; the role outranks the status gate
	master := activeUser("master-1", constants.RoleMaster)
	master.Status = constants.StatusInactive
	svc := newAccessFixture(tableWith(constants.VisibilityPrivate), master)
	principal := &auth.Principal{Sub: "master-1", Role: constants.RoleMaster}

	decision := svc.Decide(context.Background(), principal, "projects", constants.ActionRemoveTable, http.MethodDelete)
	assert.True(t, decision.Allowed)
}

func TestDecideDeactivatedAdministrator(t *testing.T) {
	admin := activeUser("admin-9", constants.RoleAdministrator)
	admin.Status = constants.StatusInactive
	svc := newAccessFixture(tableWith(constants.VisibilityOpen), admin)
	principal := &auth.Principal{Sub: "admin-9", Role: constants.RoleAdministrator}

	decision := svc.Decide(context.Background(), principal, "projects", constants.ActionViewRow, http.MethodGet)
	assert.False(t, decision.Allowed)
	assert.Equal(t, errors.CauseUserNotActive, decision.Cause)
	assert.Equal(t, http.StatusForbidden, decision.Status)
}

func TestDecideOwnerFastPath(t *testing.T) {
	owner := activeUser("owner-1", constants.RoleCommon)
	svc := newAccessFixture(tableWith(constants.VisibilityPrivate), owner)
	principal := &auth.Principal{Sub: "owner-1", Role: constants.RoleCommon}

	decision := svc.Decide(context.Background(), principal, "projects", constants.ActionUpdateField, http.MethodPatch)
	assert.True(t, decision.Allowed)
	assert.True(t, decision.IsOwner)
	assert.False(t, decision.IsAdministrator)
}

func TestDecideListedAdministratorFastPath(t *testing.T) {
	admin := activeUser("admin-1", constants.RoleCommon)
	svc := newAccessFixture(tableWith(constants.VisibilityPrivate), admin)
	principal := &auth.Principal{Sub: "admin-1", Role: constants.RoleCommon}

	decision := svc.Decide(context.Background(), principal, "projects", constants.ActionRemoveRow, http.MethodDelete)
	assert.True(t, decision.Allowed)
	assert.False(t, decision.IsOwner)
	assert.True(t, decision.IsAdministrator)
}

func TestDecideOwnerOnlyActionNeverGroupChecked(t *testing.T) {
	// Group grants UPDATE_FIELD, but the action is owner-only for outsiders
	outsider := activeUser("user-7", constants.RoleCommon, constants.ActionUpdateField)
	for _, visibility := range []constants.Visibility{
		constants.VisibilityPublic, constants.VisibilityOpen,
		constants.VisibilityRestricted, constants.VisibilityPrivate,
		constants.VisibilityForm,
	} {
		svc := newAccessFixture(tableWith(visibility), outsider)
		principal := &auth.Principal{Sub: "user-7", Role: constants.RoleCommon}

		decision := svc.Decide(context.Background(), principal, "projects", constants.ActionUpdateField, http.MethodPatch)
		assert.False(t, decision.Allowed, "visibility %s", visibility)
		assert.Equal(t, errors.CauseOwnerOrAdminRequired, decision.Cause)
	}
}

func TestDecideRestrictedVisibility(t *testing.T) {
	member := activeUser("user-7", constants.RoleCommon, constants.ActionViewRow, constants.ActionCreateRow)
	svc := newAccessFixture(tableWith(constants.VisibilityRestricted), member)
	principal := &auth.Principal{Sub: "user-7", Role: constants.RoleCommon}

	decision := svc.Decide(context.Background(), principal, "projects", constants.ActionCreateRow, http.MethodPost)
	assert.False(t, decision.Allowed)
	assert.Equal(t, errors.CauseRestrictedCreate, decision.Cause)

	// View actions proceed to the group check and pass
	decision = svc.Decide(context.Background(), principal, "projects", constants.ActionViewRow, http.MethodGet)
	assert.True(t, decision.Allowed)
}

func TestDecidePrivateVisibility(t *testing.T) {
	member := activeUser("user-7", constants.RoleCommon, constants.ActionViewRow)
	svc := newAccessFixture(tableWith(constants.VisibilityPrivate), member)
	principal := &auth.Principal{Sub: "user-7", Role: constants.RoleCommon}

	decision := svc.Decide(context.Background(), principal, "projects", constants.ActionViewRow, http.MethodGet)
	assert.False(t, decision.Allowed)
	assert.Equal(t, errors.CauseTablePrivate, decision.Cause)
}

func TestDecideFormViewRestricted(t *testing.T) {
	member := activeUser("user-7", constants.RoleCommon, constants.ActionViewRow, constants.ActionCreateRow)
	svc := newAccessFixture(tableWith(constants.VisibilityForm), member)
	principal := &auth.Principal{Sub: "user-7", Role: constants.RoleCommon}

	decision := svc.Decide(context.Background(), principal, "projects", constants.ActionViewRow, http.MethodGet)
	assert.False(t, decision.Allowed)
	assert.Equal(t, errors.CauseFormViewRestricted, decision.Cause)

	// Authenticated create-row falls through to the group check
	decision = svc.Decide(context.Background(), principal, "projects", constants.ActionCreateRow, http.MethodPost)
	assert.True(t, decision.Allowed)
}

func TestDecideGroupGate(t *testing.T) {
	noGroup := activeUser("user-1", constants.RoleCommon)
	wrongGrant := activeUser("user-2", constants.RoleCommon, constants.ActionCreateRow)
	rightGrant := activeUser("user-3", constants.RoleCommon, constants.ActionViewRow)

	svc := newAccessFixture(tableWith(constants.VisibilityOpen), noGroup, wrongGrant, rightGrant)

	decision := svc.Decide(context.Background(), &auth.Principal{Sub: "user-1"}, "projects", constants.ActionViewRow, http.MethodGet)
	assert.Equal(t, errors.CausePermissionsNotFound, decision.Cause)

	decision = svc.Decide(context.Background(), &auth.Principal{Sub: "user-2"}, "projects", constants.ActionViewRow, http.MethodGet)
	assert.Equal(t, errors.CauseInsufficientPermission, decision.Cause)

	decision = svc.Decide(context.Background(), &auth.Principal{Sub: "user-3"}, "projects", constants.ActionViewRow, http.MethodGet)
	assert.True(t, decision.Allowed)
}

func TestDecideCreateTableDelegatesToGroup(t *testing.T) {
	granted := activeUser("user-1", constants.RoleCommon, constants.ActionCreateTable)
	denied := activeUser("user-2", constants.RoleCommon, constants.ActionViewRow)
	svc := newAccessFixture(nil, granted, denied)

	decision := svc.Decide(context.Background(), &auth.Principal{Sub: "user-1"}, "", constants.ActionCreateTable, http.MethodPost)
	assert.True(t, decision.Allowed)

	decision = svc.Decide(context.Background(), &auth.Principal{Sub: "user-2"}, "", constants.ActionCreateTable, http.MethodPost)
	assert.False(t, decision.Allowed)
	assert.Equal(t, errors.CauseInsufficientPermission, decision.Cause)
}

func TestDecideIdempotent(t *testing.T) {
	member := activeUser("user-7", constants.RoleCommon, constants.ActionViewRow)
	svc := newAccessFixture(tableWith(constants.VisibilityRestricted), member)
	principal := &auth.Principal{Sub: "user-7", Role: constants.RoleCommon}

	first := svc.Decide(context.Background(), principal, "projects", constants.ActionCreateRow, http.MethodPost)
	second := svc.Decide(context.Background(), principal, "projects", constants.ActionCreateRow, http.MethodPost)
	assert.Equal(t, first.Allowed, second.Allowed)
	assert.Equal(t, first.Cause, second.Cause)
	assert.Equal(t, first.Status, second.Status)
}
