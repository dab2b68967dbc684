package services

import (
	"context"
	"log"
	"net/http"

	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/internal/domain/ports"
	"github.com/gridbase/backend/pkg/auth"
	"github.com/gridbase/backend/pkg/constants"
	"github.com/gridbase/backend/pkg/errors"
)

// Decision is the outcome of one access evaluation. It carries the entities
// loaded while deciding so downstream handlers never re-fetch them, plus the
// ownership flags owner-only UI logic needs.
type Decision struct {
	Allowed         bool
	Cause           string
	Status          int
	Table           *models.Table
	User            *models.User
	IsOwner         bool
	IsAdministrator bool
}

func allow(table *models.Table, user *models.User, isOwner, isAdmin bool) Decision {
	return Decision{
		Allowed:         true,
		Status:          http.StatusOK,
		Table:           table,
		User:            user,
		IsOwner:         isOwner,
		IsAdministrator: isAdmin,
	}
}

func deny(cause string, status int, table *models.Table, user *models.User) Decision {
	return Decision{
		Allowed: false,
		Cause:   cause,
		Status:  status,
		Table:   table,
		User:    user,
	}
}

// visibilityGate describes how one visibility level treats non-owner
// authenticated users before the group-permission check. Keeping it as data
// keeps the decision auditable.
type visibilityGate struct {
	denyView   string // deny cause for view actions, empty = proceed
	denyCreate string // deny cause for CREATE_ROW, empty = proceed
}

var visibilityGates = map[constants.Visibility]visibilityGate{
	constants.VisibilityPrivate:    {denyView: errors.CauseTablePrivate, denyCreate: errors.CauseTablePrivate},
	constants.VisibilityRestricted: {denyCreate: errors.CauseRestrictedCreate},
	constants.VisibilityOpen:       {},
	constants.VisibilityPublic:     {},
	constants.VisibilityForm:       {denyView: errors.CauseFormViewRestricted},
}

// AccessService evaluates whether a principal may perform a table action.
// It reads fresh user state on every call; token claims are only used to
// identify the account, never to authorize it.
type AccessService struct {
	tables ports.TableStore
	users  ports.UserStore
}

// NewAccessService creates a new AccessService
func NewAccessService(tables ports.TableStore, users ports.UserStore) *AccessService {
	return &AccessService{tables: tables, users: users}
}

// Decide evaluates access for one request. Rules are ordered; the first
// matching rule wins. The tableSlug may be empty only for actions that do not
// operate on an existing table.
func (s *AccessService) Decide(ctx context.Context, principal *auth.Principal, tableSlug string, action constants.TableAction, httpVerb string) Decision {
	// 1. Resolve the table subject. Restore-style actions may see trashed
	// tables; everything else only sees live ones.
	var table *models.Table
	if action.RequiresTable() && tableSlug != "" {
		found, err := s.tables.FindBySlug(ctx, tableSlug, constants.TrashedLookupActions[action])
		if err != nil {
			// A storage failure is not a missing table; report it as such
			log.Printf("❌ AccessService: table lookup failed for %s: %v", tableSlug, err)
			return deny(errors.CauseAccessCheckError, http.StatusInternalServerError, nil, nil)
		}
		if found == nil {
			return deny(errors.CauseTableNotFound, http.StatusNotFound, nil, nil)
		}
		table = found
	}

	// 2. Anonymous read on a PUBLIC table
	if table != nil && table.Configuration.Visibility == constants.VisibilityPublic &&
		httpVerb == http.MethodGet && constants.ViewActions[action] {
		return allow(table, nil, false, false)
	}

	// 3. Anonymous form submission on a FORM table
	if table != nil && table.Configuration.Visibility == constants.VisibilityForm &&
		httpVerb == http.MethodPost && action == constants.ActionCreateRow {
		return allow(table, nil, false, false)
	}

	// 4. Everything past this point requires a principal
	if principal == nil {
		return deny(errors.CauseUserNotAuthenticated, http.StatusUnauthorized, table, nil)
	}

	// Account state is re-fetched on every decision; status may have changed
	// since the token was issued.
	user, err := s.users.FindWithPermissions(ctx, principal.Sub)
	if err != nil {
		log.Printf("❌ AccessService: user lookup failed for %s: %v", principal.Sub, err)
		return deny(errors.CauseAccessCheckError, http.StatusInternalServerError, table, nil)
	}
	if user == nil {
		return deny(errors.CauseUserNotFound, http.StatusNotFound, table, nil)
	}

	// 5. Role escalation
	if user.Role == constants.RoleMaster {
		return allow(table, user, false, false)
	}
	if user.Role == constants.RoleAdministrator {
		if !user.IsActive() {
			return deny(errors.CauseUserNotActive, http.StatusForbidden, table, user)
		}
		return allow(table, user, false, false)
	}

	// 6. CREATE_TABLE has no table subject; it goes straight to the group gate
	if action == constants.ActionCreateTable {
		return s.groupGate(table, user, action)
	}

	// 7. All remaining actions need a table
	if table == nil {
		return deny(errors.CauseTableRequired, http.StatusNotFound, nil, user)
	}

	// 8. Owner/administrator fast path
	isOwner := table.IsOwner(user.ID)
	isAdmin := table.IsAdministrator(user.ID)
	if isOwner || isAdmin {
		if !user.IsActive() {
			return deny(errors.CauseUserNotActive, http.StatusForbidden, table, user)
		}
		return allow(table, user, isOwner, isAdmin)
	}

	// 9a. Owner-only actions never reach the group check for outsiders
	if constants.OwnerOnlyActions[action] {
		return deny(errors.CauseOwnerOrAdminRequired, http.StatusForbidden, table, user)
	}

	// 9b. Visibility gate for view/create-row
	gate := visibilityGates[table.Configuration.Visibility]
	if constants.ViewActions[action] && gate.denyView != "" {
		return deny(gate.denyView, http.StatusForbidden, table, user)
	}
	if action == constants.ActionCreateRow && gate.denyCreate != "" {
		return deny(gate.denyCreate, http.StatusForbidden, table, user)
	}

	// 9c. Final group-permission gate
	return s.groupGate(table, user, action)
}

// groupGate requires an active account whose group grants the action
func (s *AccessService) groupGate(table *models.Table, user *models.User, action constants.TableAction) Decision {
	if !user.IsActive() {
		return deny(errors.CauseUserNotActive, http.StatusForbidden, table, user)
	}
	if user.Group == nil || len(user.Group.Permissions) == 0 {
		return deny(errors.CausePermissionsNotFound, http.StatusForbidden, table, user)
	}
	if !user.Group.HasPermission(action) {
		return deny(errors.CauseInsufficientPermission, http.StatusForbidden, table, user)
	}
	return allow(table, user, false, false)
}
