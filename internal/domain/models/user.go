package models

import (
	"time"

	"github.com/gridbase/backend/pkg/constants"
)

// Permission is one administrator-managed action grant. Slug matches a
// constants.TableAction value.
type Permission struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// UserGroup is the role-based authorization unit assigned to a user
type UserGroup struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Permissions []Permission `json:"permissions"`
}

// HasPermission reports whether the group grants the given action
func (g *UserGroup) HasPermission(action constants.TableAction) bool {
	for _, p := range g.Permissions {
		if p.Slug == string(action) {
			return true
		}
	}
	return false
}

// User is a platform account. Status is re-fetched on every authorization
// decision; token claims are never trusted for it.
type User struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Email     string               `json:"email"`
	Password  string               `json:"-"`
	Role      constants.UserRole   `json:"role"`
	Status    constants.UserStatus `json:"status"`
	Group     *UserGroup           `json:"group,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// IsActive reports whether the account may act at all
func (u *User) IsActive() bool {
	return u.Status == constants.StatusActive
}

// Row is one record in a dynamically materialized collection. Its shape is
// defined by the owning table's synthesized schema; only the storage adapter
// treats it as an untyped map.
type Row map[string]interface{}

// ID returns the row's id column, or empty string
func (r Row) ID() string {
	if v, ok := r[constants.FieldID].(string); ok {
		return v
	}
	return ""
}

// Menu is a navigation entry. A leaf that gains a child is promoted to a
// SEPARATOR with its original content duplicated as a new child.
type Menu struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Slug      string             `json:"slug"`
	Type      constants.MenuType `json:"type"`
	Link      *string            `json:"link,omitempty"`
	TableSlug *string            `json:"table_slug,omitempty"`
	ParentID  *string            `json:"parent_id,omitempty"`
	Position  int                `json:"position"`
	Trashed   bool               `json:"trashed"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}
