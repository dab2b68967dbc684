package models

import (
	"time"

	"github.com/gridbase/backend/pkg/constants"
)

// FieldOrder holds the per-surface ordering of a table's fields
type FieldOrder struct {
	List []string `json:"list,omitempty"`
	Form []string `json:"form,omitempty"`
}

// TableConfiguration holds ownership, visibility and presentation settings.
// Owner and Administrators carry user ids; the decision engine re-fetches the
// accounts rather than trusting anything cached here.
type TableConfiguration struct {
	Style          string                  `json:"style,omitempty"`
	Visibility     constants.Visibility    `json:"visibility"`
	Collaboration  constants.Collaboration `json:"collaboration,omitempty"`
	Owner          string                  `json:"owner"`
	Administrators []string                `json:"administrators,omitempty"`
	FieldOrder     FieldOrder              `json:"field_order,omitempty"`
}

// MethodHook is one user-defined lifecycle hook attached to a table
type MethodHook struct {
	Code *string `json:"code"`
}

// TableMethods groups the lifecycle hooks of a table
type TableMethods struct {
	OnLoad     MethodHook `json:"on_load"`
	BeforeSave MethodHook `json:"before_save"`
	AfterSave  MethodHook `json:"after_save"`
}

// Table is a user-defined entity type. Its fields drive both the synthesized
// storage schema and the generic rendering surfaces. The table is the
// aggregate root for field membership.
type Table struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Slug          string              `json:"slug"`
	Description   *string             `json:"description,omitempty"`
	LogoRef       *string             `json:"logo_ref,omitempty"`
	Type          constants.TableType `json:"type"`
	Configuration TableConfiguration  `json:"configuration"`
	Methods       TableMethods        `json:"methods"`
	Fields        []Field             `json:"fields"`
	Trashed       bool                `json:"trashed"`
	TrashedAt     *time.Time          `json:"trashed_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// IsOwner reports whether the given user id owns this table
func (t *Table) IsOwner(userID string) bool {
	return userID != "" && t.Configuration.Owner == userID
}

// IsAdministrator reports whether the given user id is a listed administrator
func (t *Table) IsAdministrator(userID string) bool {
	if userID == "" {
		return false
	}
	for _, id := range t.Configuration.Administrators {
		if id == userID {
			return true
		}
	}
	return false
}

// FieldByID returns the member field with the given id, or nil. Membership is
// decided by the table's field list, not by a back-reference on the field.
func (t *Table) FieldByID(fieldID string) *Field {
	for i := range t.Fields {
		if t.Fields[i].ID == fieldID {
			return &t.Fields[i]
		}
	}
	return nil
}

// FieldBySlug returns the member field with the given slug, or nil
func (t *Table) FieldBySlug(slug string) *Field {
	for i := range t.Fields {
		if t.Fields[i].Slug == slug {
			return &t.Fields[i]
		}
	}
	return nil
}

// ReplaceField swaps the member field with the same id in place, preserving
// field order. Returns false if the field is not a member.
func (t *Table) ReplaceField(field Field) bool {
	for i := range t.Fields {
		if t.Fields[i].ID == field.ID {
			t.Fields[i] = field
			return true
		}
	}
	return false
}
