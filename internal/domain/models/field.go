package models

import (
	"time"

	"github.com/gridbase/backend/internal/domain/category"
	"github.com/gridbase/backend/pkg/constants"
)

// RelationshipConfig points a RELATIONSHIP field at a target table and the
// field used to label related rows.
type RelationshipConfig struct {
	Table string `json:"table"`
	Field string `json:"field"`
	Order string `json:"order,omitempty"`
}

// GroupConfig points a FIELD_GROUP field at its FIELD_GROUP table
type GroupConfig struct {
	Table string `json:"table"`
}

// FieldConfiguration holds the typed configuration of a field. Only the
// branch matching the field type is populated.
type FieldConfiguration struct {
	Required     bool                `json:"required"`
	Multiple     bool                `json:"multiple"`
	Format       string              `json:"format,omitempty"`
	Listing      bool                `json:"listing"`
	Filtering    bool                `json:"filtering"`
	DefaultValue *string             `json:"default_value,omitempty"`
	Relationship *RelationshipConfig `json:"relationship,omitempty"`
	Dropdown     []string            `json:"dropdown,omitempty"`
	Category     []category.Node     `json:"category,omitempty"`
	Group        *GroupConfig        `json:"group,omitempty"`
}

// Field is a typed attribute definition attached to a table via the table's
// field list.
type Field struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Slug          string              `json:"slug"`
	Type          constants.FieldType `json:"type"`
	Configuration FieldConfiguration  `json:"configuration"`
	Trashed       bool                `json:"trashed"`
	TrashedAt     *time.Time          `json:"trashed_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// IsReferenceType reports whether the field stores reference ids that can be
// expanded into related entities on fetch.
func (f *Field) IsReferenceType() bool {
	switch f.Type {
	case constants.FieldTypeRelationship,
		constants.FieldTypeFile,
		constants.FieldTypeReaction,
		constants.FieldTypeEvaluation,
		constants.FieldTypeFieldGroup:
		return true
	}
	return false
}
