// Package schema translates a table's field list into its storage schema.
// Synthesis is pure: callers persist the result and rebuild collection
// handles from it.
package schema

import (
	"github.com/gridbase/backend/internal/domain/models"
	"github.com/gridbase/backend/pkg/constants"
)

// GroupResolver resolves a FIELD_GROUP table slug to its field list. It
// returns false when the target table does not exist or is trashed.
type GroupResolver func(tableSlug string) ([]models.Field, bool)

// Synthesize derives the storage schema from an ordered field list. Trashed
// fields are omitted, so trashing a field makes its column disappear from the
// next synthesis while stored row data for that slug is merely orphaned.
//
// FIELD_GROUP columns embed the target table's own synthesized schema. A
// group table that directly or transitively embeds a table already on the
// expansion path is emitted as a plain reference column instead of recursing.
func Synthesize(fields []models.Field, resolve GroupResolver) Definition {
	return synthesize(fields, resolve, map[string]bool{})
}

// SynthesizeTable is Synthesize with the table's own slug seeded on the
// expansion path, guarding against self-embedding groups.
func SynthesizeTable(table *models.Table, resolve GroupResolver) Definition {
	return synthesize(table.Fields, resolve, map[string]bool{table.Slug: true})
}

func synthesize(fields []models.Field, resolve GroupResolver, visited map[string]bool) Definition {
	def := Definition{Columns: make([]Column, 0, len(fields))}
	for i := range fields {
		field := &fields[i]
		if field.Trashed {
			continue
		}
		def.Columns = append(def.Columns, synthesizeColumn(field, resolve, visited))
	}
	return def
}

func synthesizeColumn(field *models.Field, resolve GroupResolver, visited map[string]bool) Column {
	col := Column{
		Slug:     field.Slug,
		Required: field.Configuration.Required,
	}

	switch field.Type {
	case constants.FieldTypeTextShort, constants.FieldTypeDropdown:
		col.Kind = KindString

	case constants.FieldTypeTextLong:
		col.Kind = KindText

	case constants.FieldTypeDate:
		col.Kind = KindDate

	case constants.FieldTypeCategory:
		col.Kind = KindString
		if field.Configuration.Multiple {
			col.Kind = KindStringList
		}

	case constants.FieldTypeRelationship:
		col.Kind = KindReference
		if field.Configuration.Multiple {
			col.Kind = KindReferenceList
		}
		if rel := field.Configuration.Relationship; rel != nil {
			col.Reference = rel.Table
		}

	case constants.FieldTypeFile:
		col.Kind = KindReference
		if field.Configuration.Multiple {
			col.Kind = KindReferenceList
		}
		col.Reference = constants.TableFile

	case constants.FieldTypeReaction:
		col.Kind = KindReferenceList
		col.Reference = constants.TableUser

	case constants.FieldTypeEvaluation:
		col.Kind = KindReferenceList
		col.Reference = constants.TableEvaluation

	case constants.FieldTypeFieldGroup:
		col = synthesizeGroupColumn(field, col, resolve, visited)

	default:
		col.Kind = KindString
	}

	return col
}

func synthesizeGroupColumn(field *models.Field, col Column, resolve GroupResolver, visited map[string]bool) Column {
	group := field.Configuration.Group
	if group == nil || resolve == nil {
		col.Kind = KindReference
		return col
	}
	col.Reference = group.Table

	// Cycle guard: a group table already on the expansion path degrades to a
	// bare reference so synthesis always terminates.
	if visited[group.Table] {
		col.Kind = KindReference
		return col
	}

	groupFields, ok := resolve(group.Table)
	if !ok {
		col.Kind = KindReference
		return col
	}

	visited[group.Table] = true
	sub := synthesize(groupFields, resolve, visited)
	delete(visited, group.Table)

	col.Kind = KindGroup
	col.Group = &sub
	return col
}
