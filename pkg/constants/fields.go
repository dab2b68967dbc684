package constants

// Bookkeeping columns present on every system table and every data collection
const (
	FieldID        = "id"
	FieldTrashed   = "trashed"
	FieldTrashedAt = "trashed_at"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// Common metadata columns
const (
	FieldName          = "name"
	FieldSlug          = "slug"
	FieldDescription   = "description"
	FieldLabel         = "label"
	FieldEmail         = "email"
	FieldPassword      = "password"
	FieldRole          = "role"
	FieldStatus        = "status"
	FieldTypeName      = "type"
	FieldConfiguration = "configuration"
	FieldMethods       = "methods"
	FieldTableID       = "table_id"
	FieldGroupID       = "group_id"
	FieldUserID        = "user_id"
	FieldPermissionID  = "permission_id"
	FieldParentID      = "parent_id"
	FieldPosition      = "position"
	FieldLink          = "link"
	FieldLogoRef       = "logo_ref"
	FieldTableSlug     = "table_slug"
	FieldSynthesized   = "synthesized_schema"
)

// BookkeepingColumns returns the columns every data collection carries
// regardless of its field list.
func BookkeepingColumns() []string {
	return []string{
		FieldID,
		FieldTrashed,
		FieldTrashedAt,
		FieldCreatedAt,
		FieldUpdatedAt,
	}
}

// IsBookkeepingColumn checks if a column name is reserved for bookkeeping
func IsBookkeepingColumn(name string) bool {
	for _, c := range BookkeepingColumns() {
		if c == name {
			return true
		}
	}
	return false
}

// Sort directions
const (
	SortASC  = "ASC"
	SortDESC = "DESC"
)
