package constants

// FieldType represents the semantic type of a user-defined field
type FieldType string

const (
	FieldTypeTextShort    FieldType = "TEXT_SHORT"
	FieldTypeTextLong     FieldType = "TEXT_LONG"
	FieldTypeDropdown     FieldType = "DROPDOWN"
	FieldTypeDate         FieldType = "DATE"
	FieldTypeRelationship FieldType = "RELATIONSHIP"
	FieldTypeFile         FieldType = "FILE"
	FieldTypeFieldGroup   FieldType = "FIELD_GROUP"
	FieldTypeReaction     FieldType = "REACTION"
	FieldTypeEvaluation   FieldType = "EVALUATION"
	FieldTypeCategory     FieldType = "CATEGORY"
)

// GetAllFieldTypes returns all valid field types as strings
func GetAllFieldTypes() []string {
	return []string{
		string(FieldTypeTextShort),
		string(FieldTypeTextLong),
		string(FieldTypeDropdown),
		string(FieldTypeDate),
		string(FieldTypeRelationship),
		string(FieldTypeFile),
		string(FieldTypeFieldGroup),
		string(FieldTypeReaction),
		string(FieldTypeEvaluation),
		string(FieldTypeCategory),
	}
}

// IsValidFieldType checks a field type string against the known set
func IsValidFieldType(t string) bool {
	for _, v := range GetAllFieldTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// TableType distinguishes row-bearing tables from embedded field groups
type TableType string

const (
	TableTypeTable      TableType = "TABLE"
	TableTypeFieldGroup TableType = "FIELD_GROUP"
)

// Visibility controls anonymous/authenticated access breadth on a table
type Visibility string

const (
	VisibilityPublic     Visibility = "PUBLIC"
	VisibilityOpen       Visibility = "OPEN"
	VisibilityRestricted Visibility = "RESTRICTED"
	VisibilityPrivate    Visibility = "PRIVATE"
	VisibilityForm       Visibility = "FORM"
)

// Collaboration distinguishes open vs restricted contribution
type Collaboration string

const (
	CollaborationOpen       Collaboration = "OPEN"
	CollaborationRestricted Collaboration = "RESTRICTED"
)

// UserRole represents the global role of a principal
type UserRole string

const (
	RoleMaster        UserRole = "MASTER"
	RoleAdministrator UserRole = "ADMINISTRATOR"
	RoleCommon        UserRole = "COMMON"
)

// UserStatus represents account status, re-checked on every decision
type UserStatus string

const (
	StatusActive   UserStatus = "ACTIVE"
	StatusInactive UserStatus = "INACTIVE"
)

// MenuType represents the kind of a menu entry
type MenuType string

const (
	MenuTypeLink      MenuType = "LINK"
	MenuTypeTable     MenuType = "TABLE"
	MenuTypeSeparator MenuType = "SEPARATOR"
)
