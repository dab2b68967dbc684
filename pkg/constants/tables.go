package constants

import "strings"

// SystemTablePrefix is the prefix for all system tables
const SystemTablePrefix = "_System_"

// System table names
const (
	TableTable           = "_System_Table"
	TableField           = "_System_Field"
	TableUser            = "_System_User"
	TableGroup           = "_System_Group"
	TablePermission      = "_System_Permission"
	TableGroupPermission = "_System_GroupPermission"
	TableMenu            = "_System_Menu"
	TableFile            = "_System_File"
	TableEvaluation      = "_System_Evaluation"
)

// DataTablePrefix is the prefix for dynamically materialized collections
const DataTablePrefix = "data_"

// DataTableName returns the physical table name backing a user-defined table.
// The mapping is deterministic: one collection per slug.
func DataTableName(slug string) string {
	return DataTablePrefix + strings.ToLower(slug)
}

// IsSystemTable checks if a table name is a system table. The check is
// case-insensitive: slugs are lowercased before reaching it.
func IsSystemTable(tableName string) bool {
	return strings.HasPrefix(strings.ToLower(tableName), strings.ToLower(SystemTablePrefix))
}

// IsDataTable checks if a physical table name backs a user-defined table
func IsDataTable(tableName string) bool {
	return strings.HasPrefix(tableName, DataTablePrefix)
}
