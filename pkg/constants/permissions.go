package constants

// TableAction identifies one permission-gated table operation. The slugs match
// the permission records assigned to user groups.
type TableAction string

const (
	ActionViewTable    TableAction = "VIEW_TABLE"
	ActionViewField    TableAction = "VIEW_FIELD"
	ActionViewRow      TableAction = "VIEW_ROW"
	ActionCreateTable  TableAction = "CREATE_TABLE"
	ActionCreateField  TableAction = "CREATE_FIELD"
	ActionCreateRow    TableAction = "CREATE_ROW"
	ActionUpdateTable  TableAction = "UPDATE_TABLE"
	ActionUpdateField  TableAction = "UPDATE_FIELD"
	ActionUpdateRow    TableAction = "UPDATE_ROW"
	ActionRemoveTable  TableAction = "REMOVE_TABLE"
	ActionRemoveField  TableAction = "REMOVE_FIELD"
	ActionRemoveRow    TableAction = "REMOVE_ROW"
	ActionRestoreTable TableAction = "RESTORE_TABLE"
)

// AllTableActions returns every action slug seeded as a permission record
func AllTableActions() []TableAction {
	return []TableAction{
		ActionViewTable, ActionViewField, ActionViewRow,
		ActionCreateTable, ActionCreateField, ActionCreateRow,
		ActionUpdateTable, ActionUpdateField, ActionUpdateRow,
		ActionRemoveTable, ActionRemoveField, ActionRemoveRow,
		ActionRestoreTable,
	}
}

// ViewActions is the set of read-only actions eligible for the anonymous
// short-circuit on PUBLIC tables.
var ViewActions = map[TableAction]bool{
	ActionViewTable: true,
	ActionViewField: true,
	ActionViewRow:   true,
}

// OwnerOnlyActions is the set of actions reserved for the table owner and its
// administrators regardless of group permissions or visibility.
var OwnerOnlyActions = map[TableAction]bool{
	ActionCreateField:  true,
	ActionUpdateField:  true,
	ActionRemoveField:  true,
	ActionUpdateTable:  true,
	ActionRemoveTable:  true,
	ActionRestoreTable: true,
	ActionUpdateRow:    true,
	ActionRemoveRow:    true,
}

// TrashedLookupActions is the set of actions whose table lookup must include
// trashed tables.
var TrashedLookupActions = map[TableAction]bool{
	ActionRestoreTable: true,
}

// RequiresTable reports whether an action operates on an existing table
func (a TableAction) RequiresTable() bool {
	return a != ActionCreateTable
}
