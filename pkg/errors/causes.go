package errors

// Stable machine-readable cause strings. Frontends branch on these, never on
// messages, so every value here is part of the wire contract.
const (
	// Validation (400)
	CauseInvalidParameters = "INVALID_PARAMETERS"
	CauseInvalidFieldType  = "INVALID_FIELD_TYPE"
	CauseValidationError   = "VALIDATION_ERROR"

	// Not found (404)
	CauseTableNotFound          = "TABLE_NOT_FOUND"
	CauseFieldNotFound          = "FIELD_NOT_FOUND"
	CauseParentCategoryNotFound = "PARENT_CATEGORY_NOT_FOUND"
	CauseUserNotFound           = "USER_NOT_FOUND"
	CauseMenuNotFound           = "MENU_NOT_FOUND"
	CauseRowNotFound            = "ROW_NOT_FOUND"
	CauseTableRequired          = "TABLE_REQUIRED"

	// Authentication (401)
	CauseUserNotAuthenticated = "USER_NOT_AUTHENTICATED"

	// Authorization (403)
	CauseUserNotActive          = "USER_NOT_ACTIVE"
	CauseOwnerOrAdminRequired   = "OWNER_OR_ADMIN_REQUIRED"
	CauseTablePrivate           = "TABLE_PRIVATE"
	CauseRestrictedCreate       = "RESTRICTED_CREATE"
	CauseFormViewRestricted     = "FORM_VIEW_RESTRICTED"
	CausePermissionsNotFound    = "PERMISSIONS_NOT_FOUND"
	CauseInsufficientPermission = "INSUFFICIENT_PERMISSIONS"

	// Conflict (409)
	CauseAlreadyTrashed = "ALREADY_TRASHED"
	CauseSlugTaken      = "SLUG_TAKEN"

	// Internal (500), one per use case boundary
	CauseAddCategoryOptionError = "ADD_CATEGORY_OPTION_ERROR"
	CauseSendFieldToTrashError  = "SEND_FIELD_TO_TRASH_ERROR"
	CauseDeleteTableError       = "DELETE_TABLE_ERROR"
	CauseCreateTableError       = "CREATE_TABLE_ERROR"
	CauseRestoreTableError      = "RESTORE_TABLE_ERROR"
	CauseCreateFieldError       = "CREATE_FIELD_ERROR"
	CauseUpdateFieldError       = "UPDATE_FIELD_ERROR"
	CauseRowOperationError      = "ROW_OPERATION_ERROR"
	CauseMenuOperationError     = "MENU_OPERATION_ERROR"
	CauseAccessCheckError       = "ACCESS_CHECK_ERROR"
)
