package schema

import (
	"fmt"
	"strings"

	"github.com/gridbase/backend/pkg/constants"
)

// SQL column types used when materializing a synthesized schema
const (
	sqlTypeVarchar255 = "VARCHAR(255)"
	sqlTypeVarchar36  = "VARCHAR(36)"
	sqlTypeText       = "TEXT"
	sqlTypeDateTime   = "DATETIME"
	sqlTypeJSON       = "JSON"
	sqlTypeBool       = "TINYINT(1)"
)

// SQLType maps a column kind to its MySQL storage type. List and group kinds
// are stored as JSON documents.
func SQLType(kind ColumnKind) string {
	switch kind {
	case KindString:
		return sqlTypeVarchar255
	case KindText:
		return sqlTypeText
	case KindDate:
		return sqlTypeDateTime
	case KindReference:
		return sqlTypeVarchar36
	case KindReferenceList, KindStringList, KindGroup:
		return sqlTypeJSON
	}
	return sqlTypeVarchar255
}

// ColumnDDL renders the DDL fragment for one synthesized column
func ColumnDDL(col Column) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("`%s` %s", col.Slug, SQLType(col.Kind)))
	if col.Required {
		sb.WriteString(" NOT NULL")
	}
	return sb.String()
}

// TableDDL renders the CREATE TABLE statement for a data collection:
// bookkeeping columns first, then one column per synthesized field.
func TableDDL(tableName string, def Definition) string {
	parts := []string{
		fmt.Sprintf("`%s` %s PRIMARY KEY", constants.FieldID, sqlTypeVarchar36),
		fmt.Sprintf("`%s` %s NOT NULL DEFAULT 0", constants.FieldTrashed, sqlTypeBool),
		fmt.Sprintf("`%s` %s NULL", constants.FieldTrashedAt, sqlTypeDateTime),
		fmt.Sprintf("`%s` %s NOT NULL DEFAULT CURRENT_TIMESTAMP", constants.FieldCreatedAt, sqlTypeDateTime),
		fmt.Sprintf("`%s` %s NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP", constants.FieldUpdatedAt, sqlTypeDateTime),
	}
	for _, col := range def.Columns {
		parts = append(parts, ColumnDDL(col))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` (\n  %s\n)", tableName, strings.Join(parts, ",\n  "))
}

// AddColumnDDL renders the ALTER TABLE statement adding one column
func AddColumnDDL(tableName string, col Column) string {
	return fmt.Sprintf("ALTER TABLE `%s` ADD COLUMN %s", tableName, ColumnDDL(col))
}

// DropTableDDL renders the DROP TABLE statement for a data collection
func DropTableDDL(tableName string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS `%s`", tableName)
}
