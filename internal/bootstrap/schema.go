// Package bootstrap creates the system tables and seeds the records the
// platform cannot run without: the permission catalog and the master account.
package bootstrap

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gridbase/backend/pkg/constants"
)

// systemTableDDL maps each system table to its CREATE statement. Statements
// are idempotent; startup runs them every time.
var systemTableDDL = map[string]string{
	constants.TableTable: `CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		slug VARCHAR(255) NOT NULL,
		description TEXT NULL,
		logo_ref VARCHAR(36) NULL,
		type VARCHAR(32) NOT NULL DEFAULT 'TABLE',
		configuration JSON NULL,
		methods JSON NULL,
		synthesized_schema JSON NULL,
		trashed TINYINT(1) NOT NULL DEFAULT 0,
		trashed_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_slug (slug),
		KEY idx_trashed (trashed, trashed_at)
	)`,

	constants.TableField: `CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(36) PRIMARY KEY,
		table_id VARCHAR(36) NOT NULL,
		name VARCHAR(255) NOT NULL,
		slug VARCHAR(255) NOT NULL,
		type VARCHAR(32) NOT NULL,
		configuration JSON NULL,
		position INT NOT NULL DEFAULT 0,
		trashed TINYINT(1) NOT NULL DEFAULT 0,
		trashed_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_table (table_id, position),
		KEY idx_trashed (trashed, trashed_at)
	)`,

	constants.TableUser: `CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL DEFAULT 'COMMON',
		status VARCHAR(32) NOT NULL DEFAULT 'ACTIVE',
		group_id VARCHAR(36) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,

	constants.TableGroup: `CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		slug VARCHAR(255) NOT NULL UNIQUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	constants.TablePermission: `CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		slug VARCHAR(64) NOT NULL UNIQUE
	)`,

	constants.TableGroupPermission: `CREATE TABLE IF NOT EXISTS %s (
		group_id VARCHAR(36) NOT NULL,
		permission_id VARCHAR(36) NOT NULL,
		PRIMARY KEY (group_id, permission_id)
	)`,

	constants.TableMenu: `CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		slug VARCHAR(255) NOT NULL,
		type VARCHAR(32) NOT NULL,
		link VARCHAR(1024) NULL,
		table_slug VARCHAR(255) NULL,
		parent_id VARCHAR(36) NULL,
		position INT NOT NULL DEFAULT 0,
		trashed TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_parent (parent_id, position)
	)`,

	constants.TableFile: `CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		mime_type VARCHAR(255) NOT NULL,
		size BIGINT NOT NULL DEFAULT 0,
		storage_key VARCHAR(1024) NOT NULL,
		trashed TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	constants.TableEvaluation: `CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(36) PRIMARY KEY,
		user_id VARCHAR(36) NOT NULL,
		value INT NOT NULL,
		comment TEXT NULL,
		trashed TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// InitializeSchema creates every system table
func InitializeSchema(db *sql.DB) error {
	log.Println("🔧 Initializing system schema...")
	for name, ddl := range systemTableDDL {
		if _, err := db.Exec(fmt.Sprintf(ddl, name)); err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}
	}
	log.Printf("✅ System schema ready (%d tables)", len(systemTableDDL))
	return nil
}
