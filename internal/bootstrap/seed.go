package bootstrap

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gridbase/backend/pkg/auth"
	"github.com/gridbase/backend/pkg/constants"
	"github.com/gridbase/backend/pkg/utils"
)

// SeedPermissions inserts one permission record per table action. Existing
// records are left alone so custom names survive restarts.
func SeedPermissions(db *sql.DB) error {
	query := fmt.Sprintf(
		"INSERT IGNORE INTO %s (%s, %s, %s) VALUES (?, ?, ?)",
		constants.TablePermission,
		constants.FieldID, constants.FieldName, constants.FieldSlug,
	)
	for _, action := range constants.AllTableActions() {
		if _, err := db.Exec(query, utils.GenerateID(), actionName(action), string(action)); err != nil {
			return fmt.Errorf("seeding permission %s: %w", action, err)
		}
	}
	log.Printf("✅ Permission catalog seeded (%d actions)", len(constants.AllTableActions()))
	return nil
}

// actionName renders VIEW_TABLE as "View table" for the permission catalog
func actionName(action constants.TableAction) string {
	s := strings.ToLower(strings.ReplaceAll(string(action), "_", " "))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// SeedMasterUser creates the master account when no user exists yet.
// Credentials come from MASTER_EMAIL / MASTER_PASSWORD.
func SeedMasterUser(db *sql.DB) error {
	var count int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", constants.TableUser)
	if err := db.QueryRow(countQuery).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := os.Getenv("MASTER_EMAIL")
	if email == "" {
		email = "master@localhost"
	}
	password := os.Getenv("MASTER_PASSWORD")
	if password == "" {
		password = "change-me-now"
		log.Println("⚠️ MASTER_PASSWORD not set; using the default, change it immediately")
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s, %s, %s, %s) VALUES (?, ?, ?, ?, ?, ?)",
		constants.TableUser,
		constants.FieldID, constants.FieldName, constants.FieldEmail,
		constants.FieldPassword, constants.FieldRole, constants.FieldStatus,
	)
	_, err = db.Exec(query,
		utils.GenerateID(), "Master", email, hashed,
		string(constants.RoleMaster), string(constants.StatusActive),
	)
	if err != nil {
		return fmt.Errorf("seeding master user: %w", err)
	}
	log.Printf("✅ Master account created (%s)", email)
	return nil
}
