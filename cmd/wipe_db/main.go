// Command wipe_db drops every table in the configured database, system and
// data tables alike. Development tool, never run against a shared instance.
package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/gridbase/backend/internal/infrastructure/database"
)

func main() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			log.Printf("Loaded .env from %s", p)
			break
		}
	}

	db, err := database.GetInstance()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	log.Println("⚠️  Wiping database...")

	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS = 0"); err != nil {
		log.Fatalf("failed to disable foreign key checks: %v", err)
	}

	rows, err := db.Query("SHOW TABLES")
	if err != nil {
		log.Fatalf("failed to list tables: %v", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var table string
		if err := rows.Scan(&table); err != nil {
			log.Fatalf("failed to scan table: %v", err)
		}
		tables = append(tables, table)
	}

	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS `%s`", table)); err != nil {
			log.Printf("Failed to drop table %s: %v", table, err)
		} else {
			log.Printf("Dropped table: %s", table)
		}
	}

	if _, err := db.Exec("SET FOREIGN_KEY_CHECKS = 1"); err != nil {
		log.Fatalf("failed to enable foreign key checks: %v", err)
	}

	log.Println("✅ Database wiped successfully.")
}
