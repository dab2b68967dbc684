// mint_token prints a signed JWT for an existing user, for driving the API
// from curl or e2e scripts without going through the login endpoint.
//
// Usage: mint_token <user_id>
package main

import (
	"fmt"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"github.com/gridbase/backend/internal/infrastructure/database"
	"github.com/gridbase/backend/pkg/auth"
	"github.com/gridbase/backend/pkg/constants"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: mint_token <user_id>")
	}
	userID := os.Args[1]

	_ = godotenv.Load()

	db, err := database.GetInstance()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var email string
	var role constants.UserRole
	query := fmt.Sprintf("SELECT email, role FROM %s WHERE id = ? LIMIT 1", constants.TableUser)
	if err := db.QueryRow(query, userID).Scan(&email, &role); err != nil {
		log.Fatalf("Failed to find user %s: %v", userID, err)
	}

	token, err := auth.GenerateToken(userID, role)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	log.Printf("✅ Minted token for %s (%s)", email, role)
	fmt.Print(token)
}
