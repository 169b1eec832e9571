// Command promote changes an existing user's role, for granting doctor,
// pharmacist or admin access after self-registration.
package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/Adithyanbm/medlens-ai1/db"
	"github.com/Adithyanbm/medlens-ai1/internal/models"
)

func main() {
	flag.Parse()

	if flag.NArg() != 2 {
		log.Fatal("usage: promote <email> <role>  (roles: patient, doctor, pharmacist, admin)")
	}

	email := strings.ToLower(strings.TrimSpace(flag.Arg(0)))
	role := flag.Arg(1)

	if !models.ValidRole(role) {
		log.Fatalf("Invalid role %q. Allowed: patient, doctor, pharmacist, admin", role)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	database, err := db.Connect(dsn)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var user models.User

	if err := database.Where("email = ?", email).First(&user).Error; err != nil {
		log.Fatalf("User with email %s not found: %v", email, err)
	}

	if err := database.Model(&user).Update("role", role).Error; err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}

	log.Printf("Promoted %s (%s) to %s", user.Name, email, role)
}
