package main

import (
	"log"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ftth-viability-be/internal/model"
	"ftth-viability-be/pkg/database"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding staff accounts...")
	seedUsers(db)

	color.Cyan("Seeding notification types...")
	SeedNotificationTypes(db)

	color.Green("✅ Seeding completed.")
}

// seedUsers provisions the initial accounts. Passwords come from env so
// nothing sensitive lands in the repo; accounts are skipped when their
// password variable is unset.
func seedUsers(db *gorm.DB) {
	accounts := []struct {
		Email    string
		FullName string
		Role     string
		EnvPass  string
	}{
		{Email: "admin@portal.local", FullName: "Portal Admin", Role: "admin", EnvPass: "SEED_ADMIN_PASSWORD"},
		{Email: "auditor@portal.local", FullName: "Field Auditor", Role: "auditor", EnvPass: "SEED_AUDITOR_PASSWORD"},
		{Email: "requester@portal.local", FullName: "Field Requester", Role: "requester", EnvPass: "SEED_REQUESTER_PASSWORD"},
	}

	for _, a := range accounts {
		password := os.Getenv(a.EnvPass)
		if password == "" {
			color.Yellow("Skipping %s: %s not set", a.Email, a.EnvPass)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Error hashing password for %s: %v", a.Email, err)
			continue
		}
		hashStr := string(hash)

		user := model.User{
			Id:           uuid.New(),
			Email:        a.Email,
			PasswordHash: &hashStr,
			FullName:     a.FullName,
			Role:         a.Role,
			Status:       "active",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}

		if err := db.Where("email = ?", a.Email).FirstOrCreate(&user).Error; err != nil {
			log.Printf("Error seeding user %s: %v", a.Email, err)
			continue
		}
		color.Green("Seeded %s (%s)", a.Email, a.Role)
	}
}
