// Command admin manages administrator accounts from the command line.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cfischer83/inkwell/internal/config"
	"github.com/cfischer83/inkwell/internal/database"
	"github.com/cfischer83/inkwell/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  admin create <email> <password>   - Create a superuser admin account")
	fmt.Println("  admin promote <user_id>           - Grant a user the admin role")
	fmt.Println("  admin demote <user_id>            - Revoke the admin role")
	fmt.Println("  admin list-admins                 - List all admin accounts")
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "create":
		if len(os.Args) < 4 {
			usage()
		}
		createAdmin(db, os.Args[2], os.Args[3])

	case "promote":
		if len(os.Args) < 3 {
			usage()
		}
		setRole(db, os.Args[2], models.RoleAdmin)

	case "demote":
		if len(os.Args) < 3 {
			usage()
		}
		setRole(db, os.Args[2], models.RoleEditor)

	case "list-admins":
		listAdmins(db)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
	}
}

func createAdmin(db *gorm.DB, email, password string) {
	email = strings.TrimSpace(strings.ToLower(email))

	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		fmt.Printf("A user with email %s already exists (ID: %d)\n", email, existing.ID)
		os.Exit(1)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Email:       email,
		Password:    string(hashedPassword),
		Role:        models.RoleAdmin,
		IsSuperuser: true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Created superuser admin %s (ID: %d)\n", user.Email, user.ID)
}

func setRole(db *gorm.DB, userID string, role models.Role) {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User with ID %s not found\n", userID)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}

	if user.Role == role {
		fmt.Printf("User %s (ID: %d) already has role %s\n", user.Email, user.ID, role)
		return
	}

	user.Role = role
	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}

	fmt.Printf("User %s (ID: %d) is now %s\n", user.Email, user.ID, role)
}

func listAdmins(db *gorm.DB) {
	var admins []models.User
	if err := db.Where("role = ? OR is_superuser = ?", models.RoleAdmin, true).Find(&admins).Error; err != nil {
		log.Fatalf("Failed to fetch admins: %v", err)
	}

	if len(admins) == 0 {
		fmt.Println("No admins found")
		return
	}

	fmt.Println("Current admins:")
	for _, admin := range admins {
		super := ""
		if admin.IsSuperuser {
			super = " (superuser)"
		}
		fmt.Printf("  ID: %d | %s | %s%s\n", admin.ID, admin.Email, admin.Role, super)
	}
}
