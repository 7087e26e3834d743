// Command create_admin adds an admin account to the credentials file.
// Intended for bootstrap and recovery; the server also seeds a default admin
// on first start when none exists.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/nomadic/leadpress"
	"github.com/nomadic/leadpress/credentials"
)

func main() {
	_ = godotenv.Load()

	dataDir := flag.String("data", leadpress.EnvOr("DATA_DIR", "data"), "data directory holding admin.json")
	email := flag.String("email", leadpress.EnvOr("ADMIN_EMAIL", ""), "admin email")
	password := flag.String("password", leadpress.EnvOr("ADMIN_PASSWORD", ""), "admin password")
	name := flag.String("name", "Admin", "admin display name")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("email and password are required (flags or ADMIN_EMAIL/ADMIN_PASSWORD)")
	}

	store := credentials.NewStore(filepath.Join(*dataDir, "admin.json"))
	admin, err := store.Create(*email, *password, *name)
	if err != nil {
		if errors.Is(err, credentials.ErrExists) {
			log.Fatalf("admin %s already exists", *email)
		}
		log.Fatalf("create admin: %v", err)
	}

	fmt.Println("Admin created successfully!")
	fmt.Printf("Email: %s\n", admin.Email)
	fmt.Println("Please change the password after first login!")
}
