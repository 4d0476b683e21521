// Seed inserts an admin identity. No registration flow creates admins, so
// this tool is how admin accounts come to exist.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/harmonia-music/account-service/config"
	"github.com/harmonia-music/account-service/internal/domain/entity"
	"github.com/harmonia-music/account-service/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	email := flag.String("email", "admin@harmonia.local", "admin email")
	name := flag.String("name", "Administrator", "admin display name")
	password := flag.String("password", "", "admin password (generated when empty)")
	flag.Parse()

	pw := *password
	if pw == "" {
		var err error
		pw, err = helpers.RandomPassword()
		if err != nil {
			log.Fatalf("failed to generate password: %v", err)
		}
	}

	hash, err := helpers.HashPassword(pw)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	res, err := db.Exec(`
		INSERT INTO identities (email, password_hash, name, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO NOTHING
	`, *email, hash, *name, entity.RoleAdmin)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		fmt.Printf("admin %s already exists, nothing to do\n", *email)
		return
	}
	fmt.Printf("seeded admin: email=%s name=%s password=%s\n", *email, *name, pw)
}
