package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/danisatya/asset-management-api/config"
	"github.com/danisatya/asset-management-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@example.com"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, is_active, is_superuser, is_verified)
		VALUES ($1, $2, TRUE, TRUE, TRUE)
		ON CONFLICT (email) DO UPDATE SET password_hash=EXCLUDED.password_hash
		RETURNING id
	`, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	assets := []struct {
		Name         string
		AssetType    string
		SerialNumber string
		Status       string
	}{
		{"MacBook Pro 16", "laptop", "MBP16-0001", "active"},
		{"Dell UltraSharp 27", "monitor", "DU27-0001", "active"},
		{"iPhone 15", "phone", "IP15-0001", "in_repair"},
	}
	for _, a := range assets {
		var aid string
		err := db.QueryRow(`
			INSERT INTO assets (name, asset_type, serial_number, status)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (serial_number) DO UPDATE SET name=EXCLUDED.name
			RETURNING id
		`, a.Name, a.AssetType, a.SerialNumber, a.Status).Scan(&aid)
		if err != nil {
			log.Fatalf("failed to seed asset %s: %v", a.SerialNumber, err)
		}
		fmt.Printf("seeded asset: id=%s serial=%s\n", aid, a.SerialNumber)
	}
}
