package main

import (
	"asset-service/internal/config"
	"asset-service/internal/repository/postgres"
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"
)

const schema = `
CREATE TABLE IF NOT EXISTS assets (
	id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	owner_id    TEXT NOT NULL CHECK (owner_id <> ''),
	name        TEXT NOT NULL CHECK (char_length(name) BETWEEN 1 AND 255),
	description TEXT CHECK (char_length(description) <= 5000),
	category    TEXT NOT NULL CHECK (category IN ('image', 'document', 'video', 'other')),
	image_key   TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_assets_owner_created ON assets (owner_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_assets_owner_category ON assets (owner_id, category);

CREATE TABLE IF NOT EXISTS asset_activity (
	id         UUID PRIMARY KEY,
	actor_id   TEXT NOT NULL,
	asset_id   UUID,
	action     TEXT NOT NULL,
	status     TEXT NOT NULL,
	request_id TEXT,
	metadata   JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_asset_activity_asset ON asset_activity (asset_id, created_at DESC);
`

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Println("=== Setting Up Database ===")
	fmt.Println()

	db, err := postgres.New(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	fmt.Println("Connected to database")
	fmt.Println()

	fmt.Println("Executing schema...")
	if _, err := db.Pool.Exec(context.Background(), schema); err != nil {
		log.Fatalf("Failed to execute schema: %v", err)
	}

	fmt.Println("Schema executed successfully")
	fmt.Println()

	fmt.Println("=== Verifying Tables ===")
	tables := []string{"assets", "asset_activity"}

	for _, table := range tables {
		var exists bool
		query := `SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)`
		if err := db.Pool.QueryRow(context.Background(), query, table).Scan(&exists); err != nil {
			fmt.Printf("Error checking table '%s': %v\n", table, err)
			continue
		}

		if exists {
			fmt.Printf("Table '%s' created\n", table)
		} else {
			fmt.Printf("Table '%s' NOT created\n", table)
		}
	}

	fmt.Println()
	fmt.Println("=== Database Setup Complete ===")
}
