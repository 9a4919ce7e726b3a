// Command migrate applies the database schema and optionally seeds a
// line so a fresh deployment has something to log into.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	"wachat/internal/migrations"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	dbPath := flag.String("db", "./wachat.db", "Path to the database file")
	seedUID := flag.String("seed-uid", "", "Seed a line with this uid (optional)")
	seedNumber := flag.String("seed-number", "", "Phone number for the seeded line")
	seedTitle := flag.String("seed-title", "", "Title for the seeded line")
	seedKey := flag.String("seed-key", "", "Provider API key for the seeded line")
	flag.Parse()

	db, err := sql.Open("sqlite3", *dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	schema, err := migrations.GetInitialSchema()
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}

	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	fmt.Println("Schema applied")

	if *seedUID == "" {
		return
	}
	if *seedNumber == "" || *seedKey == "" {
		log.Fatal("Seeding requires -seed-number and -seed-key")
	}

	if _, err := db.Exec(
		`INSERT OR REPLACE INTO instances (uid, number, title, status) VALUES (?, ?, ?, 'active')`,
		*seedUID, *seedNumber, *seedTitle,
	); err != nil {
		log.Fatalf("Failed to seed instance: %v", err)
	}
	if _, err := db.Exec(
		`INSERT OR REPLACE INTO users (uid, api_key) VALUES (?, ?)`,
		*seedUID, *seedKey,
	); err != nil {
		log.Fatalf("Failed to seed user: %v", err)
	}

	fmt.Printf("Seeded line %s (%s)\n", *seedUID, *seedNumber)
}
