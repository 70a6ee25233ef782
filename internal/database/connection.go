package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/example/aquascore/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the backing store selected by the configuration. An
// unreachable store is reported but does not fail the call: individual
// operations degrade to their fail-open results until it comes back.
func Connect(cfg *config.Config) (*sqlx.DB, error) {
	if cfg.DBType == "postgres" {
		db, err := sqlx.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %v", err)
		}
		if err := db.Ping(); err != nil {
			log.Printf("Postgres is not reachable yet: %v", err)
		}
		return db, nil
	}

	// Create the data directory for the sqlite file if it doesn't exist
	if dir := filepath.Dir(cfg.DBPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %v", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return db, nil
}
