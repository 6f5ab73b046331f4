package database

import (
	"database/sql"
	"fmt"
	"log"
)

// RecordsSchema creates the ledger of products the suite left in CloudShop accounts
const RecordsSchema = `
	CREATE TABLE IF NOT EXISTS records (
		id UUID PRIMARY KEY,
		run_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		barcode VARCHAR(64),
		status VARCHAR(20) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_records_run_id ON records(run_id);
	CREATE INDEX IF NOT EXISTS idx_records_status ON records(status);
	`

// RunMigrations creates the ledger tables on the shared connection
func RunMigrations() error {
	if DB == nil {
		return fmt.Errorf("database connection not initialized")
	}
	if err := Migrate(DB); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// Migrate creates the ledger tables on db
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(RecordsSchema); err != nil {
		return fmt.Errorf("failed to create records table: %w", err)
	}
	return nil
}
