package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cloudshop/uisuite/internal/database"
	"github.com/cloudshop/uisuite/internal/models"
)

// RecordRepository handles database operations for ledger records
type RecordRepository struct {
	db *sql.DB
}

// NewRecordRepository creates a new record repository on the shared connection
func NewRecordRepository() *RecordRepository {
	return &RecordRepository{
		db: database.DB,
	}
}

// NewRecordRepositoryWithDB creates a new record repository with a specific database connection
func NewRecordRepositoryWithDB(db *sql.DB) *RecordRepository {
	return &RecordRepository{
		db: db,
	}
}

// CreateRecord inserts a new record
func (r *RecordRepository) CreateRecord(record *models.Record) error {
	query := `
		INSERT INTO records (id, run_id, name, barcode, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now()
	_, err := r.db.Exec(query,
		record.ID,
		record.RunID,
		record.Name,
		nullString(record.Barcode),
		record.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	record.CreatedAt = now
	record.UpdatedAt = now

	return nil
}

// GetRecord retrieves a record by its id
func (r *RecordRepository) GetRecord(id string) (*models.Record, error) {
	query := `
		SELECT id, run_id, name, COALESCE(barcode, ''), status, created_at, updated_at
		FROM records
		WHERE id = $1
	`

	record, err := scanRecord(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return record, nil
}

// UpdateRecord stores the name and status of an existing record
func (r *RecordRepository) UpdateRecord(record *models.Record) error {
	query := `
		UPDATE records
		SET name = $1, status = $2, updated_at = $3
		WHERE id = $4
	`

	now := time.Now()
	result, err := r.db.Exec(query, record.Name, record.Status, now, record.ID)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return models.ErrRecordNotFound
	}

	record.UpdatedAt = now
	return nil
}

// ListOutstanding returns records not yet trashed, oldest first.
// An empty runID lists every run.
func (r *RecordRepository) ListOutstanding(runID string) ([]*models.Record, error) {
	query := `
		SELECT id, run_id, name, COALESCE(barcode, ''), status, created_at, updated_at
		FROM records
		WHERE status <> $1 AND ($2 = '' OR run_id = $2)
		ORDER BY created_at, name
	`

	rows, err := r.db.Query(query, models.RecordStatusTrashed, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*models.Record, error) {
	record := &models.Record{}
	err := row.Scan(
		&record.ID,
		&record.RunID,
		&record.Name,
		&record.Barcode,
		&record.Status,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
