package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecordStatus represents where a product created by the suite currently is
type RecordStatus string

// Record statuses
const (
	RecordStatusCreated RecordStatus = "created"
	RecordStatusRenamed RecordStatus = "renamed"
	RecordStatusTrashed RecordStatus = "trashed"
)

// Record remembers one product the suite created in a CloudShop account.
// Runs never clean up after themselves, so records are how leftovers are found.
type Record struct {
	ID        string
	RunID     string
	Name      string
	Barcode   string
	Status    RecordStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Domain errors
var (
	ErrInvalidRunID            = errors.New("run id cannot be empty")
	ErrInvalidStatusTransition = errors.New("invalid record status transition")
	ErrRecordNotFound          = errors.New("record not found")
)

// NewRecord creates a record for a product that was just submitted
func NewRecord(runID string, product Product) (*Record, error) {
	if runID == "" {
		return nil, ErrInvalidRunID
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Record{
		ID:        uuid.New().String(),
		RunID:     runID,
		Name:      product.Name,
		Barcode:   product.Barcode,
		Status:    RecordStatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Rename records that the product was saved under a new name
func (r *Record) Rename(name string) error {
	if r.Status == RecordStatusTrashed {
		return fmt.Errorf("%w: cannot rename a trashed product", ErrInvalidStatusTransition)
	}
	if name == "" {
		return ErrNameRequired
	}

	r.Name = name
	r.Status = RecordStatusRenamed
	r.UpdatedAt = time.Now()
	return nil
}

// Trash records that the product was deleted through the UI
func (r *Record) Trash() error {
	if r.Status == RecordStatusTrashed {
		return fmt.Errorf("%w: product is already trashed", ErrInvalidStatusTransition)
	}

	r.Status = RecordStatusTrashed
	r.UpdatedAt = time.Now()
	return nil
}

// IsOutstanding returns true while the product still sits in the live catalog
func (r *Record) IsOutstanding() bool {
	return r.Status != RecordStatusTrashed
}
