package services

import (
	"fmt"

	"github.com/cloudshop/uisuite/internal/models"
)

// RecordRepository defines the interface for ledger persistence
type RecordRepository interface {
	CreateRecord(record *models.Record) error
	GetRecord(id string) (*models.Record, error)
	UpdateRecord(record *models.Record) error
	ListOutstanding(runID string) ([]*models.Record, error)
}

// LedgerService remembers which products the suite left in the account
type LedgerService interface {
	Track(runID string, product models.Product) (*models.Record, error)
	Rename(oldName, newName string) error
	Trash(name string) error
	Outstanding(runID string) ([]*models.Record, error)
}

// LedgerServiceImpl implements LedgerService
type LedgerServiceImpl struct {
	recordRepo RecordRepository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(recordRepo RecordRepository) LedgerService {
	return &LedgerServiceImpl{
		recordRepo: recordRepo,
	}
}

// Track records a product that was just saved in the catalog
func (s *LedgerServiceImpl) Track(runID string, product models.Product) (*models.Record, error) {
	record, err := models.NewRecord(runID, product)
	if err != nil {
		return nil, fmt.Errorf("invalid record: %w", err)
	}

	if err := s.recordRepo.CreateRecord(record); err != nil {
		return nil, fmt.Errorf("failed to track product: %w", err)
	}

	return record, nil
}

// Rename moves every outstanding record named oldName to newName.
// Products the suite did not create are not in the ledger and are ignored.
func (s *LedgerServiceImpl) Rename(oldName, newName string) error {
	return s.each(oldName, func(record *models.Record) error {
		return record.Rename(newName)
	})
}

// Trash marks every outstanding record named name as deleted
func (s *LedgerServiceImpl) Trash(name string) error {
	return s.each(name, func(record *models.Record) error {
		return record.Trash()
	})
}

// Outstanding lists the products of runID still in the catalog; empty runID means all runs
func (s *LedgerServiceImpl) Outstanding(runID string) ([]*models.Record, error) {
	records, err := s.recordRepo.ListOutstanding(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding records: %w", err)
	}
	return records, nil
}

func (s *LedgerServiceImpl) each(name string, transition func(*models.Record) error) error {
	records, err := s.recordRepo.ListOutstanding("")
	if err != nil {
		return fmt.Errorf("failed to list outstanding records: %w", err)
	}

	for _, record := range records {
		if record.Name != name {
			continue
		}
		if err := transition(record); err != nil {
			return err
		}
		if err := s.recordRepo.UpdateRecord(record); err != nil {
			return fmt.Errorf("failed to update record: %w", err)
		}
	}
	return nil
}
