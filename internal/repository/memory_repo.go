package repository

import (
	"sort"
	"sync"
	"time"

	"github.com/cloudshop/uisuite/internal/models"
)

// MemoryRecordRepository keeps records for the lifetime of the process.
// It is used when no ledger database is configured.
type MemoryRecordRepository struct {
	mu      sync.Mutex
	records map[string]models.Record
}

// NewMemoryRecordRepository returns an empty in-memory repository
func NewMemoryRecordRepository() *MemoryRecordRepository {
	return &MemoryRecordRepository{records: map[string]models.Record{}}
}

// CreateRecord stores a copy of record
func (m *MemoryRecordRepository) CreateRecord(record *models.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now
	m.records[record.ID] = *record
	return nil
}

// GetRecord returns a copy of the record with id
func (m *MemoryRecordRepository) GetRecord(id string) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return &record, nil
}

// UpdateRecord stores the name and status of an existing record
func (m *MemoryRecordRepository) UpdateRecord(record *models.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.records[record.ID]
	if !ok {
		return models.ErrRecordNotFound
	}
	stored.Name = record.Name
	stored.Status = record.Status
	stored.UpdatedAt = time.Now()
	record.UpdatedAt = stored.UpdatedAt
	m.records[record.ID] = stored
	return nil
}

// ListOutstanding returns records not yet trashed, oldest first.
// An empty runID lists every run.
func (m *MemoryRecordRepository) ListOutstanding(runID string) ([]*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var records []*models.Record
	for _, r := range m.records {
		if !r.IsOutstanding() || (runID != "" && r.RunID != runID) {
			continue
		}
		record := r
		records = append(records, &record)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].Name < records[j].Name
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}
