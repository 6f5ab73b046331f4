package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/cloudshop/uisuite/internal/models"
	"github.com/google/uuid"
)

type recordStore interface {
	CreateRecord(record *models.Record) error
	GetRecord(id string) (*models.Record, error)
	UpdateRecord(record *models.Record) error
	ListOutstanding(runID string) ([]*models.Record, error)
}

func newRecord(t *testing.T, runID, name string) *models.Record {
	t.Helper()
	record, err := models.NewRecord(runID, models.Product{Name: name, Barcode: "4600000000017"})
	if err != nil {
		t.Fatalf("Failed to build record: %v", err)
	}
	return record
}

// testRecordStore runs the behaviour both repositories share
func testRecordStore(t *testing.T, newStore func(t *testing.T) recordStore) {
	t.Run("create and get", func(t *testing.T) {
		repo := newStore(t)
		record := newRecord(t, "run-1", "Авто Товар 101010")

		if err := repo.CreateRecord(record); err != nil {
			t.Fatalf("CreateRecord() error = %v", err)
		}
		if record.CreatedAt.IsZero() || record.UpdatedAt.IsZero() {
			t.Error("timestamps should be set")
		}

		retrieved, err := repo.GetRecord(record.ID)
		if err != nil {
			t.Fatalf("GetRecord() error = %v", err)
		}
		if retrieved.Name != record.Name {
			t.Errorf("Name mismatch: got %v, want %v", retrieved.Name, record.Name)
		}
		if retrieved.Barcode != record.Barcode {
			t.Errorf("Barcode mismatch: got %v, want %v", retrieved.Barcode, record.Barcode)
		}
		if retrieved.Status != models.RecordStatusCreated {
			t.Errorf("Status mismatch: got %v, want %v", retrieved.Status, models.RecordStatusCreated)
		}
	})

	t.Run("get unknown", func(t *testing.T) {
		repo := newStore(t)

		_, err := repo.GetRecord(uuid.New().String())

		if !errors.Is(err, models.ErrRecordNotFound) {
			t.Errorf("Expected ErrRecordNotFound, got %v", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		repo := newStore(t)
		record := newRecord(t, "run-1", "Авто Товар 101010")
		if err := repo.CreateRecord(record); err != nil {
			t.Fatalf("CreateRecord() error = %v", err)
		}

		time.Sleep(10 * time.Millisecond)
		if err := record.Rename("Авто Товар 101010 (EDITED)"); err != nil {
			t.Fatalf("Rename() error = %v", err)
		}
		if err := repo.UpdateRecord(record); err != nil {
			t.Fatalf("UpdateRecord() error = %v", err)
		}

		retrieved, err := repo.GetRecord(record.ID)
		if err != nil {
			t.Fatalf("GetRecord() error = %v", err)
		}
		if retrieved.Name != "Авто Товар 101010 (EDITED)" {
			t.Errorf("Name mismatch: got %v", retrieved.Name)
		}
		if retrieved.Status != models.RecordStatusRenamed {
			t.Errorf("Status mismatch: got %v, want %v", retrieved.Status, models.RecordStatusRenamed)
		}
		if !retrieved.UpdatedAt.After(retrieved.CreatedAt) {
			t.Error("UpdatedAt should be after CreatedAt")
		}
	})

	t.Run("update unknown", func(t *testing.T) {
		repo := newStore(t)
		record := newRecord(t, "run-1", "Никогда не сохранён")

		if err := repo.UpdateRecord(record); !errors.Is(err, models.ErrRecordNotFound) {
			t.Errorf("Expected ErrRecordNotFound, got %v", err)
		}
	})

	t.Run("list outstanding", func(t *testing.T) {
		repo := newStore(t)
		first := newRecord(t, "run-1", "Первый")
		second := newRecord(t, "run-2", "Второй")
		trashed := newRecord(t, "run-1", "Удалённый")
		for _, r := range []*models.Record{first, second, trashed} {
			if err := repo.CreateRecord(r); err != nil {
				t.Fatalf("CreateRecord() error = %v", err)
			}
			time.Sleep(2 * time.Millisecond)
		}
		if err := trashed.Trash(); err != nil {
			t.Fatalf("Trash() error = %v", err)
		}
		if err := repo.UpdateRecord(trashed); err != nil {
			t.Fatalf("UpdateRecord() error = %v", err)
		}

		tests := []struct {
			runID string
			want  []string
		}{
			{runID: "", want: []string{"Первый", "Второй"}},
			{runID: "run-1", want: []string{"Первый"}},
			{runID: "run-3", want: nil},
		}
		for _, tt := range tests {
			records, err := repo.ListOutstanding(tt.runID)
			if err != nil {
				t.Fatalf("ListOutstanding(%q) error = %v", tt.runID, err)
			}
			var names []string
			for _, r := range records {
				names = append(names, r.Name)
			}
			if len(names) != len(tt.want) {
				t.Fatalf("ListOutstanding(%q) = %v, want %v", tt.runID, names, tt.want)
			}
			for i := range names {
				if names[i] != tt.want[i] {
					t.Errorf("ListOutstanding(%q)[%d] = %v, want %v", tt.runID, i, names[i], tt.want[i])
				}
			}
		}
	})
}
