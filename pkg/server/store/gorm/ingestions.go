package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/server/store"
)

// Ensure IngestionsStore implements store.IngestionsStore
var _ store.IngestionsStore = (*IngestionsStore)(nil)

// IngestionsStore implements store.IngestionsStore using GORM
type IngestionsStore struct {
	db *gorm.DB
}

// NewIngestionsStore creates a new IngestionsStore
func NewIngestionsStore(db *gorm.DB) *IngestionsStore {
	return &IngestionsStore{db: db}
}

// CreateIngestion inserts rec and fills in its ID.
func (s *IngestionsStore) CreateIngestion(rec *model.Ingestion) error {
	return s.db.Raw(
		`INSERT INTO ingestions (document_id, action, status, started_at) VALUES (?, ?, ?, ?) RETURNING id`,
		rec.DocumentID, rec.Action, string(rec.Status), rec.StartedAt,
	).Row().Scan(&rec.ID)
}

// UpdateIngestion persists the status, finished-at and error of rec.
func (s *IngestionsStore) UpdateIngestion(rec *model.Ingestion) error {
	tx := s.db.Exec(
		`UPDATE ingestions SET status = ?, finished_at = ?, error = ? WHERE id = ?`,
		string(rec.Status), rec.FinishedAt, rec.Error, rec.ID,
	)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrIngestionNotFound
	}
	return nil
}

// FindIngestion returns an ingestion record by id.
func (s *IngestionsStore) FindIngestion(id uint) (*model.Ingestion, error) {
	var rec model.Ingestion
	if err := s.db.Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrIngestionNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ListIngestions returns the records of a document, newest first.
func (s *IngestionsStore) ListIngestions(documentID uint) ([]model.Ingestion, error) {
	var recs []model.Ingestion
	err := s.db.Where("document_id = ?", documentID).
		Order("started_at DESC").
		Order("id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
