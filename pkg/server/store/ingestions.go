package store

import (
	"fmt"

	"github.com/doodlesbykumbi/docvault/pkg/errs"
	"github.com/doodlesbykumbi/docvault/pkg/model"
)

// ErrIngestionNotFound is returned when an ingestion record doesn't exist
var ErrIngestionNotFound = fmt.Errorf("ingestion %w", errs.ErrNotFound)

// IngestionsStore abstracts ingestion record storage
type IngestionsStore interface {
	// CreateIngestion inserts rec and fills in its ID.
	CreateIngestion(rec *model.Ingestion) error

	// UpdateIngestion persists the status, finished-at and error of rec.
	// Returns ErrIngestionNotFound if the record is gone.
	UpdateIngestion(rec *model.Ingestion) error

	// FindIngestion returns an ingestion record by id.
	// Returns ErrIngestionNotFound if there is none.
	FindIngestion(id uint) (*model.Ingestion, error)

	// ListIngestions returns the records of a document, newest first.
	ListIngestions(documentID uint) ([]model.Ingestion, error)
}
