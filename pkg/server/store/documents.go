package store

import (
	"fmt"

	"github.com/doodlesbykumbi/docvault/pkg/errs"
	"github.com/doodlesbykumbi/docvault/pkg/model"
)

// ErrDocumentNotFound is returned when a document doesn't exist
var ErrDocumentNotFound = fmt.Errorf("document %w", errs.ErrNotFound)

// DocumentsStore abstracts document storage operations
type DocumentsStore interface {
	// CreateDocument inserts doc and fills in its ID and timestamps.
	CreateDocument(doc *model.Document) error

	// ListDocuments returns every document with its owner attached, oldest first.
	ListDocuments() ([]model.Document, error)

	// FindDocument returns a document with its owner attached.
	// Returns ErrDocumentNotFound if there is none.
	FindDocument(id uint) (*model.Document, error)

	// UpdateDocument replaces the title and description of a document and
	// bumps UpdatedAt. Ownership is never changed.
	// Returns ErrDocumentNotFound if there is none.
	UpdateDocument(doc *model.Document) error

	// DeleteDocument removes a document and its ingestion records.
	// Deleting a missing document is not an error.
	DeleteDocument(id uint) error
}
