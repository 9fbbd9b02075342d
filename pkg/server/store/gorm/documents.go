package gorm

import (
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/server/store"
)

// Ensure DocumentsStore implements store.DocumentsStore
var _ store.DocumentsStore = (*DocumentsStore)(nil)

// DocumentsStore implements store.DocumentsStore using GORM
type DocumentsStore struct {
	db *gorm.DB
}

// NewDocumentsStore creates a new DocumentsStore
func NewDocumentsStore(db *gorm.DB) *DocumentsStore {
	return &DocumentsStore{db: db}
}

// CreateDocument inserts doc and fills in its ID and timestamps.
func (s *DocumentsStore) CreateDocument(doc *model.Document) error {
	return s.db.Raw(
		`INSERT INTO documents (title, description, file_path, user_id) VALUES (?, ?, ?, ?) RETURNING id, created_at, updated_at`,
		doc.Title, doc.Description, doc.FilePath, doc.UserID,
	).Row().Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)
}

// ListDocuments returns every document with its owner attached.
func (s *DocumentsStore) ListDocuments() ([]model.Document, error) {
	var docs []model.Document
	if err := s.db.Preload("User").Order("id").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// FindDocument returns a document with its owner attached.
func (s *DocumentsStore) FindDocument(id uint) (*model.Document, error) {
	var doc model.Document
	if err := s.db.Preload("User").Where("id = ?", id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// UpdateDocument replaces title and description and reloads the row's
// remaining columns into doc.
func (s *DocumentsStore) UpdateDocument(doc *model.Document) error {
	err := s.db.Raw(
		`UPDATE documents SET title = ?, description = ?, updated_at = now() WHERE id = ? RETURNING file_path, user_id, created_at, updated_at`,
		doc.Title, doc.Description, doc.ID,
	).Row().Scan(&doc.FilePath, &doc.UserID, &doc.CreatedAt, &doc.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrDocumentNotFound
	}
	return err
}

// DeleteDocument removes a document and its ingestion records.
func (s *DocumentsStore) DeleteDocument(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM ingestions WHERE document_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM documents WHERE id = ?`, id).Error
	})
}
