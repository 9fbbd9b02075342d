// Package documents implements document create, read, update and delete,
// with ownership resolved through the account service.
package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/docvault/pkg/errs"
	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/server/store"
	"github.com/doodlesbykumbi/docvault/pkg/storage"
)

// ErrOwnerNotFound is returned when a document is created for a missing account
var ErrOwnerNotFound = fmt.Errorf("owner %w", errs.ErrNotFound)

// Owners resolves the account that owns a document
type Owners interface {
	FindByID(id uint) (*model.Account, error)
}

// Service is the document service
type Service struct {
	docs     store.DocumentsStore
	owners   Owners
	content  storage.Store
	markdown goldmark.Markdown
	log      *zap.Logger
	newKey   func() string
}

// NewService creates a document service. content may be storage.Noop{}.
func NewService(docs store.DocumentsStore, owners Owners, content storage.Store, log *zap.Logger) *Service {
	if content == nil {
		content = storage.Noop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		docs:     docs,
		owners:   owners,
		content:  content,
		markdown: goldmark.New(),
		log:      log,
		newKey:   StorageKey,
	}
}

// StorageKey derives a fresh storage location for a document.
func StorageKey() string {
	return "documents/" + uuid.NewString() + ".txt"
}

// Create stores a new document owned by ownerID. The content becomes the
// document description.
func (s *Service) Create(ctx context.Context, ownerID uint, title, content string) (*model.Document, error) {
	owner, err := s.owners.FindByID(ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fmt.Errorf("%w: %d", ErrOwnerNotFound, ownerID)
	}

	doc := &model.Document{
		Title:       title,
		Description: content,
		FilePath:    s.newKey(),
		UserID:      owner.ID,
	}

	if err := s.docs.CreateDocument(doc); err != nil {
		return nil, err
	}
	if err := s.content.Put(ctx, doc.FilePath, []byte(content)); err != nil {
		if derr := s.docs.DeleteDocument(doc.ID); derr != nil {
			s.log.Error("failed to remove document after storage failure",
				zap.Uint("document_id", doc.ID),
				zap.Error(derr),
			)
		}
		return nil, fmt.Errorf("failed to store document content: %w", err)
	}

	doc.User = owner
	return doc, nil
}

// List returns every document.
func (s *Service) List() ([]model.Document, error) {
	docs, err := s.docs.ListDocuments()
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []model.Document{}
	}
	return docs, nil
}

// Get returns the document with id, or nil if there is none.
func (s *Service) Get(id uint) (*model.Document, error) {
	doc, err := s.docs.FindDocument(id)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return nil, nil
	}
	return doc, err
}

// Update replaces the title and content of a document. The owner is left
// unchanged. When the content cannot be stored the previous title and
// description are written back.
func (s *Service) Update(ctx context.Context, id uint, title, content string) (*model.Document, error) {
	prev, err := s.docs.FindDocument(id)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{ID: id, Title: title, Description: content}
	if err := s.docs.UpdateDocument(doc); err != nil {
		return nil, err
	}

	if err := s.content.Put(ctx, doc.FilePath, []byte(content)); err != nil {
		restore := &model.Document{ID: id, Title: prev.Title, Description: prev.Description}
		if rerr := s.docs.UpdateDocument(restore); rerr != nil {
			s.log.Error("failed to restore document after storage failure",
				zap.Uint("document_id", id),
				zap.Error(rerr),
			)
		}
		return nil, fmt.Errorf("failed to store document content: %w", err)
	}

	owner, err := s.owners.FindByID(doc.UserID)
	if err != nil {
		return nil, err
	}
	doc.User = owner
	return doc, nil
}

// Delete removes a document and its stored content. Deleting a missing
// document succeeds.
func (s *Service) Delete(ctx context.Context, id uint) error {
	doc, err := s.docs.FindDocument(id)
	if errors.Is(err, store.ErrDocumentNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.docs.DeleteDocument(id); err != nil {
		return err
	}

	if err := s.content.Delete(ctx, doc.FilePath); err != nil {
		s.log.Warn("failed to remove document content",
			zap.Uint("document_id", id),
			zap.String("file_path", doc.FilePath),
			zap.Error(err),
		)
	}
	return nil
}

// RenderHTML converts the document's stored content from Markdown to HTML,
// falling back to the description when the content store has no object.
// Raw HTML in the source is not passed through.
func (s *Service) RenderHTML(ctx context.Context, id uint) ([]byte, error) {
	doc, err := s.docs.FindDocument(id)
	if err != nil {
		return nil, err
	}

	source := []byte(doc.Description)
	stored, err := s.content.Get(ctx, doc.FilePath)
	switch {
	case err == nil:
		source = stored
	case !errors.Is(err, storage.ErrObjectNotFound):
		s.log.Warn("failed to read document content, rendering description",
			zap.Uint("document_id", id),
			zap.String("file_path", doc.FilePath),
			zap.Error(err),
		)
	}

	var buf bytes.Buffer
	if err := s.markdown.Convert(source, &buf); err != nil {
		return nil, fmt.Errorf("failed to render document %d: %w", id, err)
	}
	return buf.Bytes(), nil
}
