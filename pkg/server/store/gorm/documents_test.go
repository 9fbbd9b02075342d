package gorm

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/server/store"
)

var documentColumns = []string{"id", "title", "description", "file_path", "user_id", "created_at", "updated_at"}

func TestDocumentsStore_CreateDocument(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewDocumentsStore(db)

	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO documents \(title, description, file_path, user_id\)`).
		WithArgs("T", "C", "documents/abc.txt", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(5, now, now))

	doc := &model.Document{Title: "T", Description: "C", FilePath: "documents/abc.txt", UserID: 1}
	require.NoError(t, s.CreateDocument(doc))

	assert.Equal(t, uint(5), doc.ID)
	assert.Equal(t, now, doc.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentsStore_FindDocument_AttachesOwner(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewDocumentsStore(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "documents" WHERE id = \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(documentColumns).AddRow(5, "T", "C", "documents/abc.txt", 1, now, now))
	mock.ExpectQuery(`SELECT \* FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}).
			AddRow(1, "alice", "hash", "admin", now))

	doc, err := s.FindDocument(5)
	require.NoError(t, err)
	assert.Equal(t, "C", doc.Description)
	require.NotNil(t, doc.User)
	assert.Equal(t, uint(1), doc.User.ID)
	assert.Equal(t, "alice", doc.User.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentsStore_FindDocument_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewDocumentsStore(db)

	mock.ExpectQuery(`SELECT \* FROM "documents" WHERE id = \$1`).
		WithArgs(404).
		WillReturnRows(sqlmock.NewRows(documentColumns))

	_, err := s.FindDocument(404)
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
}

func TestDocumentsStore_ListDocuments(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewDocumentsStore(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "documents" ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(documentColumns).
			AddRow(1, "A", "a", "documents/a.txt", 1, now, now).
			AddRow(2, "B", "b", "documents/b.txt", 2, now, now))
	mock.ExpectQuery(`SELECT \* FROM "accounts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}).
			AddRow(1, "alice", "hash", "admin", now).
			AddRow(2, "bob", "hash", "viewer", now))

	docs, err := s.ListDocuments()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "alice", docs[0].User.Username)
	assert.Equal(t, "bob", docs[1].User.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentsStore_UpdateDocument(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewDocumentsStore(db)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	mock.ExpectQuery(`UPDATE documents SET title = \$1, description = \$2, updated_at = now\(\) WHERE id = \$3 RETURNING`).
		WithArgs("New", "Body", 5).
		WillReturnRows(sqlmock.NewRows([]string{"file_path", "user_id", "created_at", "updated_at"}).
			AddRow("documents/abc.txt", 1, created, updated))

	doc := &model.Document{ID: 5, Title: "New", Description: "Body"}
	require.NoError(t, s.UpdateDocument(doc))

	assert.Equal(t, uint(1), doc.UserID)
	assert.Equal(t, "documents/abc.txt", doc.FilePath)
	assert.Equal(t, updated, doc.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentsStore_UpdateDocument_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewDocumentsStore(db)

	mock.ExpectQuery(`UPDATE documents`).
		WillReturnRows(sqlmock.NewRows([]string{"file_path", "user_id", "created_at", "updated_at"}))

	err := s.UpdateDocument(&model.Document{ID: 9, Title: "x", Description: "y"})
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
}

func TestDocumentsStore_DeleteDocument_Idempotent(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewDocumentsStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM ingestions WHERE document_id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM documents WHERE id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.NoError(t, s.DeleteDocument(7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
