package gorm

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/docvault/pkg/errs"
	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/server/store"
)

func TestAccountsStore_CreateAccount(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewAccountsStore(db)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO accounts \(username, password_hash, role\)`).
		WithArgs("alice", "$2a$10$hash", "admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, created))

	account := &model.Account{Username: "alice", PasswordHash: "$2a$10$hash", Role: model.RoleAdmin}
	require.NoError(t, s.CreateAccount(account))

	assert.Equal(t, uint(1), account.ID)
	assert.Equal(t, created, account.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountsStore_CreateAccount_UniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "pgconn", err: &pgconn.PgError{Code: "23505"}},
		{name: "lib/pq", err: &pq.Error{Code: "23505"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupTestDB(t)
			s := NewAccountsStore(db)

			mock.ExpectQuery(`INSERT INTO accounts`).WillReturnError(tt.err)

			err := s.CreateAccount(&model.Account{Username: "alice", PasswordHash: "x", Role: model.RoleViewer})
			assert.ErrorIs(t, err, store.ErrAccountExists)
			assert.ErrorIs(t, err, errs.ErrConflict)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAccountsStore_CreateAccount_OtherError(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewAccountsStore(db)

	mock.ExpectQuery(`INSERT INTO accounts`).WillReturnError(errors.New("connection reset"))

	err := s.CreateAccount(&model.Account{Username: "alice", PasswordHash: "x", Role: model.RoleViewer})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrConflict)
}

func TestAccountsStore_FindAccountByUsername(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewAccountsStore(db)

	rows := sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}).
		AddRow(3, "alice", "$2a$10$hash", "editor", time.Now())
	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(rows)

	account, err := s.FindAccountByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, uint(3), account.ID)
	assert.Equal(t, model.RoleEditor, account.Role)
	assert.Equal(t, "$2a$10$hash", account.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountsStore_FindAccountByUsername_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewAccountsStore(db)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.FindAccountByUsername("ghost")
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAccountsStore_FindAccountByID_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewAccountsStore(db)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.FindAccountByID(99)
	assert.ErrorIs(t, err, store.ErrAccountNotFound)
}

func TestAccountsStore_UpdateAccountRole(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewAccountsStore(db)

	mock.ExpectExec(`UPDATE accounts SET role = \$1 WHERE id = \$2`).
		WithArgs("viewer", 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.UpdateAccountRole(3, model.RoleViewer))

	mock.ExpectExec(`UPDATE accounts SET role = \$1 WHERE id = \$2`).
		WithArgs("viewer", 4).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.UpdateAccountRole(4, model.RoleViewer), store.ErrAccountNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountsStore_DeleteAccount_Cascades(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewAccountsStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM ingestions WHERE document_id IN \(SELECT id FROM documents WHERE user_id = \$1\)`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`DELETE FROM documents WHERE user_id = \$1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM accounts WHERE id = \$1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.DeleteAccount(3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountsStore_DeleteAccount_NotFoundRollsBack(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewAccountsStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM ingestions`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM documents`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM accounts`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, s.DeleteAccount(42), store.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
