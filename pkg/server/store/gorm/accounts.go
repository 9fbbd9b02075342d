package gorm

import (
	"errors"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/server/store"
)

// Ensure AccountsStore implements store.AccountsStore
var _ store.AccountsStore = (*AccountsStore)(nil)

// AccountsStore implements store.AccountsStore using GORM
type AccountsStore struct {
	db *gorm.DB
}

// NewAccountsStore creates a new AccountsStore
func NewAccountsStore(db *gorm.DB) *AccountsStore {
	return &AccountsStore{db: db}
}

// CreateAccount inserts account and fills in its ID and CreatedAt.
func (s *AccountsStore) CreateAccount(account *model.Account) error {
	row := s.db.Raw(
		`INSERT INTO accounts (username, password_hash, role) VALUES (?, ?, ?) RETURNING id, created_at`,
		account.Username, account.PasswordHash, string(account.Role),
	).Row()
	if err := row.Scan(&account.ID, &account.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return store.ErrAccountExists
		}
		return err
	}
	return nil
}

// FindAccountByUsername looks up an account by its exact username.
func (s *AccountsStore) FindAccountByUsername(username string) (*model.Account, error) {
	var account model.Account
	if err := s.db.Where("username = ?", username).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindAccountByID looks up an account by id.
func (s *AccountsStore) FindAccountByID(id uint) (*model.Account, error) {
	var account model.Account
	if err := s.db.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// UpdateAccountRole sets the role of an account.
func (s *AccountsStore) UpdateAccountRole(id uint, role model.Role) error {
	tx := s.db.Exec(`UPDATE accounts SET role = ? WHERE id = ?`, string(role), id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrAccountNotFound
	}
	return nil
}

// DeleteAccount removes an account, its documents and their ingestion records
// in one transaction.
func (s *AccountsStore) DeleteAccount(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM ingestions WHERE document_id IN (SELECT id FROM documents WHERE user_id = ?)`, id,
		).Error; err != nil {
			return err
		}

		if err := tx.Exec(`DELETE FROM documents WHERE user_id = ?`, id).Error; err != nil {
			return err
		}

		res := tx.Exec(`DELETE FROM accounts WHERE id = ?`, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrAccountNotFound
		}
		return nil
	})
}
