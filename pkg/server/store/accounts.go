package store

import (
	"fmt"

	"github.com/doodlesbykumbi/docvault/pkg/errs"
	"github.com/doodlesbykumbi/docvault/pkg/model"
)

// ErrAccountNotFound is returned when an account doesn't exist
var ErrAccountNotFound = fmt.Errorf("account %w", errs.ErrNotFound)

// ErrAccountExists is returned when a username is already taken
var ErrAccountExists = fmt.Errorf("username already exists: %w", errs.ErrConflict)

// AccountsStore abstracts account storage operations
type AccountsStore interface {
	// CreateAccount inserts account and fills in its ID and CreatedAt.
	// Returns ErrAccountExists if the username is taken.
	CreateAccount(account *model.Account) error

	// FindAccountByUsername looks up an account by its exact username.
	// Returns ErrAccountNotFound if there is none.
	FindAccountByUsername(username string) (*model.Account, error)

	// FindAccountByID looks up an account by id.
	// Returns ErrAccountNotFound if there is none.
	FindAccountByID(id uint) (*model.Account, error)

	// UpdateAccountRole sets the role of an account.
	// Returns ErrAccountNotFound if there is none.
	UpdateAccountRole(id uint, role model.Role) error

	// DeleteAccount removes an account together with its documents and
	// their ingestion records. Returns ErrAccountNotFound if there is none.
	DeleteAccount(id uint) error
}
