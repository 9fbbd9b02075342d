// Package users manages accounts: registration, credential checks, role
// changes and deletion.
//
// Passwords are hashed with bcrypt before they reach the store. Lookups
// that find nothing return nil with a nil error; operations on an account
// that must exist return an error wrapping errs.ErrNotFound.
package users

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/docvault/pkg/errs"
	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/server/store"
)

// maxPasswordBytes is the longest input bcrypt accepts
const maxPasswordBytes = 72

// Service is the account service
type Service struct {
	accounts store.AccountsStore
	cost     int
	// dummyHash is compared against when the username is unknown so a
	// failed login costs the same whether or not the account exists.
	dummyHash []byte
}

// NewService creates a Service hashing with the given bcrypt cost.
// A cost of zero means bcrypt.DefaultCost.
func NewService(accounts store.AccountsStore, cost int) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	// Costs above bcrypt.MaxCost are rejected by config validation.
	dummy, _ := bcrypt.GenerateFromPassword([]byte("docvault-dummy-password"), cost)
	return &Service{accounts: accounts, cost: cost, dummyHash: dummy}
}

// passwordInput returns the bytes handed to bcrypt. Passwords longer than
// bcrypt accepts are reduced to the base64 SHA-256 digest of the full
// password, so every byte still counts.
func passwordInput(password string) []byte {
	if len(password) <= maxPasswordBytes {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// Register creates an account with a hashed password.
// It fails with errs.ErrConflict when the username is taken and with
// errs.ErrValidation for empty fields or an unknown role.
func (s *Service) Register(username, password string, role model.Role) (*model.Account, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("username is required: %w", errs.ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("password is required: %w", errs.ErrValidation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, errs.ErrValidation)
	}

	existing, err := s.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, store.ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword(passwordInput(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &model.Account{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}
	// A concurrent registration can still lose on the unique index; the
	// store reports that as ErrAccountExists.
	if err := s.accounts.CreateAccount(account); err != nil {
		return nil, err
	}
	return account, nil
}

// ValidateCredentials returns the account when password matches its hash,
// and nil when the account is missing or the password is wrong.
func (s *Service) ValidateCredentials(username, password string) (*model.Account, error) {
	account, err := s.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, passwordInput(password))
		return nil, nil
	}

	err = bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), passwordInput(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to compare password: %w", err)
	}
	return account, nil
}

// FindByUsername returns the account with username, or nil if there is none.
func (s *Service) FindByUsername(username string) (*model.Account, error) {
	account, err := s.accounts.FindAccountByUsername(username)
	if errors.Is(err, store.ErrAccountNotFound) {
		return nil, nil
	}
	return account, err
}

// FindByID returns the account with id, or nil if there is none.
func (s *Service) FindByID(id uint) (*model.Account, error) {
	account, err := s.accounts.FindAccountByID(id)
	if errors.Is(err, store.ErrAccountNotFound) {
		return nil, nil
	}
	return account, err
}

// UpdateRole assigns role to the account and returns the updated account.
func (s *Service) UpdateRole(id uint, role model.Role) (*model.Account, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, errs.ErrValidation)
	}
	if err := s.accounts.UpdateAccountRole(id, role); err != nil {
		return nil, err
	}
	return s.accounts.FindAccountByID(id)
}

// Delete removes the account together with its documents and their
// ingestion records.
func (s *Service) Delete(id uint) error {
	return s.accounts.DeleteAccount(id)
}
