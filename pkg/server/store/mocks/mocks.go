// Package mocks provides testify mocks of the store interfaces.
package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/docvault/pkg/model"
	"github.com/doodlesbykumbi/docvault/pkg/server/store"
)

var (
	_ store.AccountsStore   = (*AccountsStore)(nil)
	_ store.DocumentsStore  = (*DocumentsStore)(nil)
	_ store.IngestionsStore = (*IngestionsStore)(nil)
	_ store.HealthStore     = (*HealthStore)(nil)
)

// AccountsStore implements store.AccountsStore for testing
type AccountsStore struct {
	mock.Mock
}

func (m *AccountsStore) CreateAccount(account *model.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

func (m *AccountsStore) FindAccountByUsername(username string) (*model.Account, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *AccountsStore) FindAccountByID(id uint) (*model.Account, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}

func (m *AccountsStore) UpdateAccountRole(id uint, role model.Role) error {
	args := m.Called(id, role)
	return args.Error(0)
}

func (m *AccountsStore) DeleteAccount(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// DocumentsStore implements store.DocumentsStore for testing
type DocumentsStore struct {
	mock.Mock
}

func (m *DocumentsStore) CreateDocument(doc *model.Document) error {
	args := m.Called(doc)
	return args.Error(0)
}

func (m *DocumentsStore) ListDocuments() ([]model.Document, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *DocumentsStore) FindDocument(id uint) (*model.Document, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *DocumentsStore) UpdateDocument(doc *model.Document) error {
	args := m.Called(doc)
	return args.Error(0)
}

func (m *DocumentsStore) DeleteDocument(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// IngestionsStore implements store.IngestionsStore for testing
type IngestionsStore struct {
	mock.Mock
}

func (m *IngestionsStore) CreateIngestion(rec *model.Ingestion) error {
	args := m.Called(rec)
	return args.Error(0)
}

func (m *IngestionsStore) UpdateIngestion(rec *model.Ingestion) error {
	args := m.Called(rec)
	return args.Error(0)
}

func (m *IngestionsStore) FindIngestion(id uint) (*model.Ingestion, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ingestion), args.Error(1)
}

func (m *IngestionsStore) ListIngestions(documentID uint) ([]model.Ingestion, error) {
	args := m.Called(documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ingestion), args.Error(1)
}

// HealthStore implements store.HealthStore for testing
type HealthStore struct {
	mock.Mock
}

func (m *HealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}
