// Package store provides storage abstractions for the docvault server.
//
// The interfaces here decouple the services and endpoints from the
// database. GORM implementations live in the gorm subpackage; tests use
// testify mocks.
//
// # Available Stores
//
//   - AccountsStore: account records and cascading account deletion
//   - DocumentsStore: documents with their owners attached
//   - IngestionsStore: ingestion records per document
//   - HealthStore: database connectivity checks
//
// # Errors
//
// Not-found and conflict sentinels wrap the kinds in pkg/errs, so callers
// may match either the store sentinel or the kind:
//
//	acct, err := accounts.FindAccountByID(id)
//	if errors.Is(err, store.ErrAccountNotFound) {
//	    // errors.Is(err, errs.ErrNotFound) also holds
//	}
package store
