// Package model defines the database models for docvault.
//
// The models map onto the PostgreSQL schema created by the migrations in
// db/migrations:
//
//   - Account: users with a bcrypt password hash and a role (accounts)
//   - Document: titled text owned by exactly one account (documents)
//   - Ingestion: one processing attempt against a document (ingestions)
//
// Ingestion carries its own state machine; see Ingestion.MarkProcessing,
// Ingestion.Complete and Ingestion.Fail.
package model
