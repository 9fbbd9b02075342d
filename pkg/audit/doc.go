// Package audit records security-relevant docvault activity.
//
// Events are written as RFC5424 syslog lines and, when an audit database
// URL is configured, persisted to the audit_messages table.
//
// # Event Types
//
//   - AuthnEvent: login and registration attempts
//   - AccountEvent: account creation, role changes and deletion
//   - DocumentEvent: document creation, update and deletion
//   - IngestionEvent: ingestion trigger outcomes
//
// # Usage
//
//	auditor, err := audit.Open(cfg, log)
//	if err != nil {
//	    return err
//	}
//	defer auditor.Close()
//
//	auditor.Log(audit.AuthnEvent{Username: "alice", Operation: "login", Success: true})
package audit
