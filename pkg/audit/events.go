package audit

import "fmt"

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func severity(success bool) Severity {
	if success {
		return SeverityInfo
	}
	return SeverityWarning
}

func withError(msg, errMsg string) string {
	if errMsg != "" {
		return msg + ": " + errMsg
	}
	return msg
}

// AuthnEvent records a login or registration attempt
type AuthnEvent struct {
	Username     string
	ClientIP     string
	Operation    string // "login" or "register"
	Success      bool
	ErrorMessage string
}

func (e AuthnEvent) MessageID() string {
	return "authn"
}

func (e AuthnEvent) Message() string {
	if e.Success {
		if e.Operation == "register" {
			return fmt.Sprintf("%s registered", e.Username)
		}
		return fmt.Sprintf("%s successfully authenticated", e.Username)
	}
	if e.Operation == "register" {
		return withError(fmt.Sprintf("%s failed to register", e.Username), e.ErrorMessage)
	}
	return withError(fmt.Sprintf("%s failed to authenticate", e.Username), e.ErrorMessage)
}

func (e AuthnEvent) Severity() Severity {
	return severity(e.Success)
}

func (e AuthnEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthnEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
}

// AccountEvent records an administrative change to an account
type AccountEvent struct {
	UserID       string
	ClientIP     string
	Account      string
	Operation    string // "create", "update-role" or "delete"
	Role         string
	Success      bool
	ErrorMessage string
}

func (e AccountEvent) MessageID() string {
	return "account"
}

func (e AccountEvent) Message() string {
	var msg string
	switch {
	case e.Success && e.Operation == "update-role":
		msg = fmt.Sprintf("%s set role of account %s to %s", e.UserID, e.Account, e.Role)
	case e.Success:
		msg = fmt.Sprintf("%s performed %s on account %s", e.UserID, e.Operation, e.Account)
	default:
		msg = withError(fmt.Sprintf("%s tried to %s account %s", e.UserID, e.Operation, e.Account), e.ErrorMessage)
	}
	return msg
}

func (e AccountEvent) Severity() Severity {
	return severity(e.Success)
}

func (e AccountEvent) Facility() int {
	return FacilityAuth
}

func (e AccountEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"account": e.Account,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
	if e.Role != "" {
		sd[SDIDSubject]["role"] = e.Role
	}
	return sd
}

// DocumentEvent records a document write
type DocumentEvent struct {
	UserID       string
	ClientIP     string
	DocumentID   string
	Operation    string // "create", "update" or "delete"
	Success      bool
	ErrorMessage string
}

func (e DocumentEvent) MessageID() string {
	return "document"
}

func (e DocumentEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s performed %s on document %s", e.UserID, e.Operation, e.DocumentID)
	}
	return withError(fmt.Sprintf("%s tried to %s document %s", e.UserID, e.Operation, e.DocumentID), e.ErrorMessage)
}

func (e DocumentEvent) Severity() Severity {
	return severity(e.Success)
}

func (e DocumentEvent) Facility() int {
	return FacilityLocal0
}

func (e DocumentEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"document": e.DocumentID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result(e.Success),
		},
	}
}

// IngestionEvent records the outcome of an ingestion trigger
type IngestionEvent struct {
	UserID       string
	ClientIP     string
	DocumentID   string
	IngestionID  string
	Success      bool
	ErrorMessage string
}

func (e IngestionEvent) MessageID() string {
	return "ingestion"
}

func (e IngestionEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s ingested document %s", e.UserID, e.DocumentID)
	}
	return withError(fmt.Sprintf("%s failed to ingest document %s", e.UserID, e.DocumentID), e.ErrorMessage)
}

func (e IngestionEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityError
}

func (e IngestionEvent) Facility() int {
	return FacilityLocal0
}

func (e IngestionEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {
			"document": e.DocumentID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "ingest",
			"result":    result(e.Success),
		},
	}
	if e.IngestionID != "" {
		sd[SDIDSubject]["ingestion"] = e.IngestionID
	}
	return sd
}
