package audit

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newTestLogger(buf *bytes.Buffer) *Logger {
	l := NewLogger(buf)
	l.hostname = "host1"
	l.pid = 42
	l.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return l
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	logger.Log(AuthnEvent{
		Username:  "alice",
		ClientIP:  "192.168.1.1",
		Operation: "login",
		Success:   true,
	})

	want := `<86>1 2024-03-01T12:00:00.000Z host1 docvault 42 authn ` +
		`[action@32473 operation="login" result="success"][auth@32473 user="alice"][client@32473 ip="192.168.1.1"] ` +
		"alice successfully authenticated\n"
	if got := buf.String(); got != want {
		t.Errorf("Log() =\n%q\nwant\n%q", got, want)
	}
}

func TestAuthnEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   AuthnEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name:    "successful login",
			event:   AuthnEvent{Username: "alice", Operation: "login", Success: true},
			wantMsg: "alice successfully authenticated",
			wantSev: SeverityInfo,
		},
		{
			name:    "failed login",
			event:   AuthnEvent{Username: "alice", Operation: "login", ErrorMessage: "invalid credentials"},
			wantMsg: "alice failed to authenticate: invalid credentials",
			wantSev: SeverityWarning,
		},
		{
			name:    "registration",
			event:   AuthnEvent{Username: "bob", Operation: "register", Success: true},
			wantMsg: "bob registered",
			wantSev: SeverityInfo,
		},
		{
			name:    "duplicate registration",
			event:   AuthnEvent{Username: "bob", Operation: "register", ErrorMessage: "conflict"},
			wantMsg: "bob failed to register: conflict",
			wantSev: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Message(); got != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.event.Severity(); got != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", got, tt.wantSev)
			}
			if tt.event.MessageID() != "authn" {
				t.Errorf("MessageID() = %v, want 'authn'", tt.event.MessageID())
			}
			if tt.event.Facility() != FacilityAuthPriv {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), FacilityAuthPriv)
			}
		})
	}
}

func TestAccountEvent(t *testing.T) {
	event := AccountEvent{
		UserID:    "admin",
		Account:   "7",
		Operation: "update-role",
		Role:      "editor",
		Success:   true,
	}

	if got := event.Message(); got != "admin set role of account 7 to editor" {
		t.Errorf("Message() = %q", got)
	}
	sd := event.StructuredData()
	if sd[SDIDSubject]["role"] != "editor" {
		t.Errorf("StructuredData subject.role = %v, want 'editor'", sd[SDIDSubject]["role"])
	}

	event = AccountEvent{UserID: "bob", Account: "7", Operation: "delete", ErrorMessage: "forbidden"}
	if got := event.Message(); got != "bob tried to delete account 7: forbidden" {
		t.Errorf("Message() = %q", got)
	}
	if _, ok := event.StructuredData()[SDIDSubject]["role"]; ok {
		t.Error("role should be omitted when empty")
	}
}

func TestDocumentEvent(t *testing.T) {
	event := DocumentEvent{UserID: "alice", ClientIP: "10.0.0.1", DocumentID: "3", Operation: "update", Success: true}

	if got := event.Message(); got != "alice performed update on document 3" {
		t.Errorf("Message() = %q", got)
	}
	if event.Facility() != FacilityLocal0 {
		t.Errorf("Facility() = %v, want %v", event.Facility(), FacilityLocal0)
	}
	sd := event.StructuredData()
	if sd[SDIDSubject]["document"] != "3" || sd[SDIDAction]["result"] != "success" {
		t.Errorf("unexpected structured data: %v", sd)
	}
}

func TestIngestionEvent(t *testing.T) {
	event := IngestionEvent{UserID: "alice", DocumentID: "3", IngestionID: "9", ErrorMessage: "processor returned 500"}

	if got := event.Message(); got != "alice failed to ingest document 3: processor returned 500" {
		t.Errorf("Message() = %q", got)
	}
	if event.Severity() != SeverityError {
		t.Errorf("Severity() = %v, want %v", event.Severity(), SeverityError)
	}
	sd := event.StructuredData()
	if sd[SDIDSubject]["ingestion"] != "9" || sd[SDIDAction]["result"] != "failure" {
		t.Errorf("unexpected structured data: %v", sd)
	}
}

func TestAuditorDisabled(t *testing.T) {
	var buf bytes.Buffer
	auditor := NewAuditor(false, newTestLogger(&buf), nil, nil)

	auditor.Log(AuthnEvent{Username: "alice", Operation: "login", Success: true})

	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %q", buf.String())
	}
}

func TestAuditorNil(t *testing.T) {
	var auditor *Auditor
	auditor.Log(AuthnEvent{Username: "alice"})
	if auditor.Enabled() {
		t.Error("nil auditor should not be enabled")
	}
	if err := auditor.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestAuditorStoreFailureIsSwallowed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO audit_messages`).WillReturnError(errors.New("connection refused"))

	var buf bytes.Buffer
	auditor := NewAuditor(true, newTestLogger(&buf), NewStoreWithDB(db), nil)
	auditor.Log(DocumentEvent{UserID: "alice", DocumentID: "1", Operation: "delete", Success: true})

	if !strings.Contains(buf.String(), "alice performed delete on document 1") {
		t.Errorf("expected syslog line, got %q", buf.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestEscapeSDValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple", `"simple"`},
		{`with"quote`, `"with\"quote"`},
		{`with\backslash`, `"with\\backslash"`},
		{`with]bracket`, `"with\]bracket"`},
		{`all"special\chars]`, `"all\"special\\chars\]"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := escapeSDValue(tt.input)
			if got != tt.want {
				t.Errorf("escapeSDValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
