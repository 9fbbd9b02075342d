package audit

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/docvault/pkg/config"
)

// Structured data IDs (RFC5424). 32473 is the documentation PEN from RFC5612.
const (
	SDIDAuth    = "auth@32473"
	SDIDSubject = "subject@32473"
	SDIDAction  = "action@32473"
	SDIDClient  = "client@32473"
)

// Syslog facility constants
const (
	FacilityAuth     = 4  // LOG_AUTH
	FacilityAuthPriv = 10 // LOG_AUTHPRIV
	FacilityLocal0   = 16 // LOG_LOCAL0, used for document activity
)

const appName = "docvault"

// Severity levels matching syslog (RFC5424)
type Severity int

const (
	SeverityEmergency Severity = iota // 0
	SeverityAlert                     // 1
	SeverityCritical                  // 2
	SeverityError                     // 3
	SeverityWarning                   // 4
	SeverityNotice                    // 5
	SeverityInfo                      // 6
	SeverityDebug                     // 7
)

// Event represents an audit event
type Event interface {
	MessageID() string
	Message() string
	Severity() Severity
	Facility() int
	StructuredData() map[string]map[string]string
}

// Logger writes audit events in RFC5424 syslog format
type Logger struct {
	writer   io.Writer
	hostname string
	pid      int
	now      func() time.Time
}

// NewLogger creates a logger that writes to w
func NewLogger(w io.Writer) *Logger {
	hostname, _ := os.Hostname()
	return &Logger{
		writer:   w,
		hostname: hostname,
		pid:      os.Getpid(),
		now:      time.Now,
	}
}

// Log writes an audit event.
// Format: <PRI>VERSION TIMESTAMP HOSTNAME APP-NAME PROCID MSGID SD MSG
func (l *Logger) Log(event Event) {
	pri := event.Facility()*8 + int(event.Severity())
	timestamp := l.now().UTC().Format("2006-01-02T15:04:05.000Z")

	sd := formatStructuredData(event.StructuredData())
	if sd == "" {
		sd = "-"
	}

	hostname := l.hostname
	if hostname == "" {
		hostname = "-"
	}

	line := fmt.Sprintf("<%d>1 %s %s %s %d %s %s %s\n",
		pri,
		timestamp,
		hostname,
		appName,
		l.pid,
		event.MessageID(),
		sd,
		event.Message(),
	)

	_, _ = l.writer.Write([]byte(line))
}

// formatStructuredData renders [sdid k="v" ...][sdid2 ...] with SD-IDs and
// params in sorted order.
func formatStructuredData(sd map[string]map[string]string) string {
	if len(sd) == 0 {
		return ""
	}

	ids := make([]string, 0, len(sd))
	for id := range sd {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		params := sd[id]
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("[")
		b.WriteString(id)
		for _, k := range keys {
			b.WriteString(" ")
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(escapeSDValue(params[k]))
		}
		b.WriteString("]")
	}
	return b.String()
}

// escapeSDValue escapes a param value per RFC5424 section 6.3.3
func escapeSDValue(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	value = strings.ReplaceAll(value, "]", "\\]")
	return "\"" + value + "\""
}

// Auditor fans events out to the syslog-format logger and, when configured,
// the audit database. A nil *Auditor discards everything.
type Auditor struct {
	enabled bool
	logger  *Logger
	store   *Store
	log     *zap.Logger
}

// NewAuditor assembles an Auditor. store may be nil.
func NewAuditor(enabled bool, logger *Logger, store *Store, log *zap.Logger) *Auditor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Auditor{
		enabled: enabled,
		logger:  logger,
		store:   store,
		log:     log,
	}
}

// Open builds an Auditor from cfg, writing syslog lines to stdout and
// persisting to cfg.AuditDatabaseURL when it is set.
func Open(cfg *config.Config, log *zap.Logger) (*Auditor, error) {
	store, err := NewStore(cfg.AuditDatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}
	return NewAuditor(cfg.AuditEnabled, NewLogger(os.Stdout), store, log), nil
}

// Enabled reports whether events are recorded
func (a *Auditor) Enabled() bool {
	return a != nil && a.enabled
}

// Log records an event. Persistence failures are logged and swallowed.
func (a *Auditor) Log(event Event) {
	if !a.Enabled() {
		return
	}
	if a.logger != nil {
		a.logger.Log(event)
	}
	if a.store != nil {
		if err := a.store.Save(event); err != nil {
			a.log.Warn("failed to save audit event",
				zap.String("msgid", event.MessageID()),
				zap.Error(err),
			)
		}
	}
}

// Close releases the audit database connection, if any
func (a *Auditor) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	return a.store.Close()
}
