package audit

import (
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// AppName is the RFC5424 APP-NAME of every audit message.
const AppName = "signatories"

// SDID constants for structured data IDs (RFC5424).
// 32473 is the documentation PEN from RFC5612.
const (
	PEN             = 32473
	SDIDSubject     = "subject@32473"
	SDIDAction      = "action@32473"
	SDIDClient      = "client@32473"
	SDIDCertificate = "certificate@32473"
)

// Syslog facility constants
const (
	FacilityUser   = 1  // LOG_USER
	FacilityLocal0 = 16 // LOG_LOCAL0, editor operations
)

// Severity levels matching syslog (RFC5424)
type Severity int

const (
	SeverityEmergency Severity = iota
	SeverityAlert
	SeverityCritical
	SeverityError
	SeverityWarning
	SeverityNotice
	SeverityInfo
	SeverityDebug
)

const timestampFormat = "2006-01-02T15:04:05.000Z"

// Event represents an audit event
type Event interface {
	MessageID() string
	Message() string
	Severity() Severity
	Facility() int
	StructuredData() map[string]map[string]string
}

// Syslog formats the record as an RFC5424 line:
// <PRI>1 TIMESTAMP HOSTNAME APP-NAME PROCID MSGID SD MSG
func (r Record) Syslog() string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(strconv.Itoa(r.Facility*8 + r.Severity))
	sb.WriteString(">1 ")
	for _, field := range []string{
		r.Timestamp.Format(timestampFormat),
		nilValue(r.Hostname),
		nilValue(r.Appname),
		nilValue(r.Procid),
		nilValue(r.Msgid),
		nilValue(formatStructuredData(r.Sdata)),
	} {
		sb.WriteString(field)
		sb.WriteByte(' ')
	}
	sb.WriteString(r.Message)
	sb.WriteByte('\n')
	return sb.String()
}

func nilValue(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatStructuredData renders [sdid k="v" ...] elements, sorted by SDID
// and parameter name.
func formatStructuredData(sd map[string]map[string]string) string {
	ids := make([]string, 0, len(sd))
	for id := range sd {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	for _, id := range ids {
		params := sd[id]
		names := make([]string, 0, len(params))
		for name := range params {
			names = append(names, name)
		}
		sort.Strings(names)

		sb.WriteByte('[')
		sb.WriteString(id)
		for _, name := range names {
			sb.WriteByte(' ')
			sb.WriteString(name)
			sb.WriteByte('=')
			sb.WriteString(escapeSDValue(params[name]))
		}
		sb.WriteByte(']')
	}
	return sb.String()
}

// escapeSDValue quotes a PARAM-VALUE (RFC5424 section 6.3.3)
func escapeSDValue(value string) string {
	return `"` + sdEscaper.Replace(value) + `"`
}

var sdEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, `]`, `\]`)

// Logger writes audit records as syslog lines
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	hostname string
}

// NewLogger creates a logger writing to stdout
func NewLogger() *Logger {
	hostname, _ := os.Hostname()
	return &Logger{writer: os.Stdout, hostname: hostname}
}

// SetWriter sets the output writer for the logger
func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	l.writer = w
	l.mu.Unlock()
}

// Log writes event as one syslog line
func (l *Logger) Log(event Event) {
	line := newRecord(event, l.hostname).Syslog()

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.writer, line)
}

// DefaultLogger is the logger used by Log
var DefaultLogger = NewLogger()

// DefaultStore is opened on first use; nil if SIGNATORIES_AUDIT_DATABASE_URL is not set
var DefaultStore *Store

var (
	enabledMu   sync.RWMutex
	enabled     = true
	enabledOnce sync.Once
	storeOnce   sync.Once
)

// IsEnabled reports whether audit logging is on. It reads
// SIGNATORIES_AUDIT_ENABLED once.
func IsEnabled() bool {
	enabledOnce.Do(func() {
		if env := os.Getenv("SIGNATORIES_AUDIT_ENABLED"); env != "" {
			SetEnabled(env != "false" && env != "0" && env != "no")
		}
	})
	enabledMu.RLock()
	defer enabledMu.RUnlock()
	return enabled
}

// SetEnabled turns audit logging on or off
func SetEnabled(on bool) {
	enabledMu.Lock()
	enabled = on
	enabledMu.Unlock()
}

// Log writes event to DefaultLogger and, when configured, DefaultStore.
// Store failures are reported on the global zap logger.
func Log(event Event) {
	if !IsEnabled() {
		return
	}
	DefaultLogger.Log(event)

	storeOnce.Do(func() {
		var err error
		if DefaultStore, err = NewStore(); err != nil {
			zap.L().Error("audit: failed to open audit database", zap.Error(err))
		}
	})
	if DefaultStore == nil {
		return
	}
	if err := DefaultStore.Save(event); err != nil {
		zap.L().Error("audit: failed to save event", zap.String("msgid", event.MessageID()), zap.Error(err))
	}
}
