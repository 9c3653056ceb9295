package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
)

// StoreURLEnv names the database audit records are copied to. The
// audit_messages table is created by the signatories migrations, so the
// service database can be used.
const StoreURLEnv = "SIGNATORIES_AUDIT_DATABASE_URL"

const saveTimeout = 5 * time.Second

// Store persists audit records to the audit_messages table
type Store struct {
	db       *sql.DB
	hostname string
}

// Record is an audit record as stored in audit_messages
type Record struct {
	Facility  int                          `json:"facility"`
	Severity  int                          `json:"severity"`
	Timestamp time.Time                    `json:"timestamp"`
	Hostname  string                       `json:"hostname"`
	Appname   string                       `json:"appname"`
	Procid    string                       `json:"procid"`
	Msgid     string                       `json:"msgid"`
	Sdata     map[string]map[string]string `json:"sdata"`
	Message   string                       `json:"message"`
}

// NewStore opens the store named by SIGNATORIES_AUDIT_DATABASE_URL.
// It returns nil when the variable is unset.
func NewStore() (*Store, error) {
	dbURL := os.Getenv(StoreURLEnv)
	if dbURL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}
	return NewStoreWithDB(db), nil
}

// NewStoreWithDB creates a store over an open connection
func NewStoreWithDB(db *sql.DB) *Store {
	hostname, _ := os.Hostname()
	return &Store{db: db, hostname: hostname}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func newRecord(event Event, hostname string) Record {
	return Record{
		Facility:  event.Facility(),
		Severity:  int(event.Severity()),
		Timestamp: time.Now().UTC(),
		Hostname:  hostname,
		Appname:   AppName,
		Procid:    strconv.Itoa(os.Getpid()),
		Msgid:     event.MessageID(),
		Sdata:     event.StructuredData(),
		Message:   event.Message(),
	}
}

// Save inserts event into audit_messages
func (s *Store) Save(event Event) error {
	if s.db == nil {
		return nil
	}

	rec := newRecord(event, s.hostname)
	sdata, err := json.Marshal(rec.Sdata)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_messages (facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		rec.Facility,
		rec.Severity,
		rec.Timestamp,
		rec.Hostname,
		rec.Appname,
		rec.Procid,
		rec.Msgid,
		sdata,
		rec.Message,
	)
	return err
}

// DB returns the underlying database connection
func (s *Store) DB() *sql.DB {
	return s.db
}
