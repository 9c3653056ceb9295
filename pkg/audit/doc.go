// Package audit provides audit logging for signatory changes.
//
// Events are written in RFC5424 syslog format to stdout and, when
// SIGNATORIES_AUDIT_DATABASE_URL is set, persisted to the audit_messages table.
//
// # Event Types
//
//   - SignatoryEvent: create, update and delete of a certificate signatory
//
// # Usage
//
//	audit.Log(audit.SignatoryEvent{
//	    Operation:     audit.OperationDelete,
//	    CertificateID: "42",
//	    SignatoryID:   7,
//	    Position:      2,
//	    Success:       true,
//	})
//
// Audit logging can be disabled with SIGNATORIES_AUDIT_ENABLED=false.
package audit
