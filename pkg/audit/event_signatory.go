package audit

import (
	"fmt"
	"strconv"
)

// Signatory operations.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// SignatoryEvent represents a change to a certificate's signatories
type SignatoryEvent struct {
	Operation     string
	CertificateID string
	SignatoryID   int64
	Position      int
	ClientIP      string
	Success       bool
	ErrorMessage  string
}

func (e SignatoryEvent) MessageID() string {
	return "signatory-" + e.Operation
}

func (e SignatoryEvent) subject() string {
	if e.SignatoryID == 0 {
		return fmt.Sprintf("unsaved signatory %d of certificate %s", e.Position, e.CertificateID)
	}
	return fmt.Sprintf("signatory %d (id %d) of certificate %s", e.Position, e.SignatoryID, e.CertificateID)
}

func (e SignatoryEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s %s", pastTense(e.Operation), e.subject())
	}
	msg := fmt.Sprintf("failed to %s %s", e.Operation, e.subject())
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e SignatoryEvent) Severity() Severity {
	if !e.Success {
		return SeverityWarning
	}
	if e.Operation == OperationDelete {
		return SeverityNotice
	}
	return SeverityInfo
}

func (e SignatoryEvent) Facility() int {
	return FacilityLocal0
}

func (e SignatoryEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDCertificate: {
			"id": e.CertificateID,
		},
		SDIDSubject: {
			"position": strconv.Itoa(e.Position),
		},
		SDIDAction: {
			"operation": e.Operation,
		},
	}
	if e.SignatoryID != 0 {
		sd[SDIDSubject]["signatory"] = strconv.FormatInt(e.SignatoryID, 10)
	}
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}

func pastTense(operation string) string {
	switch operation {
	case OperationCreate:
		return "created"
	case OperationUpdate:
		return "updated"
	case OperationDelete:
		return "deleted"
	default:
		return operation
	}
}
