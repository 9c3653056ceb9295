package audit

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	event := SignatoryEvent{
		Operation:     OperationDelete,
		CertificateID: "42",
		SignatoryID:   7,
		Position:      2,
		ClientIP:      "192.168.1.1",
		Success:       true,
	}

	logger.Log(event)

	output := buf.String()

	// <PRI> = facility*8 + severity = 16*8 + 5
	if !strings.HasPrefix(output, "<133>1 ") {
		t.Errorf("Expected PRI <133> and version 1, got %q", output)
	}
	if !strings.Contains(output, "signatories") {
		t.Error("Expected app name 'signatories' in output")
	}
	if !strings.Contains(output, "signatory-delete") {
		t.Error("Expected message ID 'signatory-delete' in output")
	}
	if !strings.Contains(output, `[certificate@32473 id="42"]`) {
		t.Errorf("Expected certificate structured data in output, got %q", output)
	}
	if !strings.Contains(output, "192.168.1.1") {
		t.Error("Expected client IP in output")
	}
	if !strings.Contains(output, "deleted signatory 2 (id 7) of certificate 42") {
		t.Errorf("Expected success message in output, got %q", output)
	}
}

func TestSignatoryEvent(t *testing.T) {
	tests := []struct {
		name      string
		event     SignatoryEvent
		wantMsg   string
		wantSev   Severity
		wantMsgID string
	}{
		{
			name: "successful delete",
			event: SignatoryEvent{
				Operation:     OperationDelete,
				CertificateID: "42",
				SignatoryID:   7,
				Position:      1,
				Success:       true,
			},
			wantMsg:   "deleted signatory 1 (id 7)",
			wantSev:   SeverityNotice,
			wantMsgID: "signatory-delete",
		},
		{
			name: "failed delete",
			event: SignatoryEvent{
				Operation:     OperationDelete,
				CertificateID: "42",
				SignatoryID:   7,
				Position:      1,
				Success:       false,
				ErrorMessage:  "connection refused",
			},
			wantMsg:   "failed to delete signatory 1 (id 7) of certificate 42: connection refused",
			wantSev:   SeverityWarning,
			wantMsgID: "signatory-delete",
		},
		{
			name: "create of unsaved signatory",
			event: SignatoryEvent{
				Operation:     OperationCreate,
				CertificateID: "42",
				Position:      3,
				Success:       true,
			},
			wantMsg:   "created unsaved signatory 3",
			wantSev:   SeverityInfo,
			wantMsgID: "signatory-create",
		},
		{
			name: "update",
			event: SignatoryEvent{
				Operation:     OperationUpdate,
				CertificateID: "42",
				SignatoryID:   9,
				Position:      2,
				Success:       true,
			},
			wantMsg:   "updated signatory 2 (id 9)",
			wantSev:   SeverityInfo,
			wantMsgID: "signatory-update",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != FacilityLocal0 {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), FacilityLocal0)
			}
			if tt.event.MessageID() != tt.wantMsgID {
				t.Errorf("MessageID() = %v, want %v", tt.event.MessageID(), tt.wantMsgID)
			}
		})
	}
}

func TestSignatoryEventStructuredData(t *testing.T) {
	sd := SignatoryEvent{
		Operation:     OperationDelete,
		CertificateID: "42",
		Position:      1,
		Success:       false,
	}.StructuredData()

	if sd[SDIDAction]["result"] != "failure" {
		t.Errorf("result = %q, want 'failure'", sd[SDIDAction]["result"])
	}
	if _, ok := sd[SDIDSubject]["signatory"]; ok {
		t.Error("unsaved signatory should not carry an id")
	}
	if _, ok := sd[SDIDClient]; ok {
		t.Error("client data should be omitted without an IP")
	}
}

func TestRecordSyslog(t *testing.T) {
	rec := Record{
		Facility:  FacilityLocal0,
		Severity:  int(SeverityWarning),
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Appname:   AppName,
		Procid:    "17",
		Msgid:     "signatory-delete",
		Sdata: map[string]map[string]string{
			SDIDSubject:     {"signatory": "7", "position": "2"},
			SDIDCertificate: {"id": "42"},
		},
		Message: "failed to delete signatory 2",
	}

	want := `<132>1 2024-03-01T12:00:00.000Z - signatories 17 signatory-delete ` +
		`[certificate@32473 id="42"][subject@32473 position="2" signatory="7"] failed to delete signatory 2` + "\n"
	if got := rec.Syslog(); got != want {
		t.Errorf("Syslog() = %q, want %q", got, want)
	}

	rec.Sdata = nil
	if got := rec.Syslog(); !strings.Contains(got, " signatory-delete - failed") {
		t.Errorf("empty structured data should be written as '-', got %q", got)
	}
}

func TestEscapeSDValue(t *testing.T) {
	got := escapeSDValue(`a"b]c\d`)
	want := `"a\"b\]c\\d"`
	if got != want {
		t.Errorf("escapeSDValue() = %s, want %s", got, want)
	}
}

func TestSetEnabled(t *testing.T) {
	var buf bytes.Buffer
	DefaultLogger.SetWriter(&buf)
	defer DefaultLogger.SetWriter(os.Stdout)

	SetEnabled(false)
	defer SetEnabled(true)

	Log(SignatoryEvent{Operation: OperationUpdate, CertificateID: "42", Success: true})
	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %q", buf.String())
	}
}
