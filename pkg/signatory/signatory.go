package signatory

import (
	"github.com/google/uuid"
)

// Signatory is an immutable snapshot of a signatory record. Updates return
// a new value; the owning Collection holds the current snapshot.
type Signatory struct {
	// Key identifies the signatory in memory. It is assigned when the
	// signatory enters a collection and never sent over the wire.
	Key uuid.UUID `json:"-"`

	// ID is the server-side identifier, zero until the record is persisted.
	ID          int64  `json:"id,omitempty"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Certificate string `json:"certificate"`
}

// IsNew reports whether the signatory has not been persisted yet.
func (s Signatory) IsNew() bool {
	return s.ID == 0
}

// WithName returns a copy of s with the name replaced.
func (s Signatory) WithName(name string) Signatory {
	s.Name = name
	return s
}

// WithTitle returns a copy of s with the title replaced.
func (s Signatory) WithTitle(title string) Signatory {
	s.Title = title
	return s
}

// WithID returns a copy of s carrying the server-side identifier.
func (s Signatory) WithID(id int64) Signatory {
	s.ID = id
	return s
}

// Attributes returns the wire fields of the signatory.
func (s Signatory) Attributes() map[string]any {
	attrs := map[string]any{
		"name":        s.Name,
		"title":       s.Title,
		"certificate": s.Certificate,
	}
	if !s.IsNew() {
		attrs["id"] = s.ID
	}
	return attrs
}
