package store

import (
	"context"
	"errors"
)

// ErrSignatoryNotFound is returned when a signatory doesn't exist on the certificate
var ErrSignatoryNotFound = errors.New("signatory not found")

// Signatory is a stored signatory of a certificate
type Signatory struct {
	ID            int64
	CertificateID string
	Name          string
	Title         string
}

// SignatoriesStore abstracts signatory storage operations
type SignatoriesStore interface {
	// ListSignatories returns the signatories of a certificate ordered by id.
	ListSignatories(ctx context.Context, certificateID string) ([]Signatory, error)

	// CreateSignatory stores a new signatory and sets its ID.
	CreateSignatory(ctx context.Context, s *Signatory) error

	// UpdateSignatory replaces the name and title of a signatory.
	// Returns ErrSignatoryNotFound if the signatory doesn't exist.
	UpdateSignatory(ctx context.Context, s Signatory) error

	// DeleteSignatory removes a signatory.
	// Returns ErrSignatoryNotFound if the signatory doesn't exist.
	DeleteSignatory(ctx context.Context, certificateID string, id int64) error
}
