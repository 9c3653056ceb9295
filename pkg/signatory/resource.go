package signatory

import (
	"context"
	"errors"
)

// ErrResourceNotConfigured is returned when a collection is built without
// a certificate base URL or certificate ID.
var ErrResourceNotConfigured = errors.New("signatory resource is not configured: certificate base URL and certificate ID are required")

// ErrNotFound is returned when a signatory is not a member of the collection.
var ErrNotFound = errors.New("signatory not found")

// ErrRemote wraps every failure reported by a remote Resource.
var ErrRemote = errors.New("signatory resource request failed")

// Resource abstracts the remote signatories endpoint of one certificate.
type Resource interface {
	// List returns every signatory stored for the certificate, in display order.
	List(ctx context.Context) ([]Signatory, error)

	// Create persists a new signatory and returns it with its ID assigned.
	Create(ctx context.Context, s Signatory) (Signatory, error)

	// Update writes the name and title of a persisted signatory.
	Update(ctx context.Context, s Signatory) (Signatory, error)

	// Delete removes a persisted signatory.
	Delete(ctx context.Context, s Signatory) error
}
