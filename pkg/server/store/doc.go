// Package store provides storage abstractions for the signatories server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
//
// # Available Stores
//
//   - SignatoriesStore: Signatory listing, creation, update and removal
//   - HealthStore: Database connectivity checks
//
// # Usage
//
//	st := gorm.NewSignatoriesStore(db)
//	err := st.DeleteSignatory(ctx, "course-v1:edX+DemoX", 7)
//	if errors.Is(err, store.ErrSignatoryNotFound) {
//	    // Handle not found
//	}
package store
