// Package signatorytest provides a testify mock of signatory.Resource.
package signatorytest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/signatories/pkg/signatory"
)

// MockResource implements signatory.Resource for testing using testify/mock
type MockResource struct {
	mock.Mock

	// URL records the resource URL the mock was opened with.
	URL string
}

var _ signatory.Resource = (*MockResource)(nil)

func NewMockResource() *MockResource {
	return &MockResource{}
}

// Opener returns a signatory.Opener that always yields m.
func (m *MockResource) Opener() signatory.Opener {
	return func(resourceURL string) signatory.Resource {
		m.URL = resourceURL
		return m
	}
}

func (m *MockResource) List(ctx context.Context) ([]signatory.Signatory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]signatory.Signatory), args.Error(1)
}

func (m *MockResource) Create(ctx context.Context, s signatory.Signatory) (signatory.Signatory, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(signatory.Signatory), args.Error(1)
}

func (m *MockResource) Update(ctx context.Context, s signatory.Signatory) (signatory.Signatory, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(signatory.Signatory), args.Error(1)
}

func (m *MockResource) Delete(ctx context.Context, s signatory.Signatory) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
