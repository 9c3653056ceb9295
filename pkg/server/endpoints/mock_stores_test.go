package endpoints

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/signatories/pkg/server/store"
)

// MockSignatoriesStore implements store.SignatoriesStore for testing using testify/mock
type MockSignatoriesStore struct {
	mock.Mock
}

func NewMockSignatoriesStore() *MockSignatoriesStore {
	return &MockSignatoriesStore{}
}

func (m *MockSignatoriesStore) ListSignatories(ctx context.Context, certificateID string) ([]store.Signatory, error) {
	args := m.Called(ctx, certificateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Signatory), args.Error(1)
}

func (m *MockSignatoriesStore) CreateSignatory(ctx context.Context, s *store.Signatory) error {
	args := m.Called(ctx, s)
	if id, ok := args.Get(0).(int64); ok {
		s.ID = id
		return nil
	}
	return args.Error(0)
}

func (m *MockSignatoriesStore) UpdateSignatory(ctx context.Context, s store.Signatory) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSignatoriesStore) DeleteSignatory(ctx context.Context, certificateID string, id int64) error {
	args := m.Called(ctx, certificateID, id)
	return args.Error(0)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}
