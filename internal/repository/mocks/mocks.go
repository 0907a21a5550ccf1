package mocks

import (
	"context"

	"github.com/edgarbjorntvedt/mcp-brain-manager/internal/repository"
	"github.com/stretchr/testify/mock"
)

// StateRepository is a mock for repository.StateRepository.
type StateRepository struct {
	mock.Mock
}

func (m *StateRepository) Set(ctx context.Context, category, key string, value []byte) error {
	args := m.Called(ctx, category, key, value)
	return args.Error(0)
}

func (m *StateRepository) Get(ctx context.Context, category, key string) ([]byte, error) {
	args := m.Called(ctx, category, key)
	if value, ok := args.Get(0).([]byte); ok {
		return value, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StateRepository) Delete(ctx context.Context, category, key string) error {
	args := m.Called(ctx, category, key)
	return args.Error(0)
}

func (m *StateRepository) List(ctx context.Context, category string) ([]repository.StateEntry, error) {
	args := m.Called(ctx, category)
	if list, ok := args.Get(0).([]repository.StateEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
