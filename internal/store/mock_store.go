package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"word-aligner/internal/align"
)

// MockStore is a mock implementation of the Store interface for testing
type MockStore struct {
	mock.Mock
}

func (m *MockStore) CreateBatch(ctx context.Context, pairs []TextPair) (Batch, []BatchItem, error) {
	args := m.Called(ctx, pairs)
	return args.Get(0).(Batch), args.Get(1).([]BatchItem), args.Error(2)
}

func (m *MockStore) GetBatch(ctx context.Context, id uuid.UUID) (Batch, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Batch), args.Error(1)
}

func (m *MockStore) ListItems(ctx context.Context, batchID uuid.UUID) ([]BatchItem, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BatchItem), args.Error(1)
}

func (m *MockStore) SaveItemResult(ctx context.Context, itemID uuid.UUID, alignments []align.WordAlignment, unalignedSource, unalignedTarget []string) error {
	args := m.Called(ctx, itemID, alignments, unalignedSource, unalignedTarget)
	return args.Error(0)
}

func (m *MockStore) MarkItemFailed(ctx context.Context, itemID uuid.UUID, reason string) error {
	args := m.Called(ctx, itemID, reason)
	return args.Error(0)
}

func (m *MockStore) UpdateBatchStatus(ctx context.Context, id uuid.UUID, status BatchStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
