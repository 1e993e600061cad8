package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"word-aligner/internal/align"
)

type BatchStatus string

const (
	StatusProcessing BatchStatus = "processing"
	StatusReady      BatchStatus = "ready"
	StatusFailed     BatchStatus = "failed"
)

var ErrBatchNotFound = errors.New("batch not found")

// TextPair is one source/target sentence pair submitted for alignment.
type TextPair struct {
	SourceText string
	TargetText string
}

// Batch groups sentence pairs submitted together for async alignment.
type Batch struct {
	ID        uuid.UUID
	Status    BatchStatus
	Total     int
	CreatedAt time.Time
}

// BatchItem is one sentence pair within a batch, plus its alignment
// outcome once processed. UnalignedSource/UnalignedTarget list words
// that got no counterpart, for downstream translation-QA triage.
type BatchItem struct {
	ID              uuid.UUID
	BatchID         uuid.UUID
	Ord             int
	SourceText      string
	TargetText      string
	Status          BatchStatus
	Error           string
	Alignments      []align.WordAlignment
	UnalignedSource []string
	UnalignedTarget []string
}

// Store defines persistence for batch alignment jobs; an external DB
// implementation can replace this.
type Store interface {
	CreateBatch(ctx context.Context, pairs []TextPair) (Batch, []BatchItem, error)
	GetBatch(ctx context.Context, id uuid.UUID) (Batch, error)
	ListItems(ctx context.Context, batchID uuid.UUID) ([]BatchItem, error)
	SaveItemResult(ctx context.Context, itemID uuid.UUID, alignments []align.WordAlignment, unalignedSource, unalignedTarget []string) error
	MarkItemFailed(ctx context.Context, itemID uuid.UUID, reason string) error
	UpdateBatchStatus(ctx context.Context, id uuid.UUID, status BatchStatus) error
}
