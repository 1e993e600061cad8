package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"word-aligner/internal/align"
	"word-aligner/internal/app"
	"word-aligner/internal/embeddings"
	"word-aligner/internal/httputil"
	"word-aligner/internal/queue"
	"word-aligner/internal/store"
	"word-aligner/internal/tokenizer"
)

type alignBatchPayload struct {
	BatchID uuid.UUID `json:"batch_id"`
}

func main() {
	deps, err := app.BuildWorker()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("alignment worker starting")

	g, ctx := errgroup.WithContext(context.Background())

	// Run queue worker
	g.Go(func() error {
		return deps.Queue.Worker(ctx, queue.TaskTypeAlignBatch, func(ctx context.Context, task queue.Task) error {
			var payload alignBatchPayload
			if err := json.Unmarshal(task.Payload, &payload); err != nil {
				return err
			}
			return handleAlignBatch(ctx, deps, payload)
		})
	})

	// Run health check server
	g.Go(func() error {
		return httputil.ServeHealth(deps, "worker")
	})

	// Wait for either to fail
	if err := g.Wait(); err != nil {
		deps.Log.Error("alignment worker stopped", "err", err)
	}
}

// handleAlignBatch aligns every pending item of the batch. An embedder
// outage fails the whole task so the queue redelivers it; any other
// per-item error is recorded on the item and processing continues.
func handleAlignBatch(ctx context.Context, deps app.Deps, payload alignBatchPayload) error {
	log := deps.Log.With("batch_id", payload.BatchID)

	items, err := deps.Store.ListItems(ctx, payload.BatchID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		log.Warn("batch has no items")
		return deps.Store.UpdateBatchStatus(ctx, payload.BatchID, store.StatusFailed)
	}

	failed := 0
	for _, item := range items {
		switch item.Status {
		case store.StatusReady:
			continue // already processed on a previous delivery
		case store.StatusFailed:
			failed++
			continue
		}

		result, err := deps.Aligner.Align(ctx, item.SourceText, item.TargetText)
		if err != nil {
			if errors.Is(err, embeddings.ErrUnavailable) || errors.Is(err, context.Canceled) {
				return err
			}
			log.Warn("item alignment failed", "item_id", item.ID, "err", err)
			if markErr := deps.Store.MarkItemFailed(ctx, item.ID, err.Error()); markErr != nil {
				return markErr
			}
			failed++
			continue
		}

		unalignedSrc, unalignedTgt, err := unalignedWords(deps.Tokenizer, item, result)
		if err != nil {
			return err
		}
		if err := deps.Store.SaveItemResult(ctx, item.ID, result.Alignments, unalignedSrc, unalignedTgt); err != nil {
			return err
		}
	}

	status := store.StatusReady
	if failed == len(items) {
		status = store.StatusFailed
	}
	log.Info("batch processed", "items", len(items), "failed_items", failed, "status", status)
	return deps.Store.UpdateBatchStatus(ctx, payload.BatchID, status)
}

// unalignedWords lists the words on each side that ended up in no
// alignment, keyed by their character spans.
func unalignedWords(tok tokenizer.Tokenizer, item store.BatchItem, result align.Result) ([]string, []string, error) {
	src, err := tok.Tokenize(item.SourceText)
	if err != nil {
		return nil, nil, err
	}
	tgt, err := tok.Tokenize(item.TargetText)
	if err != nil {
		return nil, nil, err
	}

	alignedSrc := make(map[[2]int]bool, len(result.Alignments))
	alignedTgt := make(map[[2]int]bool, len(result.Alignments))
	for _, a := range result.Alignments {
		alignedSrc[a.SrcSpan] = true
		alignedTgt[a.TargetSpan] = true
	}

	return leftoverWords(src.Words, alignedSrc), leftoverWords(tgt.Words, alignedTgt), nil
}

func leftoverWords(words []tokenizer.Word, aligned map[[2]int]bool) []string {
	out := []string{}
	for _, w := range words {
		if !aligned[[2]int{w.Start, w.End}] {
			out = append(out, w.Text)
		}
	}
	return out
}
