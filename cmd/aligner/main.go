package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"word-aligner/internal/align"
	"word-aligner/internal/app"
	"word-aligner/internal/cache"
	"word-aligner/internal/embeddings"
	"word-aligner/internal/httputil"
	"word-aligner/internal/queue"
	"word-aligner/internal/store"
)

type alignRequest struct {
	SourceText string `json:"source_text" validate:"required"`
	TargetText string `json:"target_text" validate:"required"`
}

type batchRequest struct {
	Pairs []alignRequest `json:"pairs" validate:"required,min=1,max=100,dive"`
}

type alignBatchPayload struct {
	BatchID uuid.UUID `json:"batch_id"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	r := httputil.NewRouter(deps.Log)

	r.Post("/api/align", alignHandler(deps))
	r.Post("/api/batches", batchCreateHandler(deps))
	r.Get("/api/batches/{id}", batchGetHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps))

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("aligner service listening", "addr", addr, "strategy", deps.Config.Strategy)
	if err := http.ListenAndServe(addr, r); err != nil {
		deps.Log.Error("server error", "err", err)
	}
}

func alignHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req alignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}

		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		if msg, ok := checkLength(deps, req); !ok {
			httputil.Fail(deps.Log, w, msg, nil, http.StatusBadRequest)
			return
		}

		ctx := r.Context()

		// Alignment is deterministic, so a cache hit is exact.
		key := cache.Key(req.SourceText, req.TargetText,
			deps.Config.Strategy, deps.Config.ItermaxIterations, deps.Config.EmbeddingModel)
		if cached, err := deps.Cache.GetResult(ctx, key); err == nil && cached != nil {
			deps.Log.Info("cache hit", "key", key)
			httputil.WriteJSON(w, http.StatusOK, cached)
			return
		} else if err != nil {
			deps.Log.Warn("cache read failed", "err", err)
		}

		result, err := deps.Aligner.Align(ctx, req.SourceText, req.TargetText)
		if err != nil {
			failAlign(deps.Log, w, err)
			return
		}

		cacheTTL := time.Duration(deps.Config.CacheTTL) * time.Second
		if err := deps.Cache.SetResult(ctx, key, &result, cacheTTL); err != nil {
			// Log cache write failure but don't fail the request
			deps.Log.Warn("failed to cache result", "err", err)
		}

		httputil.WriteJSON(w, http.StatusOK, result)
	}
}

// failAlign maps pipeline errors onto HTTP statuses.
func failAlign(log *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, align.ErrEmptyInput):
		httputil.Fail(log, w, "source or target text is empty", err, http.StatusBadRequest)
	case errors.Is(err, embeddings.ErrUnavailable):
		httputil.Fail(log, w, "embedding model unavailable", err, http.StatusBadGateway)
	default:
		httputil.Fail(log, w, "alignment failed", err, http.StatusInternalServerError)
	}
}

func checkLength(deps app.Deps, req alignRequest) (string, bool) {
	max := deps.Config.MaxTextLength
	if max <= 0 {
		return "", true
	}
	if len(req.SourceText) > max || len(req.TargetText) > max {
		return fmt.Sprintf("text too long (max %d bytes per side)", max), false
	}
	return "", true
}

func batchCreateHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req batchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}
		pairs := make([]store.TextPair, len(req.Pairs))
		for i, p := range req.Pairs {
			if msg, ok := checkLength(deps, p); !ok {
				httputil.Fail(deps.Log, w, fmt.Sprintf("pair %d: %s", i, msg), nil, http.StatusBadRequest)
				return
			}
			pairs[i] = store.TextPair{SourceText: p.SourceText, TargetText: p.TargetText}
		}

		ctx := r.Context()
		batch, _, err := deps.Store.CreateBatch(ctx, pairs)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to persist batch", err, http.StatusInternalServerError)
			return
		}

		body, err := json.Marshal(alignBatchPayload{BatchID: batch.ID})
		if err != nil {
			failBatch(deps, ctx, w, "marshal payload failed", err, batch.ID)
			return
		}
		task := queue.Task{Type: queue.TaskTypeAlignBatch, Payload: body}
		if err := queue.EnqueueWithRetry(ctx, deps.Queue, task, 3, 200*time.Millisecond); err != nil {
			failBatch(deps, ctx, w, "failed to enqueue batch; please retry", err, batch.ID)
			return
		}

		httputil.WriteJSON(w, http.StatusAccepted, map[string]any{
			"batch_id": batch.ID.String(),
			"status":   batch.Status,
			"total":    batch.Total,
		})
	}
}

// failBatch marks the batch failed before answering, so clients never
// poll a batch that will not be processed.
func failBatch(deps app.Deps, ctx context.Context, w http.ResponseWriter, message string, err error, batchID uuid.UUID) {
	log := deps.Log.With("batch_id", batchID)
	if upErr := deps.Store.UpdateBatchStatus(ctx, batchID, store.StatusFailed); upErr != nil {
		log.Error("failed to mark batch failed", "err", upErr)
	}
	httputil.Fail(log, w, message, err, http.StatusInternalServerError)
}

func batchGetHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := chi.URLParam(r, "id")
		batchID, err := uuid.Parse(idStr)
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid batch id", err, http.StatusBadRequest)
			return
		}
		ctx := r.Context()
		batch, err := deps.Store.GetBatch(ctx, batchID)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, store.ErrBatchNotFound) {
				status = http.StatusNotFound
			}
			httputil.Fail(deps.Log, w, "batch not found", err, status)
			return
		}
		items, err := deps.Store.ListItems(ctx, batchID)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to load batch items", err, http.StatusInternalServerError)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"batch_id":   batch.ID.String(),
			"status":     batch.Status,
			"total":      batch.Total,
			"created_at": batch.CreatedAt,
			"items":      buildItemViews(items),
		})
	}
}

type itemView struct {
	Ord             int                   `json:"ord"`
	SourceText      string                `json:"source_text"`
	TargetText      string                `json:"target_text"`
	Status          store.BatchStatus     `json:"status"`
	Error           string                `json:"error,omitempty"`
	Alignments      []align.WordAlignment `json:"alignments"`
	TotalAlignments int                   `json:"total_alignments"`
	UnalignedSource []string              `json:"unaligned_source"`
	UnalignedTarget []string              `json:"unaligned_target"`
}

func buildItemViews(items []store.BatchItem) []itemView {
	views := make([]itemView, len(items))
	for i, it := range items {
		alignments := it.Alignments
		if alignments == nil {
			alignments = []align.WordAlignment{}
		}
		views[i] = itemView{
			Ord:             it.Ord,
			SourceText:      it.SourceText,
			TargetText:      it.TargetText,
			Status:          it.Status,
			Error:           it.Error,
			Alignments:      alignments,
			TotalAlignments: len(alignments),
			UnalignedSource: it.UnalignedSource,
			UnalignedTarget: it.UnalignedTarget,
		}
	}
	return views
}
