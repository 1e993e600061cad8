package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"word-aligner/internal/align"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	// Use advisory lock to prevent concurrent migrations when the API
	// and worker start at the same time.
	// Note: In production, use dedicated migration tools (e.g., golang-migrate/migrate)
	// that run as a separate deployment step before app services start.
	const lockID = 774421905 // arbitrary number for this application's migration lock

	var acquired bool
	err := s.db.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, lockID).Scan(&acquired)
	if err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}

	if !acquired {
		// Another service is running migrations; wait briefly and skip
		time.Sleep(2 * time.Second)
		return nil
	}

	// Ensure lock is released when done
	defer func() {
		_, _ = s.db.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockID)
	}()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS batches (
			id UUID PRIMARY KEY,
			status TEXT,
			total INT,
			created_at TIMESTAMPTZ DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS batch_items (
			id UUID PRIMARY KEY,
			batch_id UUID REFERENCES batches(id) ON DELETE CASCADE,
			ord INT,
			source_text TEXT,
			target_text TEXT,
			status TEXT,
			error TEXT DEFAULT '',
			alignments JSONB,
			unaligned_source TEXT[],
			unaligned_target TEXT[]
		);`,
		`CREATE INDEX IF NOT EXISTS batch_items_batch_idx ON batch_items (batch_id, ord);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) CreateBatch(ctx context.Context, pairs []TextPair) (Batch, []BatchItem, error) {
	if len(pairs) == 0 {
		return Batch{}, nil, errors.New("batch requires at least one pair")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Batch{}, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	batch := Batch{ID: uuid.New(), Status: StatusProcessing, Total: len(pairs), CreatedAt: time.Now()}
	if _, err := tx.ExecContext(ctx, `INSERT INTO batches(id, status, total) VALUES($1,$2,$3)`,
		batch.ID, batch.Status, batch.Total); err != nil {
		return Batch{}, nil, err
	}

	items := make([]BatchItem, 0, len(pairs))
	for i, p := range pairs {
		item := BatchItem{
			ID:         uuid.New(),
			BatchID:    batch.ID,
			Ord:        i,
			SourceText: p.SourceText,
			TargetText: p.TargetText,
			Status:     StatusProcessing,
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO batch_items(id, batch_id, ord, source_text, target_text, status) VALUES($1,$2,$3,$4,$5,$6)`,
			item.ID, item.BatchID, item.Ord, item.SourceText, item.TargetText, item.Status); err != nil {
			return Batch{}, nil, err
		}
		items = append(items, item)
	}
	if err := tx.Commit(); err != nil {
		return Batch{}, nil, err
	}
	return batch, items, nil
}

func (s *PostgresStore) GetBatch(ctx context.Context, id uuid.UUID) (Batch, error) {
	var b Batch
	err := s.db.QueryRowContext(ctx,
		`SELECT id, status, total, created_at FROM batches WHERE id=$1`, id).
		Scan(&b.ID, &b.Status, &b.Total, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Batch{}, ErrBatchNotFound
	}
	if err != nil {
		return Batch{}, err
	}
	return b, nil
}

func (s *PostgresStore) ListItems(ctx context.Context, batchID uuid.UUID) ([]BatchItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, batch_id, ord, source_text, target_text, status, error, alignments, unaligned_source, unaligned_target
		 FROM batch_items WHERE batch_id=$1 ORDER BY ord`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []BatchItem
	for rows.Next() {
		var it BatchItem
		var alignmentsJSON []byte
		if err := rows.Scan(&it.ID, &it.BatchID, &it.Ord, &it.SourceText, &it.TargetText,
			&it.Status, &it.Error, &alignmentsJSON,
			pq.Array(&it.UnalignedSource), pq.Array(&it.UnalignedTarget)); err != nil {
			return nil, err
		}
		if len(alignmentsJSON) > 0 {
			if err := json.Unmarshal(alignmentsJSON, &it.Alignments); err != nil {
				return nil, fmt.Errorf("decode alignments for item %s: %w", it.ID, err)
			}
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *PostgresStore) SaveItemResult(ctx context.Context, itemID uuid.UUID, alignments []align.WordAlignment, unalignedSource, unalignedTarget []string) error {
	if alignments == nil {
		alignments = []align.WordAlignment{}
	}
	data, err := json.Marshal(alignments)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE batch_items SET status=$1, alignments=$2, unaligned_source=$3, unaligned_target=$4 WHERE id=$5`,
		StatusReady, data, pq.Array(unalignedSource), pq.Array(unalignedTarget), itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("batch item %s not found", itemID)
	}
	return nil
}

func (s *PostgresStore) MarkItemFailed(ctx context.Context, itemID uuid.UUID, reason string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE batch_items SET status=$1, error=$2 WHERE id=$3`, StatusFailed, reason, itemID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("batch item %s not found", itemID)
	}
	return nil
}

func (s *PostgresStore) UpdateBatchStatus(ctx context.Context, id uuid.UUID, status BatchStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE batches SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBatchNotFound
	}
	return nil
}
