package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fieldlog/fieldlog/internal/domain/repository"
)

// SyncQueueRepositoryImpl implements repository.SyncQueueRepository on SQLite
type SyncQueueRepositoryImpl struct {
	db *sql.DB
}

// NewSyncQueueRepositoryImpl creates a SQLite-backed sync queue repository
func NewSyncQueueRepositoryImpl(db *sql.DB) *SyncQueueRepositoryImpl {
	return &SyncQueueRepositoryImpl{db: db}
}

// Enqueue adds a snapshot to the queue
func (r *SyncQueueRepositoryImpl) Enqueue(ctx context.Context, item *repository.QueueItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sync_queue (id, operation_id, payload, enqueued_at, synced_at)
		 VALUES (?, ?, ?, ?, NULL)`,
		item.ID, item.OperationID, item.Payload, item.EnqueuedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("enqueue sync item: %w", err)
	}
	return nil
}

// Pending retrieves items not yet pushed, oldest first
func (r *SyncQueueRepositoryImpl) Pending(ctx context.Context) ([]*repository.QueueItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, operation_id, payload, enqueued_at
		 FROM sync_queue
		 WHERE synced_at IS NULL
		 ORDER BY enqueued_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending sync items: %w", err)
	}
	defer rows.Close()

	var items []*repository.QueueItem
	for rows.Next() {
		item := &repository.QueueItem{}
		if err := rows.Scan(&item.ID, &item.OperationID, &item.Payload, &item.EnqueuedAt); err != nil {
			return nil, fmt.Errorf("scan sync item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync items: %w", err)
	}
	return items, nil
}

// MarkSynced records a successful push
func (r *SyncQueueRepositoryImpl) MarkSynced(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE sync_queue SET synced_at = ? WHERE id = ? AND synced_at IS NULL",
		at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("mark sync item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark sync item: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("sync item not found or already synced: %s", id)
	}
	return nil
}

// Clear wipes the queue
func (r *SyncQueueRepositoryImpl) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sync_queue"); err != nil {
		return fmt.Errorf("clear sync queue: %w", err)
	}
	return nil
}
