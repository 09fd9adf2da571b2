package repository

import (
	"context"
	"time"
)

// QueueItem is one operation snapshot waiting to be mirrored remotely.
// The queue is decoupled from the interactive history; the mirror is an
// eventually-consistent copy, never a source of truth.
type QueueItem struct {
	ID          string // uuid
	OperationID string
	Payload     []byte // JSON document pushed to the mirror
	EnqueuedAt  time.Time
	SyncedAt    *time.Time
}

// SyncQueueRepository manages the local queue of pending mirror pushes
type SyncQueueRepository interface {
	// Enqueue adds a snapshot to the queue
	Enqueue(ctx context.Context, item *QueueItem) error

	// Pending retrieves items not yet pushed, oldest first
	Pending(ctx context.Context) ([]*QueueItem, error)

	// MarkSynced records a successful push
	MarkSynced(ctx context.Context, id string, at time.Time) error

	// Clear wipes the queue
	Clear(ctx context.Context) error
}
