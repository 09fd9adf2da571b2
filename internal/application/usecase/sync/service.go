package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldlog/fieldlog/internal/application/port/output"
	"github.com/fieldlog/fieldlog/internal/domain/repository"
)

// Service pushes queued operation documents to the remote mirror.
// One pass, best effort: a failed item is reported and left pending
// for the next run, never retried within the same pass.
type Service struct {
	queueRepo repository.SyncQueueRepository
	gateway   output.MirrorGateway
	now       func() time.Time
}

// Failure records one item that could not be pushed
type Failure struct {
	QueueItemID string
	OperationID string
	Err         error
}

// Result summarizes one sync pass
type Result struct {
	Pushed   []string // Remote paths of mirrored documents
	Failures []Failure
}

// NewService creates a sync service
func NewService(queueRepo repository.SyncQueueRepository, gateway output.MirrorGateway) *Service {
	return &Service{
		queueRepo: queueRepo,
		gateway:   gateway,
		now:       time.Now,
	}
}

// WithClock overrides the synced-at timestamp source
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Run pushes every pending queue item once. The pass itself only fails
// when the queue cannot be read; per-item errors land in the result.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	pending, err := s.queueRepo.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending sync: %w", err)
	}

	result := &Result{}
	for _, item := range pending {
		pushed, err := s.gateway.PushDocument(ctx, output.PushDocumentRequest{
			OperationID: item.OperationID,
			QueueItemID: item.ID,
			Content:     item.Payload,
		})
		if err != nil {
			result.Failures = append(result.Failures, Failure{
				QueueItemID: item.ID,
				OperationID: item.OperationID,
				Err:         err,
			})
			continue
		}
		if err := s.queueRepo.MarkSynced(ctx, item.ID, s.now()); err != nil {
			// The document is mirrored; the stale pending mark means it
			// may be pushed again next pass, which the mirror tolerates.
			result.Failures = append(result.Failures, Failure{
				QueueItemID: item.ID,
				OperationID: item.OperationID,
				Err:         fmt.Errorf("mark synced: %w", err),
			})
			continue
		}
		result.Pushed = append(result.Pushed, pushed.RemotePath)
	}
	return result, nil
}
