package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldlog/fieldlog/internal/application/port/output"
	"github.com/fieldlog/fieldlog/internal/domain/repository"
)

type memQueue struct {
	items []*repository.QueueItem
}

func (q *memQueue) Enqueue(_ context.Context, item *repository.QueueItem) error {
	q.items = append(q.items, item)
	return nil
}

func (q *memQueue) Pending(_ context.Context) ([]*repository.QueueItem, error) {
	var pending []*repository.QueueItem
	for _, it := range q.items {
		if it.SyncedAt == nil {
			pending = append(pending, it)
		}
	}
	return pending, nil
}

func (q *memQueue) MarkSynced(_ context.Context, id string, at time.Time) error {
	for _, it := range q.items {
		if it.ID == id {
			t := at
			it.SyncedAt = &t
			return nil
		}
	}
	return errors.New("not found")
}

func (q *memQueue) Clear(_ context.Context) error {
	q.items = nil
	return nil
}

type stubGateway struct {
	failFor map[string]error
	pushed  []output.PushDocumentRequest
}

func (g *stubGateway) PushDocument(_ context.Context, req output.PushDocumentRequest) (*output.PushResult, error) {
	if err, ok := g.failFor[req.QueueItemID]; ok {
		return nil, err
	}
	g.pushed = append(g.pushed, req)
	return &output.PushResult{
		RemotePath: "s3://mirror/operations/" + req.OperationID + "-" + req.QueueItemID + ".json",
		Size:       int64(len(req.Content)),
		PushedAt:   time.Now(),
	}, nil
}

func item(id, opID string) *repository.QueueItem {
	return &repository.QueueItem{
		ID:          id,
		OperationID: opID,
		Payload:     []byte(`{"id":"` + opID + `"}`),
		EnqueuedAt:  time.Now(),
	}
}

func TestRunPushesAllPending(t *testing.T) {
	queue := &memQueue{items: []*repository.QueueItem{item("q1", "op1"), item("q2", "op2")}}
	gw := &stubGateway{}
	svc := NewService(queue, gw)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Pushed, 2)
	assert.Empty(t, result.Failures)
	assert.Len(t, gw.pushed, 2)

	for _, it := range queue.items {
		assert.NotNil(t, it.SyncedAt)
	}
}

func TestRunSkipsFailedItems(t *testing.T) {
	queue := &memQueue{items: []*repository.QueueItem{item("q1", "op1"), item("q2", "op2"), item("q3", "op3")}}
	gw := &stubGateway{failFor: map[string]error{"q2": errors.New("network down")}}
	svc := NewService(queue, gw)

	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Pushed, 2)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "q2", result.Failures[0].QueueItemID)
	assert.ErrorContains(t, result.Failures[0].Err, "network down")

	// The failed item stays pending for the next pass
	pending, err := queue.Pending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "q2", pending[0].ID)
}

func TestRunSecondPassRetriesOnlyPending(t *testing.T) {
	queue := &memQueue{items: []*repository.QueueItem{item("q1", "op1"), item("q2", "op2")}}
	gw := &stubGateway{failFor: map[string]error{"q2": errors.New("timeout")}}
	svc := NewService(queue, gw)

	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	gw.failFor = nil
	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Pushed, 1)
	assert.Len(t, gw.pushed, 2, "already-synced items must not be pushed again")
}

func TestRunEmptyQueue(t *testing.T) {
	svc := NewService(&memQueue{}, &stubGateway{})
	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result.Pushed)
	assert.Empty(t, result.Failures)
}
