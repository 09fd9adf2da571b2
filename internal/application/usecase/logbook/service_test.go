package logbook

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldlog/fieldlog/internal/domain/model"
	"github.com/fieldlog/fieldlog/internal/domain/model/interval"
	state "github.com/fieldlog/fieldlog/internal/domain/model/logbook"
	"github.com/fieldlog/fieldlog/internal/domain/model/operation"
	"github.com/fieldlog/fieldlog/internal/domain/repository"
)

type memStateRepo struct {
	st *state.State
}

func (r *memStateRepo) Load(_ context.Context) (*state.State, error) {
	if r.st == nil {
		return state.NewState(), nil
	}
	return r.st, nil
}

func (r *memStateRepo) Save(_ context.Context, st *state.State) error {
	r.st = st
	return nil
}

func (r *memStateRepo) Reset(_ context.Context) error {
	r.st = nil
	return nil
}

type memHistoryRepo struct {
	ops []*operation.Operation
}

func (r *memHistoryRepo) All(_ context.Context) ([]*operation.Operation, error) {
	return r.ops, nil
}

func (r *memHistoryRepo) FindByID(_ context.Context, id model.OperationID) (*operation.Operation, error) {
	for _, op := range r.ops {
		if op.ID().Equals(id) {
			return op, nil
		}
	}
	return nil, repository.ErrOperationNotFound
}

func (r *memHistoryRepo) Last(_ context.Context) (*operation.Operation, error) {
	if len(r.ops) == 0 {
		return nil, repository.ErrOperationNotFound
	}
	return r.ops[len(r.ops)-1], nil
}

func (r *memHistoryRepo) Append(_ context.Context, op *operation.Operation) error {
	r.ops = append(r.ops, op)
	return nil
}

func (r *memHistoryRepo) Update(_ context.Context, op *operation.Operation) error {
	for i, stored := range r.ops {
		if stored.ID().Equals(op.ID()) {
			r.ops[i] = op
			return nil
		}
	}
	return repository.ErrOperationNotFound
}

func (r *memHistoryRepo) Count(_ context.Context) (int, error) {
	return len(r.ops), nil
}

func (r *memHistoryRepo) Clear(_ context.Context) error {
	r.ops = nil
	return nil
}

type memQueueRepo struct {
	items []*repository.QueueItem
}

func (r *memQueueRepo) Enqueue(_ context.Context, item *repository.QueueItem) error {
	r.items = append(r.items, item)
	return nil
}

func (r *memQueueRepo) Pending(_ context.Context) ([]*repository.QueueItem, error) {
	var pending []*repository.QueueItem
	for _, it := range r.items {
		if it.SyncedAt == nil {
			pending = append(pending, it)
		}
	}
	return pending, nil
}

func (r *memQueueRepo) MarkSynced(_ context.Context, id string, at time.Time) error {
	for _, it := range r.items {
		if it.ID == id {
			t := at
			it.SyncedAt = &t
			return nil
		}
	}
	return errors.New("queue item not found")
}

func (r *memQueueRepo) Clear(_ context.Context) error {
	r.items = nil
	return nil
}

type fixture struct {
	svc     *Service
	history *memHistoryRepo
	queue   *memQueueRepo
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		history: &memHistoryRepo{},
		queue:   &memQueueRepo{},
		now:     time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC),
	}
	svc, err := NewService(context.Background(), &memStateRepo{}, f.history, f.queue,
		WithClock(func() time.Time { return f.now }))
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// saveOperation drives the fixture through a minimal save
func (f *fixture) saveOperation(t *testing.T) *operation.Operation {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.svc.StartOperation(ctx))
	f.advance(time.Hour)
	result, err := f.svc.SaveOperation(ctx, operation.Fields{
		Type: "Transfer", City: "X", WellService: "Y", OperatorName: "Z",
	})
	require.NoError(t, err)
	require.Empty(t, result.Warnings)
	return result.Operation
}

func TestFullCycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Displacement: Base -> Site A, 100 -> 150 km
	require.NoError(t, f.svc.StartDisplacement(ctx, "Base", "Site A", "100"))
	f.advance(40 * time.Minute)
	snap, err := f.svc.EndDisplacement(ctx, "150")
	require.NoError(t, err)
	assert.Equal(t, 50.0, snap.DistanceKm)
	assert.Equal(t, model.Minutes(40), snap.Duration)

	// Mobilization
	require.NoError(t, f.svc.StartMobilization(ctx))
	f.advance(30 * time.Minute)
	mobDur, err := f.svc.EndMobilization(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Minutes(30), mobDur)

	// Operation
	op := f.saveOperation(t)
	assert.Len(t, f.history.ops, 1)
	assert.NotNil(t, op.Displacement())
	assert.NotNil(t, op.Mobilization())
	assert.Len(t, f.queue.items, 1, "save should queue one mirror document")

	// Two waiting periods: 10 and 15 minutes
	require.NoError(t, f.svc.StartWaiting(ctx, "crane unavailable"))
	f.advance(10 * time.Minute)
	_, err = f.svc.EndWaiting(ctx)
	require.NoError(t, err)

	require.NoError(t, f.svc.StartWaiting(ctx, "waiting on client"))
	f.advance(15 * time.Minute)
	_, err = f.svc.EndWaiting(ctx)
	require.NoError(t, err)

	stored, err := f.history.Last(ctx)
	require.NoError(t, err)
	require.NotNil(t, stored.TotalWaiting())
	assert.Equal(t, model.Minutes(25), *stored.TotalWaiting())
	assert.Len(t, stored.WaitingPeriods(), 2)

	// Lunch and refueling interleaved
	require.NoError(t, f.svc.StartLunch(ctx))
	require.NoError(t, f.svc.StartRefueling(ctx, model.FuelTypeWater))
	f.advance(45 * time.Minute)
	_, err = f.svc.EndLunch(ctx)
	require.NoError(t, err)
	f.advance(5 * time.Minute)
	_, err = f.svc.EndRefueling(ctx)
	require.NoError(t, err)

	stored, err = f.history.Last(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Minutes(45), *stored.TotalLunch())
	assert.Equal(t, model.Minutes(50), *stored.TotalRefueling())

	// Demobilization closes the cycle
	require.NoError(t, f.svc.StartDemobilization(ctx))
	f.advance(20 * time.Minute)
	result, err := f.svc.EndDemobilization(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.Minutes(20), result.Duration)
	require.NotNil(t, result.Total)
	assert.Equal(t, model.Minutes(50), *result.Total)
	assert.Len(t, f.queue.items, 2, "demobilization should queue the final document")

	// State reset for the next cycle
	assert.False(t, f.svc.State().OperationSaved)
	assert.Nil(t, f.svc.State().DraftStartedAt)
}

func TestSaveWithoutStart(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.SaveOperation(context.Background(), operation.Fields{
		Type: "Transfer", City: "X", WellService: "Y", OperatorName: "Z",
	})
	assert.ErrorIs(t, err, state.ErrOperationNotStarted)
	assert.Empty(t, f.history.ops)
}

func TestSaveMissingRequiredField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.StartOperation(ctx))

	for _, fields := range []operation.Fields{
		{City: "X", WellService: "Y", OperatorName: "Z"},
		{Type: "Transfer", WellService: "Y", OperatorName: "Z"},
		{Type: "Transfer", City: "X", OperatorName: "Z"},
		{Type: "Transfer", City: "X", WellService: "Y"},
	} {
		_, err := f.svc.SaveOperation(ctx, fields)
		assert.ErrorIs(t, err, operation.ErrMissingRequiredField)
	}
	assert.Empty(t, f.history.ops, "rejected saves must not grow the history")
	assert.NotNil(t, f.svc.State().DraftStartedAt, "draft must survive a rejected save")
}

func TestStartOperationTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.StartOperation(ctx))
	assert.ErrorIs(t, f.svc.StartOperation(ctx), state.ErrOperationAlreadyStarted)
}

func TestAbandonOperation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.StartOperation(ctx))
	require.NoError(t, f.svc.AbandonOperation(ctx))
	assert.Nil(t, f.svc.State().DraftStartedAt)

	// Abandon enables a clean restart
	require.NoError(t, f.svc.StartOperation(ctx))
}

func TestMobilizationRequiresDisplacement(t *testing.T) {
	f := newFixture(t)
	err := f.svc.StartMobilization(context.Background())
	assert.ErrorIs(t, err, state.ErrDisplacementNotCompleted)
}

func TestDemobilizationRequiresSavedOperation(t *testing.T) {
	f := newFixture(t)
	err := f.svc.StartDemobilization(context.Background())
	assert.ErrorIs(t, err, state.ErrNoSavedOperation)
}

func TestSubEventsRequireSavedOperation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.StartWaiting(ctx, "reason"), state.ErrNoSavedOperation)
	assert.ErrorIs(t, f.svc.StartLunch(ctx), state.ErrNoSavedOperation)
	assert.ErrorIs(t, f.svc.StartRefueling(ctx, model.FuelTypeWater), state.ErrNoSavedOperation)
}

func TestEndWaitingWithoutStart(t *testing.T) {
	f := newFixture(t)
	f.saveOperation(t)

	_, err := f.svc.EndWaiting(context.Background())
	assert.ErrorIs(t, err, interval.ErrNotStarted)

	stored, err := f.history.Last(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stored.TotalWaiting(), "rejected end must not touch the history")
}

func TestSecondWaitingIsNewPeriod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.saveOperation(t)

	require.NoError(t, f.svc.StartWaiting(ctx, "first"))
	f.advance(10 * time.Minute)
	_, err := f.svc.EndWaiting(ctx)
	require.NoError(t, err)

	// The tracker was replaced, so a second start succeeds
	require.NoError(t, f.svc.StartWaiting(ctx, "second"))
	f.advance(5 * time.Minute)
	period, err := f.svc.EndWaiting(ctx)
	require.NoError(t, err)
	require.Len(t, period.Reasons, 1)
	assert.Equal(t, "second", period.Reasons[0].Text)
}

func TestSaveNormalizesFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.StartOperation(ctx))

	result, err := f.svc.SaveOperation(ctx, operation.Fields{
		Type: "  Transfer ", City: " X", WellService: "Y ", OperatorName: " Z ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Transfer", result.Operation.Fields().Type)
	assert.Equal(t, "X", result.Operation.Fields().City)
}

func TestClearHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.saveOperation(t)
	require.Len(t, f.history.ops, 1)

	require.NoError(t, f.svc.ClearHistory(ctx))
	assert.Empty(t, f.history.ops)
	assert.Empty(t, f.queue.items)
	assert.False(t, f.svc.State().OperationSaved)
}

func TestStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.saveOperation(t)

	require.NoError(t, f.svc.StartWaiting(ctx, "crane unavailable"))
	f.advance(10 * time.Minute)

	status, err := f.svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.HistoryCount)
	assert.Equal(t, 1, status.PendingSyncCount)
	assert.True(t, status.Waiting.Active)
	assert.Equal(t, model.Minutes(10), status.Waiting.Elapsed)
	assert.Equal(t, "crane unavailable", status.Waiting.Detail)
	assert.True(t, status.OperationSaved)
}
